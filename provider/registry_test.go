package provider

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	name string
}

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry[*fakeGateway]()

	require.NoError(t, registry.Register("shop", &fakeGateway{name: "shop"}))

	gw, err := registry.Get("shop")
	assert.NoError(t, err)
	require.NotNil(t, gw)
	assert.Equal(t, "shop", gw.name)
}

func TestRegistry_RegisterEmptyName(t *testing.T) {
	registry := NewRegistry[*fakeGateway]()

	err := registry.Register("", &fakeGateway{})
	assert.Error(t, err)
	assert.Equal(t, 0, registry.Len())
}

func TestRegistry_Names(t *testing.T) {
	registry := NewRegistry[*fakeGateway]()
	assert.Empty(t, registry.Names())

	require.NoError(t, registry.Register("payouts", &fakeGateway{}))
	require.NoError(t, registry.Register("checkout", &fakeGateway{}))
	require.NoError(t, registry.Register("checkout", &fakeGateway{name: "replaced"}))

	assert.Equal(t, []string{"checkout", "payouts"}, registry.Names())
	assert.Equal(t, 2, registry.Len())

	gw, err := registry.Get("checkout")
	require.NoError(t, err)
	assert.Equal(t, "replaced", gw.name)
}

func TestRegistry_Get_NotFound(t *testing.T) {
	registry := NewRegistry[*fakeGateway]()

	gw, err := registry.Get("non-existent")
	assert.Error(t, err)
	assert.Nil(t, gw)
	assert.Contains(t, err.Error(), "is not registered")
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	registry := NewRegistry[int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = registry.Register("component", i)
		}(i)
		go func() {
			defer wg.Done()
			_, _ = registry.Get("component")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, registry.Len())
}

package perfectmoney

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValues_LastWriteWinsFirstPositionKept(t *testing.T) {
	v := NewValues()
	v.Set("B", "1")
	v.Set("A", "2")
	v.Set("B", "3")

	assert.Equal(t, []string{"B", "A"}, v.Keys())
	assert.Equal(t, "3", v.Get("B"))
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, map[string]string{"A": "2", "B": "3"}, v.Map())

	_, ok := v.Lookup("C")
	assert.False(t, ok)
	assert.Empty(t, v.Get("C"))
}

func TestValues_Decimal(t *testing.T) {
	v := NewValues()
	v.Set("U1234567", "12.34")
	v.Set("BAD", "abc")

	d, err := v.Decimal("U1234567")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.34").Equal(d))

	_, err = v.Decimal("BAD")
	assert.Error(t, err)

	_, err = v.Decimal("MISSING")
	assert.Error(t, err)
}

func TestValues_ProviderError(t *testing.T) {
	v := NewValues()
	v.Set("PAYMENT_ID", "1")
	assert.NoError(t, v.ProviderError())

	v.Set(FieldProviderError, "Invalid Payee_Account")
	err := v.ProviderError()
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Invalid Payee_Account", perr.Message)
}

func TestValues_MarshalJSONKeepsOrder(t *testing.T) {
	v := NewValues()
	v.Set("Z", "last")
	v.Set("A", `quote"d`)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"Z":"last","A":"quote\"d"}`, string(data))

	empty, err := json.Marshal(NewValues())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayConfig_SetConfig(t *testing.T) {
	tests := []struct {
		name        string
		component   string
		config      map[string]string
		expectError bool
		errorMsg    string
	}{
		{
			name:      "valid_config",
			component: "perfectmoney",
			config:    map[string]string{"accountId": "1234567"},
		},
		{
			name:        "empty_component",
			component:   "",
			config:      map[string]string{"accountId": "1234567"},
			expectError: true,
			errorMsg:    "component name cannot be empty",
		},
		{
			name:        "empty_config",
			component:   "perfectmoney",
			config:      map[string]string{},
			expectError: true,
			errorMsg:    "config cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gc := NewGatewayConfig()
			err := gc.SetConfig(tt.component, tt.config)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)

			got, err := gc.GetConfig(tt.component)
			require.NoError(t, err)
			assert.Equal(t, tt.config, got)
		})
	}
}

func TestGatewayConfig_GetConfigReturnsCopy(t *testing.T) {
	gc := NewGatewayConfig()
	require.NoError(t, gc.SetConfig("Perfectmoney", map[string]string{"accountId": "1"}))

	got, err := gc.GetConfig("PERFECTMONEY")
	require.NoError(t, err)
	got["accountId"] = "changed"

	again, err := gc.GetConfig("perfectmoney")
	require.NoError(t, err)
	assert.Equal(t, "1", again["accountId"])

	_, err = gc.GetConfig("unknown")
	assert.Error(t, err)
}

func TestGatewayConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("PERFECTMONEY_COMPONENTS", "shop, payouts")
	t.Setenv("APP_URL", "https://shop.example.com")

	t.Setenv("SHOP_ACCOUNT_ID", "1111111")
	t.Setenv("SHOP_ACCOUNT_PASSWORD", "pass")
	t.Setenv("SHOP_WALLET_NUMBER", "U1234567")
	t.Setenv("SHOP_ALTERNATE_SECRET", "SECRET")
	t.Setenv("SHOP_RESULT_URL", "/callback/shop")
	t.Setenv("SHOP_TIMEOUT", "15s")

	t.Setenv("PAYOUTS_ACCOUNT_ID", "2222222")
	t.Setenv("PAYOUTS_WALLET_CURRENCY", "EUR")

	gc := NewGatewayConfig()
	require.NoError(t, gc.LoadFromEnv())

	assert.Equal(t, []string{"shop", "payouts"}, gc.Components())

	shop, err := gc.GetConfig("shop")
	require.NoError(t, err)
	assert.Equal(t, "1111111", shop["accountId"])
	assert.Equal(t, "pass", shop["accountPassword"])
	assert.Equal(t, "U1234567", shop["walletNumber"])
	assert.Equal(t, "SECRET", shop["alternateSecret"])
	assert.Equal(t, "/callback/shop", shop["resultUrl"])
	assert.Equal(t, "15s", shop["timeout"])
	assert.Equal(t, "https://shop.example.com", shop["baseUrl"])

	payouts, err := gc.GetConfig("payouts")
	require.NoError(t, err)
	assert.Equal(t, "EUR", payouts["walletCurrency"])

	_, err = gc.GetConfig("empty")
	assert.Error(t, err)
}

func TestGatewayConfig_LoadFromEnvMissingComponent(t *testing.T) {
	t.Setenv("PERFECTMONEY_COMPONENTS", "shop,empty")
	t.Setenv("SHOP_ACCOUNT_ID", "1111111")

	gc := NewGatewayConfig()
	err := gc.LoadFromEnv()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "component empty")
	assert.Contains(t, err.Error(), "EMPTY_ACCOUNT_ID")
}

func TestGatewayConfig_LoadFromEnvImplicitDefaultMissing(t *testing.T) {
	t.Setenv("PERFECTMONEY_COMPONENTS", "")
	t.Setenv("PERFECTMONEY_ACCOUNT_ID", "")

	gc := NewGatewayConfig()
	require.NoError(t, gc.LoadFromEnv())
	assert.Empty(t, gc.Components())
}

func TestGatewayConfig_LoadFromEnvDefaultComponent(t *testing.T) {
	t.Setenv("PERFECTMONEY_COMPONENTS", "")
	t.Setenv("APP_URL", "")
	t.Setenv("PERFECTMONEY_ACCOUNT_ID", "3333333")

	gc := NewGatewayConfig()
	require.NoError(t, gc.LoadFromEnv())

	conf, err := gc.GetConfig("perfectmoney")
	require.NoError(t, err)
	assert.Equal(t, "3333333", conf["accountId"])
	assert.NotContains(t, conf, "baseUrl")
}

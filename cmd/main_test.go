package main

import (
	"path/filepath"
	"testing"

	"github.com/mstgnz/perfectmoney/infra/config"
	"github.com/mstgnz/perfectmoney/infra/invoice"
	"github.com/mstgnz/perfectmoney/infra/logger"
	"github.com/mstgnz/perfectmoney/provider/perfectmoney"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func componentConf(wallet string) map[string]string {
	return map[string]string{
		"accountId":       "100001",
		"accountPassword": "passphrase",
		"walletNumber":    wallet,
		"alternateSecret": "SECRET",
		"merchantName":    "Test Shop",
		"resultUrl":       "https://shop.example.com/callback",
		"successUrl":      "https://shop.example.com/success",
		"failureUrl":      "https://shop.example.com/failure",
	}
}

func newStore(t *testing.T) *invoice.Store {
	t.Helper()
	store, err := invoice.NewStore(filepath.Join(t.TempDir(), "invoices.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func quietLogger() perfectmoney.Option {
	return perfectmoney.WithLogger(logger.NewSystemLogger(nil, logger.SystemLoggerConfig{MinLevel: logger.LevelFatal}))
}

func TestBuildGateways(t *testing.T) {
	gc := config.NewGatewayConfig()
	require.NoError(t, gc.SetConfig("shop", componentConf("U1234567")))

	donations := componentConf("E7654321")
	donations["checkoutUrl"] = "https://sci.example.com/api/step1.asp"
	require.NoError(t, gc.SetConfig("donations", donations))

	gateways, origins, err := buildGateways(gc, newStore(t), quietLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"donations", "shop"}, gateways.Names())
	assert.Equal(t, []string{"https://perfectmoney.is", "https://sci.example.com"}, origins)

	shop, err := gateways.Get("shop")
	require.NoError(t, err)
	assert.Equal(t, "U1234567", shop.Config().WalletNumber)
}

func TestBuildGateways_SharedOriginListedOnce(t *testing.T) {
	gc := config.NewGatewayConfig()
	require.NoError(t, gc.SetConfig("a", componentConf("U1111111")))
	require.NoError(t, gc.SetConfig("b", componentConf("U2222222")))

	_, origins, err := buildGateways(gc, newStore(t), quietLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://perfectmoney.is"}, origins)
}

func TestBuildGateways_InvalidComponentFails(t *testing.T) {
	broken := componentConf("U7654321")
	delete(broken, "alternateSecret")

	gc := config.NewGatewayConfig()
	require.NoError(t, gc.SetConfig("shop", componentConf("U1234567")))
	require.NoError(t, gc.SetConfig("broken", broken))

	gateways, _, err := buildGateways(gc, newStore(t), quietLogger())
	assert.Nil(t, gateways)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "component broken")

	var cerr *perfectmoney.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Error(), "alternateSecret")
}

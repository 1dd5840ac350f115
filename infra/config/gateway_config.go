package config

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

// gatewayEnvKeys maps the env suffix of a component to its gateway config key
var gatewayEnvKeys = map[string]string{
	"ACCOUNT_ID":       "accountId",
	"ACCOUNT_PASSWORD": "accountPassword",
	"WALLET_NUMBER":    "walletNumber",
	"WALLET_CURRENCY":  "walletCurrency",
	"ALTERNATE_SECRET": "alternateSecret",
	"MERCHANT_NAME":    "merchantName",
	"RESULT_URL":       "resultUrl",
	"SUCCESS_URL":      "successUrl",
	"FAILURE_URL":      "failureUrl",
	"API_URL":          "apiUrl",
	"CHECKOUT_URL":     "checkoutUrl",
	"TIMEOUT":          "timeout",
}

// GatewayConfig manages the configuration of named Perfect Money components
type GatewayConfig struct {
	configs map[string]map[string]string
	order   []string
	mu      sync.RWMutex
}

// NewGatewayConfig creates an empty gateway configuration
func NewGatewayConfig() *GatewayConfig {
	return &GatewayConfig{
		configs: make(map[string]map[string]string),
	}
}

// LoadFromEnv reads every component named in PERFECTMONEY_COMPONENTS. A
// component FOO is configured by FOO_ACCOUNT_ID, FOO_WALLET_NUMBER and so on.
// A named component without any configuration is an error. When the list is
// unset the "perfectmoney" component is loaded if it is configured.
func (c *GatewayConfig) LoadFromEnv() error {
	components := GetListEnv("PERFECTMONEY_COMPONENTS")
	implicit := len(components) == 0
	if implicit {
		components = []string{"perfectmoney"}
	}
	baseURL := GetEnv("APP_URL", "")

	for _, component := range components {
		prefix := strings.ToUpper(component) + "_"
		conf := make(map[string]string)
		for suffix, key := range gatewayEnvKeys {
			if value := GetEnv(prefix+suffix, ""); value != "" {
				conf[key] = value
			}
		}

		if len(conf) == 0 {
			if implicit {
				log.Printf("Warning: no environment configuration found for component %s", component)
				continue
			}
			return fmt.Errorf("component %s: no environment configuration found (expected %sACCOUNT_ID and friends)", component, prefix)
		}
		if baseURL != "" {
			conf["baseUrl"] = baseURL
		}

		if err := c.SetConfig(component, conf); err != nil {
			return fmt.Errorf("component %s: %w", component, err)
		}
	}
	return nil
}

// SetConfig sets configuration for a component
func (c *GatewayConfig) SetConfig(component string, config map[string]string) error {
	if component == "" {
		return fmt.Errorf("component name cannot be empty")
	}
	if len(config) == 0 {
		return fmt.Errorf("config cannot be empty")
	}

	key := strings.ToLower(component)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.configs[key]; !exists {
		c.order = append(c.order, key)
	}
	c.configs[key] = copyConfig(config)
	return nil
}

// GetConfig returns a copy of the configuration for a component
func (c *GatewayConfig) GetConfig(component string) (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	config, exists := c.configs[strings.ToLower(component)]
	if !exists {
		return nil, fmt.Errorf("no configuration found for component: %s", component)
	}
	return copyConfig(config), nil
}

// Components returns configured component names in load order
func (c *GatewayConfig) Components() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]string(nil), c.order...)
}

func copyConfig(config map[string]string) map[string]string {
	configCopy := make(map[string]string, len(config))
	for k, v := range config {
		configCopy[k] = v
	}
	return configCopy
}

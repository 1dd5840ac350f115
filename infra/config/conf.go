package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type CKey string

type Config struct {
	Validator *validator.Validate
}

// AppConfig represents the application configuration
type AppConfig struct {
	Port                string
	AppURL              string
	APIKey              string
	Environment         string
	DBPath              string
	OpenSearchURL       string
	OpenSearchUser      string
	OpenSearchPass      string
	EnableLogging       bool
	LoggingLevel        string
	CallbackIPWhitelist []string
	TrustProxyHeaders   bool
	RateLimitPerMinute  int
	ResultSilent        bool
	ResultRedirectURL   string
}

var (
	instance          *Config
	appConfigInstance *AppConfig
)

func App() *Config {
	if instance == nil {
		instance = &Config{
			Validator: validator.New(),
		}
	}
	return instance
}

// GetAppConfig returns the application configuration
func GetAppConfig() *AppConfig {
	if appConfigInstance == nil {
		port := GetEnv("APP_PORT", "9999")
		appConfigInstance = &AppConfig{
			Port:                port,
			AppURL:              GetEnv("APP_URL", "http://localhost:"+port),
			APIKey:              GetEnv("API_KEY", ""),
			Environment:         GetEnv("ENVIRONMENT", "development"),
			DBPath:              GetEnv("DB_PATH", "./data/perfectmoney.db"),
			OpenSearchURL:       GetEnv("OPENSEARCH_URL", "http://localhost:9200"),
			OpenSearchUser:      GetEnv("OPENSEARCH_USER", ""),
			OpenSearchPass:      GetEnv("OPENSEARCH_PASSWORD", ""),
			EnableLogging:       GetBoolEnv("ENABLE_OPENSEARCH_LOGGING", false),
			LoggingLevel:        GetEnv("LOGGING_LEVEL", "info"),
			CallbackIPWhitelist: GetListEnv("CALLBACK_IP_WHITELIST"),
			TrustProxyHeaders:   GetBoolEnv("TRUST_PROXY_HEADERS", false),
			RateLimitPerMinute:  GetIntEnv("RATE_LIMIT_PER_MINUTE", 100),
			ResultSilent:        GetBoolEnv("RESULT_SILENT", false),
			ResultRedirectURL:   GetEnv("RESULT_REDIRECT_URL", ""),
		}
	}
	return appConfigInstance
}

// GetEnv returns the value of an environment variable or a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetBoolEnv returns the boolean value of an environment variable or a default value
func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetIntEnv returns the integer value of an environment variable or a default value
func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetDurationEnv accepts Go durations ("45s") or plain seconds ("45")
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

// GetListEnv splits a comma separated variable, dropping blanks
func GetListEnv(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

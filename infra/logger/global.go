package logger

import (
	"sync"

	"github.com/mstgnz/perfectmoney/infra/config"
	"github.com/mstgnz/perfectmoney/infra/opensearch"
)

var (
	globalLogger *SystemLogger
	mu           sync.Mutex
	once         sync.Once
)

func defaultConfig() SystemLoggerConfig {
	return SystemLoggerConfig{
		EnableConsole: true,
		MinLevel:      LevelInfo,
		Service:       "perfectmoney",
		Version:       "1.0.0",
		Environment:   config.GetEnv("ENVIRONMENT", "development"),
	}
}

// InitGlobalLogger initializes the global system logger
func InitGlobalLogger(openSearchLogger *opensearch.Logger) {
	once.Do(func() {
		cfg := defaultConfig()
		cfg.EnableOpenSearch = openSearchLogger != nil

		if cfg.Environment == "development" {
			cfg.MinLevel = LevelDebug
		}

		mu.Lock()
		globalLogger = NewSystemLogger(openSearchLogger, cfg)
		mu.Unlock()
	})
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *SystemLogger {
	mu.Lock()
	defer mu.Unlock()

	if globalLogger == nil {
		// console-only until InitGlobalLogger runs
		globalLogger = NewSystemLogger(nil, defaultConfig())
	}
	return globalLogger
}

// Debug logs a debug message using the global logger
func Debug(message string, ctx ...LogContext) {
	GetGlobalLogger().Debug(message, ctx...)
}

// Info logs an info message using the global logger
func Info(message string, ctx ...LogContext) {
	GetGlobalLogger().Info(message, ctx...)
}

// Warn logs a warning message using the global logger
func Warn(message string, ctx ...LogContext) {
	GetGlobalLogger().Warn(message, ctx...)
}

// Error logs an error message using the global logger
func Error(message string, err error, ctx ...LogContext) {
	GetGlobalLogger().Error(message, err, ctx...)
}

// Fatal logs a fatal message using the global logger and exits
func Fatal(message string, err error, ctx ...LogContext) {
	GetGlobalLogger().Fatal(message, err, ctx...)
}

// WithContext creates a context logger from the global logger
func WithContext(ctx LogContext) *ContextLogger {
	return GetGlobalLogger().WithContext(ctx)
}

// WithComponent creates a context logger for a gateway component
func WithComponent(component string) *ContextLogger {
	return WithContext(LogContext{Component: component, Provider: "perfectmoney"})
}

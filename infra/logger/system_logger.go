package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/mstgnz/perfectmoney/infra/opensearch"
)

// LogLevel represents the severity level of a log entry
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
	LevelFatal LogLevel = "fatal"
)

var levelOrder = map[LogLevel]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
	LevelFatal: 4,
}

// SystemLog represents a structured system log entry
type SystemLog struct {
	Timestamp   time.Time      `json:"timestamp"`
	Level       LogLevel       `json:"level"`
	Message     string         `json:"message"`
	Package     string         `json:"package"`
	Function    string         `json:"function"`
	File        string         `json:"file"`
	Line        int            `json:"line"`
	Component   string         `json:"component,omitempty"`
	Provider    string         `json:"provider,omitempty"`
	RequestID   string         `json:"request_id,omitempty"`
	Error       string         `json:"error,omitempty"`
	Fields      map[string]any `json:"fields,omitempty"`
	Environment string         `json:"environment"`
	Service     string         `json:"service"`
	Version     string         `json:"version"`
}

// SystemLogSink receives log entries for remote storage
type SystemLogSink interface {
	LogSystemEvent(ctx context.Context, log any) error
}

// SystemLogger handles structured logging to OpenSearch and console
type SystemLogger struct {
	sink          SystemLogSink
	out           io.Writer
	enableConsole bool
	enableSink    bool
	minLevel      LogLevel
	service       string
	version       string
	environment   string
}

// SystemLoggerConfig represents configuration for system logger
type SystemLoggerConfig struct {
	EnableConsole    bool     `yaml:"enable_console"`
	EnableOpenSearch bool     `yaml:"enable_opensearch"`
	MinLevel         LogLevel `yaml:"min_level"`
	Service          string   `yaml:"service"`
	Version          string   `yaml:"version"`
	Environment      string   `yaml:"environment"`
}

// NewSystemLogger creates a new system logger. A nil OpenSearch logger keeps
// output on the console only.
func NewSystemLogger(openSearchLogger *opensearch.Logger, config SystemLoggerConfig) *SystemLogger {
	sl := &SystemLogger{
		out:           os.Stdout,
		enableConsole: config.EnableConsole,
		minLevel:      config.MinLevel,
		service:       config.Service,
		version:       config.Version,
		environment:   config.Environment,
	}
	if openSearchLogger != nil {
		sl.sink = openSearchLogger
		sl.enableSink = config.EnableOpenSearch
	}
	return sl
}

// SetOutput redirects console output
func (sl *SystemLogger) SetOutput(w io.Writer) {
	sl.out = w
}

// LogContext holds contextual information for logging
type LogContext struct {
	Component string
	Provider  string
	RequestID string
	Fields    map[string]any
}

// Debug logs a debug message
func (sl *SystemLogger) Debug(message string, ctx ...LogContext) {
	sl.log(LevelDebug, message, ctx...)
}

// Info logs an info message
func (sl *SystemLogger) Info(message string, ctx ...LogContext) {
	sl.log(LevelInfo, message, ctx...)
}

// Warn logs a warning message
func (sl *SystemLogger) Warn(message string, ctx ...LogContext) {
	sl.log(LevelWarn, message, ctx...)
}

// Error logs an error message
func (sl *SystemLogger) Error(message string, err error, ctx ...LogContext) {
	logCtx := LogContext{}
	if len(ctx) > 0 {
		logCtx = ctx[0]
	}

	fields := make(map[string]any, len(logCtx.Fields)+1)
	for k, v := range logCtx.Fields {
		fields[k] = v
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	logCtx.Fields = fields

	sl.log(LevelError, message, logCtx)
}

// Fatal logs a fatal message and exits
func (sl *SystemLogger) Fatal(message string, err error, ctx ...LogContext) {
	sl.Error(message, err, ctx...)
	os.Exit(1)
}

func (sl *SystemLogger) log(level LogLevel, message string, ctx ...LogContext) {
	if !sl.shouldLog(level) {
		return
	}

	file, line, function := "unknown", 0, "unknown"
	if pc, f, l, ok := runtime.Caller(3); ok {
		file, line = f, l
		if fn := runtime.FuncForPC(pc); fn != nil {
			function = fn.Name()
			if idx := strings.LastIndex(function, "."); idx != -1 {
				function = function[idx+1:]
			}
		}
	}

	entry := SystemLog{
		Timestamp:   time.Now().UTC(),
		Level:       level,
		Message:     message,
		Package:     extractPackage(file),
		Function:    function,
		File:        file,
		Line:        line,
		Environment: sl.environment,
		Service:     sl.service,
		Version:     sl.version,
	}

	if len(ctx) > 0 {
		logCtx := ctx[0]
		entry.Component = logCtx.Component
		entry.Provider = logCtx.Provider
		entry.RequestID = logCtx.RequestID
		entry.Fields = logCtx.Fields

		if errMsg, ok := logCtx.Fields["error"].(string); ok {
			entry.Error = errMsg
		}
	}

	if sl.enableConsole {
		sl.logToConsole(entry)
	}

	if sl.enableSink {
		go sl.logToOpenSearch(entry)
	}
}

func (sl *SystemLogger) shouldLog(level LogLevel) bool {
	return levelOrder[level] >= levelOrder[sl.minLevel]
}

// extractPackage turns a source path into a short package name,
// e.g. /src/perfectmoney/provider/perfectmoney/client.go -> provider/perfectmoney
func extractPackage(file string) string {
	parts := strings.Split(file, "/")

	for i, part := range parts {
		if part == "perfectmoney" && i+2 < len(parts) {
			if i+3 < len(parts) {
				return parts[i+1] + "/" + parts[i+2]
			}
			return parts[i+1]
		}
	}

	if len(parts) >= 2 {
		return parts[len(parts)-2]
	}

	return "unknown"
}

func (sl *SystemLogger) logToConsole(entry SystemLog) {
	colors := map[LogLevel]string{
		LevelDebug: "\033[36m",
		LevelInfo:  "\033[32m",
		LevelWarn:  "\033[33m",
		LevelError: "\033[31m",
		LevelFatal: "\033[35m",
	}
	reset := "\033[0m"

	var contextParts []string
	if entry.Component != "" {
		contextParts = append(contextParts, "component="+entry.Component)
	}
	if entry.Provider != "" {
		contextParts = append(contextParts, "provider="+entry.Provider)
	}
	if entry.RequestID != "" {
		id := entry.RequestID
		if len(id) > 8 {
			id = id[:8]
		}
		contextParts = append(contextParts, "req_id="+id)
	}

	context := ""
	if len(contextParts) > 0 {
		context = fmt.Sprintf("[%s] ", strings.Join(contextParts, " "))
	}

	errSuffix := ""
	if entry.Error != "" {
		errSuffix = " - Error: " + entry.Error
	}

	// [TIMESTAMP] [LEVEL] [PACKAGE] [CONTEXT] MESSAGE
	fmt.Fprintf(sl.out, "%s [%s] [%s] %s%s%s\n",
		entry.Timestamp.Format("2006-01-02 15:04:05"),
		colors[entry.Level]+strings.ToUpper(string(entry.Level))+reset,
		entry.Package,
		context,
		entry.Message,
		errSuffix,
	)

	keys := make([]string, 0, len(entry.Fields))
	for key := range entry.Fields {
		if key != "error" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(sl.out, "  %s: %v\n", key, entry.Fields[key])
	}
}

func (sl *SystemLogger) logToOpenSearch(entry SystemLog) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sl.sink.LogSystemEvent(ctx, entry); err != nil {
		log.Printf("Failed to log to OpenSearch: %v", err)
	}
}

// WithContext creates a new logger with context
func (sl *SystemLogger) WithContext(ctx LogContext) *ContextLogger {
	return &ContextLogger{
		systemLogger: sl,
		context:      ctx,
	}
}

// ContextLogger wraps SystemLogger with context
type ContextLogger struct {
	systemLogger *SystemLogger
	context      LogContext
}

// Debug logs a debug message with context
func (cl *ContextLogger) Debug(message string) {
	cl.systemLogger.Debug(message, cl.context)
}

// Info logs an info message with context
func (cl *ContextLogger) Info(message string) {
	cl.systemLogger.Info(message, cl.context)
}

// Warn logs a warning message with context
func (cl *ContextLogger) Warn(message string) {
	cl.systemLogger.Warn(message, cl.context)
}

// Error logs an error message with context
func (cl *ContextLogger) Error(message string, err error) {
	cl.systemLogger.Error(message, err, cl.context)
}

// AddField adds a field to the context
func (cl *ContextLogger) AddField(key string, value any) *ContextLogger {
	if cl.context.Fields == nil {
		cl.context.Fields = make(map[string]any)
	}
	cl.context.Fields[key] = value
	return cl
}

// SetRequestID sets the request ID in context
func (cl *ContextLogger) SetRequestID(requestID string) *ContextLogger {
	cl.context.RequestID = requestID
	return cl
}

package logger

import (
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Field represents a structured logging field
type Field struct {
	Key   string
	Value interface{}
}

var (
	mu   sync.RWMutex
	root = hclog.New(&hclog.LoggerOptions{
		Name:   "moviechain",
		Level:  levelFromEnv(),
		Output: os.Stderr,
	})
)

func levelFromEnv() hclog.Level {
	if lvl := os.Getenv("MOVIECHAIN_LOG_LEVEL"); lvl != "" {
		return hclog.LevelFromString(lvl)
	}
	return hclog.Info
}

// SetLevel adjusts the global log level at runtime (config load happens
// after the first log lines are emitted).
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	root.SetLevel(hclog.LevelFromString(level))
}

// Named returns a sub-logger for a component, sharing the root sink.
func Named(name string) hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(name)
}

// Info logs an informational message with optional structured fields.
func Info(msg string, fields ...Field) {
	mu.RLock()
	defer mu.RUnlock()
	root.Info(msg, flatten(fields)...)
}

// Warn logs a warning message
func Warn(msg string, fields ...Field) {
	mu.RLock()
	defer mu.RUnlock()
	root.Warn(msg, flatten(fields)...)
}

// Error logs an error message
func Error(msg string, fields ...Field) {
	mu.RLock()
	defer mu.RUnlock()
	root.Error(msg, flatten(fields)...)
}

// Debug logs a debug message
func Debug(msg string, fields ...Field) {
	mu.RLock()
	defer mu.RUnlock()
	root.Debug(msg, flatten(fields)...)
}

func flatten(fields []Field) []interface{} {
	args := make([]interface{}, 0, len(fields)*2)
	for _, f := range fields {
		args = append(args, f.Key, f.Value)
	}
	return args
}

// Helper functions for common field types
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Err(key string, err error) Field {
	if err == nil {
		return Field{Key: key, Value: nil}
	}
	return Field{Key: key, Value: err.Error()}
}

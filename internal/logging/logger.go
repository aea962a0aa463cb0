package logging

import (
	"os"
	"sync"
)

var (
	defaultLevel = INFO
	initOnce     sync.Once
	initMu       sync.Mutex
)

// Initialize sets the default log level and optional per-package overrides.
// Call once at startup, before the first GetLogger. Safe to call again
// (e.g. from tests); later calls replace the configuration.
func Initialize(levelStr string, packageOverrides ...map[string]string) error {
	level, err := parseLevel(levelStr)
	if err != nil {
		return err
	}

	initMu.Lock()
	defaultLevel = level
	initMu.Unlock()

	if len(packageOverrides) > 0 {
		return SetPackageLogLevels(packageOverrides[0])
	}
	return nil
}

// GetLogger returns a logger for the named component. Per-package level
// overrides are applied here; otherwise the default level is used.
func GetLogger(name string) *Logger {
	initOnce.Do(func() {
		// First use without Initialize falls back to INFO.
	})

	initMu.Lock()
	level := defaultLevel
	initMu.Unlock()

	if override := packageLevelFor(name); override >= 0 {
		level = override
	}

	return &Logger{
		level:  level,
		name:   name,
		fields: make(map[string]interface{}),
	}
}

func (l *Logger) shouldLog(level LogLevel) bool {
	return level >= l.level
}

// Debug logs a formatted message at DEBUG level.
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.shouldLog(DEBUG) {
		l.logf(DEBUG, msg, args...)
	}
}

// Info logs a formatted message at INFO level.
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.shouldLog(INFO) {
		l.logf(INFO, msg, args...)
	}
}

// Warn logs a formatted message at WARN level.
func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.shouldLog(WARN) {
		l.logf(WARN, msg, args...)
	}
}

// Error logs a formatted message at ERROR level.
func (l *Logger) Error(msg string, args ...interface{}) {
	if l.shouldLog(ERROR) {
		l.logf(ERROR, msg, args...)
	}
}

// ErrorWithErr logs a formatted message at ERROR level with the error
// appended as a structured field.
func (l *Logger) ErrorWithErr(msg string, err error, args ...interface{}) {
	if l.shouldLog(ERROR) {
		l.WithField("error", err).logf(ERROR, msg, args...)
	}
}

// Fatal logs a formatted message at FATAL level and exits with code 1.
func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.logf(FATAL, msg, args...)
	os.Exit(1)
}

// WithName returns a copy of the logger with a sub-component name appended.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{
		level:  l.level,
		name:   l.name + "." + name,
		fields: cloneFields(l.fields),
	}
}

// WithField returns a copy of the logger that includes the given field on
// every message.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	fields := cloneFields(l.fields)
	fields[key] = value
	return &Logger{
		level:  l.level,
		name:   l.name,
		fields: fields,
	}
}

// WithFields returns a copy of the logger that includes all given fields
// on every message.
func (l *Logger) WithFields(extra ...LogField) *Logger {
	fields := cloneFields(l.fields)
	for _, f := range extra {
		fields[f.Key] = f.Value
	}
	return &Logger{
		level:  l.level,
		name:   l.name,
		fields: fields,
	}
}

// DebugWithFields logs a message at DEBUG level with one-off fields.
func (l *Logger) DebugWithFields(msg string, fields ...LogField) {
	if l.shouldLog(DEBUG) {
		l.logWithFields(DEBUG, msg, fields...)
	}
}

// InfoWithFields logs a message at INFO level with one-off fields.
func (l *Logger) InfoWithFields(msg string, fields ...LogField) {
	if l.shouldLog(INFO) {
		l.logWithFields(INFO, msg, fields...)
	}
}

// WarnWithFields logs a message at WARN level with one-off fields.
func (l *Logger) WarnWithFields(msg string, fields ...LogField) {
	if l.shouldLog(WARN) {
		l.logWithFields(WARN, msg, fields...)
	}
}

// ErrorWithFields logs a message at ERROR level with one-off fields.
func (l *Logger) ErrorWithFields(msg string, fields ...LogField) {
	if l.shouldLog(ERROR) {
		l.logWithFields(ERROR, msg, fields...)
	}
}

func (l *Logger) logWithFields(level LogLevel, msg string, fields ...LogField) {
	merged := cloneFields(l.fields)
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	l.writeLog(level, msg, merged)
}

func cloneFields(src map[string]interface{}) map[string]interface{} {
	dst := make(map[string]interface{}, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

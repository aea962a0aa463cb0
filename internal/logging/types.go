// Package logging provides structured, leveled logging for coverbrief.
//
// Get a named logger for a component and log through it:
//
//	logger := logging.GetLogger("pipeline")
//	logger.Info("run started")
//	logger.InfoWithFields("stage complete",
//	    logging.Field("stage", "research"),
//	    logging.Field("duration_ms", elapsed.Milliseconds()),
//	)
//
// Levels are DEBUG, INFO, WARN, ERROR and FATAL. The default level is set
// once via Initialize; individual components can be overridden with
// per-package levels ("llm=debug") including wildcard patterns ("llm.*").
// Logger values are immutable: WithField and friends return copies, so
// loggers are safe to share across goroutines.
package logging

import (
	"fmt"
	"strings"
	"sync"
)

// LogLevel is the severity of a log message.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

// LogField is a single structured key/value pair.
type LogField struct {
	Key   string
	Value interface{}
}

// Field builds a structured logging field.
func Field(key string, value interface{}) LogField {
	return LogField{Key: key, Value: value}
}

// Logger writes leveled, optionally structured log messages for one
// named component.
type Logger struct {
	level  LogLevel
	name   string
	fields map[string]interface{}
}

var (
	packageLevels = make(map[string]LogLevel)
	packageMu     sync.RWMutex
)

// SetPackageLogLevels replaces the per-package level overrides.
// Keys are logger names ("llm") or wildcard patterns ("pipeline.*").
func SetPackageLogLevels(levels map[string]string) error {
	if levels == nil {
		return nil
	}

	packageMu.Lock()
	defer packageMu.Unlock()

	packageLevels = make(map[string]LogLevel, len(levels))
	for pkg, s := range levels {
		level, err := parseLevel(s)
		if err != nil {
			return fmt.Errorf("invalid log level for package %q: %w", pkg, err)
		}
		packageLevels[pkg] = level
	}
	return nil
}

// packageLevelFor returns the override for a logger name, or -1 when the
// default level applies. The most specific (longest) matching pattern wins.
func packageLevelFor(name string) LogLevel {
	packageMu.RLock()
	defer packageMu.RUnlock()

	if level, ok := packageLevels[name]; ok {
		return level
	}

	best := ""
	for pattern := range packageLevels {
		if matchesPattern(name, pattern) && len(pattern) > len(best) {
			best = pattern
		}
	}
	if best != "" {
		return packageLevels[best]
	}
	return LogLevel(-1)
}

func matchesPattern(name, pattern string) bool {
	if name == pattern {
		return true
	}
	// "pipeline.*" matches anything under "pipeline."
	if strings.HasSuffix(pattern, ".*") {
		return strings.HasPrefix(name, strings.TrimSuffix(pattern, "*"))
	}
	return false
}

func parseLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	case "FATAL":
		return FATAL, nil
	default:
		return -1, fmt.Errorf("invalid level: %s (must be DEBUG, INFO, WARN, ERROR, or FATAL)", s)
	}
}

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// Package config holds the coverbrief configuration model and its
// YAML-file loader.
package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	// LogLevel is the default logging level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`

	// Generation configures the LLM backend used by both pipeline stages.
	Generation GenerationConfig `koanf:"generation"`

	// Report configures report persistence.
	Report ReportConfig `koanf:"report"`

	// Server configures the web front end.
	Server ServerConfig `koanf:"server"`

	// Audit configures the JSONL audit log. Empty path disables it.
	Audit AuditConfig `koanf:"audit"`
}

// GenerationConfig configures the generation backend.
type GenerationConfig struct {
	// Backend selects the provider: "ollama", "anthropic" or "gemini".
	Backend string `koanf:"backend"`

	// Model is the model identifier sent to the backend.
	Model string `koanf:"model"`

	// Temperature is the sampling temperature.
	Temperature float64 `koanf:"temperature"`

	// MaxTokens caps the response length for backends that require it.
	MaxTokens int `koanf:"max_tokens"`

	// OllamaURL is the base URL of the local Ollama runtime.
	OllamaURL string `koanf:"ollama_url"`

	// TimeoutSeconds bounds a whole pipeline run. 0 disables the bound
	// and a hung backend hangs the run.
	TimeoutSeconds int `koanf:"timeout_seconds"`

	// CacheSize enables an in-memory LRU prompt/response cache when > 0.
	CacheSize int `koanf:"cache_size"`
}

// ReportConfig configures where the final report is written.
type ReportConfig struct {
	// Path is the report filename. The file is overwritten on every run.
	Path string `koanf:"path"`
}

// ServerConfig configures the web front end.
type ServerConfig struct {
	// Port is the HTTP listen port.
	Port int `koanf:"port"`
}

// AuditConfig configures audit logging.
type AuditConfig struct {
	// Path is the JSONL audit log file. Empty disables audit logging.
	Path string `koanf:"path"`
}

// Timeout returns the configured run timeout as a duration, 0 if unbounded.
func (g GenerationConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// Default returns the built-in configuration: a local Ollama backend with
// the llama3 model at temperature 0.7.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Generation: GenerationConfig{
			Backend:        "ollama",
			Model:          "llama3",
			Temperature:    0.7,
			MaxTokens:      2048,
			OllamaURL:      "http://localhost:11434",
			TimeoutSeconds: 120,
		},
		Report: ReportConfig{
			Path: "final_insurance_report.txt",
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Generation.Backend {
	case "ollama", "anthropic", "gemini":
	default:
		return NewConfigError("generation.backend must be one of: ollama, anthropic, gemini")
	}

	if c.Generation.Model == "" {
		return NewConfigError("generation.model must not be empty")
	}

	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return NewConfigError("generation.temperature must be between 0 and 2")
	}

	if c.Generation.Backend == "ollama" && c.Generation.OllamaURL == "" {
		return NewConfigError("generation.ollama_url must be set for the ollama backend")
	}

	if c.Generation.TimeoutSeconds < 0 {
		return NewConfigError("generation.timeout_seconds must not be negative")
	}

	if c.Generation.CacheSize < 0 {
		return NewConfigError("generation.cache_size must not be negative")
	}

	if c.Report.Path == "" {
		return NewConfigError("report.path must not be empty")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return NewConfigError("server.port must be between 1 and 65535")
	}

	return nil
}

// ConfigError represents a configuration error.
type ConfigError struct {
	message string
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string) *ConfigError {
	return &ConfigError{message: message}
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	return e.message
}

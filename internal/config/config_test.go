package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "ollama", cfg.Generation.Backend)
	assert.Equal(t, "llama3", cfg.Generation.Model)
	assert.Equal(t, 0.7, cfg.Generation.Temperature)
	assert.Equal(t, "final_insurance_report.txt", cfg.Report.Path)
	assert.Equal(t, 120*time.Second, cfg.Generation.Timeout())
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(cfg *Config)
		message string
	}{
		{
			name:    "unknown backend",
			mutate:  func(cfg *Config) { cfg.Generation.Backend = "bard" },
			message: "backend",
		},
		{
			name:    "empty model",
			mutate:  func(cfg *Config) { cfg.Generation.Model = "" },
			message: "model",
		},
		{
			name:    "temperature out of range",
			mutate:  func(cfg *Config) { cfg.Generation.Temperature = 3.5 },
			message: "temperature",
		},
		{
			name:    "negative temperature",
			mutate:  func(cfg *Config) { cfg.Generation.Temperature = -0.1 },
			message: "temperature",
		},
		{
			name: "missing ollama url",
			mutate: func(cfg *Config) {
				cfg.Generation.Backend = "ollama"
				cfg.Generation.OllamaURL = ""
			},
			message: "ollama_url",
		},
		{
			name:    "negative timeout",
			mutate:  func(cfg *Config) { cfg.Generation.TimeoutSeconds = -1 },
			message: "timeout",
		},
		{
			name:    "negative cache size",
			mutate:  func(cfg *Config) { cfg.Generation.CacheSize = -1 },
			message: "cache_size",
		},
		{
			name:    "empty report path",
			mutate:  func(cfg *Config) { cfg.Report.Path = "" },
			message: "report.path",
		},
		{
			name:    "port out of range",
			mutate:  func(cfg *Config) { cfg.Server.Port = 70000 },
			message: "port",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestValidate_AnthropicNeedsNoOllamaURL(t *testing.T) {
	cfg := Default()
	cfg.Generation.Backend = "anthropic"
	cfg.Generation.OllamaURL = ""
	assert.NoError(t, cfg.Validate())
}

func TestTimeout_ZeroMeansUnbounded(t *testing.T) {
	g := GenerationConfig{TimeoutSeconds: 0}
	assert.Equal(t, time.Duration(0), g.Timeout())
}

package llm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a sequence of scripted responses loaded from YAML.
// Scenarios drive the scripted generator in tests and offline demos.
type Scenario struct {
	// Name is the scenario identifier.
	Name string `yaml:"name"`

	// Description says what the scenario exercises.
	Description string `yaml:"description,omitempty"`

	// Settings contains global timing settings.
	Settings ScenarioSettings `yaml:"settings,omitempty"`

	// Steps defines the sequence of responses.
	Steps []ScenarioStep `yaml:"steps"`
}

// ScenarioSettings contains global timing settings.
type ScenarioSettings struct {
	// ThinkingDelayMs delays each response to simulate model latency.
	ThinkingDelayMs int `yaml:"thinking_delay_ms,omitempty"`
}

// ScenarioStep defines a single scripted response.
type ScenarioStep struct {
	// Trigger, when set, activates this step for any prompt containing
	// the substring. Untriggered steps play in order.
	Trigger string `yaml:"trigger,omitempty"`

	// Text is the response text.
	Text string `yaml:"text"`
}

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	// Scenario path is user-provided configuration.
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %q: %w", path, err)
	}

	if sc.Name == "" {
		return nil, fmt.Errorf("scenario %q has no name", path)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", sc.Name)
	}

	return &sc, nil
}

package llm

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Scripted is a Generator that replays canned responses instead of
// calling a real backend. It records every prompt it receives, which
// lets tests assert on the exact text the stages send.
type Scripted struct {
	mu        sync.Mutex
	steps     []ScenarioStep
	nextStep  int
	err       error
	prompts   []string
	delay     time.Duration
	modelName string
}

// ScriptedOption configures a Scripted generator.
type ScriptedOption func(*Scripted)

// WithResponseDelay adds a fixed delay before each response, to exercise
// timeouts and busy states.
func WithResponseDelay(d time.Duration) ScriptedOption {
	return func(s *Scripted) {
		s.delay = d
	}
}

// WithGenerateError makes every Generate call fail with err.
func WithGenerateError(err error) ScriptedOption {
	return func(s *Scripted) {
		s.err = err
	}
}

// NewScripted creates a scripted generator that returns the given
// responses in order. Once exhausted, the last response repeats.
func NewScripted(responses ...string) *Scripted {
	steps := make([]ScenarioStep, 0, len(responses))
	for _, r := range responses {
		steps = append(steps, ScenarioStep{Text: r})
	}
	return &Scripted{
		steps:     steps,
		modelName: "scripted",
	}
}

// NewScriptedFromScenario creates a scripted generator from a loaded
// scenario.
func NewScriptedFromScenario(sc *Scenario, opts ...ScriptedOption) *Scripted {
	s := &Scripted{
		steps:     sc.Steps,
		modelName: "scripted:" + sc.Name,
		delay:     time.Duration(sc.Settings.ThinkingDelayMs) * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate implements Generator. Steps with a trigger are matched by
// substring against the prompt; untriggered steps play in order.
func (s *Scripted) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	err := s.err
	step := s.pickStepLocked(prompt)
	delay := s.delay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return step.Text, nil
}

// pickStepLocked selects the response for a prompt. Triggered steps win
// over positional ones so scenarios can branch on prompt content.
func (s *Scripted) pickStepLocked(prompt string) ScenarioStep {
	for _, step := range s.steps {
		if step.Trigger != "" && strings.Contains(prompt, step.Trigger) {
			return step
		}
	}

	if len(s.steps) == 0 {
		return ScenarioStep{}
	}
	if s.nextStep >= len(s.steps) {
		return s.steps[len(s.steps)-1]
	}
	step := s.steps[s.nextStep]
	s.nextStep++
	return step
}

// Prompts returns a copy of all prompts received so far.
func (s *Scripted) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.prompts))
	copy(out, s.prompts)
	return out
}

// Name implements Generator.
func (s *Scripted) Name() string {
	return "scripted"
}

// Model implements Generator.
func (s *Scripted) Model() string {
	return s.modelName
}

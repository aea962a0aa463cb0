// Package llm implements the generation port: a single prompt-to-text
// call against a configured model backend.
package llm

import "context"

// Generator turns a text prompt into text output. Implementations hold
// their model identifier and sampling temperature for their lifetime and
// keep no other state across calls, so a single Generator is safe to
// share between pipeline stages.
//
// Generators do not retry, stream, or enforce their own timeouts. Any
// backend failure propagates to the caller; deadlines come from ctx.
type Generator interface {
	// Generate sends the prompt to the backend and returns its textual
	// response.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name returns the backend name for logging and display.
	Name() string

	// Model returns the model identifier being used.
	Model() string
}

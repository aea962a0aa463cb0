package research

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mfeller/coverbrief/internal/audit"
	"github.com/mfeller/coverbrief/internal/llm"
	"github.com/mfeller/coverbrief/internal/logging"
	"github.com/mfeller/coverbrief/internal/pipeline"
)

// StageName is the name of the research stage.
const StageName = "research"

// Stage extracts structured insurance facts from a free-text query. It
// asks the model for a pure-JSON object and degrades silently to the raw
// response text when decoding fails.
type Stage struct {
	gen    llm.Generator
	audit  *audit.Logger
	logger *logging.Logger
}

// New creates the research stage bound to a generator. auditLog may be
// nil.
func New(gen llm.Generator, auditLog *audit.Logger) *Stage {
	return &Stage{
		gen:    gen,
		audit:  auditLog,
		logger: logging.GetLogger("pipeline.research"),
	}
}

// Name implements pipeline.Stage.
func (s *Stage) Name() string {
	return StageName
}

// Run implements pipeline.Stage. Generator failures propagate unmodified;
// a JSON decode failure is not an error and stores the raw text instead.
func (s *Stage) Run(ctx context.Context, state pipeline.State) (pipeline.State, error) {
	prompt := BuildPrompt(state.UserQuery())
	if auditErr := s.audit.LogLLMRequest(StageName, len(prompt)); auditErr != nil {
		s.logger.Warn("audit write failed: %v", auditErr)
	}

	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return state, err
	}

	if facts, ok := decodeFacts(raw); ok {
		s.logger.Debug("decoded %d fact fields", len(facts))
		state.SetResearchData(pipeline.ParsedFacts(facts))
	} else {
		s.logger.Warn("response is not valid JSON, keeping raw text (%d bytes)", len(raw))
		if auditErr := s.audit.LogParseFallback(len(raw)); auditErr != nil {
			s.logger.Warn("audit write failed: %v", auditErr)
		}
		state.SetResearchData(pipeline.UnparsedText(raw))
	}

	return state, nil
}

// decodeFacts decodes a model response as a JSON object. A fenced code
// block around the JSON is tolerated for decoding purposes only; on any
// failure the caller keeps the original text verbatim.
func decodeFacts(raw string) (map[string]interface{}, bool) {
	candidate := strings.TrimSpace(raw)
	if strings.HasPrefix(candidate, "```") {
		candidate = stripFence(candidate)
	}

	var facts map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &facts); err != nil {
		return nil, false
	}
	return facts, true
}

// stripFence removes a surrounding markdown code fence, including an
// optional language tag on the opening line.
func stripFence(s string) string {
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSpace(s)
	return strings.TrimSuffix(s, "```")
}

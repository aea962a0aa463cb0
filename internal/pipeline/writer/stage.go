package writer

import (
	"context"

	"github.com/mfeller/coverbrief/internal/audit"
	"github.com/mfeller/coverbrief/internal/llm"
	"github.com/mfeller/coverbrief/internal/logging"
	"github.com/mfeller/coverbrief/internal/pipeline"
)

// StageName is the name of the writer stage.
const StageName = "writer"

// Stage composes the prose report from the research output. Parsed facts
// are serialized to indented JSON before prompting, so the model always
// receives text.
type Stage struct {
	gen    llm.Generator
	audit  *audit.Logger
	logger *logging.Logger
}

// New creates the writer stage bound to a generator. auditLog may be
// nil.
func New(gen llm.Generator, auditLog *audit.Logger) *Stage {
	return &Stage{
		gen:    gen,
		audit:  auditLog,
		logger: logging.GetLogger("pipeline.writer"),
	}
}

// Name implements pipeline.Stage.
func (s *Stage) Name() string {
	return StageName
}

// Run implements pipeline.Stage. A missing research_data key is not an
// error; the prompt embeds an empty research segment. Generator failures
// propagate unmodified. The response is stored without parsing or
// section validation.
func (s *Stage) Run(ctx context.Context, state pipeline.State) (pipeline.State, error) {
	var researchText string
	if rd, ok := state.ResearchData(); ok {
		researchText = rd.Text()
	}

	prompt := BuildPrompt(researchText)
	if auditErr := s.audit.LogLLMRequest(StageName, len(prompt)); auditErr != nil {
		s.logger.Warn("audit write failed: %v", auditErr)
	}

	report, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return state, err
	}

	s.logger.Debug("report generated (%d bytes)", len(report))
	state.SetFinalReport(report)
	return state, nil
}

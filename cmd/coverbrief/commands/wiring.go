package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mfeller/coverbrief/internal/audit"
	"github.com/mfeller/coverbrief/internal/config"
	"github.com/mfeller/coverbrief/internal/llm"
	"github.com/mfeller/coverbrief/internal/pipeline"
	"github.com/mfeller/coverbrief/internal/pipeline/research"
	"github.com/mfeller/coverbrief/internal/pipeline/writer"
	"github.com/mfeller/coverbrief/internal/report"
)

// runtime bundles the wired application components shared by the front
// ends. Each front end composes its own Runner on top, so it can attach
// its own observer.
type runtime struct {
	cfg       *config.Config
	gen       llm.Generator
	audit     *audit.Logger
	report    *report.Writer
	sessionID string
}

// buildRuntime loads configuration and constructs the generator, audit
// logger and report writer. The returned cleanup closes the audit log
// and must be called on exit.
func buildRuntime(ctx context.Context) (*runtime, func(), error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if auditLogPath != "" {
		cfg.Audit.Path = auditLogPath
	}

	gen, err := buildGenerator(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	rt := &runtime{
		cfg:       cfg,
		gen:       gen,
		report:    report.NewWriter(cfg.Report.Path),
		sessionID: uuid.NewString(),
	}

	cleanup := func() {}
	if cfg.Audit.Path != "" {
		auditLog, err := audit.NewLogger(cfg.Audit.Path, rt.sessionID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open audit log: %w", err)
		}
		rt.audit = auditLog
		cleanup = func() {
			_ = auditLog.LogSessionEnd()
			_ = auditLog.Close()
		}
		if err := auditLog.LogSessionStart(rt.backendName(), gen.Model()); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to write audit log: %w", err)
		}
	}

	return rt, cleanup, nil
}

// buildGenerator honors the --scenario override, otherwise defers to
// the configured backend.
func buildGenerator(ctx context.Context, cfg *config.Config) (llm.Generator, error) {
	if scenarioPath != "" {
		sc, err := llm.LoadScenario(scenarioPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario: %w", err)
		}
		return llm.NewScriptedFromScenario(sc), nil
	}
	gen, err := llm.New(ctx, cfg.Generation)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation backend: %w", err)
	}
	return gen, nil
}

// backendName reports the effective backend for display and audit.
func (rt *runtime) backendName() string {
	if scenarioPath != "" {
		return "scripted"
	}
	return rt.cfg.Generation.Backend
}

// newRunner composes the two pipeline stages into a Runner with the
// shared audit logger and run timeout, plus any extra options.
func (rt *runtime) newRunner(opts ...pipeline.Option) *pipeline.Runner {
	base := []pipeline.Option{
		pipeline.WithTimeout(rt.cfg.Generation.Timeout()),
		pipeline.WithAudit(rt.audit),
	}
	return pipeline.NewRunner(
		research.New(rt.gen, rt.audit),
		writer.New(rt.gen, rt.audit),
		append(base, opts...)...,
	)
}

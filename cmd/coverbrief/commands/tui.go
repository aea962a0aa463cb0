package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mfeller/coverbrief/internal/pipeline"
	"github.com/mfeller/coverbrief/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive terminal interface",
	Long: `Opens a full-screen terminal interface. Type a question and press
enter to run the pipeline; stage progress, the extracted research data
and the rendered report appear in the scrollable output area.`,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !tui.IsTerminal() {
		return fmt.Errorf("stdout is not a terminal; use 'coverbrief ask' instead")
	}

	if err := setupLog(logLevelFlags); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, cleanup, err := buildRuntime(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	app := tui.NewApp(tui.Config{
		ReportWriter: rt.report,
		Backend:      rt.backendName(),
		ModelName:    rt.gen.Model(),
	})
	app.SetRunner(rt.newRunner(pipeline.WithObserver(app.Observer())))

	return app.Run(ctx)
}

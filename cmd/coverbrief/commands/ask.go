package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mfeller/coverbrief/internal/pipeline"
)

// withConsoleProgress attaches the stderr progress printer.
func withConsoleProgress() pipeline.Option {
	return pipeline.WithObserver(consoleProgress{})
}

var askCmd = &cobra.Command{
	Use:   "ask [query...]",
	Short: "Generate an insurance report for a single query",
	Long: `Runs the research and writer stages for one query and prints the
result. The query is taken from the arguments, or read from stdin when
no arguments are given. The report is also written to the configured
report file.`,
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := setupLog(logLevelFlags); err != nil {
		return err
	}

	query, err := readQuery(args)
	if err != nil {
		return err
	}
	if query == "" {
		return fmt.Errorf("query must not be empty")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, cleanup, err := buildRuntime(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	runner := rt.newRunner(withConsoleProgress())

	state, err := runner.Run(ctx, query)
	if err != nil {
		// Research output that survived a writer failure is still shown.
		if state != nil {
			if rd, ok := state.ResearchData(); ok {
				fmt.Fprintln(os.Stderr)
				fmt.Fprintln(os.Stderr, "Research data (report generation failed):")
				fmt.Fprintln(os.Stderr, rd.Text())
			}
		}
		return err
	}

	if rd, ok := state.ResearchData(); ok {
		fmt.Println("=== Research Data ===")
		fmt.Println(rd.Text())
		fmt.Println()
	}

	fmt.Println("=== Report ===")
	fmt.Println(state.FinalReport())

	if err := rt.report.Save(state.FinalReport()); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	if auditErr := rt.audit.LogReportSaved(rt.report.Path(), len(state.FinalReport())); auditErr != nil {
		fmt.Fprintf(os.Stderr, "audit write failed: %v\n", auditErr)
	}
	fmt.Printf("\nReport saved to %s\n", rt.report.Path())
	return nil
}

// readQuery joins the arguments, or reads stdin when none are given. On
// an interactive terminal a prompt is shown and a single line is read;
// piped input is consumed whole.
func readQuery(args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Print("Enter your insurance query: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("failed to read query: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read query from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// consoleProgress prints stage progress to stderr so stdout stays clean
// for the report itself.
type consoleProgress struct{}

func (consoleProgress) StageStarted(stage string) {
	fmt.Fprintf(os.Stderr, "▸ %s stage started\n", stage)
}

func (consoleProgress) StageCompleted(stage string, duration time.Duration) {
	fmt.Fprintf(os.Stderr, "✓ %s stage completed in %s\n", stage, duration.Round(10*time.Millisecond))
}

package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mfeller/coverbrief/internal/apiserver"
	"github.com/mfeller/coverbrief/internal/config"
	"github.com/mfeller/coverbrief/internal/logging"
)

var (
	servePort   int
	watchConfig bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web front end",
	Long: `Serves an HTML query form and a JSON API. Each submitted query runs
the full pipeline and the resulting report is written to the configured
report file as well as rendered in the response.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP listen port (overrides configuration)")
	serveCmd.Flags().BoolVar(&watchConfig, "watch-config", false, "Reload the configuration file on change")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := setupLog(logLevelFlags); err != nil {
		return err
	}
	logger := logging.GetLogger("serve")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, cleanup, err := buildRuntime(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	port := rt.cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}

	runner := rt.newRunner()
	server := apiserver.New(port, runner, rt.report, prometheus.DefaultRegisterer)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		return server.Stop(context.Background())
	})

	if watchConfig && configPath != "" {
		watcher, err := config.NewWatcher(config.WatcherConfig{FilePath: configPath}, func(cfg *config.Config) error {
			// Only the log level applies live; backend and server changes
			// need a restart.
			if cfg.LogLevel != rt.cfg.LogLevel {
				logger.Info("log level changed to %s", cfg.LogLevel)
				if err := logging.Initialize(cfg.LogLevel); err != nil {
					return err
				}
			}
			if cfg.Generation != rt.cfg.Generation || cfg.Server != rt.cfg.Server {
				logger.Warn("generation/server configuration changed; restart to apply")
			}
			return nil
		})
		if err != nil {
			return err
		}
		g.Go(func() error {
			if err := watcher.Start(gctx); err != nil {
				return err
			}
			<-gctx.Done()
			watcher.Stop()
			return nil
		})
	}

	logger.Info("coverbrief web front end listening on :%d", port)
	return g.Wait()
}

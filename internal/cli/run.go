package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yapay-ai/api-rate-guardian/internal/metrics"
	"github.com/yapay-ai/api-rate-guardian/internal/server"
	"github.com/yapay-ai/api-rate-guardian/pkg/monitor"
	"github.com/yapay-ai/api-rate-guardian/pkg/notify"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start monitoring all configured providers",
	Long: `Start one monitor loop per configured provider and keep running until
interrupted. Alerts are fanned out to every enabled notification channel.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)

	channels, err := buildChannels(cfg, logger)
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		logger.Warn("no notification channels enabled, alerts will only be logged")
	}
	dispatcher := notify.NewDispatcher(channels, logger)

	checkerList := buildCheckers(cfg, logger)
	if len(checkerList) == 0 {
		return fmt.Errorf("no valid provider entries, nothing to monitor")
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open alert history: %w", err)
	}
	if store != nil {
		defer store.Close()
	}

	m := metrics.New()

	opts := []monitor.LoopOption{
		monitor.WithLogger(logger),
		monitor.WithObserver(m),
	}
	if store != nil {
		opts = append(opts, monitor.WithAlertSink(store))
	}

	loops := buildLoops(cfg, checkerList, dispatcher, opts...)
	orch := monitor.NewOrchestrator(loops, logger)

	if err := orch.Start(cmd.Context()); err != nil {
		return err
	}

	var srv *http.Server
	srvErr := make(chan error, 1)
	if cfg.Server.Enabled {
		srv = &http.Server{
			Addr:         cfg.Server.Listen,
			Handler:      server.New(orch, store, m, logger).Handler(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		}
		go func() {
			logger.Info("status server started", "listen", cfg.Server.Listen)
			srvErr <- srv.ListenAndServe()
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-srvErr:
		_ = orch.Stop()
		return fmt.Errorf("status server: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("status server shutdown", "error", err)
		}
	}

	return orch.Stop()
}

package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/yapay-ai/api-rate-guardian/internal/config"
	"github.com/yapay-ai/api-rate-guardian/pkg/checkers"
	"github.com/yapay-ai/api-rate-guardian/pkg/monitor"
	"github.com/yapay-ai/api-rate-guardian/pkg/notify"
	"github.com/yapay-ai/api-rate-guardian/pkg/storage"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "guardian",
	Short: "API Rate Guardian - Rate limit monitoring and alerting for external APIs",
	Long: `API Rate Guardian watches usage of rate-limited external APIs across
multiple providers and raises debounced alerts through configurable
notification channels before a hard limit is hit.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.guardian/config.yaml)")
}

// loadConfig loads the configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger creates a structured logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// buildCheckers constructs a checker per valid provider entry. An
// invalid entry (unknown provider, missing credential) is skipped with
// a warning; the caller decides whether zero checkers is fatal.
func buildCheckers(cfg *config.Config, logger *slog.Logger) []checkers.Checker {
	var built []checkers.Checker
	for _, api := range cfg.APIs {
		c, err := checkers.New(api)
		if err != nil {
			logger.Warn("skipping provider entry", "name", api.Name, "provider", api.Provider, "error", err)
			continue
		}
		logger.Info("checker configured", "name", c.Name(), "provider", api.Provider)
		built = append(built, c)
	}
	return built
}

// buildChannels constructs every enabled notification channel. An
// invalid channel is a configuration error and aborts startup.
func buildChannels(cfg *config.Config, logger *slog.Logger) ([]notify.Channel, error) {
	var channels []notify.Channel
	for channelType, settings := range cfg.Notifications {
		if !settings.Enabled {
			continue
		}
		ch, err := notify.New(channelType, settings)
		if err != nil {
			return nil, err
		}
		logger.Info("notification channel configured", "channel", channelType)
		channels = append(channels, ch)
	}
	return channels, nil
}

// buildLoops pairs each checker with its monitor loop.
func buildLoops(cfg *config.Config, checkerList []checkers.Checker, dispatcher *notify.Dispatcher, opts ...monitor.LoopOption) []*monitor.Loop {
	byName := make(map[string]checkers.Config, len(cfg.APIs))
	for _, api := range cfg.APIs {
		api.ApplyDefaults()
		byName[api.Name] = api
	}

	loops := make([]*monitor.Loop, 0, len(checkerList))
	for _, c := range checkerList {
		api := byName[c.Name()]
		loops = append(loops, monitor.NewLoop(c, *api.Threshold, api.Interval, dispatcher, opts...))
	}
	return loops
}

// openStore opens the alert history database, or returns nil when
// history is disabled.
func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.Path == "" {
		return nil, nil
	}
	return storage.NewSQLite(cfg.Storage.Path)
}

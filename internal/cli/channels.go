package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yapay-ai/api-rate-guardian/pkg/model"
	"github.com/yapay-ai/api-rate-guardian/pkg/notify"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List configured notification channels",
	Long: `List every enabled notification channel. With --test, a test alert is
sent through all of them so delivery can be verified end to end.`,
	RunE: runChannels,
}

func init() {
	rootCmd.AddCommand(channelsCmd)
	channelsCmd.Flags().Bool("test", false, "send a test notification through every enabled channel")
}

func runChannels(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Supported channel types: %s\n\n", strings.Join(notify.Types(), ", "))

	channels, err := buildChannels(cfg, logger)
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		fmt.Fprintln(out, "No channels enabled.")
		return nil
	}

	for _, ch := range channels {
		fmt.Fprintf(out, "  %s: enabled\n", ch.Type())
	}

	if sendTest, _ := cmd.Flags().GetBool("test"); !sendTest {
		return nil
	}

	event := model.AlertEvent{
		Checker:      "test",
		Title:        "API Rate Guardian test notification",
		Message:      "This is a test alert. If you can read this, the channel works.",
		Level:        model.LevelInfo,
		UsagePercent: 0,
		Remaining:    model.UnknownCount,
		Limit:        model.UnknownCount,
		FiredAt:      time.Now().UTC(),
	}

	dispatcher := notify.NewDispatcher(channels, logger)
	failed := 0
	for _, result := range dispatcher.Dispatch(cmd.Context(), event) {
		if result.Err != nil {
			fmt.Fprintf(out, "  %s: FAILED (%v)\n", result.Channel, result.Err)
			failed++
		} else {
			fmt.Fprintf(out, "  %s: delivered\n", result.Channel)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d channel(s) failed", failed)
	}
	return nil
}

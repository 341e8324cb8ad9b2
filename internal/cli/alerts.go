package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yapay-ai/api-rate-guardian/pkg/model"
	"github.com/yapay-ai/api-rate-guardian/pkg/storage"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show recently fired alerts",
	RunE:  runAlerts,
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.Flags().String("checker", "", "filter by checker name")
	alertsCmd.Flags().String("level", "", "filter by severity (info, warning, critical)")
	alertsCmd.Flags().Int("limit", 20, "maximum number of alerts to show")
}

func runAlerts(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open alert history: %w", err)
	}
	if store == nil {
		return fmt.Errorf("alert history disabled: set storage.path in the config")
	}
	defer store.Close()

	checker, _ := cmd.Flags().GetString("checker")
	level, _ := cmd.Flags().GetString("level")
	limit, _ := cmd.Flags().GetInt("limit")

	alerts, err := store.ListAlerts(cmd.Context(), storage.AlertFilter{
		Checker: checker,
		Level:   model.Level(level),
		Limit:   limit,
	})
	if err != nil {
		return fmt.Errorf("list alerts: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(alerts) == 0 {
		fmt.Fprintln(out, "No alerts recorded.")
		return nil
	}

	fmt.Fprintf(out, "%-20s %-20s %-10s %8s\n", "FIRED AT", "CHECKER", "LEVEL", "USAGE")
	for _, a := range alerts {
		fmt.Fprintf(out, "%-20s %-20s %-10s %7.1f%%\n",
			a.FiredAt.Format("2006-01-02 15:04:05"), a.Checker, a.Level, a.UsagePercent)
	}
	return nil
}

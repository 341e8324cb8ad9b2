package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yapay-ai/api-rate-guardian/pkg/checkers"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured provider entries and supported provider types",
	RunE:  runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Supported providers: %s\n\n", strings.Join(checkers.Providers(), ", "))

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(out, "No configuration loaded.")
		return nil //nolint:nilerr // listing supported providers needs no config
	}

	if len(cfg.APIs) == 0 {
		fmt.Fprintln(out, "No provider entries configured.")
		return nil
	}

	fmt.Fprintf(out, "%-20s %-12s %10s %12s\n", "NAME", "PROVIDER", "THRESHOLD", "INTERVAL")
	for _, api := range cfg.APIs {
		api.ApplyDefaults()
		fmt.Fprintf(out, "%-20s %-12s %9d%% %12s\n", api.Name, api.Provider, *api.Threshold, api.Interval)
	}
	return nil
}

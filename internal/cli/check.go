package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/yapay-ai/api-rate-guardian/pkg/model"
	"gopkg.in/yaml.v3"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single check against every configured provider",
	Long: `Query each configured provider once and print the current usage.
Exits non-zero when any provider is at or above its alert threshold.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringP("name", "n", "", "check only the named provider entry")
	checkCmd.Flags().StringP("output", "o", "table", "output format: table, json, or yaml")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)
	name, _ := cmd.Flags().GetString("name")
	output, _ := cmd.Flags().GetString("output")

	checkerList := buildCheckers(cfg, logger)
	if name != "" {
		filtered := checkerList[:0]
		for _, c := range checkerList {
			if c.Name() == name {
				filtered = append(filtered, c)
			}
		}
		checkerList = filtered
		if len(checkerList) == 0 {
			return fmt.Errorf("no configured provider entry named %q", name)
		}
	}
	if len(checkerList) == 0 {
		return fmt.Errorf("no valid provider entries")
	}

	thresholds := make(map[string]int, len(cfg.APIs))
	for _, api := range cfg.APIs {
		api.ApplyDefaults()
		thresholds[api.Name] = *api.Threshold
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	reports := make([]model.UsageReport, 0, len(checkerList))
	crossed := false
	for _, c := range checkerList {
		report := c.Check(ctx)
		reports = append(reports, report)
		if report.Status == model.StatusOK && report.UsagePercent >= float64(thresholds[c.Name()]) {
			crossed = true
		}
	}

	switch output {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	case "yaml":
		data, err := yaml.Marshal(reports)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
	case "table":
		printReportTable(cmd, reports, thresholds)
	default:
		return fmt.Errorf("unknown output format %q", output)
	}

	if crossed {
		return fmt.Errorf("one or more providers at or above threshold")
	}
	return nil
}

func printReportTable(cmd *cobra.Command, reports []model.UsageReport, thresholds map[string]int) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-20s %-10s %10s %12s %12s  %s\n", "NAME", "STATUS", "USAGE", "REMAINING", "LIMIT", "DETAIL")
	for _, r := range reports {
		if r.Status == model.StatusError {
			fmt.Fprintf(out, "%-20s %-10s %10s %12s %12s  %s\n",
				r.Provider, r.Status, "-", "-", "-", r.ErrorDetail)
			continue
		}
		detail := ""
		if r.UsagePercent >= float64(thresholds[r.Provider]) {
			detail = fmt.Sprintf("over threshold (%d%%)", thresholds[r.Provider])
		}
		fmt.Fprintf(out, "%-20s %-10s %9.1f%% %12s %12s  %s\n",
			r.Provider, r.Status, r.UsagePercent,
			model.FormatCount(r.Remaining), model.FormatCount(r.Limit), detail)
	}
}

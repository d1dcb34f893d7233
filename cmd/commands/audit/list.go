package audit

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"ocicap/internal/attemptlog"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent provisioning attempts",
		Long: `List recent provisioning attempts stored locally.

Examples:
  ocicap audit list
  ocicap audit list --limit 50
  ocicap audit list --outcome retryable
  ocicap audit list -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().String("outcome", "", "Filter by outcome (created, already-exists, retryable, fatal)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	filter, _ := cmd.Flags().GetString("outcome")
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}

	repo, err := attemptlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	var entries []attemptlog.Entry
	if filter != "" {
		entries, err = repo.ListByOutcome(filter, limit)
	} else {
		entries, err = repo.List(limit)
	}
	if err != nil {
		return err
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}
	if output != "table" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No attempts recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSHAPE\tDOMAIN\tOUTCOME\tDURATION\tDETAIL")
	fmt.Fprintln(w, "----\t-----\t------\t-------\t--------\t------")
	for _, entry := range entries {
		timeStr := entry.Timestamp.Local().Format("2006-01-02 15:04:05")
		detail := entry.Reason
		if detail == "" {
			detail = entry.InstanceID
		}
		if detail == "" {
			detail = "-"
		}
		ad := entry.AvailabilityDomain
		if ad == "" {
			ad = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			timeStr,
			entry.Shape,
			ad,
			entry.Outcome,
			formatDuration(entry.DurationMs),
			detail,
		)
	}
	w.Flush()
	return nil
}

func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	d := time.Duration(ms) * time.Millisecond
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

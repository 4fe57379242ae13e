package cmd

import (
	"fmt"

	"github.com/KaramelBytes/dataexplore-cli/internal/report"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, show or clear recorded explore runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openHistory()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		runs := st.List()
		if len(runs) == 0 {
			fmt.Fprintln(out, "(no runs)")
			return nil
		}
		for i, r := range runs {
			if historyLimit > 0 && i >= historyLimit {
				break
			}
			fmt.Fprintf(out, "- %s: %s (n=%d, r=%.3f) %s\n", shortID(r.ID), r.File, r.Records, r.Correlation, r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the statistics of a recorded run (id or unique prefix)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openHistory()
		if err != nil {
			return err
		}
		r, err := st.Get(args[0])
		if err != nil {
			return err
		}
		precision := report.DefaultPrecision
		if cfg != nil && cfg.Precision > 0 {
			precision = cfg.Precision
		}
		rep := &report.Report{
			ID:           r.ID,
			File:         r.File,
			Records:      r.Records,
			MedianPolicy: r.MedianPolicy,
			Columns:      r.Columns,
			Covariance:   r.Covariance,
			Correlation:  r.Correlation,
			CreatedAt:    r.CreatedAt,
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Run %s\nFile: %s\nNumber of records: %d\nMedian policy: %s\n", rep.ID, rep.File, rep.Records, rep.MedianPolicy)
		return rep.WriteText(out, precision)
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openHistory()
		if err != nil {
			return err
		}
		n := st.Clear()
		if err := st.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d run(s)\n", n)
		return nil
	},
}

// shortID abbreviates a run ID for listings; IDs edited by hand may be shorter.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show at most N runs (0 = all)")
}

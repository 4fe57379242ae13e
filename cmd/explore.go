package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/dataexplore-cli/internal/dataset"
	"github.com/KaramelBytes/dataexplore-cli/internal/history"
	"github.com/KaramelBytes/dataexplore-cli/internal/report"
	"github.com/KaramelBytes/dataexplore-cli/internal/stats"
	"github.com/KaramelBytes/dataexplore-cli/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	exOutputPath   string
	exFormat       string
	exMedianPolicy string
	exDelimiter    string
	exPrecision    int
	exNoHistory    bool
)

// exploreOptions is the effective configuration for one or more explore runs:
// command flags win over config values, which win over built-in defaults.
type exploreOptions struct {
	policy    stats.MedianPolicy
	data      dataset.Options
	format    string
	precision int
	history   bool
}

func resolveExploreOptions(flags *pflag.FlagSet, policy, delimiter, format string, precision int, noHistory bool) (exploreOptions, error) {
	opt := exploreOptions{data: dataset.DefaultOptions(), format: "text", precision: report.DefaultPrecision, history: true}
	if cfg != nil {
		if !flags.Changed("median-policy") && cfg.MedianPolicy != "" {
			policy = cfg.MedianPolicy
		}
		if !flags.Changed("delimiter") && cfg.Delimiter != "" {
			delimiter = cfg.Delimiter
		}
		if !flags.Changed("format") && cfg.Format != "" {
			format = cfg.Format
		}
		if !flags.Changed("precision") && cfg.Precision > 0 {
			precision = cfg.Precision
		}
		opt.history = cfg.HistoryEnabled
	}
	if noHistory {
		opt.history = false
	}

	p, err := stats.ParseMedianPolicy(policy)
	if err != nil {
		return opt, err
	}
	opt.policy = p
	switch delimiter {
	case "":
	case ",":
		opt.data.Delimiter = ','
	case "\t", "tab":
		opt.data.Delimiter = '\t'
	case ";":
		opt.data.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", delimiter)
	}
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", "text":
		opt.format = "text"
	case "markdown", "md", "json", "yaml", "yml":
		opt.format = f
	default:
		return opt, fmt.Errorf("unsupported --format: %s (use text|markdown|json|yaml)", format)
	}
	if precision > 0 {
		opt.precision = precision
	}
	return opt, nil
}

var exploreCmd = &cobra.Command{
	Use:   "explore <file>",
	Short: "Report descriptive statistics for a two-column CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := resolveExploreOptions(cmd.Flags(), exMedianPolicy, exDelimiter, exFormat, exPrecision, exNoHistory)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		progress := !quiet && opt.format == "text"
		status := func(format string, a ...any) {
			if progress {
				fmt.Fprintf(out, format, a...)
			}
		}

		status("Opening file %s.\n", path)
		ds, err := dataset.Load(path, opt.data)
		if err != nil {
			if errors.Is(err, dataset.ErrOpen) {
				fmt.Fprintf(out, "Could not open file %s.\n", path)
			}
			return err
		}
		status("Reading line 1\n")
		status("Heading: %s\n", ds.Heading)
		status("Closing file %s.\n", path)
		status("Number of records: %d\n", ds.Len())
		log.WithFields(logrus.Fields{"file": path, "records": ds.Len(), "columns": ds.Columns}).Debug("dataset loaded")

		rep, err := report.Build(ds, opt.policy)
		if err != nil {
			return err
		}
		body, err := rep.Render(opt.format, opt.precision)
		if err != nil {
			return err
		}
		if exOutputPath != "" {
			if err := utils.SafeWriteFile(exOutputPath, []byte(body), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if !quiet {
				fmt.Fprintf(out, "✓ Wrote report to %s\n", exOutputPath)
			}
		} else {
			io.WriteString(out, body)
		}

		if opt.history {
			if err := recordRuns(rep); err != nil {
				log.WithError(err).Warn("could not record run history")
			}
		}
		status("\nProgram terminated.\n")
		return nil
	},
}

// recordRuns appends reports to the configured run history.
func recordRuns(reps ...*report.Report) error {
	st, err := openHistory()
	if err != nil {
		return err
	}
	for _, r := range reps {
		run := st.Add(r)
		log.WithFields(logrus.Fields{"id": run.ID, "file": run.File}).Debug("run recorded")
	}
	return st.Save()
}

func openHistory() (*history.Store, error) {
	if cfg == nil || cfg.HistoryDir == "" {
		return nil, errors.New("history directory not configured")
	}
	return history.Open(cfg.HistoryDir)
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	exploreCmd.Flags().StringVarP(&exOutputPath, "output", "o", "", "optional path to write the report")
	exploreCmd.Flags().StringVarP(&exFormat, "format", "f", "text", "report format: text|markdown|json|yaml")
	exploreCmd.Flags().StringVar(&exMedianPolicy, "median-policy", "midpoint", "even-length median: midpoint (n/2-1, n/2) | legacy (n/2, n/2+1)")
	exploreCmd.Flags().StringVar(&exDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default from extension)")
	exploreCmd.Flags().IntVar(&exPrecision, "precision", report.DefaultPrecision, "significant digits in text output")
	exploreCmd.Flags().BoolVar(&exNoHistory, "no-history", false, "do not record this run in the history")
}

package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/dataexplore-cli/internal/config"
	"github.com/KaramelBytes/dataexplore-cli/internal/stats"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set dataexplore configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "median_policy: %s\n", cfg.MedianPolicy)
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		}
		fmt.Fprintf(out, "format: %s\n", cfg.Format)
		fmt.Fprintf(out, "precision: %d\n", cfg.Precision)
		fmt.Fprintf(out, "history_enabled: %t\n", cfg.HistoryEnabled)
		fmt.Fprintf(out, "history_dir: %s\n", cfg.HistoryDir)
		fmt.Fprintf(out, "batch_jobs: %d\n", cfg.BatchJobs)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "median_policy":
			p, err := stats.ParseMedianPolicy(val)
			if err != nil {
				return err
			}
			cfg.MedianPolicy = p.String()
		case "delimiter":
			switch val {
			case ",", ";", "tab", "":
				cfg.Delimiter = val
			case "\t":
				cfg.Delimiter = "tab"
			default:
				return fmt.Errorf("invalid delimiter: %q (use ',' ';' or tab)", val)
			}
		case "format":
			switch val {
			case "text", "markdown", "json", "yaml":
				cfg.Format = val
			default:
				return fmt.Errorf("invalid format: %s (use text|markdown|json|yaml)", val)
			}
		case "precision":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 || i > 17 {
				return fmt.Errorf("invalid int for precision: %v (1-17)", val)
			}
			cfg.Precision = i
		case "history_enabled":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for history_enabled: %w", err)
			}
			cfg.HistoryEnabled = b
		case "history_dir":
			cfg.HistoryDir = val
		case "batch_jobs":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for batch_jobs: %v", val)
			}
			cfg.BatchJobs = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

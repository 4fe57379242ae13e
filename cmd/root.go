package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/dataexplore-cli/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	quiet   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:           "dataexplore",
	Short:         "dataexplore: descriptive statistics for two-column CSV data",
	Long:          `dataexplore reads a CSV of paired numeric observations and reports sum, mean, median and range for each column plus their covariance and correlation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dataexplore/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress and non-essential output")
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
}

func loadConfig() {
	if debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
	log.WithFields(logrus.Fields{
		"median_policy": cfg.MedianPolicy,
		"format":        cfg.Format,
		"history_dir":   cfg.HistoryDir,
	}).Debug("configuration loaded")
}

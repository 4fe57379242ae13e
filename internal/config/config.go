package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const dirName = ".dataexplore"

// Global configuration structure.
type Global struct {
	MedianPolicy string `mapstructure:"median_policy" yaml:"median_policy"`
	Delimiter    string `mapstructure:"delimiter" yaml:"delimiter"`
	Format       string `mapstructure:"format" yaml:"format"`
	Precision    int    `mapstructure:"precision" yaml:"precision"`

	// Run history
	HistoryDir     string `mapstructure:"history_dir" yaml:"history_dir"`
	HistoryEnabled bool   `mapstructure:"history_enabled" yaml:"history_enabled"`

	// explore-batch worker count
	BatchJobs int `mapstructure:"batch_jobs" yaml:"batch_jobs"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dataexplore/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, dirName)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATAEXPLORE")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("median_policy", "midpoint")
	v.SetDefault("delimiter", "")
	v.SetDefault("format", "text")
	v.SetDefault("precision", 6)
	v.SetDefault("history_dir", "")
	v.SetDefault("history_enabled", true)
	v.SetDefault("batch_jobs", 4)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, dirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve history_dir default: ~/.dataexplore/history
	if c.HistoryDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.HistoryDir = filepath.Join(home, dirName, "history")
	}
	return &c, nil
}

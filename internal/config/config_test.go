package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.MedianPolicy != "midpoint" || c.Format != "text" || c.Precision != 6 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if !c.HistoryEnabled || c.BatchJobs != 4 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if want := filepath.Join(home, ".dataexplore", "history"); c.HistoryDir != want {
		t.Fatalf("history_dir = %q, want %q", c.HistoryDir, want)
	}
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := &Global{MedianPolicy: "legacy", Format: "json", Precision: 4, HistoryDir: "/tmp/h", BatchJobs: 2}
	if err := Save(in, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.MedianPolicy != "legacy" || out.Format != "json" || out.Precision != 4 || out.HistoryDir != "/tmp/h" || out.BatchJobs != 2 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if out.HistoryEnabled {
		t.Fatalf("history_enabled should come from file (false), got true")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("median_policy: legacy\nprecision: 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("DATAEXPLORE_PRECISION", "9")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.MedianPolicy != "legacy" {
		t.Fatalf("median_policy = %q, want legacy from file", c.MedianPolicy)
	}
	if c.Precision != 9 {
		t.Fatalf("precision = %d, want 9 from env", c.Precision)
	}
}

package history

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/dataexplore-cli/internal/dataset"
	"github.com/KaramelBytes/dataexplore-cli/internal/report"
	"github.com/KaramelBytes/dataexplore-cli/internal/stats"
)

func buildReport(t *testing.T, name string) *report.Report {
	t.Helper()
	ds, err := dataset.LoadReader(strings.NewReader("a,b\n1,2\n2,4\n3,7\n"), name, dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rep, err := report.Build(ds, stats.MedianMidpoint)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return rep
}

func TestStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history")
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(s.List()) != 0 {
		t.Fatalf("expected empty history")
	}
	older := buildReport(t, "first.csv")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := buildReport(t, "second.csv")
	s.Add(older)
	s.Add(newer)
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "runs.json")); err != nil {
		t.Fatalf("runs.json not written: %v", err)
	}

	reloaded, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	runs := reloaded.List()
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if runs[0].File != "second.csv" || runs[1].File != "first.csv" {
		t.Fatalf("expected newest first, got %s then %s", runs[0].File, runs[1].File)
	}
	if runs[0].Columns[0].Summary.Sum != 6 || runs[0].Records != 3 {
		t.Fatalf("run lost statistics: %+v", runs[0])
	}
}

func TestStoreGetByPrefix(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rep := buildReport(t, "data.csv")
	s.Add(rep)

	got, err := s.Get(rep.ID[:8])
	if err != nil {
		t.Fatalf("get by prefix: %v", err)
	}
	if got.ID != rep.ID {
		t.Fatalf("got %s, want %s", got.ID, rep.ID)
	}
	if _, err := s.Get("zzzz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreClear(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Add(buildReport(t, "a.csv"))
	s.Add(buildReport(t, "b.csv"))
	if n := s.Clear(); n != 2 {
		t.Fatalf("cleared %d, want 2", n)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	reloaded, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if len(reloaded.Runs) != 0 {
		t.Fatalf("expected empty history after clear, got %d", len(reloaded.Runs))
	}
}

func TestOpenCorruptHistory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "runs.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(dir); err == nil {
		t.Fatalf("expected parse error for corrupt history")
	}
}

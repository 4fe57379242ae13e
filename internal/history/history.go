package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/dataexplore-cli/internal/report"
	"github.com/KaramelBytes/dataexplore-cli/internal/utils"
)

const historyFileName = "runs.json"

// ErrNotFound is returned when no run matches a lookup.
var ErrNotFound = errors.New("run not found")

// Run is a persisted record of one exploration.
type Run struct {
	ID           string           `json:"id"`
	File         string           `json:"file"`
	Records      int              `json:"records"`
	MedianPolicy string           `json:"median_policy"`
	Columns      [2]report.Column `json:"columns"`
	Covariance   float64          `json:"covariance"`
	Correlation  float64          `json:"correlation"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Store holds the run history persisted in <dir>/runs.json.
type Store struct {
	Runs      map[string]*Run `json:"runs"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Not serialized: directory holding runs.json
	dir string `json:"-"`
}

// Open loads the history in dir. A missing history file yields an empty store.
func Open(dir string) (*Store, error) {
	s := &Store{Runs: make(map[string]*Run), dir: dir}
	b, err := os.ReadFile(filepath.Join(dir, historyFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}
	if err := json.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	if s.Runs == nil {
		s.Runs = make(map[string]*Run)
	}
	s.dir = dir
	return s, nil
}

// Dir returns the directory the history is stored in.
func (s *Store) Dir() string { return s.dir }

// Add records a report in the store. Call Save to persist.
func (s *Store) Add(r *report.Report) *Run {
	run := &Run{
		ID:           r.ID,
		File:         r.File,
		Records:      r.Records,
		MedianPolicy: r.MedianPolicy,
		Columns:      r.Columns,
		Covariance:   r.Covariance,
		Correlation:  r.Correlation,
		CreatedAt:    r.CreatedAt,
	}
	s.Runs[run.ID] = run
	s.UpdatedAt = time.Now()
	return run
}

// Save writes runs.json using atomic write.
func (s *Store) Save() error {
	if s.dir == "" {
		return errors.New("history directory not set")
	}
	data, err := utils.PrettyJSON(s)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(s.dir, historyFileName), data, 0o644)
}

// List returns runs newest first.
func (s *Store) List() []*Run {
	out := make([]*Run, 0, len(s.Runs))
	for _, r := range s.Runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Get finds a run by full ID or unique ID prefix.
func (s *Store) Get(id string) (*Run, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return nil, ErrNotFound
	}
	if r, ok := s.Runs[id]; ok {
		return r, nil
	}
	var match *Run
	for k, r := range s.Runs {
		if !strings.HasPrefix(k, id) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("ambiguous run id prefix %q", id)
		}
		match = r
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return match, nil
}

// Clear removes every run. Call Save to persist.
func (s *Store) Clear() int {
	n := len(s.Runs)
	s.Runs = make(map[string]*Run)
	s.UpdatedAt = time.Now()
	return n
}

package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/KaramelBytes/dataexplore-cli/internal/dataset"
	"github.com/KaramelBytes/dataexplore-cli/internal/stats"
	"github.com/KaramelBytes/dataexplore-cli/internal/utils"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DefaultPrecision is the number of significant digits printed in text reports.
const DefaultPrecision = 6

// Column is the summary of one variable of the paired sample.
type Column struct {
	Name    string        `json:"name" yaml:"name"`
	Summary stats.Summary `json:"summary" yaml:"summary"`
}

// Report holds the statistics computed for one dataset.
type Report struct {
	ID           string    `json:"id" yaml:"id"`
	File         string    `json:"file" yaml:"file"`
	Heading      string    `json:"heading" yaml:"heading"`
	Records      int       `json:"records" yaml:"records"`
	MedianPolicy string    `json:"median_policy" yaml:"median_policy"`
	Columns      [2]Column `json:"columns" yaml:"columns"`
	Covariance   float64   `json:"covariance" yaml:"covariance"`
	Correlation  float64   `json:"correlation" yaml:"correlation"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// Build summarizes both columns of ds and their covariance and correlation.
func Build(ds *dataset.Dataset, policy stats.MedianPolicy) (*Report, error) {
	if ds == nil {
		return nil, fmt.Errorf("build report: nil dataset")
	}
	rep := &Report{
		ID:           uuid.NewString(),
		File:         ds.Name,
		Heading:      ds.Heading,
		Records:      ds.Len(),
		MedianPolicy: policy.String(),
		CreatedAt:    time.Now(),
	}
	for i, col := range [][]float64{ds.X, ds.Y} {
		s, err := stats.Summarize(col, policy)
		if err != nil {
			return nil, fmt.Errorf("stats for %s: %w", ds.Columns[i], err)
		}
		rep.Columns[i] = Column{Name: ds.Columns[i], Summary: s}
	}
	var err error
	if rep.Covariance, err = stats.Covariance(ds.X, ds.Y); err != nil {
		return nil, err
	}
	if rep.Correlation, err = stats.Correlation(ds.X, ds.Y); err != nil {
		return nil, err
	}
	return rep, nil
}

func num(v float64, precision int) string {
	if precision <= 0 {
		precision = DefaultPrecision
	}
	return fmt.Sprintf("%.*g", precision, v)
}

// WriteSummary writes the labeled Sum/Mean/Median/Range lines for one column.
func WriteSummary(w io.Writer, s stats.Summary, precision int) error {
	_, err := fmt.Fprintf(w, "Sum: %s\nMean: %s\nMedian: %s\nRange: %s\n",
		num(s.Sum, precision), num(s.Mean, precision), num(s.Median, precision), num(s.Range, precision))
	return err
}

// WriteText writes the console report: one stats block per column followed by
// covariance and correlation.
func (r *Report) WriteText(w io.Writer, precision int) error {
	for _, c := range r.Columns {
		if _, err := fmt.Fprintf(w, "\nStats for %s:\n", c.Name); err != nil {
			return err
		}
		if err := WriteSummary(w, c.Summary, precision); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n Covariance = %s\n\n Correlation = %s\n",
		num(r.Covariance, precision), num(r.Correlation, precision))
	return err
}

// Text renders WriteText into a string.
func (r *Report) Text(precision int) string {
	var b strings.Builder
	_ = r.WriteText(&b, precision)
	return b.String()
}

// Markdown renders a compact report suitable for docs or notes.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.File != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.File))
	}
	if r.Heading != "" {
		b.WriteString(fmt.Sprintf("Heading: %s\n", r.Heading))
	}
	b.WriteString(fmt.Sprintf("Records: %d\n", r.Records))
	b.WriteString(fmt.Sprintf("Median policy: %s\n\n", r.MedianPolicy))

	b.WriteString("[COLUMNS]\n")
	for _, c := range r.Columns {
		s := c.Summary
		b.WriteString(fmt.Sprintf("- %s: sum %.4g, mean %.4g, median %.4g, range %.4g\n",
			c.Name, s.Sum, s.Mean, s.Median, s.Range))
	}
	b.WriteString("\n[RELATIONSHIP]\n")
	b.WriteString(fmt.Sprintf("- %s ~ %s: covariance %.4g, r=%.3f\n",
		r.Columns[0].Name, r.Columns[1].Name, r.Covariance, r.Correlation))
	return b.String()
}

// JSON renders the report as indented, newline-terminated JSON.
func (r *Report) JSON() ([]byte, error) {
	return utils.PrettyJSON(r)
}

// YAML renders the report as a YAML document.
func (r *Report) YAML() ([]byte, error) {
	b, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return b, nil
}

// Render formats the report as text, markdown, json or yaml.
func (r *Report) Render(format string, precision int) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return r.Text(precision), nil
	case "markdown", "md":
		return r.Markdown(), nil
	case "json":
		b, err := r.JSON()
		if err != nil {
			return "", err
		}
		return string(b), nil
	case "yaml", "yml":
		b, err := r.YAML()
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use text|markdown|json|yaml)", format)
	}
}

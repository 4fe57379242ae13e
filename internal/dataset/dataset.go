package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrOpen is matched by errors returned when the input file cannot be opened.
	ErrOpen = errors.New("could not open file")
	// ErrParse is matched by errors returned for malformed records.
	ErrParse = errors.New("parse error")
)

// Options controls how a paired CSV is read.
type Options struct {
	// Delimiter between the two fields. If 0, chosen from the file extension.
	Delimiter rune
}

// DefaultOptions returns options that sniff the delimiter from the file name.
func DefaultOptions() Options {
	return Options{}
}

// Dataset is a paired sample read from a two-column file.
type Dataset struct {
	Name    string
	Heading string
	Columns [2]string
	X       []float64
	Y       []float64
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.X) }

// OpenError reports a file that could not be opened.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("could not open file %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

func (e *OpenError) Is(target error) bool { return target == ErrOpen }

// ParseError identifies the record that could not be read. Line is 1-based and
// counts the header.
type ParseError struct {
	Line  int
	Field int
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field > 0 {
		return fmt.Sprintf("line %d, field %d (%q): %v", e.Line, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Load reads a paired sample from path.
func Load(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	defer f.Close()
	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(path)
	}
	return LoadReader(f, filepath.Base(path), opt)
}

// LoadReader reads a header line followed by records of exactly two numeric fields.
// The header is kept verbatim as Heading; it names the columns when it splits
// into two non-empty fields. Blank lines are skipped.
func LoadReader(rd io.Reader, name string, opt Options) (*Dataset, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	ds := &Dataset{Name: name, Columns: [2]string{"x", "y"}}

	br := bufio.NewReader(rd)
	header, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if header == "" {
		return ds, nil
	}
	ds.Heading = strings.TrimRight(header, "\r\n")
	if names := strings.Split(ds.Heading, string(delim)); len(names) == 2 {
		for i, h := range names {
			if h = strings.Trim(strings.TrimSpace(h), `"`); h != "" {
				ds.Columns[i] = h
			}
		}
	}

	r := csv.NewReader(br)
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.ReuseRecord = true
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, wrapCSVError(err, headerLines)
		}
		line, _ := r.FieldPos(0)
		line += headerLines
		if len(rec) != 2 {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("expected 2 fields, got %d", len(rec))}
		}
		x, err := parseField(rec[0])
		if err != nil {
			return nil, &ParseError{Line: line, Field: 1, Value: rec[0], Err: err}
		}
		y, err := parseField(rec[1])
		if err != nil {
			return nil, &ParseError{Line: line, Field: 2, Value: rec[1], Err: err}
		}
		ds.X = append(ds.X, x)
		ds.Y = append(ds.Y, y)
	}
	return ds, nil
}

// headerLines is added to csv line numbers, which restart after the header.
const headerLines = 1

func parseField(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) {
			return 0, ne.Err
		}
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("non-finite value")
	}
	return v, nil
}

func wrapCSVError(err error, offset int) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line + offset, Err: pe.Err}
	}
	return fmt.Errorf("read csv: %w", err)
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	return ','
}

package dataset_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/dataexplore-cli/internal/dataset"
	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadPairedCSV(t *testing.T) {
	p := writeFile(t, "boston.csv", "header,line\n6.0,24.0\n6.5,21.6\n7.0,34.7\n")
	ds, err := dataset.Load(p, dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Heading != "header,line" {
		t.Fatalf("heading = %q", ds.Heading)
	}
	if ds.Columns != [2]string{"header", "line"} {
		t.Fatalf("columns = %v", ds.Columns)
	}
	if ds.Len() != 3 {
		t.Fatalf("records = %d, want 3", ds.Len())
	}
	if diff := cmp.Diff([]float64{6.0, 6.5, 7.0}, ds.X); diff != "" {
		t.Fatalf("x mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{24.0, 21.6, 34.7}, ds.Y); diff != "" {
		t.Fatalf("y mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadGrowsPastOldCapacity(t *testing.T) {
	var b strings.Builder
	b.WriteString("rm,medv\n")
	for i := 0; i < 2500; i++ {
		b.WriteString("1.5,2.5\n")
	}
	ds, err := dataset.LoadReader(strings.NewReader(b.String()), "big.csv", dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Len() != 2500 {
		t.Fatalf("records = %d, want 2500", ds.Len())
	}
}

func TestLoadSkipsBlankLinesAndSpaces(t *testing.T) {
	in := "a,b\n 1, 2\n\n3 ,4 \n"
	ds, err := dataset.LoadReader(strings.NewReader(in), "x.csv", dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]float64{1, 3}, ds.X); diff != "" {
		t.Fatalf("x mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{2, 4}, ds.Y); diff != "" {
		t.Fatalf("y mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadTSVByExtension(t *testing.T) {
	p := writeFile(t, "pairs.tsv", "a\tb\n1\t2\n")
	ds, err := dataset.Load(p, dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Columns != [2]string{"a", "b"} || ds.Len() != 1 {
		t.Fatalf("unexpected dataset: %+v", ds)
	}
}

func TestLoadDefaultColumnNames(t *testing.T) {
	ds, err := dataset.LoadReader(strings.NewReader("just one heading\n1,2\n"), "x.csv", dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Columns != [2]string{"x", "y"} {
		t.Fatalf("columns = %v", ds.Columns)
	}
	if ds.Heading != "just one heading" {
		t.Fatalf("heading = %q", ds.Heading)
	}
}

func TestLoadKeepsRawHeading(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		heading string
		columns [2]string
	}{
		{"spaced", "a, b\n1,2\n", "a, b", [2]string{"a", "b"}},
		{"crlf", "rm,medv\r\n1,2\r\n", "rm,medv", [2]string{"rm", "medv"}},
		{"stray quote", "a,\"b\n1,2\n", "a,\"b", [2]string{"a", "b"}},
		{"three names", "a,b,c\n1,2\n", "a,b,c", [2]string{"x", "y"}},
		{"no trailing newline", "a,b", "a,b", [2]string{"a", "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ds, err := dataset.LoadReader(strings.NewReader(tc.in), "h.csv", dataset.DefaultOptions())
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if ds.Heading != tc.heading {
				t.Fatalf("heading = %q, want %q", ds.Heading, tc.heading)
			}
			if ds.Columns != tc.columns {
				t.Fatalf("columns = %v, want %v", ds.Columns, tc.columns)
			}
		})
	}
}

func TestLoadEmptyFile(t *testing.T) {
	ds, err := dataset.LoadReader(strings.NewReader(""), "empty.csv", dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Len() != 0 || ds.Heading != "" {
		t.Fatalf("expected empty dataset, got %+v", ds)
	}
}

func TestLoadParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		line  int
		field int
	}{
		{"bad number", "a,b\n1,2\n3,abc\n", 3, 2},
		{"bad first field", "a,b\nx1,2\n", 2, 1},
		{"too many fields", "a,b\n1,2,3\n", 2, 0},
		{"too few fields", "a,b\n1,2\n\n5\n", 4, 0},
		{"non-finite", "a,b\nNaN,1\n", 2, 1},
		{"bare quote", "a,b\n1,2\n3,4\"x\n", 3, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := dataset.LoadReader(strings.NewReader(tc.in), "bad.csv", dataset.DefaultOptions())
			if !errors.Is(err, dataset.ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
			var pe *dataset.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Line != tc.line || pe.Field != tc.field {
				t.Fatalf("line/field = %d/%d, want %d/%d (%v)", pe.Line, pe.Field, tc.line, tc.field, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := dataset.Load(filepath.Join(t.TempDir(), "Boston.csv"), dataset.DefaultOptions())
	if !errors.Is(err, dataset.ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

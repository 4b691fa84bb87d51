package series

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gocpd/domain/core"

	"github.com/xuri/excelize/v2"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestLoadCSV tests CSV loading with and without headers
func TestLoadCSV(t *testing.T) {
	ctx := context.Background()

	t.Run("single column with header", func(t *testing.T) {
		path := writeFixture(t, "series.csv", "value\n1.5\n2.5\n3.5\n")
		got, err := NewReader("", "").Load(ctx, path)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !floatsEqual(got, []float64{1.5, 2.5, 3.5}) {
			t.Errorf("Expected [1.5 2.5 3.5], got %v", got)
		}
	})

	t.Run("named column", func(t *testing.T) {
		path := writeFixture(t, "series.csv", "t,value\n1,10\n2,20\n3,30\n")
		got, err := NewReader("value", "").Load(ctx, path)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !floatsEqual(got, []float64{10, 20, 30}) {
			t.Errorf("Expected [10 20 30], got %v", got)
		}
	})

	t.Run("headerless file", func(t *testing.T) {
		path := writeFixture(t, "series.csv", "1\n2\n3\n")
		got, err := NewReader("", "").Load(ctx, path)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !floatsEqual(got, []float64{1, 2, 3}) {
			t.Errorf("Expected [1 2 3], got %v", got)
		}
	})

	t.Run("unnamed load skips label column", func(t *testing.T) {
		path := writeFixture(t, "series.csv", "label,value\na,1\nb,2\n")
		got, err := NewReader("", "").Load(ctx, path)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !floatsEqual(got, []float64{1, 2}) {
			t.Errorf("Expected [1 2], got %v", got)
		}
	})
}

// TestLoadCSVErrors tests rejected CSV inputs
func TestLoadCSVErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
		column  string
	}{
		{"missing column", "t,value\n1,10\n", "price"},
		{"non-numeric cell", "value\n1\nabc\n", ""},
		{"empty file", "", ""},
		{"header only", "value\n", ""},
		{"no numeric column", "a,b\nx,y\n", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := writeFixture(t, "bad.csv", test.content)
			_, err := NewReader(test.column, "").Load(ctx, path)
			if err == nil {
				t.Fatal("Expected error, got none")
			}
			if !errors.Is(err, core.ErrSeriesInvalid) {
				t.Errorf("Expected ErrSeriesInvalid, got %v", err)
			}
		})
	}
}

// TestLoadJSON tests JSON array and object forms
func TestLoadJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("bare array", func(t *testing.T) {
		path := writeFixture(t, "series.json", "[1, 2.5, 3]")
		got, err := NewReader("", "").Load(ctx, path)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !floatsEqual(got, []float64{1, 2.5, 3}) {
			t.Errorf("Expected [1 2.5 3], got %v", got)
		}
	})

	t.Run("series field", func(t *testing.T) {
		path := writeFixture(t, "series.json", `{"series": [4, 5]}`)
		got, err := NewReader("", "").Load(ctx, path)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !floatsEqual(got, []float64{4, 5}) {
			t.Errorf("Expected [4 5], got %v", got)
		}
	})

	t.Run("named field", func(t *testing.T) {
		path := writeFixture(t, "series.json", `{"cpu": [0.1, 0.9]}`)
		got, err := NewReader("cpu", "").Load(ctx, path)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !floatsEqual(got, []float64{0.1, 0.9}) {
			t.Errorf("Expected [0.1 0.9], got %v", got)
		}
	})

	t.Run("rejects non-array", func(t *testing.T) {
		path := writeFixture(t, "series.json", `{"series": "nope"}`)
		_, err := NewReader("", "").Load(ctx, path)
		if !errors.Is(err, core.ErrSeriesInvalid) {
			t.Errorf("Expected ErrSeriesInvalid, got %v", err)
		}
	})

	t.Run("rejects mixed elements", func(t *testing.T) {
		path := writeFixture(t, "series.json", `[1, "x", 3]`)
		_, err := NewReader("", "").Load(ctx, path)
		if !errors.Is(err, core.ErrSeriesInvalid) {
			t.Errorf("Expected ErrSeriesInvalid, got %v", err)
		}
	})
}

// TestLoadXLSX tests workbook loading
func TestLoadXLSX(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "series.xlsx")

	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "value")
	f.SetCellValue("Sheet1", "A2", 1.5)
	f.SetCellValue("Sheet1", "A3", 2.5)
	f.SetCellValue("Sheet1", "A4", 4.0)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to write workbook: %v", err)
	}
	f.Close()

	got, err := NewReader("value", "").Load(ctx, path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !floatsEqual(got, []float64{1.5, 2.5, 4}) {
		t.Errorf("Expected [1.5 2.5 4], got %v", got)
	}

	if _, err := NewReader("", "Missing").Load(ctx, path); !errors.Is(err, core.ErrSeriesInvalid) {
		t.Errorf("Expected ErrSeriesInvalid for missing sheet, got %v", err)
	}
}

// TestLoadRejections tests path-level failures
func TestLoadRejections(t *testing.T) {
	ctx := context.Background()

	if _, err := NewReader("", "").Load(ctx, "/nonexistent/series.csv"); !errors.Is(err, core.ErrSeriesInvalid) {
		t.Errorf("Expected ErrSeriesInvalid for missing file, got %v", err)
	}

	path := writeFixture(t, "series.txt", "1\n2\n")
	if _, err := NewReader("", "").Load(ctx, path); !errors.Is(err, core.ErrSeriesInvalid) {
		t.Errorf("Expected ErrSeriesInvalid for unsupported extension, got %v", err)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewReader("", "").Load(cancelled, path); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

// TestSummarize tests the series profile statistics
func TestSummarize(t *testing.T) {
	profile, err := Summarize([]float64{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if profile.Length != 5 {
		t.Errorf("Expected length 5, got %d", profile.Length)
	}
	if profile.Mean != 3 {
		t.Errorf("Expected mean 3, got %g", profile.Mean)
	}
	if profile.Median != 3 {
		t.Errorf("Expected median 3, got %g", profile.Median)
	}
	if profile.Min != 1 || profile.Max != 5 {
		t.Errorf("Expected min 1 max 5, got %g %g", profile.Min, profile.Max)
	}
	if math.Abs(profile.StdDev-math.Sqrt(2)) > 1e-9 {
		t.Errorf("Expected stddev sqrt(2), got %g", profile.StdDev)
	}

	if _, err := Summarize(nil); !errors.Is(err, core.ErrSeriesInvalid) {
		t.Errorf("Expected ErrSeriesInvalid for empty series, got %v", err)
	}
}

package series

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gocpd/domain/core"

	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"
)

// Reader loads a single numeric observation series from CSV, XLSX, or
// JSON files. Column selection is optional: unnamed loads take the first
// numeric column (CSV/XLSX) or the top-level array (JSON).
type Reader struct {
	column string
	sheet  string
}

// NewReader creates a series reader. Both arguments may be empty; column
// names a CSV/XLSX header or JSON field, sheet names an XLSX worksheet.
func NewReader(column, sheet string) *Reader {
	return &Reader{column: column, sheet: sheet}
}

// Load reads the series at path, picking the format from the extension
func (r *Reader) Load(ctx context.Context, path string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Printf("[SeriesReader] loading %s", path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, core.NewSeriesError(fmt.Sprintf("file not found: %s", path))
	}

	start := time.Now()
	var (
		series []float64
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		series, err = r.loadCSV(path)
	case ".xlsx":
		series, err = r.loadXLSX(path)
	case ".json":
		series, err = r.loadJSON(path)
	default:
		return nil, core.NewSeriesError(fmt.Sprintf("unsupported file type: %s", ext))
	}
	if err != nil {
		return nil, err
	}

	log.Printf("[SeriesReader] %d observations read in %.2fms",
		len(series), float64(time.Since(start).Nanoseconds())/1e6)
	return series, nil
}

func (r *Reader) loadCSV(path string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, core.NewSeriesError(fmt.Sprintf("failed to open CSV file: %v", err))
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, core.NewSeriesError(fmt.Sprintf("failed to read CSV file: %v", err))
	}
	if len(rows) == 0 {
		return nil, core.NewSeriesError("CSV file has no rows")
	}

	return r.extractColumn(rows)
}

func (r *Reader) loadXLSX(path string) ([]float64, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, core.NewSeriesError(fmt.Sprintf("failed to open workbook: %v", err))
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, core.NewSeriesError("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, core.NewSeriesError(fmt.Sprintf("failed to read sheet %s: %v", sheet, err))
	}
	if len(rows) == 0 {
		return nil, core.NewSeriesError(fmt.Sprintf("sheet %s has no rows", sheet))
	}

	return r.extractColumn(rows)
}

func (r *Reader) loadJSON(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewSeriesError(fmt.Sprintf("failed to read JSON file: %v", err))
	}

	// Accept either a bare array of numbers or an object holding one
	// under the configured column name ("series" when unnamed).
	root := gjson.ParseBytes(data)
	target := root
	if r.column != "" {
		target = root.Get(r.column)
		if !target.Exists() {
			return nil, core.NewSeriesError(fmt.Sprintf("field %q not found in JSON", r.column))
		}
	} else if !root.IsArray() {
		target = root.Get("series")
		if !target.Exists() {
			return nil, core.NewSeriesError("expected a JSON array or a 'series' field")
		}
	}
	if !target.IsArray() {
		return nil, core.NewSeriesError("expected an array of numbers")
	}

	elems := target.Array()
	series := make([]float64, 0, len(elems))
	for i, elem := range elems {
		if elem.Type != gjson.Number {
			return nil, core.NewSeriesError(fmt.Sprintf("non-numeric element at index %d", i))
		}
		series = append(series, elem.Float())
	}
	if len(series) == 0 {
		return nil, core.NewSeriesError("no observations found")
	}
	return series, nil
}

// extractColumn converts raw string rows into a series, resolving which
// column to read and whether the first row is a header
func (r *Reader) extractColumn(rows [][]string) ([]float64, error) {
	headers := rows[0]

	col := -1
	start := 1
	if r.column != "" {
		for i, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), r.column) {
				col = i
				break
			}
		}
		if col < 0 {
			return nil, core.NewSeriesError(fmt.Sprintf("column %q not found", r.column))
		}
	} else {
		// A numeric first row means the file has no header.
		for i, cell := range headers {
			if isNumeric(cell) {
				col = i
				start = 0
				break
			}
		}
		if col < 0 {
			if len(rows) < 2 {
				return nil, core.NewSeriesError("no numeric data rows")
			}
			for i, cell := range rows[1] {
				if isNumeric(cell) {
					col = i
					break
				}
			}
		}
		if col < 0 {
			return nil, core.NewSeriesError("no numeric column detected")
		}
	}

	series := make([]float64, 0, len(rows)-start)
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if col >= len(row) || strings.TrimSpace(row[col]) == "" {
			return nil, core.NewSeriesError(fmt.Sprintf("missing value at row %d", i+1))
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil {
			return nil, core.NewSeriesError(fmt.Sprintf("non-numeric value %q at row %d", row[col], i+1))
		}
		series = append(series, v)
	}
	if len(series) == 0 {
		return nil, core.NewSeriesError("no observations found")
	}
	return series, nil
}

func isNumeric(cell string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	return err == nil
}

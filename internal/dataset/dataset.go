// Package dataset reads competitor ad exports into core.AdRecord values.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dhabedank/ad-agent/internal/core"
)

const (
	// ColumnText holds the ad copy.
	ColumnText = "Ad_Copy"
	// ColumnStartDate holds the first day the ad ran.
	ColumnStartDate = "Start_Date"

	// DefaultPath is used when no file is supplied.
	DefaultPath = "t1.csv"
)

// dateLayouts are tried in order; the first is the documented format.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Source describes where a dataset was loaded from.
type Source struct {
	Name      string
	IsDefault bool
}

// Load parses CSV data. Any missing column or malformed row rejects the whole file.
func Load(r io.Reader) ([]core.AdRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &core.InputValidationError{Field: "csv", Message: "file is empty"}
	}
	if err != nil {
		return nil, &core.InputValidationError{Field: "csv", Message: err.Error()}
	}

	textIdx, dateIdx := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch name {
		case ColumnText:
			textIdx = i
		case ColumnStartDate:
			dateIdx = i
		}
	}
	if textIdx < 0 || dateIdx < 0 {
		return nil, &core.InputValidationError{
			Field:   "columns",
			Message: fmt.Sprintf("CSV must contain '%s' and '%s' columns", ColumnStartDate, ColumnText),
		}
	}

	records := []core.AdRecord{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &core.InputValidationError{Field: "csv", Message: err.Error()}
		}

		line, _ := reader.FieldPos(0)
		start, err := parseDate(row[dateIdx])
		if err != nil {
			return nil, &core.InputValidationError{
				Field:   fmt.Sprintf("line %d %s", line, ColumnStartDate),
				Message: fmt.Sprintf("%q is not a date (expected YYYY-MM-DD)", row[dateIdx]),
			}
		}

		records = append(records, core.AdRecord{
			Text:      strings.TrimSpace(row[textIdx]),
			StartDate: start,
		})
	}

	return records, nil
}

// LoadFile reads a CSV file from disk.
func LoadFile(path string) ([]core.AdRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	records, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Resolve loads path, or DefaultPath when path is empty.
// A missing default file is reported as a validation error asking for an upload.
func Resolve(path string) ([]core.AdRecord, Source, error) {
	if path != "" {
		records, err := LoadFile(path)
		return records, Source{Name: path}, err
	}

	src := Source{Name: DefaultPath, IsDefault: true}
	records, err := LoadFile(DefaultPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, src, &core.InputValidationError{
			Field:   "data",
			Message: fmt.Sprintf("%s not found, please provide a competitor ad file", DefaultPath),
		}
	}
	return records, src, err
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

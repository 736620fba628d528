// Package xlsx reads spreadsheets and resolves their rows into slide
// records for the generation engine. Column inputs may be letters ("B") or
// header names; resolution produces stable canonical labels.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrEmptyWorkbook indicates the workbook has no sheets or no data rows.
var ErrEmptyWorkbook = errors.New("workbook has no data")

// ColumnError represents a column that could not be resolved.
type ColumnError struct {
	Input string
	Err   error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q: %v", e.Input, e.Err)
}

func (e *ColumnError) Unwrap() error { return e.Err }

// Workbook is one parsed spreadsheet: the first sheet's header row plus data
// rows, with the underlying file retained for embedded-picture extraction.
type Workbook struct {
	file    *excelize.File
	sheet   string
	headers []string
	rows    [][]string
	log     *slog.Logger
}

// Read parses a workbook from r. The first sheet's first row is the header;
// remaining rows are data.
func Read(r io.Reader, log *slog.Logger) (*Workbook, error) {
	if log == nil {
		log = slog.Default()
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	sheet := sheets[0]

	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(all) == 0 {
		return nil, ErrEmptyWorkbook
	}

	wb := &Workbook{
		file:    f,
		sheet:   sheet,
		headers: all[0],
		rows:    all[1:],
		log:     log,
	}
	log.Info("read workbook", "sheet", sheet, "columns", len(wb.headers), "rows", len(wb.rows))
	return wb, nil
}

// File exposes the underlying excelize file for embedded-image extraction.
func (w *Workbook) File() *excelize.File { return w.file }

// Sheet returns the active sheet name.
func (w *Workbook) Sheet() string { return w.sheet }

// Headers returns the header row.
func (w *Workbook) Headers() []string { return w.headers }

// RowCount returns the number of data rows.
func (w *Workbook) RowCount() int { return len(w.rows) }

// ResolveColumn resolves a column letter or header name to the header name.
// Letters resolve positionally; names match case-insensitively.
func (w *Workbook) ResolveColumn(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", &ColumnError{Input: input, Err: errors.New("empty column reference")}
	}

	if isColumnLetter(input) {
		n, err := excelize.ColumnNameToNumber(strings.ToUpper(input))
		if err == nil && n-1 < len(w.headers) {
			return w.headers[n-1], nil
		}
	}

	for _, h := range w.headers {
		if strings.EqualFold(h, input) {
			return h, nil
		}
	}

	return "", &ColumnError{Input: input, Err: errors.New("not found")}
}

// columnLetter returns the Excel letter for a resolved header name, or the
// name itself when it is not a header.
func (w *Workbook) columnLetter(header string) string {
	for i, h := range w.headers {
		if h == header {
			name, err := excelize.ColumnNumberToName(i + 1)
			if err == nil {
				return name
			}
		}
	}
	return header
}

func (w *Workbook) columnIndex(header string) int {
	for i, h := range w.headers {
		if h == header {
			return i
		}
	}
	return -1
}

func (w *Workbook) cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isColumnLetter(s string) bool {
	if len(s) == 0 || len(s) > 3 {
		return false
	}
	for _, c := range s {
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

// Preview returns up to n data rows for display.
func (w *Workbook) Preview(n int) [][]string {
	if n > len(w.rows) {
		n = len(w.rows)
	}
	return w.rows[:n]
}

// Summary describes the workbook's extent.
type Summary struct {
	Sheet   string
	Columns int
	Rows    int
	Headers []string
}

// Summarize returns a Summary of the workbook.
func (w *Workbook) Summarize() Summary {
	return Summary{
		Sheet:   w.sheet,
		Columns: len(w.headers),
		Rows:    len(w.rows),
		Headers: w.headers,
	}
}

// ParseColumns splits a comma-separated column list ("C,D, E") into
// trimmed, non-empty entries.
func ParseColumns(input string) []string {
	var cols []string
	for _, part := range strings.Split(input, ",") {
		if p := strings.TrimSpace(part); p != "" {
			cols = append(cols, p)
		}
	}
	return cols
}

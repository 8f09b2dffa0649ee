// Package sheets talks to the Google Sheet backing the document
// collection: reading raw rows and writing expedition summaries back.
// The domain core never sees this package directly; it consumes the
// document.RowSource and document.ExpeditionWriter interfaces.
package sheets

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptySheet indicates the sheet exists but has no data rows.
var ErrEmptySheet = errors.New("sheet is empty")

// Config locates the backing spreadsheet.
type Config struct {
	SpreadsheetID string `yaml:"spreadsheet_id"`
	SheetName     string `yaml:"sheet_name"`
}

func (c Config) validate() error {
	if strings.TrimSpace(c.SpreadsheetID) == "" {
		return fmt.Errorf("spreadsheet_id is required")
	}
	if strings.TrimSpace(c.SheetName) == "" {
		return fmt.Errorf("sheet_name is required")
	}
	return nil
}

// valuesToRows converts the API's loosely-typed cell values to trimmed
// strings. Numeric cells come back as unformatted values; everything is
// stringified since the row contract is positional strings.
func valuesToRows(values [][]any) [][]string {
	rows := make([][]string, 0, len(values))
	for _, value := range values {
		cells := make([]string, len(value))
		for i, cell := range value {
			cells[i] = strings.TrimSpace(fmt.Sprint(cell))
		}
		rows = append(rows, cells)
	}
	return rows
}

// stripHeaderAndBlank drops the header row and rows that are entirely
// blank. The core's ingest contract receives data rows only.
func stripHeaderAndBlank(rows [][]string) [][]string {
	if len(rows) == 0 {
		return nil
	}
	out := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if rowHasData(row) {
			out = append(out, row)
		}
	}
	return out
}

func rowHasData(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return true
		}
	}
	return false
}

// findAgendaRow locates the 1-indexed sheet row whose first cell equals
// agendaNo. The header row (index 0) is never a match candidate.
func findAgendaRow(values [][]string, agendaNo string) (int, bool) {
	for i, row := range values {
		if i == 0 {
			continue
		}
		if len(row) > 0 && strings.TrimSpace(row[0]) == agendaNo {
			return i + 1, true
		}
	}
	return 0, false
}

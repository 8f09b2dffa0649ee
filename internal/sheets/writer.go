package sheets

import (
	"context"
	"fmt"

	"github.com/adiwjy/dokpedisi/internal/repository"
	"google.golang.org/api/sheets/v4"
)

// Writer persists expedition summaries into the sheet. It locates the
// target row by agenda number in column A, then writes the derived
// summary block to columns F through I of that row. Implements
// document.ExpeditionWriter.
//
// Writes are last-write-wins on the backing sheet; there is no
// optimistic concurrency check against other writers.
type Writer struct {
	svc *sheets.Service
	cfg Config
}

// NewWriter creates a sheet-backed expedition writer.
func NewWriter(svc *sheets.Service, cfg Config) (*Writer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Writer{svc: svc, cfg: cfg}, nil
}

// WriteExpedition updates the target row's summary columns. The agenda
// column is re-read immediately before the write so row positions
// reflect the sheet's current state.
func (w *Writer) WriteExpedition(ctx context.Context, agendaNo, lastExpedition, currentLocation, status, signature string) error {
	lookupRange := fmt.Sprintf("%s!A:A", w.cfg.SheetName)
	resp, err := w.svc.Spreadsheets.Values.Get(w.cfg.SpreadsheetID, lookupRange).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("lookup agenda column: %w", err)
	}

	row, ok := findAgendaRow(valuesToRows(resp.Values), agendaNo)
	if !ok {
		return fmt.Errorf("agenda %s: %w", agendaNo, repository.ErrAgendaNotFound)
	}

	writeRange := fmt.Sprintf("%s!F%d:I%d", w.cfg.SheetName, row, row)
	_, err = w.svc.Spreadsheets.Values.Update(w.cfg.SpreadsheetID, writeRange, &sheets.ValueRange{
		Values: [][]any{{lastExpedition, currentLocation, status, signature}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", writeRange, err)
	}
	return nil
}

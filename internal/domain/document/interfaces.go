package document

import (
	"context"
	"time"
)

// RowSource supplies the raw tabular rows backing the collection. The
// header row is already stripped; each row is an ordered list of string
// cells. How rows are fetched (authenticated API, CSV export) is the
// source's concern.
type RowSource interface {
	FetchRows(ctx context.Context) ([][]string, error)
}

// ExpeditionWriter persists a newly-appended expedition to the external
// store, keyed by agenda number. The service supplies derived summary
// fields; the writer owns the actual write.
type ExpeditionWriter interface {
	WriteExpedition(ctx context.Context, agendaNo, lastExpedition, currentLocation, status, signature string) error
}

// SnapshotRepository caches the last reconciled collection so reads can
// be served while the external source is unreachable. Snapshots are
// replaced wholesale, mirroring the refresh semantics.
type SnapshotRepository interface {
	ReplaceAll(ctx context.Context, docs []Document) error
	LoadAll(ctx context.Context) ([]Document, error)
}

// ExpeditionLogRepository records each append operation for audit.
type ExpeditionLogRepository interface {
	Log(ctx context.Context, rec *ExpeditionRecord) error
	Recent(ctx context.Context, limit int) ([]ExpeditionRecord, error)
}

// ExpeditionRecord is one submitted expedition operation: a single event
// fanned out to one or more target documents.
type ExpeditionRecord struct {
	ID          string    `json:"id"`
	DocumentIDs []string  `json:"document_ids"`
	Recipient   string    `json:"recipient"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Notes       string    `json:"notes,omitempty"`
	Signature   string    `json:"signature,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	// WriteError holds the external write failure, if any. The local
	// append is not rolled back; local state may run ahead of the sheet.
	WriteError string `json:"write_error,omitempty"`
}

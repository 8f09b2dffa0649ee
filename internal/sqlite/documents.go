package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/adiwjy/dokpedisi/internal/domain/document"
)

// SnapshotRepository implements repository.SnapshotRepository for SQLite.
type SnapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// ReplaceAll swaps the stored snapshot for the given collection in one
// transaction. sort_index preserves collection order across reload.
func (r *SnapshotRepository) ReplaceAll(ctx context.Context, docs []document.Document) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expedition_history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}

	docStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (
			id, agenda_no, sender, perihal, created_at,
			current_status, current_recipient, last_expedition, signature,
			tanggal_terima, from_sheet, row_index, sort_index
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare document insert: %w", err)
	}
	defer docStmt.Close()

	entryStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expedition_history (
			document_id, ord, timestamp, recipient, signature, notes, details
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare history insert: %w", err)
	}
	defer entryStmt.Close()

	for i, doc := range docs {
		var tanggalTerima any
		if doc.TanggalTerima != nil {
			tanggalTerima = doc.TanggalTerima.UTC()
		}
		_, err := docStmt.ExecContext(ctx,
			doc.ID,
			doc.AgendaNo,
			doc.Sender,
			doc.Perihal,
			doc.CreatedAt.UTC(),
			string(doc.CurrentStatus),
			doc.CurrentRecipient,
			doc.LastExpedition,
			doc.SignatureRef,
			tanggalTerima,
			doc.FromSheet,
			doc.RowIndex,
			i,
		)
		if err != nil {
			return fmt.Errorf("insert document %s: %w", doc.ID, err)
		}

		for _, entry := range doc.History {
			_, err := entryStmt.ExecContext(ctx,
				doc.ID,
				entry.Order,
				entry.Timestamp.UTC(),
				entry.Recipient,
				entry.Signature,
				entry.Notes,
				entry.Details,
			)
			if err != nil {
				return fmt.Errorf("insert history %s/%d: %w", doc.ID, entry.Order, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// LoadAll restores the snapshot in its stored collection order.
func (r *SnapshotRepository) LoadAll(ctx context.Context) ([]document.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, agenda_no, sender, perihal, created_at,
			tanggal_terima, from_sheet, row_index
		FROM documents
		ORDER BY sort_index
	`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []document.Document
	index := make(map[string]int)
	for rows.Next() {
		var doc document.Document
		var tanggalTerima sql.NullTime
		err := rows.Scan(
			&doc.ID,
			&doc.AgendaNo,
			&doc.Sender,
			&doc.Perihal,
			&doc.CreatedAt,
			&tanggalTerima,
			&doc.FromSheet,
			&doc.RowIndex,
		)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc.CreatedAt = doc.CreatedAt.UTC()
		_ = tanggalTerima // recomputed from history below
		index[doc.ID] = len(docs)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	entryRows, err := r.db.QueryContext(ctx, `
		SELECT document_id, ord, timestamp, recipient, signature, notes, details
		FROM expedition_history
		ORDER BY document_id, ord
	`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var docID string
		var entry document.HistoryEntry
		var ts time.Time
		err := entryRows.Scan(&docID, &entry.Order, &ts, &entry.Recipient,
			&entry.Signature, &entry.Notes, &entry.Details)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entry.Timestamp = ts.UTC()
		if i, ok := index[docID]; ok {
			docs[i].History = append(docs[i].History, entry)
		}
	}
	if err := entryRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	// Derived columns are stored for ad-hoc inspection only; the model
	// recomputes them from history so the invariant cannot drift.
	for i := range docs {
		docs[i] = document.Rederive(docs[i])
	}
	return docs, nil
}

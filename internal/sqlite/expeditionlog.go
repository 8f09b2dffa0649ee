package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adiwjy/dokpedisi/internal/domain/document"
)

// ExpeditionLogRepository implements repository.ExpeditionLogRepository
// for SQLite.
type ExpeditionLogRepository struct {
	db *DB
}

// NewExpeditionLogRepository creates a new ExpeditionLogRepository
func NewExpeditionLogRepository(db *DB) *ExpeditionLogRepository {
	return &ExpeditionLogRepository{db: db}
}

// Log records one submitted expedition operation.
func (r *ExpeditionLogRepository) Log(ctx context.Context, rec *document.ExpeditionRecord) error {
	ids, err := json.Marshal(rec.DocumentIDs)
	if err != nil {
		return fmt.Errorf("marshal document ids: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO expedition_log (
			id, document_ids, recipient, date, time, notes, signature,
			submitted_at, write_error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		string(ids),
		rec.Recipient,
		rec.Date.UTC(),
		rec.Time,
		rec.Notes,
		rec.Signature,
		rec.SubmittedAt.UTC(),
		rec.WriteError,
	)
	if err != nil {
		return fmt.Errorf("insert expedition log: %w", err)
	}
	return nil
}

// Recent returns the latest operations, newest first.
func (r *ExpeditionLogRepository) Recent(ctx context.Context, limit int) ([]document.ExpeditionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, document_ids, recipient, date, time, notes, signature,
		       submitted_at, write_error
		FROM expedition_log
		ORDER BY submitted_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query expedition log: %w", err)
	}
	defer rows.Close()

	var recs []document.ExpeditionRecord
	for rows.Next() {
		var rec document.ExpeditionRecord
		var ids string
		err := rows.Scan(&rec.ID, &ids, &rec.Recipient, &rec.Date, &rec.Time,
			&rec.Notes, &rec.Signature, &rec.SubmittedAt, &rec.WriteError)
		if err != nil {
			return nil, fmt.Errorf("scan expedition log: %w", err)
		}
		if err := json.Unmarshal([]byte(ids), &rec.DocumentIDs); err != nil {
			return nil, fmt.Errorf("unmarshal document ids: %w", err)
		}
		rec.Date = rec.Date.UTC()
		rec.SubmittedAt = rec.SubmittedAt.UTC()
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expedition log: %w", err)
	}
	return recs, nil
}

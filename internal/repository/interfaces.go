package repository

import (
	"context"

	"github.com/adiwjy/dokpedisi/internal/domain/document"
)

// SnapshotRepository persists the last reconciled document collection.
// The snapshot is replaced wholesale on every write, mirroring how the
// collection itself is replaced on refresh.
type SnapshotRepository interface {
	ReplaceAll(ctx context.Context, docs []document.Document) error
	LoadAll(ctx context.Context) ([]document.Document, error)
}

// ExpeditionLogRepository records submitted expedition operations.
type ExpeditionLogRepository interface {
	Log(ctx context.Context, rec *document.ExpeditionRecord) error
	Recent(ctx context.Context, limit int) ([]document.ExpeditionRecord, error)
}

package mocks

import (
	"context"

	"github.com/adiwjy/dokpedisi/internal/domain/document"
	"github.com/stretchr/testify/mock"
)

// RowSource is a mock for document.RowSource.
type RowSource struct {
	mock.Mock
}

func (m *RowSource) FetchRows(ctx context.Context) ([][]string, error) {
	args := m.Called(ctx)
	if rows, ok := args.Get(0).([][]string); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

// ExpeditionWriter is a mock for document.ExpeditionWriter.
type ExpeditionWriter struct {
	mock.Mock
}

func (m *ExpeditionWriter) WriteExpedition(ctx context.Context, agendaNo, lastExpedition, currentLocation, status, signature string) error {
	args := m.Called(ctx, agendaNo, lastExpedition, currentLocation, status, signature)
	return args.Error(0)
}

// SnapshotRepository is a mock for repository.SnapshotRepository.
type SnapshotRepository struct {
	mock.Mock
}

func (m *SnapshotRepository) ReplaceAll(ctx context.Context, docs []document.Document) error {
	args := m.Called(ctx, docs)
	return args.Error(0)
}

func (m *SnapshotRepository) LoadAll(ctx context.Context) ([]document.Document, error) {
	args := m.Called(ctx)
	if docs, ok := args.Get(0).([]document.Document); ok {
		return docs, args.Error(1)
	}
	return nil, args.Error(1)
}

// ExpeditionLogRepository is a mock for repository.ExpeditionLogRepository.
type ExpeditionLogRepository struct {
	mock.Mock
}

func (m *ExpeditionLogRepository) Log(ctx context.Context, rec *document.ExpeditionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *ExpeditionLogRepository) Recent(ctx context.Context, limit int) ([]document.ExpeditionRecord, error) {
	args := m.Called(ctx, limit)
	if recs, ok := args.Get(0).([]document.ExpeditionRecord); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

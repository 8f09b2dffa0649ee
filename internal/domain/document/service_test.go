package document_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adiwjy/dokpedisi/internal/domain/document"
	"github.com/adiwjy/dokpedisi/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var sampleRows = [][]string{
	{"AG-001", "15/1/2024", "Finance", "Budget Request"},
	{"AG-002", "16/1/2024", "HR", "Onboarding", "", "",
		"Diterima pada 2024-01-17 jam 08:00. Catatan: -", "Jane", ""},
}

func newTestService(source *mocks.RowSource, writer *mocks.ExpeditionWriter) *document.Service {
	var w document.ExpeditionWriter
	if writer != nil {
		w = writer
	}
	return document.NewService(source, w, nil, nil, document.DefaultColumnMap(), nil)
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()
	source := &mocks.RowSource{}
	source.On("FetchRows", ctx).Return(sampleRows, nil)

	svc := newTestService(source, nil)
	docs, err := svc.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	// Sorted newest first.
	require.Equal(t, "AG-002", docs[0].AgendaNo)
	require.Equal(t, document.StatusSigned, docs[0].CurrentStatus)
	require.False(t, svc.LastSync().IsZero())
}

func TestService_Refresh_FetchErrorKeepsCollection(t *testing.T) {
	ctx := context.Background()
	source := &mocks.RowSource{}
	source.On("FetchRows", ctx).Return(sampleRows, nil).Once()
	source.On("FetchRows", ctx).Return(nil, errors.New("network down")).Once()

	svc := newTestService(source, nil)
	_, err := svc.Refresh(ctx)
	require.NoError(t, err)

	docs, err := svc.Refresh(ctx)
	require.ErrorIs(t, err, document.ErrFetch)
	// Previous snapshot still serves reads.
	require.Len(t, docs, 2)
	require.Len(t, svc.Documents(), 2)
}

func TestService_Refresh_ColdStartFallsBackToSnapshot(t *testing.T) {
	ctx := context.Background()
	source := &mocks.RowSource{}
	source.On("FetchRows", ctx).Return(nil, errors.New("network down"))

	cached := document.Ingest(sampleRows, document.DefaultColumnMap())
	snapshots := &mocks.SnapshotRepository{}
	snapshots.On("LoadAll", ctx).Return(cached, nil)

	svc := document.NewService(source, nil, snapshots, nil, document.DefaultColumnMap(), nil)
	docs, err := svc.Refresh(ctx)
	require.ErrorIs(t, err, document.ErrFetch)
	require.Len(t, docs, 2)
	snapshots.AssertCalled(t, "LoadAll", ctx)
}

func TestService_Refresh_KeepsLocalDocuments(t *testing.T) {
	ctx := context.Background()
	source := &mocks.RowSource{}
	source.On("FetchRows", ctx).Return(sampleRows, nil)

	svc := newTestService(source, nil)
	_, err := svc.Refresh(ctx)
	require.NoError(t, err)

	local, err := svc.CreateLocal(ctx, "LOCAL-01", "Walk-in", "Hand delivery", time.Now().UTC())
	require.NoError(t, err)

	docs, err := svc.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	kept, err := svc.Get(local.ID)
	require.NoError(t, err)
	require.False(t, kept.FromSheet)
}

func TestService_AppendExpedition_WritesBack(t *testing.T) {
	ctx := context.Background()
	source := &mocks.RowSource{}
	source.On("FetchRows", ctx).Return(sampleRows, nil)

	writer := &mocks.ExpeditionWriter{}
	writer.On("WriteExpedition", ctx, "AG-001",
		"Diterima pada 2024-01-20 jam 09:30. Catatan: Reviewed",
		"John Doe", "Signed", "").Return(nil)

	svc := newTestService(source, writer)
	_, err := svc.Refresh(ctx)
	require.NoError(t, err)

	updated, err := svc.AppendExpedition(ctx, document.AppendRequest{
		DocumentIDs: []string{"AG-001-0"},
		Event: document.ExpeditionEvent{
			Recipient: "John Doe",
			Date:      time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
			Time:      "09:30",
			Notes:     "Reviewed",
		},
	})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	require.Equal(t, "John Doe", updated[0].CurrentRecipient)
	writer.AssertExpectations(t)
}

func TestService_AppendExpedition_WriteFailureKeepsLocalAppend(t *testing.T) {
	ctx := context.Background()
	source := &mocks.RowSource{}
	source.On("FetchRows", ctx).Return(sampleRows, nil)

	writer := &mocks.ExpeditionWriter{}
	writer.On("WriteExpedition", ctx, "AG-001", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("quota exceeded"))

	logRepo := &mocks.ExpeditionLogRepository{}
	logRepo.On("Log", ctx, mock.MatchedBy(func(rec *document.ExpeditionRecord) bool {
		return rec.WriteError != ""
	})).Return(nil)

	svc := document.NewService(source, writer, nil, logRepo, document.DefaultColumnMap(), nil)
	_, err := svc.Refresh(ctx)
	require.NoError(t, err)

	updated, err := svc.AppendExpedition(ctx, document.AppendRequest{
		DocumentIDs: []string{"AG-001-0"},
		Event: document.ExpeditionEvent{
			Recipient: "John Doe",
			Date:      time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
			Time:      "09:30",
		},
	})
	require.ErrorIs(t, err, document.ErrWrite)
	// Local state runs ahead of the sheet rather than rolling back.
	require.Len(t, updated, 1)
	doc, getErr := svc.Get("AG-001-0")
	require.NoError(t, getErr)
	require.Len(t, doc.History, 1)
	logRepo.AssertExpectations(t)
}

func TestService_AppendExpedition_ValidationBeforeAnyEffect(t *testing.T) {
	ctx := context.Background()
	source := &mocks.RowSource{}
	source.On("FetchRows", ctx).Return(sampleRows, nil)

	writer := &mocks.ExpeditionWriter{}
	logRepo := &mocks.ExpeditionLogRepository{}

	svc := document.NewService(source, writer, nil, logRepo, document.DefaultColumnMap(), nil)
	_, err := svc.Refresh(ctx)
	require.NoError(t, err)

	_, err = svc.AppendExpedition(ctx, document.AppendRequest{
		Event: document.ExpeditionEvent{Recipient: "John", Time: "09:00"},
	})
	require.ErrorIs(t, err, document.ErrNoTargets)

	writer.AssertNotCalled(t, "WriteExpedition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	logRepo.AssertNotCalled(t, "Log", mock.Anything, mock.Anything)
	for _, doc := range svc.Documents() {
		if doc.AgendaNo == "AG-001" {
			require.Empty(t, doc.History)
		}
	}
}

func TestService_CreateLocal_RequiresAgendaNo(t *testing.T) {
	svc := newTestService(&mocks.RowSource{}, nil)
	_, err := svc.CreateLocal(context.Background(), "  ", "x", "y", time.Time{})
	require.ErrorIs(t, err, document.ErrMissingAgendaNo)
}

func TestService_SearchAndStats(t *testing.T) {
	ctx := context.Background()
	source := &mocks.RowSource{}
	source.On("FetchRows", ctx).Return(sampleRows, nil)

	svc := newTestService(source, nil)
	_, err := svc.Refresh(ctx)
	require.NoError(t, err)

	require.Len(t, svc.Search("jane"), 1)
	require.Len(t, svc.FindByIDs([]string{"AG-001-0"}), 1)

	stats := svc.Stats()
	require.Equal(t, 2, stats.TotalDocuments)
	require.False(t, stats.LastSync.IsZero())
}

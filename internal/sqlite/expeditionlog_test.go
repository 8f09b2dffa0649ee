package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/adiwjy/dokpedisi/internal/domain/document"
	"github.com/stretchr/testify/require"
)

func TestExpeditionLogRepository_LogAndRecent(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewExpeditionLogRepository(db)

	base := time.Date(2024, 1, 20, 9, 30, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := repo.Log(ctx, &document.ExpeditionRecord{
			ID:          string(rune('a' + i)),
			DocumentIDs: []string{"AG-001-0", "AG-002-1"},
			Recipient:   "John Doe",
			Date:        base,
			Time:        "09:30",
			Notes:       "Reviewed",
			SubmittedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	recs, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	// Newest first.
	require.Equal(t, "c", recs[0].ID)
	require.Equal(t, "b", recs[1].ID)
	require.Equal(t, []string{"AG-001-0", "AG-002-1"}, recs[0].DocumentIDs)
	require.Equal(t, "09:30", recs[0].Time)
	require.Empty(t, recs[0].WriteError)
}

func TestExpeditionLogRepository_WriteErrorKept(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewExpeditionLogRepository(db)

	err := repo.Log(ctx, &document.ExpeditionRecord{
		ID:          "x",
		DocumentIDs: []string{"AG-001-0"},
		Recipient:   "John",
		Date:        time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		Time:        "10:00",
		SubmittedAt: time.Now().UTC(),
		WriteError:  "agenda AG-001: quota exceeded",
	})
	require.NoError(t, err)

	recs, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "agenda AG-001: quota exceeded", recs[0].WriteError)
}

package document_test

import (
	"testing"
	"time"

	"github.com/adiwjy/dokpedisi/internal/domain/document"
	"github.com/stretchr/testify/require"
)

// row builds a sheet row with four header cells followed by history triplets.
func row(triplets ...[3]string) []string {
	cells := []string{"AG-001", "15/1/2024", "Finance", "Budget", "", ""}
	for _, tr := range triplets {
		cells = append(cells, tr[0], tr[1], tr[2])
	}
	return cells
}

func TestExtractHistory_LegacyTriplet(t *testing.T) {
	history := document.ExtractHistory(
		row([3]string{"Diterima pada 2024-01-16 jam 10:00. Catatan: -", "Jane", ""}),
		6,
	)
	require.Len(t, history, 1)

	entry := history[0]
	require.Equal(t, "Jane", entry.Recipient)
	require.Nil(t, entry.Notes)
	require.Nil(t, entry.Signature)
	require.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), entry.Timestamp)
	require.Equal(t, "Diterima pada 2024-01-16 jam 10:00. Catatan: -", entry.Details)
	require.Equal(t, 1, entry.Order)
}

func TestExtractHistory_NotesKeptVerbatim(t *testing.T) {
	history := document.ExtractHistory(
		row([3]string{"Diterima pada 2024-01-16 jam 10:00. Catatan: Urgent review", "Jane", "sig.jpg"}),
		6,
	)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].Notes)
	require.Equal(t, "Urgent review", *history[0].Notes)
	require.NotNil(t, history[0].Signature)
	require.Equal(t, "sig.jpg", *history[0].Signature)
}

func TestExtractHistory_TerminatesAtBlankGroup(t *testing.T) {
	// The second group has no recipient; the populated third group must
	// never be consulted.
	history := document.ExtractHistory(
		row(
			[3]string{"Diterima pada 2024-01-16. Catatan: -", "Jane", ""},
			[3]string{"Diterima pada 2024-01-17. Catatan: -", "", ""},
			[3]string{"Diterima pada 2024-01-18. Catatan: -", "Bob", "sig.png"},
		),
		6,
	)
	require.Len(t, history, 1)
	require.Equal(t, "Jane", history[0].Recipient)
}

func TestExtractHistory_TerminatesAtBlankDetails(t *testing.T) {
	history := document.ExtractHistory(
		row(
			[3]string{"", "Jane", ""},
			[3]string{"Diterima pada 2024-01-18. Catatan: -", "Bob", ""},
		),
		6,
	)
	require.Empty(t, history)
}

func TestExtractHistory_OrderIsSequential(t *testing.T) {
	history := document.ExtractHistory(
		row(
			[3]string{"Diterima pada 2024-01-16 jam 09:00. Catatan: -", "Jane", ""},
			[3]string{"Diterima pada 2024-01-17 jam 10:30. Catatan: forwarded", "Bob", ""},
			[3]string{"Diterima pada 2024-01-18. Catatan: -", "Carol", ""},
		),
		6,
	)
	require.Len(t, history, 3)
	for i, entry := range history {
		require.Equal(t, i+1, entry.Order)
	}
}

func TestExtractHistory_MalformedDateUsesSentinel(t *testing.T) {
	history := document.ExtractHistory(
		row([3]string{"Diterima pada whenever. Catatan: -", "Jane", ""}),
		6,
	)
	require.Len(t, history, 1)
	require.Equal(t, document.EpochSentinel, history[0].Timestamp)
}

func TestExtractHistory_TruncatedTriplet(t *testing.T) {
	// Row ends after the details cell; the missing recipient terminates.
	cells := append(row(), "Diterima pada 2024-01-16. Catatan: -")
	require.Empty(t, document.ExtractHistory(cells, 6))
}

func TestComposeDetails_RoundTrip(t *testing.T) {
	notes := "Reviewed"
	details := document.ComposeDetails(
		time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), "09:30", &notes,
	)
	require.Equal(t, "Diterima pada 2024-01-20 jam 09:30. Catatan: Reviewed", details)

	history := document.ExtractHistory([]string{details, "John Doe", ""}, 0)
	require.Len(t, history, 1)
	require.Equal(t, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), history[0].Timestamp)
	require.NotNil(t, history[0].Notes)
	require.Equal(t, "Reviewed", *history[0].Notes)
}

func TestComposeDetails_NoNotesWritesDash(t *testing.T) {
	details := document.ComposeDetails(
		time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), "09:30", nil,
	)
	require.Equal(t, "Diterima pada 2024-01-20 jam 09:30. Catatan: -", details)
}

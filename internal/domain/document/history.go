package document

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	detailsPrefix      = "Diterima pada "
	detailsTimeSep     = " jam "
	detailsNotesMarker = "Catatan:"
	notesPlaceholder   = "-"
)

// ExtractHistory reads the repeating expedition groups from a raw row:
// fixed-size triplets of (details, recipient, signature) starting at
// historyStart. Extraction stops at the first group missing details or a
// recipient; later cells are never consulted. Append-only writing never
// leaves gaps, so a blank group terminates the chain.
func ExtractHistory(cells []string, historyStart int) []HistoryEntry {
	var history []HistoryEntry

	for i := historyStart; i < len(cells); i += 3 {
		details := cellAt(cells, i)
		recipient := cellAt(cells, i+1)
		signature := cellAt(cells, i+2)

		if details == "" || recipient == "" {
			break
		}

		timestamp, notes := parseDetails(details)

		entry := HistoryEntry{
			Timestamp: timestamp,
			Recipient: recipient,
			Notes:     notes,
			Details:   details,
			Order:     len(history) + 1,
		}
		if signature != "" {
			entry.Signature = &signature
		}
		history = append(history, entry)
	}

	return history
}

// parseDetails decomposes the legacy composed string
// "Diterima pada <YYYY-MM-DD>[ jam <HH:MM>]. Catatan: <notes-or-dash>".
// The embedded date is dash-delimited year-first, the inverse of the
// top-level row format. A dash note means "no notes" and maps to nil.
func parseDetails(details string) (time.Time, *string) {
	var notes *string
	if idx := strings.Index(details, detailsNotesMarker); idx >= 0 {
		text := strings.TrimSpace(details[idx+len(detailsNotesMarker):])
		if text != "" && text != notesPlaceholder {
			notes = &text
		}
	}

	datePart := details
	if idx := strings.Index(datePart, ". "+detailsNotesMarker); idx >= 0 {
		datePart = datePart[:idx]
	}
	datePart = strings.TrimPrefix(datePart, detailsPrefix)
	if idx := strings.Index(datePart, detailsTimeSep); idx >= 0 {
		datePart = datePart[:idx]
	}
	datePart = strings.TrimSpace(datePart)

	return parseHistoryDate(datePart), notes
}

// parseHistoryDate parses the YYYY-MM-DD convention used inside details
// text, falling back to the epoch sentinel.
func parseHistoryDate(s string) time.Time {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return EpochSentinel
	}
	year, errY := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	day, errD := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errY != nil || errM != nil || errD != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return EpochSentinel
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// ComposeDetails builds the canonical details string for a new entry. New
// appends synthesize the same template legacy producers wrote, so older
// readers keep working.
func ComposeDetails(date time.Time, timeOfDay string, notes *string) string {
	text := notesPlaceholder
	if notes != nil && strings.TrimSpace(*notes) != "" {
		text = strings.TrimSpace(*notes)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s", detailsPrefix, date.UTC().Format("2006-01-02"))
	if timeOfDay != "" {
		fmt.Fprintf(&b, "%s%s", detailsTimeSep, timeOfDay)
	}
	fmt.Fprintf(&b, ". %s %s", detailsNotesMarker, text)
	return b.String()
}

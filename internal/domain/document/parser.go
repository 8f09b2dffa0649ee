package document

import (
	"strconv"
	"strings"
	"time"
)

// ColumnMap locates the semantic columns in a sheet row. Column layout is
// deployment configuration, not code: positions have shifted across schema
// versions of the backing sheet.
type ColumnMap struct {
	AgendaNo     int `yaml:"agenda_no" json:"agenda_no"`
	CreatedAt    int `yaml:"created_at" json:"created_at"`
	Sender       int `yaml:"sender" json:"sender"`
	Subject      int `yaml:"subject" json:"subject"`
	HistoryStart int `yaml:"history_start" json:"history_start"`
}

// DefaultColumnMap is the legacy fixed layout: agenda number, date, sender
// and perihal in columns A-D, expedition triplets starting at column G.
func DefaultColumnMap() ColumnMap {
	return ColumnMap{
		AgendaNo:     0,
		CreatedAt:    1,
		Sender:       2,
		Subject:      3,
		HistoryStart: 6,
	}
}

// RawFields is the typed header portion of one parsed row.
type RawFields struct {
	AgendaNo  string
	Sender    string
	Perihal   string
	CreatedAt time.Time
	// DateSource records which parse rule produced CreatedAt.
	DateSource DateSource
}

// DateSource identifies which parsing rule produced a date value.
type DateSource int

const (
	// DateDMY means the primary D/M/YYYY legacy format parsed.
	DateDMY DateSource = iota
	// DateFallback means a generic layout parsed after D/M/YYYY failed.
	DateFallback
	// DateSentinel means nothing parsed and the epoch sentinel was used.
	DateSentinel
)

// ParseRow converts one raw row into typed header fields. A row whose
// agenda-number cell is blank returns nil: the caller filters it, it is
// not an error. Pure function, tolerant of short rows.
func ParseRow(cells []string, cm ColumnMap) *RawFields {
	agendaNo := cellAt(cells, cm.AgendaNo)
	if agendaNo == "" {
		return nil
	}

	createdAt, source := parseRowDate(cellAt(cells, cm.CreatedAt))

	return &RawFields{
		AgendaNo:   agendaNo,
		Sender:     cellAt(cells, cm.Sender),
		Perihal:    cellAt(cells, cm.Subject),
		CreatedAt:  createdAt,
		DateSource: source,
	}
}

// fallbackLayouts approximates the generic locale parse legacy rows relied
// on when the slash format was missing.
var fallbackLayouts = []string{
	"2006-01-02",
	"2 January 2006",
	"January 2, 2006",
	"02-01-2006",
}

// parseRowDate parses the top-level row date. Primary format is D/M/YYYY
// (slash-delimited, day first). This is intentionally the inverse of the
// YYYY-MM-DD convention embedded in history details text; the two formats
// have different producers and must not be unified.
func parseRowDate(s string) (time.Time, DateSource) {
	if s == "" {
		return EpochSentinel, DateSentinel
	}

	if parts := strings.Split(s, "/"); len(parts) == 3 {
		day, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
		month, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
		year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
		if errD == nil && errM == nil && errY == nil && month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), DateDMY
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, DateFallback
		}
	}

	return EpochSentinel, DateSentinel
}

// cellAt returns the trimmed cell at index i, or "" when out of range.
func cellAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

// rowIsBlank reports whether every cell is empty or whitespace.
func rowIsBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

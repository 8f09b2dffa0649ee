package document

import (
	"sort"
	"strings"
	"time"
)

// Ingest reconciles raw sheet rows (header already stripped) into
// canonical documents. Rows without an agenda number and all-blank rows
// are filtered, not errors. The result is sorted by creation date
// descending; rows with equal dates keep their original relative order.
func Ingest(rows [][]string, cm ColumnMap) []Document {
	docs := make([]Document, 0, len(rows))
	for i, cells := range rows {
		if rowIsBlank(cells) {
			continue
		}
		fields := ParseRow(cells, cm)
		if fields == nil {
			continue
		}
		history := ExtractHistory(cells, cm.HistoryStart)
		docs = append(docs, AssembleDocument(*fields, history, i))
	}

	sort.SliceStable(docs, func(a, b int) bool {
		return docs[a].CreatedAt.After(docs[b].CreatedAt)
	})
	return docs
}

// Collection is an ordered set of documents. All mutation goes through
// AppendExpedition; reads return copies so callers cannot alias internal
// history slices.
type Collection struct {
	docs []Document
}

// NewCollection wraps an already-ordered document slice.
func NewCollection(docs []Document) *Collection {
	return &Collection{docs: docs}
}

// Len returns the number of documents.
func (c *Collection) Len() int { return len(c.docs) }

// All returns every document in collection order.
func (c *Collection) All() []Document {
	out := make([]Document, len(c.docs))
	for i, d := range c.docs {
		out[i] = d.clone()
	}
	return out
}

// Get returns the document with the given id.
func (c *Collection) Get(id string) (Document, error) {
	for _, d := range c.docs {
		if d.ID == id {
			return d.clone(), nil
		}
	}
	return Document{}, ErrNotFound
}

// FindByIDs returns matching documents preserving collection order.
// Unknown ids are silently omitted.
func (c *Collection) FindByIDs(ids []string) []Document {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	var out []Document
	for _, d := range c.docs {
		if _, ok := want[d.ID]; ok {
			out = append(out, d.clone())
		}
	}
	return out
}

// Search returns documents whose agenda number, sender, perihal, current
// recipient, or any history recipient contains the term,
// case-insensitively. Pagination is a presentation concern layered above.
func (c *Collection) Search(term string) []Document {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return c.All()
	}

	var out []Document
	for _, d := range c.docs {
		if matchesTerm(d, needle) {
			out = append(out, d.clone())
		}
	}
	return out
}

func matchesTerm(d Document, needle string) bool {
	for _, field := range []string{d.AgendaNo, d.Sender, d.Perihal, d.CurrentRecipient} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	for _, entry := range d.History {
		if strings.Contains(strings.ToLower(entry.Recipient), needle) {
			return true
		}
	}
	return false
}

// Add inserts a locally-created document, keeping the creation-date
// descending order with stable tie-breaking.
func (c *Collection) Add(doc Document) {
	doc.recalcDerived()
	idx := sort.Search(len(c.docs), func(i int) bool {
		return doc.CreatedAt.After(c.docs[i].CreatedAt)
	})
	c.docs = append(c.docs, Document{})
	copy(c.docs[idx+1:], c.docs[idx:])
	c.docs[idx] = doc
}

// ExpeditionEvent is the hand-off data appended to target documents.
type ExpeditionEvent struct {
	Recipient string
	Date      time.Time
	Time      string // "HH:MM" wall-clock, recorded verbatim
	Notes     string // blank means absent
	Signature string // blank means absent
}

// Validate checks the event before any mutation happens. Append is
// all-or-nothing: either every target gains an entry or none does.
func (ev ExpeditionEvent) Validate(targetIDs []string) error {
	if len(targetIDs) == 0 {
		return ErrNoTargets
	}
	if strings.TrimSpace(ev.Recipient) == "" {
		return ErrMissingRecipient
	}
	if strings.TrimSpace(ev.Time) == "" {
		return ErrMissingTime
	}
	return nil
}

// AppendExpedition appends one history entry to each target document and
// recomputes the derived fields from the new tail. Non-targeted documents
// are untouched; unknown ids are skipped. Returns the updated documents
// in collection order.
func (c *Collection) AppendExpedition(targetIDs []string, ev ExpeditionEvent) ([]Document, error) {
	if err := ev.Validate(targetIDs); err != nil {
		return nil, err
	}

	targets := make(map[string]struct{}, len(targetIDs))
	for _, id := range targetIDs {
		targets[id] = struct{}{}
	}

	entry := buildEntry(ev)

	var updated []Document
	for i := range c.docs {
		if _, ok := targets[c.docs[i].ID]; !ok {
			continue
		}
		next := entry
		next.Order = len(c.docs[i].History) + 1
		c.docs[i].History = append(c.docs[i].History, next)
		c.docs[i].recalcDerived()
		updated = append(updated, c.docs[i].clone())
	}
	return updated, nil
}

// buildEntry normalizes the event into a history entry with the composed
// display details. Order is assigned per target at append time.
func buildEntry(ev ExpeditionEvent) HistoryEntry {
	recipient := strings.TrimSpace(ev.Recipient)

	var notes *string
	if text := strings.TrimSpace(ev.Notes); text != "" && text != notesPlaceholder {
		notes = &text
	}
	var signature *string
	if sig := strings.TrimSpace(ev.Signature); sig != "" {
		signature = &sig
	}

	return HistoryEntry{
		Timestamp: combineDateTime(ev.Date, ev.Time),
		Recipient: recipient,
		Notes:     notes,
		Signature: signature,
		Details:   ComposeDetails(ev.Date, strings.TrimSpace(ev.Time), notes),
	}
}

// combineDateTime folds an "HH:MM" wall-clock string into the date. A
// malformed time leaves the date-only timestamp; legacy rows only
// guarantee date granularity anyway.
func combineDateTime(date time.Time, timeOfDay string) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	clock, err := time.Parse("15:04", strings.TrimSpace(timeOfDay))
	if err != nil {
		return day
	}
	return day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
}

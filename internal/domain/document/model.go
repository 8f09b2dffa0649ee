package document

import "time"

// Status is the derived workflow status of a document.
type Status string

const (
	// StatusSigned means at least one expedition has been recorded.
	StatusSigned Status = "Signed"
	// StatusUnknown means the document has no expedition history yet.
	StatusUnknown Status = "Unknown"
)

// EpochSentinel is the fallback value for unparsable dates. Legacy rows
// carry malformed dates; ingestion must not fail on them.
var EpochSentinel = time.Unix(0, 0).UTC()

// HistoryEntry is one hand-off event in a document's expedition history.
// History is append-only: entries are never reordered or deleted, and
// Order is the 1-based position with no gaps.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Recipient string    `json:"recipient"`
	Signature *string   `json:"signature,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	// Details is the original composed display string the entry was parsed
	// from (or synthesized at append time). It is a display convenience,
	// never the source of truth for the other fields.
	Details string `json:"details,omitempty"`
	Order   int    `json:"order"`
}

// Document is a tracked incoming document reconciled from one sheet row.
type Document struct {
	ID        string    `json:"id"`
	AgendaNo  string    `json:"agenda_no"`
	Sender    string    `json:"sender"`
	Perihal   string    `json:"perihal"`
	CreatedAt time.Time `json:"created_at"`

	History []HistoryEntry `json:"expedition_history"`

	// Derived from the history tail; never independently settable.
	CurrentStatus    Status     `json:"current_status"`
	Position         Status     `json:"position"` // legacy alias of CurrentStatus
	CurrentRecipient string     `json:"current_recipient,omitempty"`
	LastExpedition   string     `json:"last_expedition,omitempty"`
	SignatureRef     string     `json:"signature,omitempty"`
	TanggalTerima    *time.Time `json:"tanggal_terima,omitempty"`

	// FromSheet marks documents reconciled from the external sheet. Sheet
	// documents are replaced wholesale on refresh; local documents survive.
	FromSheet bool `json:"from_sheet"`
	RowIndex  int  `json:"row_index"`
}

// recalcDerived recomputes every derived field from the history tail.
// Idempotent: calling it any number of times yields the same snapshot.
func (d *Document) recalcDerived() {
	if len(d.History) == 0 {
		d.CurrentStatus = StatusUnknown
		d.Position = StatusUnknown
		d.CurrentRecipient = ""
		d.LastExpedition = ""
		d.SignatureRef = ""
		d.TanggalTerima = nil
		return
	}

	last := d.History[len(d.History)-1]
	d.CurrentStatus = StatusSigned
	d.Position = StatusSigned
	d.CurrentRecipient = last.Recipient
	d.LastExpedition = last.Details
	d.SignatureRef = ""
	if last.Signature != nil {
		d.SignatureRef = *last.Signature
	}
	ts := last.Timestamp
	d.TanggalTerima = &ts
}

// Rederive returns a copy with every derived field recomputed from its
// history. Storage layers use it when rehydrating documents so persisted
// derived columns can never drift from the history they summarize.
func Rederive(d Document) Document {
	d.recalcDerived()
	return d
}

// clone returns a deep copy so collection reads never alias internal state.
func (d Document) clone() Document {
	out := d
	if d.History != nil {
		out.History = make([]HistoryEntry, len(d.History))
		copy(out.History, d.History)
	}
	if d.TanggalTerima != nil {
		ts := *d.TanggalTerima
		out.TanggalTerima = &ts
	}
	return out
}

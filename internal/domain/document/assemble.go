package document

import "fmt"

// AssembleDocument combines parsed header fields and extracted history
// into one canonical document. The id composes the agenda number with the
// row position: agenda numbers are reused across rows in practice, and
// re-ingesting the same sheet state must yield the same ids.
func AssembleDocument(fields RawFields, history []HistoryEntry, rowIndex int) Document {
	doc := Document{
		ID:        fmt.Sprintf("%s-%d", fields.AgendaNo, rowIndex),
		AgendaNo:  fields.AgendaNo,
		Sender:    fields.Sender,
		Perihal:   fields.Perihal,
		CreatedAt: fields.CreatedAt,
		History:   history,
		FromSheet: true,
		RowIndex:  rowIndex,
	}
	doc.recalcDerived()
	return doc
}

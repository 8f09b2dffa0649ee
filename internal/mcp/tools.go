package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/adiwjy/dokpedisi/internal/domain/document"
)

// DocumentOutput is a document as presented to MCP clients.
type DocumentOutput struct {
	ID               string        `json:"id"`
	AgendaNo         string        `json:"agenda_no"`
	Sender           string        `json:"sender"`
	Perihal          string        `json:"perihal"`
	CreatedAt        string        `json:"created_at"`
	CurrentStatus    string        `json:"current_status"`
	CurrentRecipient string        `json:"current_recipient,omitempty"`
	LastExpedition   string        `json:"last_expedition,omitempty"`
	History          []EntryOutput `json:"expedition_history,omitempty"`
}

// EntryOutput is one expedition history entry.
type EntryOutput struct {
	Timestamp string `json:"timestamp"`
	Recipient string `json:"recipient"`
	Notes     string `json:"notes,omitempty"`
	Details   string `json:"details,omitempty"`
	Order     int    `json:"order"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of documents to return (default 50)"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// SearchDocumentsInput is the input schema for the search_documents tool.
type SearchDocumentsInput struct {
	Query string `json:"query" jsonschema:"substring matched against agenda number, sender, subject and recipients"`
}

// GetDocumentInput is the input schema for the get_document tool.
type GetDocumentInput struct {
	ID string `json:"id" jsonschema:"document identifier"`
}

// GetDocumentOutput is the output schema for the get_document tool.
type GetDocumentOutput struct {
	Document DocumentOutput `json:"document"`
}

// RecordExpeditionInput is the input schema for the record_expedition tool.
type RecordExpeditionInput struct {
	DocumentIDs []string `json:"document_ids" jsonschema:"documents the expedition applies to"`
	Recipient   string   `json:"recipient" jsonschema:"person or unit receiving the documents"`
	Date        string   `json:"date" jsonschema:"hand-off date, YYYY-MM-DD or RFC 3339"`
	Time        string   `json:"time" jsonschema:"hand-off wall-clock time, HH:MM"`
	Notes       string   `json:"notes,omitempty" jsonschema:"optional free-form notes"`
}

// RecordExpeditionOutput is the output schema for the record_expedition tool.
type RecordExpeditionOutput struct {
	Updated    []DocumentOutput `json:"updated"`
	WriteError string           `json:"write_error,omitempty"`
}

// RefreshDocumentsInput is the input schema for the refresh_documents tool.
type RefreshDocumentsInput struct{}

// RefreshDocumentsOutput is the output schema for the refresh_documents tool.
type RefreshDocumentsOutput struct {
	Count    int    `json:"count"`
	LastSync string `json:"last_sync,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List tracked documents, newest first",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Search documents by agenda number, sender, subject or recipient",
	}, s.handleSearchDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Fetch one document with its full expedition history",
	}, s.handleGetDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "record_expedition",
		Description: "Record a document hand-off against one or more documents",
	}, s.handleRecordExpedition)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "refresh_documents",
		Description: "Re-fetch the source spreadsheet and rebuild the document collection",
	}, s.handleRefreshDocuments)
}

func (s *Server) handleListDocuments(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}

	docs := s.svc.Documents()
	if len(docs) > limit {
		docs = docs[:limit]
	}

	return nil, ListDocumentsOutput{
		Documents: toOutputs(docs, false),
		Count:     len(docs),
	}, nil
}

func (s *Server) handleSearchDocuments(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SearchDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs := s.svc.Search(input.Query)
	return nil, ListDocumentsOutput{
		Documents: toOutputs(docs, false),
		Count:     len(docs),
	}, nil
}

func (s *Server) handleGetDocument(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input GetDocumentInput,
) (*mcp.CallToolResult, GetDocumentOutput, error) {
	doc, err := s.svc.Get(input.ID)
	if err != nil {
		return nil, GetDocumentOutput{}, err
	}
	return nil, GetDocumentOutput{Document: toOutput(doc, true)}, nil
}

func (s *Server) handleRecordExpedition(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RecordExpeditionInput,
) (*mcp.CallToolResult, RecordExpeditionOutput, error) {
	date, err := parseEventDate(input.Date)
	if err != nil {
		return nil, RecordExpeditionOutput{}, err
	}

	updated, err := s.svc.AppendExpedition(ctx, document.AppendRequest{
		DocumentIDs: input.DocumentIDs,
		Event: document.ExpeditionEvent{
			Recipient: input.Recipient,
			Date:      date,
			Time:      input.Time,
			Notes:     input.Notes,
		},
	})
	if err != nil {
		// The local append succeeded when ErrWrite comes back; surface the
		// sheet failure without discarding the result.
		if len(updated) > 0 {
			return nil, RecordExpeditionOutput{
				Updated:    toOutputs(updated, true),
				WriteError: err.Error(),
			}, nil
		}
		return nil, RecordExpeditionOutput{}, err
	}

	return nil, RecordExpeditionOutput{Updated: toOutputs(updated, true)}, nil
}

func (s *Server) handleRefreshDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ RefreshDocumentsInput,
) (*mcp.CallToolResult, RefreshDocumentsOutput, error) {
	docs, err := s.svc.Refresh(ctx)
	if err != nil {
		return nil, RefreshDocumentsOutput{}, err
	}
	stats := s.svc.Stats()
	return nil, RefreshDocumentsOutput{
		Count:    len(docs),
		LastSync: formatTime(stats.LastSync),
	}, nil
}

func toOutputs(docs []document.Document, withHistory bool) []DocumentOutput {
	out := make([]DocumentOutput, len(docs))
	for i := range docs {
		out[i] = toOutput(docs[i], withHistory)
	}
	return out
}

func toOutput(d document.Document, withHistory bool) DocumentOutput {
	out := DocumentOutput{
		ID:               d.ID,
		AgendaNo:         d.AgendaNo,
		Sender:           d.Sender,
		Perihal:          d.Perihal,
		CreatedAt:        formatTime(d.CreatedAt),
		CurrentStatus:    string(d.CurrentStatus),
		CurrentRecipient: d.CurrentRecipient,
		LastExpedition:   d.LastExpedition,
	}
	if withHistory {
		out.History = make([]EntryOutput, len(d.History))
		for i, e := range d.History {
			entry := EntryOutput{
				Timestamp: formatTime(e.Timestamp),
				Recipient: e.Recipient,
				Details:   e.Details,
				Order:     e.Order,
			}
			if e.Notes != nil {
				entry.Notes = *e.Notes
			}
			out.History[i] = entry
		}
	}
	return out
}

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adiwjy/dokpedisi/internal/domain/document"
)

type stubService struct {
	docs      []document.Document
	appendErr error
	appended  *document.AppendRequest
	refreshed bool
}

func (s *stubService) Documents() []document.Document { return s.docs }

func (s *stubService) Get(id string) (document.Document, error) {
	for _, d := range s.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return document.Document{}, document.ErrNotFound
}

func (s *stubService) Search(term string) []document.Document {
	var out []document.Document
	for _, d := range s.docs {
		if d.AgendaNo == term {
			out = append(out, d)
		}
	}
	return out
}

func (s *stubService) Refresh(_ context.Context) ([]document.Document, error) {
	s.refreshed = true
	return s.docs, nil
}

func (s *stubService) AppendExpedition(_ context.Context, req document.AppendRequest) ([]document.Document, error) {
	if err := req.Event.Validate(req.DocumentIDs); err != nil {
		return nil, err
	}
	s.appended = &req
	if s.appendErr != nil {
		return s.docs, fmt.Errorf("%w: sheet unavailable", s.appendErr)
	}
	return s.docs, nil
}

func (s *stubService) CreateLocal(_ context.Context, agendaNo, sender, perihal string, createdAt time.Time) (document.Document, error) {
	if agendaNo == "" {
		return document.Document{}, document.ErrMissingAgendaNo
	}
	return document.Document{ID: "local-1", AgendaNo: agendaNo, Sender: sender, Perihal: perihal, CreatedAt: createdAt}, nil
}

func (s *stubService) RecentExpeditions(_ context.Context, _ int) ([]document.ExpeditionRecord, error) {
	return nil, nil
}

func (s *stubService) Stats() document.Stats {
	return document.Stats{TotalDocuments: len(s.docs)}
}

func newTestServer(t *testing.T, svc *stubService) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(NewServer(svc, nil, nil))
	t.Cleanup(server.Close)
	return server
}

func sampleDocs() []document.Document {
	return []document.Document{
		{ID: "AG-001-2", AgendaNo: "AG-001", Sender: "Finance", Perihal: "Budget Request"},
		{ID: "AG-002-3", AgendaNo: "AG-002", Sender: "HR", Perihal: "Leave Policy"},
	}
}

func TestListDocuments(t *testing.T) {
	server := newTestServer(t, &stubService{docs: sampleDocs()})

	resp, err := http.Get(server.URL + "/api/documents")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var docs []document.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&docs))
	require.Len(t, docs, 2)
	require.Equal(t, "AG-001", docs[0].AgendaNo)
}

func TestGetDocument(t *testing.T) {
	server := newTestServer(t, &stubService{docs: sampleDocs()})

	resp, err := http.Get(server.URL + "/api/documents/AG-002-3")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc document.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	require.Equal(t, "AG-002", doc.AgendaNo)
}

func TestGetDocument_NotFound(t *testing.T) {
	server := newTestServer(t, &stubService{docs: sampleDocs()})

	resp, err := http.Get(server.URL + "/api/documents/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSearchDocuments_MissingQuery(t *testing.T) {
	server := newTestServer(t, &stubService{docs: sampleDocs()})

	resp, err := http.Get(server.URL + "/api/documents/search")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchDocuments(t *testing.T) {
	server := newTestServer(t, &stubService{docs: sampleDocs()})

	resp, err := http.Get(server.URL + "/api/documents/search?q=AG-002")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var docs []document.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&docs))
	require.Len(t, docs, 1)
}

func TestAppendExpedition(t *testing.T) {
	svc := &stubService{docs: sampleDocs()}
	server := newTestServer(t, svc)

	body, _ := json.Marshal(map[string]any{
		"documentIds": []string{"AG-001-2"},
		"recipient":   "John Doe",
		"date":        "2024-01-20T00:00:00Z",
		"time":        "09:30",
		"notes":       "Reviewed",
	})

	resp, err := http.Post(server.URL+"/api/expeditions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, svc.appended)
	require.Equal(t, "John Doe", svc.appended.Event.Recipient)
	require.Equal(t, "09:30", svc.appended.Event.Time)
}

func TestAppendExpedition_ValidationError(t *testing.T) {
	server := newTestServer(t, &stubService{docs: sampleDocs()})

	body, _ := json.Marshal(map[string]any{
		"documentIds": []string{"AG-001-2"},
		"date":        "2024-01-20T00:00:00Z",
		"time":        "09:30",
	})

	resp, err := http.Post(server.URL+"/api/expeditions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAppendExpedition_WriteFailureStillReturnsDocs(t *testing.T) {
	svc := &stubService{docs: sampleDocs(), appendErr: document.ErrWrite}
	server := newTestServer(t, svc)

	body, _ := json.Marshal(map[string]any{
		"documentIds": []string{"AG-001-2"},
		"recipient":   "John Doe",
		"date":        "2024-01-20T00:00:00Z",
		"time":        "09:30",
	})

	resp, err := http.Post(server.URL+"/api/expeditions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out appendExpeditionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Updated, 2)
	require.Contains(t, out.WriteError, "sheet unavailable")
}

func TestCreateDocument(t *testing.T) {
	server := newTestServer(t, &stubService{})

	body, _ := json.Marshal(map[string]any{
		"agendaNo": "AG-100",
		"sender":   "Legal",
		"perihal":  "Contract Review",
	})

	resp, err := http.Post(server.URL+"/api/documents", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var doc document.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	require.Equal(t, "AG-100", doc.AgendaNo)
}

func TestCreateDocument_MissingAgendaNo(t *testing.T) {
	server := newTestServer(t, &stubService{})

	resp, err := http.Post(server.URL+"/api/documents", "application/json", bytes.NewReader([]byte(`{}`)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefresh(t *testing.T) {
	svc := &stubService{docs: sampleDocs()}
	server := newTestServer(t, svc)

	resp, err := http.Post(server.URL+"/api/refresh", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, svc.refreshed)
}

func TestHealth(t *testing.T) {
	server := newTestServer(t, &stubService{docs: sampleDocs()})

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, "ok", out["status"])
	require.Equal(t, float64(2), out["documents"])
}

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/adiwjy/dokpedisi/internal/domain/document"
	"github.com/adiwjy/dokpedisi/internal/signature"
)

// DocumentService is the part of the document service the HTTP layer uses.
type DocumentService interface {
	Documents() []document.Document
	Get(id string) (document.Document, error)
	Search(term string) []document.Document
	Refresh(ctx context.Context) ([]document.Document, error)
	AppendExpedition(ctx context.Context, req document.AppendRequest) ([]document.Document, error)
	CreateLocal(ctx context.Context, agendaNo, sender, perihal string, createdAt time.Time) (document.Document, error)
	RecentExpeditions(ctx context.Context, limit int) ([]document.ExpeditionRecord, error)
	Stats() document.Stats
}

// SignatureStore persists captured signature images.
type SignatureStore interface {
	Save(ref string) (string, error)
}

// Server wires HTTP handlers.
type Server struct {
	svc    DocumentService
	sigs   SignatureStore
	logger *slog.Logger
}

// NewServer creates the HTTP router. sigs may be nil, in which case
// signature uploads are downscaled but not persisted to disk.
func NewServer(svc DocumentService, sigs SignatureStore, logger *slog.Logger) *http.ServeMux {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{svc: svc, sigs: sigs, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/documents", srv.handleListDocuments)
	mux.HandleFunc("POST /api/documents", srv.handleCreateDocument)
	mux.HandleFunc("GET /api/documents/search", srv.handleSearchDocuments)
	mux.HandleFunc("GET /api/documents/{id}", srv.handleGetDocument)
	mux.HandleFunc("POST /api/expeditions", srv.handleAppendExpedition)
	mux.HandleFunc("GET /api/expeditions", srv.handleRecentExpeditions)
	mux.HandleFunc("POST /api/refresh", srv.handleRefresh)
	mux.HandleFunc("POST /api/signatures", srv.handleUploadSignature)
	mux.HandleFunc("GET /health", srv.handleHealth)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	stats := s.svc.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"documents": stats.TotalDocuments,
		"last_sync": stats.LastSync,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Documents())
}

func (s *Server) handleSearchDocuments(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Search(term))
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.svc.Get(r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type createDocumentRequest struct {
	AgendaNo  string     `json:"agendaNo"`
	Sender    string     `json:"sender"`
	Perihal   string     `json:"perihal"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	createdAt := time.Time{}
	if req.CreatedAt != nil {
		createdAt = *req.CreatedAt
	}
	doc, err := s.svc.CreateLocal(r.Context(), req.AgendaNo, req.Sender, req.Perihal, createdAt)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

type appendExpeditionRequest struct {
	DocumentIDs []string  `json:"documentIds"`
	Recipient   string    `json:"recipient"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Notes       string    `json:"notes,omitempty"`
	Signature   string    `json:"signature,omitempty"`
}

type appendExpeditionResponse struct {
	Updated    []document.Document `json:"updated"`
	WriteError string              `json:"writeError,omitempty"`
}

func (s *Server) handleAppendExpedition(w http.ResponseWriter, r *http.Request) {
	var req appendExpeditionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sig := req.Signature
	if sig != "" {
		downscaled, err := signature.Downscale(sig)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid signature image: "+err.Error())
			return
		}
		sig = downscaled
	}

	updated, err := s.svc.AppendExpedition(r.Context(), document.AppendRequest{
		DocumentIDs: req.DocumentIDs,
		Event: document.ExpeditionEvent{
			Recipient: req.Recipient,
			Date:      req.Date,
			Time:      req.Time,
			Notes:     req.Notes,
			Signature: sig,
		},
	})
	if err != nil {
		// A failed sheet write still updated local state; report both.
		if errors.Is(err, document.ErrWrite) {
			writeJSON(w, http.StatusOK, appendExpeditionResponse{
				Updated:    updated,
				WriteError: err.Error(),
			})
			return
		}
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appendExpeditionResponse{Updated: updated})
}

func (s *Server) handleRecentExpeditions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	records, err := s.svc.RecentExpeditions(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if records == nil {
		records = []document.ExpeditionRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	docs, err := s.svc.Refresh(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": len(docs)})
}

type uploadSignatureRequest struct {
	Data string `json:"data"`
}

func (s *Server) handleUploadSignature(w http.ResponseWriter, r *http.Request) {
	var req uploadSignatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Data == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if s.sigs != nil {
		ref, err := s.sigs.Save(req.Data)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid signature image: "+err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"ref": ref})
		return
	}

	ref, err := signature.Downscale(req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid signature image: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"ref": ref})
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, document.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, document.ErrNoTargets),
		errors.Is(err, document.ErrMissingRecipient),
		errors.Is(err, document.ErrMissingTime),
		errors.Is(err, document.ErrMissingAgendaNo):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, document.ErrFetch):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

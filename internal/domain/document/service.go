package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrFetch wraps row-source failures so callers can distinguish "the
// sheet is unreachable" from domain errors and render a retry affordance.
var ErrFetch = errors.New("row source unavailable")

// ErrWrite wraps external write failures after a successful local append.
var ErrWrite = errors.New("sheet write failed")

// Service layers stateful bookkeeping (current collection, last sync,
// persistence fan-out) around the pure reconciliation core. The core
// functions stay side-effect free; all I/O lives here.
type Service struct {
	source    RowSource
	writer    ExpeditionWriter
	snapshots SnapshotRepository
	log       ExpeditionLogRepository
	columns   ColumnMap
	logger    *slog.Logger

	mu       sync.RWMutex
	coll     *Collection
	lastSync time.Time
}

// NewService creates a document service. writer, snapshots and log may
// be nil: a nil writer skips the external write-back (read-only
// deployments), nil repositories skip caching and audit.
func NewService(
	source RowSource,
	writer ExpeditionWriter,
	snapshots SnapshotRepository,
	log ExpeditionLogRepository,
	columns ColumnMap,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:    source,
		writer:    writer,
		snapshots: snapshots,
		log:       log,
		columns:   columns,
		logger:    logger,
		coll:      NewCollection(nil),
	}
}

// Refresh fetches a fresh snapshot from the row source and replaces the
// collection. Sheet-derived documents are replaced wholesale; locally
// created documents survive the refresh. On fetch failure the previous
// collection (or the persisted snapshot, on cold start) keeps serving
// reads and the error is returned alongside it.
func (s *Service) Refresh(ctx context.Context) ([]Document, error) {
	rows, err := s.source.FetchRows(ctx)
	if err != nil {
		s.logger.Error("sheet fetch failed", "error", err)
		return s.fallbackToSnapshot(ctx), fmt.Errorf("%w: %v", ErrFetch, err)
	}

	docs := Ingest(rows, s.columns)

	s.mu.Lock()
	for _, d := range s.coll.All() {
		if !d.FromSheet {
			docs = append(docs, d)
		}
	}
	coll := NewCollection(docs)
	s.coll = coll
	s.lastSync = time.Now().UTC()
	s.mu.Unlock()

	s.persistSnapshot(ctx, coll.All())

	s.logger.Info("collection refreshed", "documents", len(docs), "rows", len(rows))
	return coll.All(), nil
}

// fallbackToSnapshot serves the in-memory collection if populated,
// otherwise the last persisted snapshot.
func (s *Service) fallbackToSnapshot(ctx context.Context) []Document {
	s.mu.RLock()
	if s.coll.Len() > 0 {
		docs := s.coll.All()
		s.mu.RUnlock()
		return docs
	}
	s.mu.RUnlock()

	if s.snapshots == nil {
		return nil
	}
	docs, err := s.snapshots.LoadAll(ctx)
	if err != nil {
		s.logger.Error("snapshot load failed", "error", err)
		return nil
	}
	if len(docs) > 0 {
		s.mu.Lock()
		s.coll = NewCollection(docs)
		s.mu.Unlock()
	}
	return docs
}

// Documents returns the current collection in order.
func (s *Service) Documents() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coll.All()
}

// Get returns one document by id.
func (s *Service) Get(id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coll.Get(id)
}

// FindByIDs returns the documents matching ids, preserving order.
func (s *Service) FindByIDs(ids []string) []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coll.FindByIDs(ids)
}

// Search runs a case-insensitive substring match over the collection.
func (s *Service) Search(term string) []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coll.Search(term)
}

// LastSync returns when the collection was last refreshed from the sheet.
func (s *Service) LastSync() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSync
}

// Stats summarizes the collection for status displays.
type Stats struct {
	TotalDocuments int       `json:"total_documents"`
	LastSync       time.Time `json:"last_sync"`
}

// Stats returns collection counters.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{TotalDocuments: s.coll.Len(), LastSync: s.lastSync}
}

// AppendRequest is an expedition submission against target documents.
type AppendRequest struct {
	DocumentIDs []string
	Event       ExpeditionEvent
}

// AppendExpedition validates the request, appends one history entry per
// target document, persists the snapshot, writes each updated document
// back to the external store and records the operation in the audit log.
// Validation failures mutate nothing. A write-back failure does not roll
// back the local append; the error is returned (wrapped in ErrWrite) with
// the updated documents so the caller can retry the write.
func (s *Service) AppendExpedition(ctx context.Context, req AppendRequest) ([]Document, error) {
	s.mu.Lock()
	updated, err := s.coll.AppendExpedition(req.DocumentIDs, req.Event)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	all := s.coll.All()
	s.mu.Unlock()

	s.persistSnapshot(ctx, all)

	writeErr := s.writeBack(ctx, updated)
	s.logOperation(ctx, req, writeErr)

	if writeErr != nil {
		return updated, fmt.Errorf("%w: %v", ErrWrite, writeErr)
	}
	return updated, nil
}

// CreateLocal adds a document that did not originate from the sheet.
// Local documents are merged (not replaced) on refresh.
func (s *Service) CreateLocal(ctx context.Context, agendaNo, sender, perihal string, createdAt time.Time) (Document, error) {
	agendaNo = strings.TrimSpace(agendaNo)
	if agendaNo == "" {
		return Document{}, ErrMissingAgendaNo
	}
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	doc := Document{
		ID:        uuid.NewString(),
		AgendaNo:  agendaNo,
		Sender:    strings.TrimSpace(sender),
		Perihal:   strings.TrimSpace(perihal),
		CreatedAt: createdAt,
		FromSheet: false,
	}

	s.mu.Lock()
	s.coll.Add(doc)
	all := s.coll.All()
	s.mu.Unlock()

	s.persistSnapshot(ctx, all)
	return doc, nil
}

// RecentExpeditions returns the latest audit-log entries.
func (s *Service) RecentExpeditions(ctx context.Context, limit int) ([]ExpeditionRecord, error) {
	if s.log == nil {
		return nil, nil
	}
	return s.log.Recent(ctx, limit)
}

func (s *Service) persistSnapshot(ctx context.Context, docs []Document) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.ReplaceAll(ctx, docs); err != nil {
		s.logger.Error("snapshot persist failed", "error", err)
	}
}

// writeBack pushes each updated document's derived summary to the
// external store. Failures for individual targets are joined; successful
// targets are not reverted.
func (s *Service) writeBack(ctx context.Context, updated []Document) error {
	if s.writer == nil {
		if len(updated) > 0 {
			s.logger.Warn("no expedition writer configured, sheet not updated", "documents", len(updated))
		}
		return nil
	}

	var errs []error
	for _, doc := range updated {
		err := s.writer.WriteExpedition(ctx,
			doc.AgendaNo,
			doc.LastExpedition,
			doc.CurrentRecipient,
			string(doc.CurrentStatus),
			doc.SignatureRef,
		)
		if err != nil {
			s.logger.Error("expedition write failed", "agenda_no", doc.AgendaNo, "error", err)
			errs = append(errs, fmt.Errorf("agenda %s: %w", doc.AgendaNo, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) logOperation(ctx context.Context, req AppendRequest, writeErr error) {
	if s.log == nil {
		return
	}
	rec := &ExpeditionRecord{
		ID:          uuid.NewString(),
		DocumentIDs: req.DocumentIDs,
		Recipient:   strings.TrimSpace(req.Event.Recipient),
		Date:        req.Event.Date,
		Time:        req.Event.Time,
		Notes:       strings.TrimSpace(req.Event.Notes),
		Signature:   strings.TrimSpace(req.Event.Signature),
		SubmittedAt: time.Now().UTC(),
	}
	if writeErr != nil {
		rec.WriteError = writeErr.Error()
	}
	if err := s.log.Log(ctx, rec); err != nil {
		s.logger.Error("expedition log failed", "error", err)
	}
}

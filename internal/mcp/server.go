// Package mcp exposes the document tracker over the Model Context
// Protocol so assistant clients can query and record expeditions.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/adiwjy/dokpedisi/internal/domain/document"
)

// Version is the MCP server version.
const Version = "0.1.0"

// ErrMissingService is returned when no document service is provided.
var ErrMissingService = errors.New("mcp: document service is required")

// DocumentService is the part of the document service the MCP layer uses.
type DocumentService interface {
	Documents() []document.Document
	Get(id string) (document.Document, error)
	Search(term string) []document.Document
	Refresh(ctx context.Context) ([]document.Document, error)
	AppendExpedition(ctx context.Context, req document.AppendRequest) ([]document.Document, error)
	Stats() document.Stats
}

// Server is the MCP server for the document tracker.
type Server struct {
	svc    DocumentService
	server *mcp.Server
}

// NewServer creates a new MCP server around the document service.
func NewServer(svc DocumentService) (*Server, error) {
	if svc == nil {
		return nil, ErrMissingService
	}

	impl := &mcp.Implementation{
		Name:    "dokpedisi",
		Version: Version,
	}

	s := &Server{
		svc:    svc,
		server: mcp.NewServer(impl, nil),
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// formatTime renders a timestamp for tool output, empty when zero.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseEventDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or RFC 3339)", raw)
}

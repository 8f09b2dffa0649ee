package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultFetchTimeout bounds the unauthenticated CSV export fetch so a
// slow upstream fails cleanly instead of hanging callers.
const DefaultFetchTimeout = 15 * time.Second

// CSVRowSource fetches rows via the spreadsheet's public CSV export
// (the gviz endpoint). It needs no credentials, only a link-shared
// sheet, and serves as the fallback when no API key is configured.
// Implements document.RowSource.
type CSVRowSource struct {
	client *http.Client
	cfg    Config
}

// NewCSVRowSource creates a CSV-export row source. timeout <= 0 uses
// DefaultFetchTimeout.
func NewCSVRowSource(cfg Config, timeout time.Duration) (*CSVRowSource, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &CSVRowSource{
		client: &http.Client{Timeout: timeout},
		cfg:    cfg,
	}, nil
}

func (s *CSVRowSource) exportURL() string {
	return fmt.Sprintf(
		"https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:csv&sheet=%s",
		s.cfg.SpreadsheetID,
		url.QueryEscape(s.cfg.SheetName),
	)
}

// FetchRows downloads and parses the CSV export, returning trimmed data
// rows with the header stripped.
func (s *CSVRowSource) FetchRows(ctx context.Context) ([][]string, error) {
	return s.fetchRowsFromURL(ctx, s.exportURL())
}

func (s *CSVRowSource) fetchRowsFromURL(ctx context.Context, rawURL string) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch csv export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("csv export returned status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1 // history triplets make rows ragged
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptySheet
	}

	return stripHeaderAndBlank(records), nil
}

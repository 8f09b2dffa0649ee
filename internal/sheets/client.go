package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// NewReadOnlyService creates a Sheets API client for an API-key
// deployment. API keys can only read public sheets, which matches the
// read path of the legacy setup.
func NewReadOnlyService(ctx context.Context, apiKey string) (*sheets.Service, error) {
	svc, err := sheets.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// NewWriterService creates a Sheets API client authenticated with a
// service-account credentials file, scoped for writes.
func NewWriterService(ctx context.Context, credentialsPath string) (*sheets.Service, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	jwtCfg, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// APIRowSource fetches raw rows through the Sheets API. Implements
// document.RowSource.
type APIRowSource struct {
	svc *sheets.Service
	cfg Config
}

// NewAPIRowSource creates an API-backed row source.
func NewAPIRowSource(svc *sheets.Service, cfg Config) (*APIRowSource, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &APIRowSource{svc: svc, cfg: cfg}, nil
}

// FetchRows reads the whole sheet and returns trimmed data rows with
// the header stripped.
func (s *APIRowSource) FetchRows(ctx context.Context) ([][]string, error) {
	readRange := fmt.Sprintf("%s!A:Z", s.cfg.SheetName)
	resp, err := s.svc.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, readRange).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", readRange, err)
	}
	if len(resp.Values) == 0 {
		return nil, ErrEmptySheet
	}
	return stripHeaderAndBlank(valuesToRows(resp.Values)), nil
}

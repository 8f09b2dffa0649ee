package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/adiwjy/dokpedisi/internal/config"
	"github.com/adiwjy/dokpedisi/internal/domain/document"
	"github.com/adiwjy/dokpedisi/internal/mcp"
	"github.com/adiwjy/dokpedisi/internal/sheets"
	"github.com/adiwjy/dokpedisi/internal/signature"
	"github.com/adiwjy/dokpedisi/internal/sqlite"
	"github.com/adiwjy/dokpedisi/internal/transport"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in mcp mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "mcp" {
		logWriter = os.Stderr
	}
	if logPath := os.Getenv("DOKPEDISI_LOG_PATH"); logPath != "" {
		fileWriter, file, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	snapshotRepo := sqlite.NewSnapshotRepository(db)
	logRepo := sqlite.NewExpeditionLogRepository(db)

	source, writer, err := buildSheetAccess(context.Background(), cfg.Sheet, logger)
	if err != nil {
		logger.Error("failed to configure sheet access", "error", err)
		os.Exit(1)
	}

	svc := document.NewService(source, writer, snapshotRepo, logRepo, cfg.Columns, logger)

	// Best-effort initial load; the persisted snapshot covers fetch failures.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Sheet.FetchTimeout)
	if docs, err := svc.Refresh(ctx); err != nil {
		logger.Warn("initial refresh failed, serving snapshot", "error", err)
	} else {
		logger.Info("initial refresh complete", "documents", len(docs))
	}
	cancel()

	switch cfg.Transport.Mode {
	case "mcp":
		runMCPMode(logger, svc)
	default:
		runHTTPMode(logger, cfg, svc)
	}
}

// buildSheetAccess selects the row source and optional write-back client.
// An API key enables the Sheets API read path; otherwise the public CSV
// export is used. Service-account credentials enable write-back.
func buildSheetAccess(ctx context.Context, cfg config.SheetConfig, logger *slog.Logger) (document.RowSource, document.ExpeditionWriter, error) {
	sheetCfg := sheets.Config{
		SpreadsheetID: cfg.SpreadsheetID,
		SheetName:     cfg.SheetName,
	}

	var source document.RowSource
	if cfg.APIKey != "" {
		svc, err := sheets.NewReadOnlyService(ctx, cfg.APIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("sheets api client: %w", err)
		}
		src, err := sheets.NewAPIRowSource(svc, sheetCfg)
		if err != nil {
			return nil, nil, err
		}
		source = src
	} else {
		src, err := sheets.NewCSVRowSource(sheetCfg, cfg.FetchTimeout)
		if err != nil {
			return nil, nil, err
		}
		source = src
		logger.Info("using public CSV export for reads")
	}

	var writer document.ExpeditionWriter
	if cfg.CredentialsPath != "" {
		svc, err := sheets.NewWriterService(ctx, cfg.CredentialsPath)
		if err != nil {
			return nil, nil, fmt.Errorf("sheets writer client: %w", err)
		}
		w, err := sheets.NewWriter(svc, sheetCfg)
		if err != nil {
			return nil, nil, err
		}
		writer = w
	} else {
		logger.Warn("no sheet credentials configured, expeditions will not be written back")
	}

	return source, writer, nil
}

func runMCPMode(logger *slog.Logger, svc *document.Service) {
	server, err := mcp.NewServer(svc)
	if err != nil {
		logger.Error("failed to create mcp server", "error", err)
		os.Exit(1)
	}

	logger.Info("starting stdio transport")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	if err := server.Run(ctx); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, cfg config.Config, svc *document.Service) {
	var sigs transport.SignatureStore
	if cfg.Signature.Dir != "" {
		store, err := signature.NewDirStore(cfg.Signature.Dir)
		if err != nil {
			logger.Error("failed to prepare signature directory", "error", err)
			os.Exit(1)
		}
		sigs = store
	}

	router := transport.NewServer(svc, sigs, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

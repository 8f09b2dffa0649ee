package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/adiwjy/dokpedisi/internal/domain/document"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig       `yaml:"server"`
	Transport TransportConfig    `yaml:"transport"`
	DB        DBConfig           `yaml:"db"`
	Log       LogConfig          `yaml:"log"`
	Sheet     SheetConfig        `yaml:"sheet"`
	Columns   document.ColumnMap `yaml:"columns"`
	Signature SignatureConfig    `yaml:"signature"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TransportConfig selects how the server is exposed. Mode is either
// "http" or "mcp" (stdio).
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// SheetConfig points at the spreadsheet that acts as the source of
// truth. APIKey enables the Sheets API read path; without it the
// public CSV export is used. CredentialsPath enables write-back.
type SheetConfig struct {
	SpreadsheetID   string        `yaml:"spreadsheet_id"`
	SheetName       string        `yaml:"sheet_name"`
	APIKey          string        `yaml:"api_key"`
	CredentialsPath string        `yaml:"credentials_path"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
}

type SignatureConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		DB: DBConfig{
			Path: "dokpedisi.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Sheet: SheetConfig{
			SheetName:    "Sheet1",
			FetchTimeout: 15 * time.Second,
		},
		Columns:   document.DefaultColumnMap(),
		Signature: SignatureConfig{Dir: "signatures"},
	}

	if path := os.Getenv("DOKPEDISI_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("DOKPEDISI_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("DOKPEDISI_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DOKPEDISI_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("DOKPEDISI_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dbPath := os.Getenv("DOKPEDISI_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("DOKPEDISI_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if id := os.Getenv("DOKPEDISI_SPREADSHEET_ID"); id != "" {
		cfg.Sheet.SpreadsheetID = id
	}
	if name := os.Getenv("DOKPEDISI_SHEET_NAME"); name != "" {
		cfg.Sheet.SheetName = name
	}
	if key := os.Getenv("DOKPEDISI_SHEETS_API_KEY"); key != "" {
		cfg.Sheet.APIKey = key
	}
	if creds := os.Getenv("DOKPEDISI_SHEETS_CREDENTIALS"); creds != "" {
		cfg.Sheet.CredentialsPath = creds
	}
	if dir := os.Getenv("DOKPEDISI_SIGNATURE_DIR"); dir != "" {
		cfg.Signature.Dir = dir
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.Transport.Mode {
	case "http", "mcp":
	default:
		return fmt.Errorf("invalid transport mode %q (want http or mcp)", c.Transport.Mode)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

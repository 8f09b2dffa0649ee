package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. The snapshot tables mirror the
// reconciled collection; they are replaced wholesale on refresh, so
// there is no incremental migration story beyond this bootstrap.
func (db *DB) RunMigrations() error {
	migration := `
-- Reconciled documents, one row per collection entry.
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    agenda_no TEXT NOT NULL,
    sender TEXT NOT NULL DEFAULT '',
    perihal TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    current_status TEXT NOT NULL CHECK(current_status IN ('Signed', 'Unknown')),
    current_recipient TEXT NOT NULL DEFAULT '',
    last_expedition TEXT NOT NULL DEFAULT '',
    signature TEXT NOT NULL DEFAULT '',
    tanggal_terima TIMESTAMP,
    from_sheet INTEGER NOT NULL DEFAULT 1,
    row_index INTEGER NOT NULL DEFAULT 0,
    sort_index INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_agenda ON documents(agenda_no);
CREATE INDEX IF NOT EXISTS idx_documents_sort ON documents(sort_index);

-- Append-only expedition history per document.
CREATE TABLE IF NOT EXISTS expedition_history (
    document_id TEXT NOT NULL,
    ord INTEGER NOT NULL,
    timestamp TIMESTAMP NOT NULL,
    recipient TEXT NOT NULL,
    signature TEXT,
    notes TEXT,
    details TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (document_id, ord),
    FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE
);

-- Audit log of submitted expedition operations.
CREATE TABLE IF NOT EXISTS expedition_log (
    id TEXT PRIMARY KEY,
    document_ids TEXT NOT NULL,
    recipient TEXT NOT NULL,
    date TIMESTAMP NOT NULL,
    time TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    signature TEXT NOT NULL DEFAULT '',
    submitted_at TIMESTAMP NOT NULL,
    write_error TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_expedition_log_submitted ON expedition_log(submitted_at);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

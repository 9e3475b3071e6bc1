package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

type DB struct {
	*sql.DB
}

func Connect(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	return &DB{db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS media_items (
	id          UUID PRIMARY KEY,
	title       TEXT NOT NULL,
	type        TEXT NOT NULL,
	cover_url   TEXT,
	status      TEXT NOT NULL DEFAULT 'BACKLOG',
	rating      INT,
	note        TEXT,
	is_backlog  BOOLEAN NOT NULL DEFAULT FALSE,
	metadata    JSONB NOT NULL DEFAULT '{}',
	tags        TEXT[] NOT NULL DEFAULT '{}',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_media_items_type ON media_items(type);
CREATE INDEX IF NOT EXISTS idx_media_items_external_id ON media_items((metadata->>'externalId'));
`

// EnsureSchema creates the media_items table on first run.
func (d *DB) EnsureSchema() error {
	if _, err := d.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

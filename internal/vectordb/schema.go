package vectordb

import (
	"database/sql"
	"fmt"
)

const ddlTemplate = `
PRAGMA journal_mode=WAL;
PRAGMA synchronous=NORMAL;

CREATE TABLE IF NOT EXISTS chunks (
    id           TEXT NOT NULL UNIQUE,
    text         TEXT NOT NULL,
    path         TEXT NOT NULL,
    chunk_index  INTEGER NOT NULL,
    total_chunks INTEGER NOT NULL,
    mime_type    TEXT NOT NULL DEFAULT '',
    section      TEXT NOT NULL DEFAULT '',
    page_number  INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_chunks_path ON chunks(path);

CREATE VIRTUAL TABLE IF NOT EXISTS vec_chunks USING vec0(
    chunk_id INTEGER PRIMARY KEY,
    embedding float[%d]
);
`

// Init creates the schema tables if they don't exist. The embedding column is
// sized to dim, which must match the model producing the vectors.
func Init(db *sql.DB, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("invalid embedding dimension %d", dim)
	}
	_, err := db.Exec(fmt.Sprintf(ddlTemplate, dim))
	return err
}

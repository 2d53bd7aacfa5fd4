// Package store persists file metadata and the trigram full-text index that
// backs lexical search.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const searchLimit = 50

// Store is the lexical-store contract consumed by the pipeline and watcher.
type Store interface {
	// IndexFile runs the per-file durable-write unit in one transaction:
	// upsert the metadata row, resolve its id, and refresh the trigram
	// index entry. Returns the file's row id.
	IndexFile(f FileRecord) (int64, error)
	// GetFileID returns the row id for a path, or sql.ErrNoRows.
	GetFileID(path string) (int64, error)
	// DeleteFile removes a file row and its index entry. It reports whether
	// a row was actually removed.
	DeleteFile(path string) (bool, error)
	// Search runs the lexical query: empty → recent page, <3 chars →
	// substring match, ≥3 chars → trigram full-text match.
	Search(query string) ([]FileRecord, error)
	// Close closes the underlying database.
	Close() error
}

// SQLiteStore implements Store backed by SQLite with an FTS5 trigram index.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates or opens the database at dbPath and initializes the schema.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Init(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) IndexFile(f FileRecord) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO files (path, name, extension, size, category)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name = excluded.name,
			extension = excluded.extension,
			size = excluded.size,
			category = excluded.category,
			updated_at = CURRENT_TIMESTAMP`,
		f.Path, f.Name, f.Extension, f.Size, f.Category,
	)
	if err != nil {
		return 0, fmt.Errorf("insert file %s: %w", f.Path, err)
	}

	var id int64
	if err := tx.QueryRow("SELECT id FROM files WHERE path = ?", f.Path).Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup file id %s: %w", f.Path, err)
	}

	// FTS5 has no ON CONFLICT; delete-then-insert replaces the prior token
	// string atomically within the transaction.
	docText := BuildDocText(f.Name, f.Path, f.Extension)
	if _, err := tx.Exec("DELETE FROM files_fts WHERE rowid = ?", id); err != nil {
		return 0, fmt.Errorf("clear index entry %s: %w", f.Path, err)
	}
	if _, err := tx.Exec("INSERT INTO files_fts (rowid, doc_text) VALUES (?, ?)", id, docText); err != nil {
		return 0, fmt.Errorf("insert index entry %s: %w", f.Path, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit %s: %w", f.Path, err)
	}
	return id, nil
}

func (s *SQLiteStore) GetFileID(path string) (int64, error) {
	var id int64
	err := s.db.QueryRow("SELECT id FROM files WHERE path = ?", path).Scan(&id)
	return id, err
}

func (s *SQLiteStore) DeleteFile(path string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow("SELECT id FROM files WHERE path = ?", path).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", path, err)
	}

	if _, err := tx.Exec("DELETE FROM files_fts WHERE rowid = ?", id); err != nil {
		return false, fmt.Errorf("delete index entry %s: %w", path, err)
	}
	if _, err := tx.Exec("DELETE FROM files WHERE id = ?", id); err != nil {
		return false, fmt.Errorf("delete file %s: %w", path, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete %s: %w", path, err)
	}
	return true, nil
}

func (s *SQLiteStore) Search(query string) ([]FileRecord, error) {
	switch {
	case query == "":
		return s.recentFiles()
	case len([]rune(query)) < 3:
		return s.searchLike(query)
	default:
		return s.searchFTS(query)
	}
}

// recentFiles returns a bounded page of the most recently updated files.
func (s *SQLiteStore) recentFiles() ([]FileRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, path, name, extension, size, category
		FROM files
		ORDER BY updated_at DESC
		LIMIT ?`, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("recent files: %w", err)
	}
	return scanFiles(rows)
}

// searchLike handles queries too short for trigram matching.
func (s *SQLiteStore) searchLike(query string) ([]FileRecord, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT id, path, name, extension, size, category
		FROM files
		WHERE name LIKE ?1 OR path LIKE ?1 OR extension LIKE ?1
		LIMIT ?2`, pattern, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("substring search: %w", err)
	}
	return scanFiles(rows)
}

func (s *SQLiteStore) searchFTS(query string) ([]FileRecord, error) {
	rows, err := s.db.Query(`
		SELECT f.id, f.path, f.name, f.extension, f.size, f.category
		FROM files_fts ft
		JOIN files f ON ft.rowid = f.id
		WHERE ft.doc_text MATCH ?
		LIMIT ?`, BuildMatchQuery(query), searchLimit)
	if err != nil {
		return nil, fmt.Errorf("fts search: %w", err)
	}
	return scanFiles(rows)
}

func scanFiles(rows *sql.Rows) ([]FileRecord, error) {
	defer rows.Close()
	var files []FileRecord
	for rows.Next() {
		var f FileRecord
		if err := rows.Scan(&f.ID, &f.Path, &f.Name, &f.Extension, &f.Size, &f.Category); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

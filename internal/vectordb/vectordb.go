package vectordb

import (
	"database/sql"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqlite_vec.Auto()
}

// VectorStore persists chunk embeddings and answers nearest-neighbor queries.
type VectorStore interface {
	// ReplaceForPath atomically swaps all stored chunks for a path with the
	// given records.
	ReplaceForPath(path string, records []EmbeddingRecord) error
	// DeleteByPath removes all chunks and embeddings stored for a path.
	DeleteByPath(path string) error
	// Search finds the top-k chunks closest to the query embedding.
	Search(query []float32, k int) ([]SearchResult, error)
	// Close closes the underlying database.
	Close() error
}

// SQLiteVectorStore implements VectorStore backed by SQLite + sqlite-vec.
type SQLiteVectorStore struct {
	db  *sql.DB
	dim int
}

// Open creates or opens the vector database at the given path. dim fixes the
// embedding dimension for the life of the database.
func Open(dbPath string, dim int) (*SQLiteVectorStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open vector db: %w", err)
	}
	if err := Init(db, dim); err != nil {
		db.Close()
		return nil, fmt.Errorf("init vector schema: %w", err)
	}
	return &SQLiteVectorStore{db: db, dim: dim}, nil
}

func (s *SQLiteVectorStore) ReplaceForPath(path string, records []EmbeddingRecord) error {
	for _, r := range records {
		if len(r.Embedding) != s.dim {
			return fmt.Errorf("chunk %s: embedding has %d dimensions, store expects %d", r.ID, len(r.Embedding), s.dim)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteByPathTx(tx, path); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO chunks (id, text, path, chunk_index, total_chunks, mime_type, section, page_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	vecStmt, err := tx.Prepare("INSERT INTO vec_chunks (chunk_id, embedding) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer vecStmt.Close()

	for _, r := range records {
		res, err := stmt.Exec(r.ID, r.Text, r.Path, r.ChunkIndex, r.TotalChunks, r.MimeType, r.Section, r.PageNumber)
		if err != nil {
			return fmt.Errorf("insert chunk %s: %w", r.ID, err)
		}
		rowid, err := res.LastInsertId()
		if err != nil {
			return err
		}
		blob, err := sqlite_vec.SerializeFloat32(r.Embedding)
		if err != nil {
			return fmt.Errorf("serialize embedding for chunk %s: %w", r.ID, err)
		}
		if _, err := vecStmt.Exec(rowid, blob); err != nil {
			return fmt.Errorf("insert embedding for chunk %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteVectorStore) DeleteByPath(path string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteByPathTx(tx, path); err != nil {
		return err
	}
	return tx.Commit()
}

// deleteByPathTx removes chunk rows and their vectors. vec0 tables have no
// foreign keys, so the vector rows go first while the rowids still resolve.
func deleteByPathTx(tx *sql.Tx, path string) error {
	rows, err := tx.Query("SELECT rowid FROM chunks WHERE path = ?", path)
	if err != nil {
		return err
	}
	var rowids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		rowids = append(rowids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range rowids {
		if _, err := tx.Exec("DELETE FROM vec_chunks WHERE chunk_id = ?", id); err != nil {
			return err
		}
	}
	_, err = tx.Exec("DELETE FROM chunks WHERE path = ?", path)
	return err
}

func (s *SQLiteVectorStore) Search(query []float32, k int) ([]SearchResult, error) {
	if len(query) != s.dim {
		return nil, fmt.Errorf("query has %d dimensions, store expects %d", len(query), s.dim)
	}
	if k <= 0 {
		return nil, nil
	}
	blob, err := sqlite_vec.SerializeFloat32(query)
	if err != nil {
		return nil, fmt.Errorf("serialize query embedding: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT c.id, c.text, c.path, c.chunk_index, c.total_chunks, c.mime_type, c.section, c.page_number, v.distance
		FROM vec_chunks v
		JOIN chunks c ON c.rowid = v.chunk_id
		WHERE v.embedding MATCH ? AND v.k = ?
		ORDER BY v.distance
	`, blob, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		err := rows.Scan(
			&r.ID, &r.Text, &r.Path, &r.ChunkIndex, &r.TotalChunks,
			&r.MimeType, &r.Section, &r.PageNumber, &r.Distance,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *SQLiteVectorStore) Close() error {
	return s.db.Close()
}

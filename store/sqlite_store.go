package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteDocumentStore implements DocumentStore using SQLite. It stands in
// for the remote document store when a durable multi-session backend is
// wanted without a network dependency.
type SQLiteDocumentStore struct {
	db *sql.DB
}

// NewSQLiteDocumentStore opens (creating if needed) the database at path.
// Pass ":memory:" for an ephemeral store, used by tests.
func NewSQLiteDocumentStore(path string) (*SQLiteDocumentStore, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteDocumentStore{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteDocumentStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		body TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_owner ON documents(owner_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Create adds a new document row.
func (s *SQLiteDocumentStore) Create(ctx context.Context, doc Document) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, owner_id, body, updated_at)
		VALUES (?, ?, ?, ?)
	`, doc.ID, doc.OwnerID, string(doc.Body), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert document %s: %w", doc.ID, err)
	}
	return nil
}

// Update replaces an existing document row.
func (s *SQLiteDocumentStore) Update(ctx context.Context, id string, doc Document) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents SET body = ?, updated_at = ? WHERE id = ?
	`, string(doc.Body), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("update document %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("document with ID '%s' not found", id)
	}
	return nil
}

// Delete removes a document row. Missing rows are ignored.
func (s *SQLiteDocumentStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// QueryByOwner returns every document belonging to ownerID.
func (s *SQLiteDocumentStore) QueryByOwner(ctx context.Context, ownerID string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, body, updated_at FROM documents WHERE owner_id = ?
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query documents for owner %s: %w", ownerID, err)
	}
	defer func() { _ = rows.Close() }()

	docs := make([]Document, 0)
	for rows.Next() {
		var doc Document
		var body, updatedAt string
		if err := rows.Scan(&doc.ID, &doc.OwnerID, &body, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		doc.Body = []byte(body)
		if ts, parseErr := time.Parse(time.RFC3339, updatedAt); parseErr == nil {
			doc.UpdatedAt = ts
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}
	return docs, nil
}

// ReplaceByOwner swaps ownerID's documents for docs atomically.
func (s *SQLiteDocumentStore) ReplaceByOwner(ctx context.Context, ownerID string, docs []Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE owner_id = ?`, ownerID); err != nil {
		return fmt.Errorf("clear documents for owner %s: %w", ownerID, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, doc := range docs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (id, owner_id, body, updated_at)
			VALUES (?, ?, ?, ?)
		`, doc.ID, ownerID, string(doc.Body), now); err != nil {
			return fmt.Errorf("insert document %s: %w", doc.ID, err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying database connection.
func (s *SQLiteDocumentStore) Close() error {
	return s.db.Close()
}

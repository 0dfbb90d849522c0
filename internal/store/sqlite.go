package store

import (
	"context"
	"fmt"
	"time"

	"internwatch/internal/domain"
)

// SQLiteStore keeps the seen ids in a table ordered by seq.
type SQLiteStore struct {
	db *DB
}

func NewSQLiteStore(db *DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Load(ctx context.Context) ([]string, error) {
	rows, err := s.db.Pool.QueryContext(ctx, `
SELECT id
FROM seen_postings
ORDER BY seq ASC;`)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", domain.ErrPersistence, err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return out, nil
}

func (s *SQLiteStore) Persist(ctx context.Context, ids []string) error {
	tx, err := s.db.Pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrPersistence, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM seen_postings;`); err != nil {
		return fmt.Errorf("%w: clear: %v", domain.ErrPersistence, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT OR REPLACE INTO seen_postings(id, seq, seen_at)
VALUES(?,?,?);`)
	if err != nil {
		return fmt.Errorf("%w: prepare: %v", domain.ErrPersistence, err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, id := range ids {
		if _, err := stmt.ExecContext(ctx, id, i, now); err != nil {
			return fmt.Errorf("%w: insert %s: %v", domain.ErrPersistence, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrPersistence, err)
	}
	return nil
}

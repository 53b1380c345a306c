package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists records in a two-table key-value layout:
//
//	kv_records(key TEXT PRIMARY KEY, value JSONB NOT NULL)
//	kv_index_members(index_key TEXT, member TEXT, PRIMARY KEY (index_key, member))
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgres builds a store backed by a PostgreSQL connection pool.
func NewPostgres(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(ctx, `SELECT value FROM kv_records WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: select %s: %v", ErrUnavailable, key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.Exec(ctx, `INSERT INTO kv_records (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	if err != nil {
		return fmt.Errorf("%w: upsert %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM kv_records WHERE key = $1`, key); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

func (s *PostgresStore) AddToIndex(ctx context.Context, indexKey, member string) error {
	_, err := s.db.Exec(ctx, `INSERT INTO kv_index_members (index_key, member) VALUES ($1, $2)
        ON CONFLICT DO NOTHING`, indexKey, member)
	if err != nil {
		return fmt.Errorf("%w: index add %s: %v", ErrUnavailable, indexKey, err)
	}
	return nil
}

func (s *PostgresStore) RemoveFromIndex(ctx context.Context, indexKey, member string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM kv_index_members WHERE index_key = $1 AND member = $2`, indexKey, member)
	if err != nil {
		return fmt.Errorf("%w: index remove %s: %v", ErrUnavailable, indexKey, err)
	}
	return nil
}

func (s *PostgresStore) ListIndex(ctx context.Context, indexKey string) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT member FROM kv_index_members WHERE index_key = $1`, indexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: index list %s: %v", ErrUnavailable, indexKey, err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, fmt.Errorf("%w: index scan %s: %v", ErrUnavailable, indexKey, err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: index rows %s: %v", ErrUnavailable, indexKey, err)
	}
	return members, nil
}

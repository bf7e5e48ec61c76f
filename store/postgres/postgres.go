package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lango-rag/ragchat/memory"
)

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresMemoryStore implements memory.Store using PostgreSQL
type PostgresMemoryStore struct {
	pool      DBPool
	tableName string
}

// PostgresOptions configuration for Postgres connection
type PostgresOptions struct {
	ConnString string
	TableName  string // Default "chat_memory"
}

// NewPostgresMemoryStore creates a new Postgres memory store
func NewPostgresMemoryStore(ctx context.Context, opts PostgresOptions) (*PostgresMemoryStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	return NewPostgresMemoryStoreWithPool(pool, opts.TableName), nil
}

// NewPostgresMemoryStoreWithPool creates a new Postgres memory store with an existing pool
// Useful for testing with mocks
func NewPostgresMemoryStoreWithPool(pool DBPool, tableName string) *PostgresMemoryStore {
	if tableName == "" {
		tableName = "chat_memory"
	}
	return &PostgresMemoryStore{
		pool:      pool,
		tableName: tableName,
	}
}

// InitSchema creates the necessary table if it doesn't exist
func (s *PostgresMemoryStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			session_id TEXT PRIMARY KEY,
			messages JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
	`, s.tableName)

	_, err := s.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresMemoryStore) Close() {
	s.pool.Close()
}

// Messages returns the messages of a session, empty if unknown
func (s *PostgresMemoryStore) Messages(ctx context.Context, sessionID string) ([]memory.Message, error) {
	query := fmt.Sprintf(`SELECT messages FROM %s WHERE session_id = $1`, s.tableName)

	var data []byte
	err := s.pool.QueryRow(ctx, query, sessionID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	return memory.Decode(data)
}

// Update replaces the messages of a session
func (s *PostgresMemoryStore) Update(ctx context.Context, sessionID string, messages []memory.Message) error {
	data, err := memory.Encode(messages)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (session_id, messages, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE SET
			messages = EXCLUDED.messages,
			updated_at = EXCLUDED.updated_at
	`, s.tableName)

	if _, err := s.pool.Exec(ctx, query, sessionID, data, time.Now()); err != nil {
		return fmt.Errorf("failed to save messages: %w", err)
	}
	return nil
}

// Delete removes a session
func (s *PostgresMemoryStore) Delete(ctx context.Context, sessionID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE session_id = $1`, s.tableName)
	if _, err := s.pool.Exec(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

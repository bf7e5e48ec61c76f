package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lango-rag/ragchat/memory"
)

// SqliteMemoryStore implements memory.Store using SQLite
type SqliteMemoryStore struct {
	db        *sql.DB
	tableName string
}

// SqliteOptions configuration for SQLite connection
type SqliteOptions struct {
	Path      string
	TableName string // Default "chat_memory"
}

// NewSqliteMemoryStore opens the database and creates the table if needed
func NewSqliteMemoryStore(opts SqliteOptions) (*SqliteMemoryStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases alive between calls
	db.SetMaxOpenConns(1)

	tableName := opts.TableName
	if tableName == "" {
		tableName = "chat_memory"
	}

	store := &SqliteMemoryStore{
		db:        db,
		tableName: tableName,
	}

	if err := store.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// InitSchema creates the necessary table if it doesn't exist
func (s *SqliteMemoryStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			session_id TEXT PRIMARY KEY,
			messages TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SqliteMemoryStore) Close() error {
	return s.db.Close()
}

// Messages returns the messages of a session, empty if unknown
func (s *SqliteMemoryStore) Messages(ctx context.Context, sessionID string) ([]memory.Message, error) {
	query := fmt.Sprintf(`SELECT messages FROM %s WHERE session_id = ?`, s.tableName)

	var data string
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	return memory.Decode([]byte(data))
}

// Update replaces the messages of a session
func (s *SqliteMemoryStore) Update(ctx context.Context, sessionID string, messages []memory.Message) error {
	data, err := memory.Encode(messages)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (session_id, messages, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			messages = excluded.messages,
			updated_at = excluded.updated_at
	`, s.tableName)

	if _, err := s.db.ExecContext(ctx, query, sessionID, string(data), time.Now()); err != nil {
		return fmt.Errorf("failed to save messages: %w", err)
	}
	return nil
}

// Delete removes a session
func (s *SqliteMemoryStore) Delete(ctx context.Context, sessionID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE session_id = ?`, s.tableName)
	if _, err := s.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lango-rag/ragchat/memory"
)

func TestPostgresMemoryStore_InitSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresMemoryStoreWithPool(mock, "")

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS chat_memory")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	assert.NoError(t, store.InitSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMemoryStore_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresMemoryStoreWithPool(mock, "chat_memory")
	msgs := []memory.Message{memory.NewMessage(memory.RoleHuman, "Bonjour")}
	data, err := memory.Encode(msgs)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO chat_memory")).
		WithArgs("s1", data, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, store.Update(context.Background(), "s1", msgs))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMemoryStore_Messages(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresMemoryStoreWithPool(mock, "chat_memory")
	data, err := memory.Encode([]memory.Message{
		memory.NewMessage(memory.RoleHuman, "Bonjour"),
		memory.NewMessage(memory.RoleAI, "Bonjour !"),
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT messages FROM chat_memory WHERE session_id = $1")).
		WithArgs("s1").
		WillReturnRows(pgxmock.NewRows([]string{"messages"}).AddRow(data))

	msgs, err := store.Messages(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, memory.RoleAI, msgs[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMemoryStore_MessagesUnknownSession(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresMemoryStoreWithPool(mock, "chat_memory")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT messages FROM chat_memory")).
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)

	msgs, err := store.Messages(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMemoryStore_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresMemoryStoreWithPool(mock, "chat_memory")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM chat_memory WHERE session_id = $1")).
		WithArgs("s1").
		WillReturnError(errors.New("connection reset"))

	err = store.Delete(context.Background(), "s1")
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

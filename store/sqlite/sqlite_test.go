package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lango-rag/ragchat/memory"
)

func TestSqliteMemoryStore(t *testing.T) {
	store, err := NewSqliteMemoryStore(SqliteOptions{Path: ":memory:"})
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	msgs, err := store.Messages(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	require.NoError(t, store.Update(ctx, "s1", []memory.Message{memory.NewMessage(memory.RoleHuman, "first")}))
	require.NoError(t, store.Update(ctx, "s1", []memory.Message{
		memory.NewMessage(memory.RoleHuman, "first"),
		memory.NewMessage(memory.RoleAI, "second"),
	}))

	msgs, err = store.Messages(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "second", msgs[1].Content)

	require.NoError(t, store.Delete(ctx, "s1"))
	msgs, err = store.Messages(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSqliteMemoryStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragchat.db")
	ctx := context.Background()

	store, err := NewSqliteMemoryStore(SqliteOptions{Path: path, TableName: "history"})
	require.NoError(t, err)
	require.NoError(t, store.Update(ctx, "s1", []memory.Message{memory.NewMessage(memory.RoleHuman, "Bonjour")}))
	require.NoError(t, store.Close())

	reopened, err := NewSqliteMemoryStore(SqliteOptions{Path: path, TableName: "history"})
	require.NoError(t, err)
	defer reopened.Close()

	msgs, err := reopened.Messages(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Bonjour", msgs[0].Content)
}

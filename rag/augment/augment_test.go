package augment

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lango-rag/ragchat/rag"
	"github.com/lango-rag/ragchat/rag/router"
)

type staticRetriever struct {
	name  string
	docs  []rag.Document
	err   error
	calls atomic.Int32
}

func (r *staticRetriever) Name() string { return r.name }

func (r *staticRetriever) Retrieve(ctx context.Context, query string) ([]rag.Document, error) {
	r.calls.Add(1)
	return r.docs, r.err
}

type routeFunc func(ctx context.Context, query string) ([]rag.Retriever, error)

func (f routeFunc) Route(ctx context.Context, query string) ([]rag.Retriever, error) {
	return f(ctx, query)
}

func docs(contents ...string) []rag.Document {
	out := make([]rag.Document, len(contents))
	for i, c := range contents {
		out[i] = rag.Document{ID: c, Content: c}
	}
	return out
}

func TestRetrievalAugmentor(t *testing.T) {
	ctx := context.Background()

	t.Run("Single retriever", func(t *testing.T) {
		local := &staticRetriever{name: "local", docs: docs("Le RAG ajoute du contexte.", "Les embeddings sont des vecteurs.")}
		a, err := NewRetrievalAugmentor(router.NewDefaultRouter(local))
		require.NoError(t, err)

		aug, err := a.Augment(ctx, "C'est quoi le RAG ?")
		require.NoError(t, err)
		assert.Equal(t, []string{"local"}, aug.Retrievers)
		assert.Len(t, aug.Contents, 2)
		assert.Equal(t,
			"C'est quoi le RAG ?\n\nAnswer using the following information:\n"+
				"Le RAG ajoute du contexte.\n\nLes embeddings sont des vecteurs.",
			aug.Message)
	})

	t.Run("No retriever selected", func(t *testing.T) {
		local := &staticRetriever{name: "local", docs: docs("unused")}
		a, err := NewRetrievalAugmentor(routeFunc(func(ctx context.Context, query string) ([]rag.Retriever, error) {
			return nil, nil
		}))
		require.NoError(t, err)

		aug, err := a.Augment(ctx, "Bonjour")
		require.NoError(t, err)
		assert.Equal(t, "Bonjour", aug.Message)
		assert.Empty(t, aug.Contents)
		assert.Empty(t, aug.Retrievers)
		assert.Equal(t, int32(0), local.calls.Load())
	})

	t.Run("Nothing found", func(t *testing.T) {
		a, err := NewRetrievalAugmentor(router.NewDefaultRouter(&staticRetriever{name: "local"}))
		require.NoError(t, err)

		aug, err := a.Augment(ctx, "Bonjour")
		require.NoError(t, err)
		assert.Equal(t, "Bonjour", aug.Message)
	})

	t.Run("Several retrievers are fused", func(t *testing.T) {
		local := &staticRetriever{name: "local", docs: docs("a", "shared")}
		web := &staticRetriever{name: "web", docs: docs("shared", "b")}
		a, err := NewRetrievalAugmentor(router.NewDefaultRouter(local, web))
		require.NoError(t, err)

		aug, err := a.Augment(ctx, "q")
		require.NoError(t, err)
		assert.Equal(t, []string{"local", "web"}, aug.Retrievers)
		require.Len(t, aug.Contents, 3)
		assert.Equal(t, "shared", aug.Contents[0].Content)
		assert.Equal(t, "a", aug.Contents[1].Content)
		assert.Equal(t, "b", aug.Contents[2].Content)
	})

	t.Run("Retriever error aborts", func(t *testing.T) {
		boom := errors.New("tavily: 401")
		local := &staticRetriever{name: "local", docs: docs("a")}
		web := &staticRetriever{name: "web", err: boom}
		a, err := NewRetrievalAugmentor(router.NewDefaultRouter(local, web))
		require.NoError(t, err)

		_, err = a.Augment(ctx, "q")
		assert.ErrorIs(t, err, boom)
		assert.ErrorContains(t, err, "retriever web")
	})

	t.Run("Router error", func(t *testing.T) {
		a, err := NewRetrievalAugmentor(routeFunc(func(ctx context.Context, query string) ([]rag.Retriever, error) {
			return nil, router.ErrRoutingFailed
		}))
		require.NoError(t, err)

		_, err = a.Augment(ctx, "q")
		assert.ErrorIs(t, err, router.ErrRoutingFailed)
	})

	t.Run("Custom injection prompt", func(t *testing.T) {
		local := &staticRetriever{name: "local", docs: docs("ctx")}
		a, err := NewRetrievalAugmentor(router.NewDefaultRouter(local),
			WithInjectionPrompt("Contexte : {{.contents}}\nQuestion : {{.userMessage}}"))
		require.NoError(t, err)

		aug, err := a.Augment(ctx, "q")
		require.NoError(t, err)
		assert.Equal(t, "Contexte : ctx\nQuestion : q", aug.Message)
	})
}

func TestFuse(t *testing.T) {
	t.Run("Single list keeps order", func(t *testing.T) {
		got := Fuse([][]rag.Document{docs("c", "a", "b")}, 60)
		assert.Equal(t, docs("c", "a", "b"), got)
	})

	t.Run("Duplicates within a list are merged", func(t *testing.T) {
		got := Fuse([][]rag.Document{docs("a", "b", "a")}, 60)
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].Content)
	})

	t.Run("Agreement wins", func(t *testing.T) {
		got := Fuse([][]rag.Document{docs("x", "y", "z"), docs("z", "w")}, 60)
		require.Len(t, got, 4)
		// z: 1/63 + 1/61 beats x: 1/61
		assert.Equal(t, "z", got[0].Content)
		assert.Equal(t, "x", got[1].Content)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Empty(t, Fuse(nil, 0))
	})
}

package router

import (
	"context"
	"errors"

	"github.com/lango-rag/ragchat/rag"
)

// ErrRoutingFailed is returned by routers using FallbackFail when the model
// cannot be queried or its answer cannot be parsed.
var ErrRoutingFailed = errors.New("query routing failed")

// QueryRouter selects the retrievers to consult for a query. An empty result
// means the query is answered without retrieval.
type QueryRouter interface {
	Route(ctx context.Context, query string) ([]rag.Retriever, error)
}

// DefaultRouter sends every query to all of its retrievers
type DefaultRouter struct {
	retrievers []rag.Retriever
}

// NewDefaultRouter creates a new DefaultRouter
func NewDefaultRouter(retrievers ...rag.Retriever) *DefaultRouter {
	return &DefaultRouter{retrievers: retrievers}
}

// Route returns all retrievers
func (r *DefaultRouter) Route(ctx context.Context, query string) ([]rag.Retriever, error) {
	return r.retrievers, nil
}

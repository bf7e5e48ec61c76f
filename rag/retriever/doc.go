// Package retriever provides the content retrievers a query router can pick
// from: similarity search over an indexed vector store, and live web search.
package retriever

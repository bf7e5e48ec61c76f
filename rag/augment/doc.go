// Package augment rewrites a user message with retrieved contents before it
// is sent to the chat model.
//
// Augmentation runs as a small graph: route, retrieve (all selected
// retrievers concurrently), aggregate (reciprocal rank fusion) and inject.
// When the router selects nothing the message passes through unchanged.
package augment

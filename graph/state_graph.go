package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lango-rag/ragchat/log"
)

// StateGraph is a state-based graph with compile-time type safety.
// The type parameter S is the state flowing between nodes, typically a struct.
//
// Example usage:
//
//	type TurnState struct {
//	    Query  string
//	    Answer string
//	}
//
//	g := graph.NewStateGraph[TurnState]()
//	g.AddNode("answer", "Answer the query", func(ctx context.Context, s TurnState) (TurnState, error) {
//	    s.Answer = "..."
//	    return s, nil
//	})
//	g.SetEntryPoint("answer")
//	g.AddEdge("answer", graph.END)
type StateGraph[S any] struct {
	nodes map[string]Node[S]

	edges []Edge

	// conditionalEdges maps a "from" node to a function choosing the next node at runtime
	conditionalEdges map[string]func(ctx context.Context, state S) string

	entryPoint string

	retryPolicy *RetryPolicy
}

// Node is a named step of a StateGraph.
type Node[S any] struct {
	Name        string
	Description string
	Function    func(ctx context.Context, state S) (S, error)
}

// NewStateGraph creates a new, empty StateGraph.
func NewStateGraph[S any]() *StateGraph[S] {
	return &StateGraph[S]{
		nodes:            make(map[string]Node[S]),
		conditionalEdges: make(map[string]func(ctx context.Context, state S) string),
	}
}

// AddNode adds a new node to the state graph with the given name, description and function.
func (g *StateGraph[S]) AddNode(name string, description string, fn func(ctx context.Context, state S) (S, error)) {
	g.nodes[name] = Node[S]{
		Name:        name,
		Description: description,
		Function:    fn,
	}
}

// AddEdge adds a new edge to the state graph between the "from" and "to" nodes.
func (g *StateGraph[S]) AddEdge(from, to string) {
	g.edges = append(g.edges, Edge{
		From: from,
		To:   to,
	})
}

// AddConditionalEdge adds an edge whose target is chosen at runtime.
// A conditional edge takes precedence over static edges leaving the same node.
func (g *StateGraph[S]) AddConditionalEdge(from string, condition func(ctx context.Context, state S) string) {
	g.conditionalEdges[from] = condition
}

// SetEntryPoint sets the entry point node name for the state graph.
func (g *StateGraph[S]) SetEntryPoint(name string) {
	g.entryPoint = name
}

// SetRetryPolicy sets the retry policy for the graph.
func (g *StateGraph[S]) SetRetryPolicy(policy *RetryPolicy) {
	g.retryPolicy = policy
}

// StateRunnable is a compiled state graph that can be invoked.
type StateRunnable[S any] struct {
	graph *StateGraph[S]
}

// Compile validates the state graph and returns a StateRunnable instance.
func (g *StateGraph[S]) Compile() (*StateRunnable[S], error) {
	if g.entryPoint == "" {
		return nil, ErrEntryPointNotSet
	}
	if _, ok := g.nodes[g.entryPoint]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, g.entryPoint)
	}
	for _, edge := range g.edges {
		if _, ok := g.nodes[edge.From]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, edge.From)
		}
		if _, ok := g.nodes[edge.To]; !ok && edge.To != END {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, edge.To)
		}
	}

	return &StateRunnable[S]{graph: g}, nil
}

// Invoke executes the compiled graph from its entry point until END is reached
// and returns the final state.
func (r *StateRunnable[S]) Invoke(ctx context.Context, initialState S) (S, error) {
	var zero S
	state := initialState
	current := r.graph.entryPoint

	for step := 0; current != END; step++ {
		if step >= maxSteps {
			return zero, fmt.Errorf("%w: %d", ErrMaxStepsExceeded, maxSteps)
		}
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		node, ok := r.graph.nodes[current]
		if !ok {
			return zero, fmt.Errorf("%w: %s", ErrNodeNotFound, current)
		}

		next, err := r.executeNodeWithRetry(ctx, node, state)
		if err != nil {
			return zero, fmt.Errorf("node %s: %w", node.Name, err)
		}
		state = next
		log.Debug("graph: node %s completed", node.Name)

		current, err = r.nextNode(ctx, node.Name, state)
		if err != nil {
			return zero, err
		}
	}

	return state, nil
}

func (r *StateRunnable[S]) nextNode(ctx context.Context, from string, state S) (string, error) {
	if condition, ok := r.graph.conditionalEdges[from]; ok {
		next := condition(ctx, state)
		if next == "" {
			return "", fmt.Errorf("conditional edge returned empty next node from %s", from)
		}
		return next, nil
	}

	for _, edge := range r.graph.edges {
		if edge.From == from {
			return edge.To, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNoOutgoingEdge, from)
}

// executeNodeWithRetry executes a node with retry logic based on the retry policy.
func (r *StateRunnable[S]) executeNodeWithRetry(ctx context.Context, node Node[S], state S) (S, error) {
	var lastErr error
	var zero S

	attempts := 1
	if r.graph.retryPolicy != nil {
		attempts = r.graph.retryPolicy.MaxRetries + 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		result, err := node.Function(ctx, state)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == attempts-1 || !r.isRetryableError(err) {
			break
		}

		delay := r.calculateBackoffDelay(attempt)
		log.Warn("graph: node %s failed (attempt %d/%d), retrying in %s: %v", node.Name, attempt+1, attempts, delay, err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}

// isRetryableError checks if an error is retryable based on the retry policy.
func (r *StateRunnable[S]) isRetryableError(err error) bool {
	policy := r.graph.retryPolicy
	if policy == nil {
		return false
	}
	if len(policy.RetryableErrors) == 0 {
		return true
	}

	errorStr := err.Error()
	for _, pattern := range policy.RetryableErrors {
		if strings.Contains(errorStr, pattern) {
			return true
		}
	}

	return false
}

// calculateBackoffDelay calculates the delay for retry based on the backoff strategy.
func (r *StateRunnable[S]) calculateBackoffDelay(attempt int) time.Duration {
	policy := r.graph.retryPolicy
	if policy == nil {
		return 0
	}

	baseDelay := policy.BaseDelay
	if baseDelay <= 0 {
		baseDelay = time.Second
	}

	switch policy.BackoffStrategy {
	case ExponentialBackoff:
		// 1x, 2x, 4x, 8x, ... up to maxBackoffDoublings
		return baseDelay * time.Duration(1<<min(attempt, maxBackoffDoublings))
	case LinearBackoff:
		// 1x, 2x, 3x, 4x, ...
		return baseDelay * time.Duration(attempt+1)
	default:
		return baseDelay
	}
}

package graph

import (
	"errors"
	"time"
)

// END is a special constant used to represent the end node in the graph.
const END = "END"

// maxSteps bounds a single invocation so a cyclic graph cannot spin forever.
const maxSteps = 64

// maxBackoffDoublings caps exponential backoff at 1024 times the base delay.
const maxBackoffDoublings = 10

var (
	// ErrEntryPointNotSet is returned when the entry point of the graph is not set.
	ErrEntryPointNotSet = errors.New("entry point not set")

	// ErrNodeNotFound is returned when a node is not found in the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrNoOutgoingEdge is returned when no outgoing edge is found for a node.
	ErrNoOutgoingEdge = errors.New("no outgoing edge found for node")

	// ErrMaxStepsExceeded is returned when an invocation runs more steps than allowed.
	ErrMaxStepsExceeded = errors.New("maximum number of steps exceeded")
)

// Edge represents an edge in the graph.
type Edge struct {
	// From is the name of the node from which the edge originates.
	From string

	// To is the name of the node to which the edge points.
	To string
}

// RetryPolicy defines how to handle node failures
type RetryPolicy struct {
	MaxRetries      int
	BackoffStrategy BackoffStrategy
	// BaseDelay defaults to one second when zero.
	BaseDelay time.Duration
	// RetryableErrors holds substrings; an empty list retries every error.
	RetryableErrors []string
}

// BackoffStrategy defines different backoff strategies
type BackoffStrategy int

const (
	FixedBackoff BackoffStrategy = iota
	ExponentialBackoff
	LinearBackoff
)

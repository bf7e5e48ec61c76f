package router

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"

	"github.com/lango-rag/ragchat/log"
	"github.com/lango-rag/ragchat/rag"
)

// DefaultRoutingPrompt lists the numbered sources and asks the model for
// their numbers.
const DefaultRoutingPrompt = "Based on the user query, determine the most suitable data source(s) " +
	"to retrieve relevant information from the following options:\n" +
	"{{.options}}\n" +
	"It is very important that your answer consists of either a single number " +
	"or multiple numbers separated by commas and nothing else!\n" +
	"User query: {{.query}}"

// FallbackStrategy decides what happens when the model's choice is unusable
type FallbackStrategy int

const (
	// FallbackDoNotRoute skips retrieval
	FallbackDoNotRoute FallbackStrategy = iota
	// FallbackRouteToAll uses every retriever
	FallbackRouteToAll
	// FallbackFail returns ErrRoutingFailed
	FallbackFail
)

// String returns the strategy name
func (s FallbackStrategy) String() string {
	switch s {
	case FallbackDoNotRoute:
		return "do_not_route"
	case FallbackRouteToAll:
		return "route_to_all"
	case FallbackFail:
		return "fail"
	default:
		return fmt.Sprintf("FallbackStrategy(%d)", int(s))
	}
}

// ParseFallbackStrategy parses the names returned by String
func ParseFallbackStrategy(s string) (FallbackStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "do_not_route":
		return FallbackDoNotRoute, nil
	case "route_to_all":
		return FallbackRouteToAll, nil
	case "fail":
		return FallbackFail, nil
	default:
		return 0, fmt.Errorf("unknown fallback strategy: %q", s)
	}
}

// Route pairs a retriever with the description shown to the model
type Route struct {
	Retriever   rag.Retriever
	Description string
}

// LanguageModelRouter lets the chat model pick retrievers from their descriptions
type LanguageModelRouter struct {
	model       llms.Model
	routes      []Route
	prompt      prompts.PromptTemplate
	fallback    FallbackStrategy
	callOptions []llms.CallOption
}

// LanguageModelOption configures a LanguageModelRouter
type LanguageModelOption func(*LanguageModelRouter)

// WithFallback sets the fallback strategy
func WithFallback(strategy FallbackStrategy) LanguageModelOption {
	return func(r *LanguageModelRouter) {
		r.fallback = strategy
	}
}

// WithRoutingPrompt replaces the routing prompt. The template receives
// {{.options}} and {{.query}}.
func WithRoutingPrompt(template string) LanguageModelOption {
	return func(r *LanguageModelRouter) {
		r.prompt = prompts.NewPromptTemplate(template, []string{"options", "query"})
	}
}

// WithRoutingCallOptions sets the options of the routing call
func WithRoutingCallOptions(opts ...llms.CallOption) LanguageModelOption {
	return func(r *LanguageModelRouter) {
		r.callOptions = opts
	}
}

// NewLanguageModelRouter creates a new LanguageModelRouter
func NewLanguageModelRouter(model llms.Model, routes []Route, opts ...LanguageModelOption) *LanguageModelRouter {
	r := &LanguageModelRouter{
		model:    model,
		routes:   routes,
		prompt:   prompts.NewPromptTemplate(DefaultRoutingPrompt, []string{"options", "query"}),
		fallback: FallbackDoNotRoute,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route asks the model which sources fit the query
func (r *LanguageModelRouter) Route(ctx context.Context, query string) ([]rag.Retriever, error) {
	prompt, err := r.prompt.Format(map[string]any{
		"options": r.formatOptions(),
		"query":   query,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format routing prompt: %w", err)
	}

	answer, err := llms.GenerateFromSinglePrompt(ctx, r.model, prompt, r.callOptions...)
	if err != nil {
		return r.fallbackRoute(fmt.Errorf("model call: %w", err))
	}

	indexes, err := parseChoices(answer, len(r.routes))
	if err != nil {
		return r.fallbackRoute(err)
	}

	retrievers := make([]rag.Retriever, len(indexes))
	names := make([]string, len(indexes))
	for i, idx := range indexes {
		retrievers[i] = r.routes[idx].Retriever
		names[i] = retrievers[i].Name()
	}
	log.Debug("routed query to %s", strings.Join(names, ", "))

	return retrievers, nil
}

func (r *LanguageModelRouter) formatOptions() string {
	var sb strings.Builder
	for i, route := range r.routes {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d: %s", i+1, route.Description)
	}
	return sb.String()
}

func (r *LanguageModelRouter) fallbackRoute(cause error) ([]rag.Retriever, error) {
	log.Warn("routing fallback %s: %v", r.fallback, cause)

	switch r.fallback {
	case FallbackRouteToAll:
		retrievers := make([]rag.Retriever, len(r.routes))
		for i, route := range r.routes {
			retrievers[i] = route.Retriever
		}
		return retrievers, nil
	case FallbackFail:
		return nil, fmt.Errorf("%w: %v", ErrRoutingFailed, cause)
	default:
		return nil, nil
	}
}

// parseChoices turns "2, 1" into zero-based route indexes. Repeated numbers
// are kept once. Any token that is not a number between 1 and n makes the
// whole answer unusable.
func parseChoices(answer string, n int) ([]int, error) {
	seen := make(map[int]bool)
	var indexes []int
	for _, token := range strings.Split(answer, ",") {
		num, err := strconv.Atoi(strings.Trim(strings.TrimSpace(token), "."))
		if err != nil || num < 1 || num > n {
			return nil, fmt.Errorf("unusable answer %q", answer)
		}
		if seen[num] {
			continue
		}
		seen[num] = true
		indexes = append(indexes, num-1)
	}
	return indexes, nil
}

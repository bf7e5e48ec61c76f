package augment

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"
	"golang.org/x/sync/errgroup"

	"github.com/lango-rag/ragchat/graph"
	"github.com/lango-rag/ragchat/log"
	"github.com/lango-rag/ragchat/rag"
	"github.com/lango-rag/ragchat/rag/router"
)

// DefaultInjectionPrompt appends the retrieved contents to the user message
const DefaultInjectionPrompt = "{{.userMessage}}\n\nAnswer using the following information:\n{{.contents}}"

// DefaultRRFK is the rank constant of reciprocal rank fusion
const DefaultRRFK = 60

// Augmentation is the outcome of augmenting one user message
type Augmentation struct {
	// Message is the text to send to the chat model
	Message string
	// Contents are the retrieved documents injected into Message
	Contents []rag.Document
	// Retrievers names the retrievers the router selected
	Retrievers []string
}

// augmentState flows through the augmentation graph
type augmentState struct {
	Query      string
	Retrievers []rag.Retriever
	Results    [][]rag.Document
	Contents   []rag.Document
	Message    string
}

// RetrievalAugmentor routes a query, retrieves from the chosen retrievers,
// fuses the results and injects them into the user message.
type RetrievalAugmentor struct {
	router   router.QueryRouter
	prompt   prompts.PromptTemplate
	rrfK     int
	runnable *graph.StateRunnable[augmentState]
}

// Option configures a RetrievalAugmentor
type Option func(*RetrievalAugmentor)

// WithInjectionPrompt replaces the injection template. It receives
// {{.userMessage}} and {{.contents}}.
func WithInjectionPrompt(template string) Option {
	return func(a *RetrievalAugmentor) {
		a.prompt = prompts.NewPromptTemplate(template, []string{"userMessage", "contents"})
	}
}

// WithRRFK sets the rank constant used when fusing several result lists
func WithRRFK(k int) Option {
	return func(a *RetrievalAugmentor) {
		if k > 0 {
			a.rrfK = k
		}
	}
}

// NewRetrievalAugmentor creates a new RetrievalAugmentor
func NewRetrievalAugmentor(r router.QueryRouter, opts ...Option) (*RetrievalAugmentor, error) {
	a := &RetrievalAugmentor{
		router: r,
		prompt: prompts.NewPromptTemplate(DefaultInjectionPrompt, []string{"userMessage", "contents"}),
		rrfK:   DefaultRRFK,
	}
	for _, opt := range opts {
		opt(a)
	}

	g := graph.NewStateGraph[augmentState]()
	g.AddNode("route", "Select retrievers", a.routeNode)
	g.AddNode("retrieve", "Query the selected retrievers", a.retrieveNode)
	g.AddNode("aggregate", "Fuse retrieved contents", a.aggregateNode)
	g.AddNode("inject", "Inject contents into the user message", a.injectNode)

	g.SetEntryPoint("route")
	g.AddConditionalEdge("route", func(ctx context.Context, s augmentState) string {
		if len(s.Retrievers) == 0 {
			return graph.END
		}
		return "retrieve"
	})
	g.AddEdge("retrieve", "aggregate")
	g.AddEdge("aggregate", "inject")
	g.AddEdge("inject", graph.END)

	runnable, err := g.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile augmentation graph: %w", err)
	}
	a.runnable = runnable
	return a, nil
}

// Augment returns the message to send for query. When no retriever is
// selected or nothing is found, the message is the query unchanged.
func (a *RetrievalAugmentor) Augment(ctx context.Context, query string) (*Augmentation, error) {
	final, err := a.runnable.Invoke(ctx, augmentState{Query: query, Message: query})
	if err != nil {
		return nil, err
	}

	names := make([]string, len(final.Retrievers))
	for i, r := range final.Retrievers {
		names[i] = r.Name()
	}

	return &Augmentation{
		Message:    final.Message,
		Contents:   final.Contents,
		Retrievers: names,
	}, nil
}

func (a *RetrievalAugmentor) routeNode(ctx context.Context, s augmentState) (augmentState, error) {
	retrievers, err := a.router.Route(ctx, s.Query)
	if err != nil {
		return s, err
	}
	s.Retrievers = retrievers
	return s, nil
}

func (a *RetrievalAugmentor) retrieveNode(ctx context.Context, s augmentState) (augmentState, error) {
	results := make([][]rag.Document, len(s.Retrievers))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, r := range s.Retrievers {
		eg.Go(func() error {
			docs, err := r.Retrieve(egCtx, s.Query)
			if err != nil {
				return fmt.Errorf("retriever %s: %w", r.Name(), err)
			}
			log.Debug("retriever %s returned %d contents", r.Name(), len(docs))
			results[i] = docs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return s, err
	}

	s.Results = results
	return s, nil
}

func (a *RetrievalAugmentor) aggregateNode(ctx context.Context, s augmentState) (augmentState, error) {
	s.Contents = Fuse(s.Results, a.rrfK)
	return s, nil
}

func (a *RetrievalAugmentor) injectNode(ctx context.Context, s augmentState) (augmentState, error) {
	if len(s.Contents) == 0 {
		return s, nil
	}

	texts := make([]string, len(s.Contents))
	for i, doc := range s.Contents {
		texts[i] = doc.Content
	}

	msg, err := a.prompt.Format(map[string]any{
		"userMessage": s.Query,
		"contents":    strings.Join(texts, "\n\n"),
	})
	if err != nil {
		return s, fmt.Errorf("failed to inject contents: %w", err)
	}
	s.Message = msg
	return s, nil
}

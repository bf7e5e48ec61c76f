package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"

	"github.com/lango-rag/ragchat/log"
	"github.com/lango-rag/ragchat/rag"
)

// DefaultClassifierPrompt asks whether the question is on topic. The model
// answers "oui", "non" or "peut-être".
const DefaultClassifierPrompt = "Est-ce que la requête suivante porte sur l'IA, le RAG ou le Fine-Tuning ? " +
	"Réponds uniquement par 'oui', 'non' ou 'peut-être'.\n" +
	"Requête : {{.question}}"

// ClassifierRouter asks the chat model whether a query needs retrieval at all.
// A "non" answer routes nowhere; any other answer routes to every retriever.
type ClassifierRouter struct {
	model       llms.Model
	prompt      prompts.PromptTemplate
	retrievers  []rag.Retriever
	callOptions []llms.CallOption
}

// ClassifierOption configures a ClassifierRouter
type ClassifierOption func(*ClassifierRouter)

// WithClassifierPrompt replaces the classification prompt. The template
// receives the query as {{.question}}.
func WithClassifierPrompt(template string) ClassifierOption {
	return func(r *ClassifierRouter) {
		r.prompt = prompts.NewPromptTemplate(template, []string{"question"})
	}
}

// WithClassifierCallOptions sets the options of the classification call
func WithClassifierCallOptions(opts ...llms.CallOption) ClassifierOption {
	return func(r *ClassifierRouter) {
		r.callOptions = opts
	}
}

// NewClassifierRouter creates a new ClassifierRouter
func NewClassifierRouter(model llms.Model, retrievers []rag.Retriever, opts ...ClassifierOption) *ClassifierRouter {
	r := &ClassifierRouter{
		model:      model,
		prompt:     prompts.NewPromptTemplate(DefaultClassifierPrompt, []string{"question"}),
		retrievers: retrievers,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route classifies the query and returns the retrievers to use
func (r *ClassifierRouter) Route(ctx context.Context, query string) ([]rag.Retriever, error) {
	prompt, err := r.prompt.Format(map[string]any{"question": query})
	if err != nil {
		return nil, fmt.Errorf("failed to format classifier prompt: %w", err)
	}

	answer, err := llms.GenerateFromSinglePrompt(ctx, r.model, prompt, r.callOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to classify query: %w", err)
	}

	decision := strings.ToLower(strings.TrimSpace(answer))
	log.Info("Décision du LM : %s", decision)

	if !NeedsRetrieval(decision) {
		log.Info("Routage : Pas de RAG")
		return nil, nil
	}

	log.Info("Routage : RAG activé")
	return r.retrievers, nil
}

// NeedsRetrieval reports whether a classifier decision asks for retrieval.
// Only an answer containing "non" skips it.
func NeedsRetrieval(decision string) bool {
	return !strings.Contains(strings.ToLower(decision), "non")
}

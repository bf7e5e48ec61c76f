package prebuilt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/lango-rag/ragchat/graph"
	"github.com/lango-rag/ragchat/log"
	"github.com/lango-rag/ragchat/memory"
	"github.com/lango-rag/ragchat/rag/augment"
)

// ErrEmptyResponse is returned when the model answers with no text
var ErrEmptyResponse = errors.New("model returned an empty response")

// Augmenter rewrites a user message with retrieved contents
type Augmenter interface {
	Augment(ctx context.Context, query string) (*augment.Augmentation, error)
}

// turnState flows through the assistant graph for one user message
type turnState struct {
	Query        string
	Augmentation *augment.Augmentation
	History      []memory.Message
	Answer       string
}

// Assistant answers user messages with a chat model, optionally augmenting
// them with retrieved contents, and keeps the conversation in a window memory.
type Assistant struct {
	model        llms.Model
	augmenter    Augmenter
	memory       *memory.WindowMemory
	systemPrompt string
	callOptions  []llms.CallOption
	logRequests  bool
	augmentedMem bool
	retryPolicy  *graph.RetryPolicy
	runnable     *graph.StateRunnable[turnState]
}

// AssistantOption configures an Assistant
type AssistantOption func(*Assistant)

// WithAugmenter enables retrieval augmentation
func WithAugmenter(a Augmenter) AssistantOption {
	return func(as *Assistant) {
		as.augmenter = a
	}
}

// WithMemory sets the chat memory. Without it the assistant keeps a window of 10 messages in memory.
func WithMemory(m *memory.WindowMemory) AssistantOption {
	return func(as *Assistant) {
		as.memory = m
	}
}

// WithSystemPrompt sets a system message kept at the head of the conversation
func WithSystemPrompt(prompt string) AssistantOption {
	return func(as *Assistant) {
		as.systemPrompt = prompt
	}
}

// WithTemperature sets the sampling temperature of chat calls
func WithTemperature(t float64) AssistantOption {
	return func(as *Assistant) {
		as.callOptions = append(as.callOptions, llms.WithTemperature(t))
	}
}

// WithCallOptions appends langchaingo call options to chat calls
func WithCallOptions(opts ...llms.CallOption) AssistantOption {
	return func(as *Assistant) {
		as.callOptions = append(as.callOptions, opts...)
	}
}

// WithRequestLogging logs every prompt and reply at debug level
func WithRequestLogging(enabled bool) AssistantOption {
	return func(as *Assistant) {
		as.logRequests = enabled
	}
}

// WithAugmentedMemory records the augmented message, retrieved contents
// included, in memory instead of the message as typed. Later turns then see
// the contents that earlier answers were based on.
func WithAugmentedMemory(enabled bool) AssistantOption {
	return func(as *Assistant) {
		as.augmentedMem = enabled
	}
}

// WithRetryPolicy retries failed augmentation or generation steps
func WithRetryPolicy(policy *graph.RetryPolicy) AssistantOption {
	return func(as *Assistant) {
		as.retryPolicy = policy
	}
}

// NewAssistant creates a new Assistant
func NewAssistant(model llms.Model, opts ...AssistantOption) (*Assistant, error) {
	if model == nil {
		return nil, fmt.Errorf("model is required")
	}

	a := &Assistant{model: model}
	for _, opt := range opts {
		opt(a)
	}

	if a.memory == nil {
		mem, err := memory.NewWindowMemory(10, nil, "")
		if err != nil {
			return nil, err
		}
		a.memory = mem
	}

	g := graph.NewStateGraph[turnState]()
	g.AddNode("augment", "Retrieve contents and rewrite the user message", a.augmentNode)
	g.AddNode("generate", "Ask the chat model", a.generateNode)
	g.SetEntryPoint("augment")
	g.AddEdge("augment", "generate")
	g.AddEdge("generate", graph.END)
	if a.retryPolicy != nil {
		g.SetRetryPolicy(a.retryPolicy)
	}

	runnable, err := g.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile assistant graph: %w", err)
	}
	a.runnable = runnable

	return a, nil
}

// Chat sends message to the model and returns its answer. The memory records
// the message as typed by the user unless WithAugmentedMemory is set.
func (a *Assistant) Chat(ctx context.Context, message string) (string, error) {
	if a.systemPrompt != "" {
		if err := a.memory.Add(ctx, memory.NewMessage(memory.RoleSystem, a.systemPrompt)); err != nil {
			return "", err
		}
	}

	history, err := a.memory.Messages(ctx)
	if err != nil {
		return "", err
	}

	final, err := a.runnable.Invoke(ctx, turnState{
		Query:   message,
		History: history,
	})
	if err != nil {
		return "", err
	}

	remembered := message
	if a.augmentedMem && final.Augmentation != nil {
		remembered = final.Augmentation.Message
	}
	if err := a.memory.Add(ctx, memory.NewMessage(memory.RoleHuman, remembered)); err != nil {
		return "", err
	}
	if err := a.memory.Add(ctx, memory.NewMessage(memory.RoleAI, final.Answer)); err != nil {
		return "", err
	}

	return final.Answer, nil
}

// Memory returns the assistant's chat memory
func (a *Assistant) Memory() *memory.WindowMemory {
	return a.memory
}

func (a *Assistant) augmentNode(ctx context.Context, s turnState) (turnState, error) {
	if a.augmenter == nil {
		s.Augmentation = &augment.Augmentation{Message: s.Query}
		return s, nil
	}

	aug, err := a.augmenter.Augment(ctx, s.Query)
	if err != nil {
		return s, fmt.Errorf("augmentation failed: %w", err)
	}
	if len(aug.Contents) > 0 {
		sources := make([]string, 0, len(aug.Contents))
		for _, doc := range aug.Contents {
			if src := doc.Source(); src != "" {
				sources = append(sources, src)
			}
		}
		log.Debug("augmented with %d contents from %s", len(aug.Contents), strings.Join(sources, ", "))
	}
	s.Augmentation = aug
	return s, nil
}

func (a *Assistant) generateNode(ctx context.Context, s turnState) (turnState, error) {
	messages := memory.ToMessageContent(s.History)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, s.Augmentation.Message))

	if a.logRequests {
		log.Debug("request: %d message(s), last: %q", len(messages), s.Augmentation.Message)
	}

	resp, err := a.model.GenerateContent(ctx, messages, a.callOptions...)
	if err != nil {
		return s, fmt.Errorf("generation failed: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return s, ErrEmptyResponse
	}

	s.Answer = resp.Choices[0].Content
	if a.logRequests {
		log.Debug("response: %q", s.Answer)
	}
	return s, nil
}

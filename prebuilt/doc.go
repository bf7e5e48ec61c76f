// Package prebuilt provides the chat assistant used by the ragchat programs.
//
// An Assistant wires a langchaingo chat model to an optional retrieval
// augmentor and a window chat memory. Every call to Chat runs a two node
// graph:
//
//	augment -> generate -> END
//
// The augment node asks the augmentor to route the question, retrieve
// contents and inject them into the user message. The generate node sends
// the conversation history plus the augmented message to the model. Only the
// message as typed by the user is written back to memory.
//
//	model, _ := googleai.New(ctx, googleai.WithAPIKey(key))
//	assistant, err := prebuilt.NewAssistant(model,
//		prebuilt.WithAugmenter(augmentor),
//		prebuilt.WithTemperature(0.3),
//	)
//	reply, err := assistant.Chat(ctx, "Explique-moi les embeddings dans le RAG")
//
// Failed steps can be retried with WithRetryPolicy, which reuses the
// graph package's backoff strategies.
package prebuilt

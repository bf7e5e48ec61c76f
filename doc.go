// Package ragchat is a set of retrieval-augmented chat programs built on
// langchaingo.
//
// A document is loaded, split into overlapping segments, embedded and kept
// in an in-memory vector store. At chat time a query router decides which
// retrievers to consult (the local vector store, a live web search, or
// nothing), their results are fused and injected into the user message, and
// the augmented message is answered by a Gemini chat model with a window of
// recent conversation history.
//
// # Programs
//
//   - cmd/naive-rag indexes a PDF and reports segment and embedding counts.
//   - cmd/conditional-rag asks the model whether a question concerns AI
//     before searching the document.
//   - cmd/routed-rag indexes two documents and lets the model pick between
//     them from their descriptions.
//   - cmd/web-rag searches the document and the web (Tavily or Brave) for
//     every question.
//
// # Packages
//
//   - config: viper and godotenv backed settings
//   - log: leveled logging with a golog backend
//   - graph: the typed state graph that sequences each turn
//   - rag: documents, segments, indexing and langchaingo adapters
//   - rag/loader, rag/splitter, rag/store: ingestion
//   - rag/retriever, rag/router, rag/augment: retrieval augmentation
//   - memory and store/...: window chat memory with memory, Redis, SQLite
//     or PostgreSQL persistence
//   - tool: Tavily and Brave web search engines
//   - prebuilt: the chat assistant
//
// # Quick Start
//
//	export GEMINI_API_KEY=...
//	ollama pull all-minilm
//	go run ./cmd/conditional-rag --doc documents/RAG.pdf
//
// Type a question at the "Vous :" prompt and q to quit.
package ragchat

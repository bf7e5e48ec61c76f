// Package rag holds the document types and component interfaces of the
// retrieval pipeline, plus adapters onto langchaingo.
//
// The pipeline is linear:
//
//	loader → splitter → embedder → vector store → retriever(s) → chat model
//
// Sub-packages provide the concrete pieces:
//
//   - rag/loader: PDF and text loaders backed by langchaingo documentloaders
//   - rag/splitter: recursive character splitter backed by langchaingo textsplitter
//   - rag/store: in-memory vector store and a deterministic mock embedder
//   - rag/retriever: vector-store and web-search retrievers
//   - rag/router: query routers choosing which retrievers to consult
//   - rag/augment: the retrieval augmentor that injects contents into the user message
//
// Indexer wires the first four steps together:
//
//	ix := rag.NewIndexer(splitter.NewRecursive(300, 30), embedder, store.NewInMemoryVectorStore())
//	res, err := ix.Index(ctx, loader.NewPDFLoader("documents/RAG.pdf"))
//	fmt.Println(len(res.Segments))
package rag

// Command routed-rag indexes two documents and lets Gemini pick, for each
// question, which of them to search.
package main

import (
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms"

	"github.com/lango-rag/ragchat/internal/app"
	"github.com/lango-rag/ragchat/rag"
	"github.com/lango-rag/ragchat/rag/augment"
	"github.com/lango-rag/ragchat/rag/retriever"
	"github.com/lango-rag/ragchat/rag/router"
)

const (
	aiDescription        = "Documents techniques sur l'Intelligence Artificielle, RAG, embeddings, fine-tuning."
	monumentsDescription = "Documents décrivant des monuments, architecture, patrimoine culturel et historique."
)

var (
	flags        app.Flags
	monumentsDoc string
)

var rootCmd = &cobra.Command{
	Use:   "routed-rag",
	Short: "Chat over two documents with a language model choosing the source",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := flags.Load(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if err := cfg.RequireGemini(); err != nil {
			return err
		}
		fallback, err := router.ParseFallbackStrategy(cfg.Router.Fallback)
		if err != nil {
			return err
		}

		embedder, err := app.NewEmbedder(cfg.Embedding)
		if err != nil {
			return err
		}

		sources := []struct {
			name        string
			path        string
			description string
		}{
			{"ia", flags.Doc, aiDescription},
			{"monuments", monumentsDoc, monumentsDescription},
		}

		routes := make([]router.Route, 0, len(sources))
		for _, src := range sources {
			vs, res, err := app.IndexPDF(ctx, src.path, embedder, cfg.Index)
			if err != nil {
				return err
			}
			app.Println(cmd, "📄 Document chargé : %s (%d segments)", src.path, len(res.Segments))

			var r rag.Retriever = retriever.NewVectorRetriever(vs, embedder,
				retriever.WithName(src.name),
				retriever.WithMaxResults(cfg.Retrieval.MaxResults),
				retriever.WithMinScore(cfg.Retrieval.MinScore),
			)
			routes = append(routes, router.Route{Retriever: r, Description: src.description})
		}

		model, err := app.NewChatModel(ctx, cfg.Gemini)
		if err != nil {
			return err
		}

		qr := router.NewLanguageModelRouter(model, routes,
			router.WithFallback(fallback),
			router.WithRoutingCallOptions(llms.WithTemperature(cfg.Gemini.Temperature)),
		)
		augmentor, err := augment.NewRetrievalAugmentor(qr)
		if err != nil {
			return err
		}

		assistant, closeMemory, err := app.NewAssistant(ctx, cfg, model, augmentor)
		if err != nil {
			return err
		}
		defer closeMemory()

		return app.RunConsole(cmd, assistant, flags.Plain)
	},
}

func init() {
	flags.Register(rootCmd, "documents/rag.pdf")
	rootCmd.Flags().StringVar(&monumentsDoc, "monuments-doc", "documents/MonumentsEurope.pdf", "Document describing monuments")
}

func main() {
	app.Execute(rootCmd)
}

// Command web-rag answers questions with both the indexed document and a
// live web search.
package main

import (
	"github.com/spf13/cobra"

	"github.com/lango-rag/ragchat/internal/app"
	"github.com/lango-rag/ragchat/rag/augment"
	"github.com/lango-rag/ragchat/rag/retriever"
	"github.com/lango-rag/ragchat/rag/router"
)

var flags app.Flags

var rootCmd = &cobra.Command{
	Use:   "web-rag",
	Short: "Chat over a document and the web",
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
		if err := cfg.RequireWebSearch(); err != nil {
			return err
		}

		app.Println(cmd, "📄 Chargement du PDF...")
		embedder, err := app.NewEmbedder(cfg.Embedding)
		if err != nil {
			return err
		}
		vs, res, err := app.IndexPDF(ctx, flags.Doc, embedder, cfg.Index)
		if err != nil {
			return err
		}
		app.Println(cmd, "PDF indexé : %d segments", len(res.Segments))

		app.Println(cmd, "Initialisation du modèle Gemini...")
		model, err := app.NewChatModel(ctx, cfg.Gemini)
		if err != nil {
			return err
		}

		local := retriever.NewVectorRetriever(vs, embedder,
			retriever.WithMaxResults(cfg.Retrieval.MaxResults),
			retriever.WithMinScore(cfg.Retrieval.MinScore),
		)

		app.Println(cmd, "Initialisation du moteur de recherche %s...", cfg.Web.Provider)
		engine, err := app.NewWebSearch(cfg)
		if err != nil {
			return err
		}
		web := retriever.NewWebSearchRetriever(engine, cfg.Tavily.MaxResults)

		app.Println(cmd, "Configuration du QueryRouter...")
		augmentor, err := augment.NewRetrievalAugmentor(router.NewDefaultRouter(local, web))
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
	flags.Register(rootCmd, "documents/RAG.pdf")
}

func main() {
	app.Execute(rootCmd)
}

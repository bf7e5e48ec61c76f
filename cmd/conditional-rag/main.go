// Command conditional-rag chats with Gemini and only searches the indexed
// document when the model judges the question to be about AI, RAG or
// fine-tuning.
package main

import (
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms"

	"github.com/lango-rag/ragchat/config"
	"github.com/lango-rag/ragchat/internal/app"
	"github.com/lango-rag/ragchat/rag"
	"github.com/lango-rag/ragchat/rag/augment"
	"github.com/lango-rag/ragchat/rag/retriever"
	"github.com/lango-rag/ragchat/rag/router"
)

var flags app.Flags

var rootCmd = &cobra.Command{
	Use:   "conditional-rag",
	Short: "Chat with retrieval enabled only for AI related questions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := flags.Load(cmd.ErrOrStderr(),
			config.WithDefault("gemini.temperature", 0.2),
			config.WithDefault("retrieval.max_results", 2),
		)
		if err != nil {
			return err
		}
		if err := cfg.RequireGemini(); err != nil {
			return err
		}

		embedder, err := app.NewEmbedder(cfg.Embedding)
		if err != nil {
			return err
		}
		vs, res, err := app.IndexPDF(ctx, flags.Doc, embedder, cfg.Index)
		if err != nil {
			return err
		}
		app.Println(cmd, "Segments générés : %d", len(res.Segments))

		model, err := app.NewChatModel(ctx, cfg.Gemini)
		if err != nil {
			return err
		}

		local := retriever.NewVectorRetriever(vs, embedder,
			retriever.WithMaxResults(cfg.Retrieval.MaxResults),
			retriever.WithMinScore(cfg.Retrieval.MinScore),
		)
		qr := router.NewClassifierRouter(model, []rag.Retriever{local},
			router.WithClassifierCallOptions(llms.WithTemperature(cfg.Gemini.Temperature)),
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

		app.Println(cmd, "Test conseillé :")
		app.Println(cmd, "Bonjour")
		app.Println(cmd, "Explique-moi les embeddings dans le RAG")

		return app.RunConsole(cmd, assistant, flags.Plain)
	},
}

func init() {
	flags.Register(rootCmd, "documents/RAG.pdf")
}

func main() {
	app.Execute(rootCmd)
}

// Command naive-rag indexes a document into an in-memory vector store and
// reports how many segments and embeddings were produced.
package main

import (
	"github.com/spf13/cobra"

	"github.com/lango-rag/ragchat/internal/app"
)

var flags app.Flags

var rootCmd = &cobra.Command{
	Use:   "naive-rag",
	Short: "Index a PDF into an in-memory vector store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := flags.Load(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		embedder, err := app.NewEmbedder(cfg.Embedding)
		if err != nil {
			return err
		}

		vs, res, err := app.IndexPDF(cmd.Context(), flags.Doc, embedder, cfg.Index)
		if err != nil {
			return err
		}

		app.Println(cmd, "Nombre de segments : %d", len(res.Segments))
		app.Println(cmd, "Nombre d'embeddings générés : %d", len(res.Embeddings))
		if vs.Len() == len(res.Segments) {
			app.Println(cmd, "Enregistrement des embeddings terminé avec succès !")
		}
		return nil
	},
}

func init() {
	flags.Register(rootCmd, "documents/RAG.pdf")
}

func main() {
	app.Execute(rootCmd)
}

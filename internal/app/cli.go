package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms"

	"github.com/lango-rag/ragchat/config"
	"github.com/lango-rag/ragchat/internal/console"
	"github.com/lango-rag/ragchat/prebuilt"
)

// Flags are the command line settings shared by every program
type Flags struct {
	ConfigPath string
	Doc        string
	LogLevel   string
	Plain      bool
}

// Register adds the shared flags to cmd. defaultDoc is the document indexed
// when --doc is not given.
func (f *Flags) Register(cmd *cobra.Command, defaultDoc string) {
	cmd.Flags().StringVarP(&f.ConfigPath, "config", "c", "", "Configuration file (yaml, json or toml)")
	cmd.Flags().StringVarP(&f.Doc, "doc", "d", defaultDoc, "Document to index (.pdf, .txt or .md)")
	cmd.Flags().StringVar(&f.LogLevel, "log-level", "", "Log level: debug, info, warn, error or none")
	cmd.Flags().BoolVar(&f.Plain, "plain", false, "Print replies as plain text instead of markdown")
}

// Load reads the configuration and installs the logger. The --log-level flag
// takes precedence over the configured level.
func (f *Flags) Load(stderr io.Writer, opts ...config.Option) (*config.Config, error) {
	cfg, err := config.Load(f.ConfigPath, opts...)
	if err != nil {
		return nil, err
	}
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if err := SetupLogger(stderr, cfg.Log.Level); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewAssistant builds the chat assistant of a program: configured memory,
// temperature, request logging and retry policy. The returned function
// releases the memory backend.
func NewAssistant(ctx context.Context, cfg *config.Config, model llms.Model, augmenter prebuilt.Augmenter) (*prebuilt.Assistant, func(), error) {
	mem, closeFn, err := NewWindowMemory(ctx, cfg.Memory)
	if err != nil {
		return nil, nil, err
	}

	opts := []prebuilt.AssistantOption{
		prebuilt.WithMemory(mem),
		prebuilt.WithTemperature(cfg.Gemini.Temperature),
		prebuilt.WithRequestLogging(cfg.Gemini.LogRequests),
		prebuilt.WithAugmentedMemory(cfg.Memory.Augmented),
	}
	if augmenter != nil {
		opts = append(opts, prebuilt.WithAugmenter(augmenter))
	}
	if policy := RetryPolicy(cfg.Retry); policy != nil {
		opts = append(opts, prebuilt.WithRetryPolicy(policy))
	}

	assistant, err := prebuilt.NewAssistant(model, opts...)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return assistant, closeFn, nil
}

// RunConsole reads questions from cmd's input until q or end of input and
// prints the assistant's replies.
func RunConsole(cmd *cobra.Command, assistant *prebuilt.Assistant, plain bool) error {
	repl := &console.REPL{
		In:    cmd.InOrStdin(),
		Out:   cmd.OutOrStdout(),
		Plain: plain,
	}
	return repl.Run(cmd.Context(), assistant.Chat)
}

// Execute runs cmd with a context cancelled on SIGINT or SIGTERM and exits
// with status 1 when it fails.
func Execute(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.SilenceUsage = true
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// Println writes a console line to cmd's output
func Println(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}

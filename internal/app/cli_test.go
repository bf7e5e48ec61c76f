package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/lango-rag/ragchat/config"
	"github.com/lango-rag/ragchat/log"
)

type cannedModel struct {
	reply string
}

func (m *cannedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.reply}},
	}, nil
}

func (m *cannedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return m.reply, nil
}

func TestFlagsRegister(t *testing.T) {
	var f Flags
	cmd := &cobra.Command{Use: "test"}
	f.Register(cmd, "documents/RAG.pdf")

	require.NoError(t, cmd.ParseFlags([]string{"--doc", "notes.md", "--log-level", "debug", "--plain"}))
	assert.Equal(t, "notes.md", f.Doc)
	assert.Equal(t, "debug", f.LogLevel)
	assert.True(t, f.Plain)
	assert.Empty(t, f.ConfigPath)
}

func TestFlagsLoad(t *testing.T) {
	defer log.SetDefaultLogger(log.NewDefaultLogger(log.LogLevelInfo))
	t.Chdir(t.TempDir())

	var stderr bytes.Buffer
	f := Flags{LogLevel: "error"}
	cfg, err := f.Load(&stderr, config.WithDefault("retrieval.max_results", 2))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 2, cfg.Retrieval.MaxResults)

	log.Warn("not shown")
	assert.Empty(t, stderr.String())

	f = Flags{LogLevel: "chatty"}
	_, err = f.Load(&stderr)
	assert.Error(t, err)

	f = Flags{ConfigPath: "missing.yaml"}
	_, err = f.Load(&stderr)
	assert.Error(t, err)
}

func TestNewAssistantAndConsole(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Gemini: config.GeminiConfig{Temperature: 0.3},
		Memory: config.MemoryConfig{Backend: "memory", MaxMessages: 10, SessionID: "default"},
	}

	assistant, closeFn, err := NewAssistant(ctx, cfg, &cannedModel{reply: "Bonjour !"}, nil)
	require.NoError(t, err)
	defer closeFn()

	var out bytes.Buffer
	cmd := &cobra.Command{Use: "test"}
	cmd.SetIn(strings.NewReader("Salut\nQ\n"))
	cmd.SetOut(&out)
	cmd.SetContext(ctx)

	require.NoError(t, RunConsole(cmd, assistant, true))
	assert.Contains(t, out.String(), "Vous : ")
	assert.Contains(t, out.String(), "Bonjour !")

	msgs, err := assistant.Memory().Messages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Salut", msgs[0].Content)
}

func TestPrintln(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{Use: "test"}
	cmd.SetOut(&out)

	Println(cmd, "Segments générés : %d", 7)
	assert.Equal(t, "Segments générés : 7\n", out.String())
}

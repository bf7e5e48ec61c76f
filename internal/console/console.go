package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lango-rag/ragchat/log"
)

const (
	// DefaultPrompt is printed before every user line
	DefaultPrompt = "(Tapez 'q' pour quitter) \nVous : "
	// DefaultReplyPrefix is printed before every reply
	DefaultReplyPrefix = "Gemini : "
)

// ChatFunc answers one user line
type ChatFunc func(ctx context.Context, line string) (string, error)

// REPL reads questions line by line and prints the answers
type REPL struct {
	In          io.Reader
	Out         io.Writer
	Prompt      string
	ReplyPrefix string
	// Plain renders markdown replies as plain text
	Plain bool
}

// IsQuit reports whether line asks to leave the loop
func IsQuit(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), "q")
}

// Run loops until the user quits, the input ends or ctx is done. A failed
// turn is reported and the loop goes on.
func (r *REPL) Run(ctx context.Context, chat ChatFunc) error {
	prompt := r.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	prefix := r.ReplyPrefix
	if prefix == "" {
		prefix = DefaultReplyPrefix
	}

	style := lipgloss.NewRenderer(r.Out).NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	styledPrefix := style.Render(prefix)

	scanner := bufio.NewScanner(r.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(r.Out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(r.Out)
			return scanner.Err()
		}

		line := scanner.Text()
		if IsQuit(line) {
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		reply, err := chat(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error("chat failed: %v", err)
			fmt.Fprintf(r.Out, "Erreur : %v\n\n", err)
			continue
		}

		if r.Plain {
			reply = MarkdownToText(reply)
		}
		fmt.Fprintf(r.Out, "%s%s\n\n", styledPrefix, reply)
	}
}

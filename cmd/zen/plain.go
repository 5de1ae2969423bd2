package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/kr1shnaakhurana/zenlang/zen"
)

const historyFile = ".zen_history"

type prompter interface {
	Prompt(prompt string) (string, error)
}

// runPlainREPL is the line-editing prompt for terminals where the
// full-screen UI is unwanted.
func runPlainREPL(cfg zen.Config) error {
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer s.close()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	return plainLoop(s, ln, cfg.Stdout, func(src string) {
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	})
}

func plainLoop(s *session, p prompter, w io.Writer, remember func(string)) error {
	fmt.Fprintf(w, "ZenLang REPL v%s\nType :quit to exit.\n", zen.Version)
	for {
		src, ok := readStatement(p)
		if !ok {
			fmt.Fprintln(w)
			return nil
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch trimmed {
			case ":quit", ":q":
				return nil
			default:
				fmt.Fprintf(w, "Unknown command: %s\n", trimmed)
			}
			continue
		}
		remember(src)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		val, err := s.eval(ctx, src)
		stop()
		var exit *zen.ExitError
		switch {
		case errors.As(err, &exit):
			return err
		case zen.IsInterrupt(err):
			fmt.Fprintln(w, "Interrupted")
		case err != nil:
			fmt.Fprintln(w, err)
		case !val.IsNull():
			fmt.Fprintln(w, val.Inspect())
		}
	}
}

// readStatement reads lines until they form a complete program. It
// reports false at end of input.
func readStatement(p prompter) (string, bool) {
	var b strings.Builder
	for {
		prompt := replPrompt
		if b.Len() > 0 {
			prompt = replContinuePrompt
		}
		line, err := p.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if strings.TrimSpace(b.String()) == "" || strings.HasPrefix(strings.TrimSpace(b.String()), ":") {
			return b.String(), true
		}
		if src, complete := completeInput(b.String()); complete {
			return src, true
		}
	}
}

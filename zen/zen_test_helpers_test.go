package zen

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func newTestInterpreter(t *testing.T, cfg Config) (*Interpreter, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	if cfg.Stdout == nil {
		cfg.Stdout = &out
	}
	if cfg.Stdin == nil {
		cfg.Stdin = strings.NewReader("")
	}
	if cfg.Logger == nil {
		cfg.Logger = NewLogger("error", io.Discard)
	}
	if cfg.PackageDir == "" {
		cfg.PackageDir = t.TempDir()
	}
	in, err := New(cfg)
	if err != nil {
		t.Fatalf("new interpreter: %v", err)
	}
	t.Cleanup(in.Close)
	return in, &out
}

func evalSource(t *testing.T, source string) Value {
	t.Helper()
	in, _ := newTestInterpreter(t, Config{})
	val, err := in.Eval(context.Background(), source)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	return val
}

func runOutput(t *testing.T, source string) string {
	t.Helper()
	in, out := newTestInterpreter(t, Config{})
	if err := in.RunSource(context.Background(), source); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func requireRuntimeError(t *testing.T, source string, kind ErrorType, contains string) *RuntimeError {
	t.Helper()
	in, _ := newTestInterpreter(t, Config{})
	_, err := in.Eval(context.Background(), source)
	if err == nil {
		t.Fatalf("expected %s, got success", kind)
	}
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("expected RuntimeError, got %T: %v", err, err)
	}
	if re.Type != kind {
		t.Fatalf("expected %s, got %s: %v", kind, re.Type, err)
	}
	if !strings.Contains(re.Message, contains) {
		t.Fatalf("expected message containing %q, got %q", contains, re.Message)
	}
	return re
}

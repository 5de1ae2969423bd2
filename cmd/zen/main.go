package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"

	"github.com/kr1shnaakhurana/zenlang/stdlib"
	"github.com/kr1shnaakhurana/zenlang/zen"
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	err := newApp(stdin, stdout, stderr).Run(args)
	if err == nil {
		return 0
	}
	var exit *zen.ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	style := lipgloss.NewRenderer(stderr).NewStyle().Foreground(errorColor)
	fmt.Fprintln(stderr, style.Render(err.Error()))
	return 1
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:           "zen",
		Usage:          "run ZenLang programs",
		Version:        zen.Version,
		HideVersion:    true,
		Reader:         stdin,
		Writer:         stdout,
		ErrWriter:      stderr,
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: zen.ProjectFile, Usage: "project configuration file"},
			&cli.StringFlag{Name: "log-level", Usage: "log level (debug, info, warn, error)"},
			&cli.StringSliceFlag{Name: "script-path", Usage: "extra include search directory (repeatable)"},
			&cli.IntFlag{Name: "recursion-limit", Usage: "maximum call depth"},
			&cli.IntFlag{Name: "step-quota", Usage: "maximum evaluation steps per run (0 = unlimited)"},
			&cli.StringFlag{Name: "package-dir", Usage: "installed packages directory"},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "run a program",
				ArgsUsage: "<file.zen> [args...]",
				Action:    runCommand,
			},
			{
				Name:      "build",
				Usage:     "check a program for syntax errors",
				ArgsUsage: "<file.zen>",
				Action:    buildCommand,
			},
			{
				Name:  "repl",
				Usage: "start an interactive session",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "plain", Usage: "line-based prompt instead of the full-screen UI"},
				},
				Action: replCommand,
			},
			{
				Name:      "fmt",
				Usage:     "normalize whitespace in source files",
				ArgsUsage: "<path>...",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "write", Aliases: []string{"w"}, Usage: "write result to source files instead of stdout"},
					&cli.BoolFlag{Name: "check", Usage: "fail if any source file needs formatting"},
				},
				Action: fmtCommand,
			},
			{
				Name:      "analyze",
				Usage:     "report unreachable statements",
				ArgsUsage: "<file.zen>",
				Action:    analyzeCommand,
			},
			{
				Name:      "install",
				Usage:     "install a package",
				ArgsUsage: "<name>",
				Action:    installCommand,
			},
			{
				Name:      "remove",
				Usage:     "remove an installed package",
				ArgsUsage: "<name>",
				Action:    removeCommand,
			},
			{
				Name:   "list",
				Usage:  "list installed packages",
				Action: listCommand,
			},
			{
				Name:  "version",
				Usage: "print the language version",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "ZenLang v%s\n", zen.Version)
					return nil
				},
			},
		},
	}
}

// configure merges the project file with command-line overrides.
func configure(c *cli.Context) (zen.Config, error) {
	fc, err := zen.LoadConfig(c.String("config"))
	if err != nil {
		return zen.Config{}, err
	}
	level := fc.LogLevel
	if c.IsSet("log-level") {
		level = c.String("log-level")
	}
	cfg := zen.Config{
		Stdout: c.App.Writer,
		Stdin:  c.App.Reader,
		Logger: zen.NewLogger(level, c.App.ErrWriter),
	}
	fc.Apply(&cfg)
	cfg.ScriptPaths, err = scriptPaths(append(cfg.ScriptPaths, c.StringSlice("script-path")...))
	if err != nil {
		return zen.Config{}, err
	}
	if c.IsSet("recursion-limit") {
		cfg.RecursionLimit = c.Int("recursion-limit")
	}
	if c.IsSet("step-quota") {
		cfg.StepQuota = c.Int("step-quota")
	}
	if c.IsSet("package-dir") {
		cfg.PackageDir = c.String("package-dir")
	}
	if cfg.PackageDir == "" {
		cfg.PackageDir = zen.DefaultPackageDir()
	}
	return cfg, nil
}

// scriptPaths resolves extra include directories to absolute paths,
// dropping duplicates.
func scriptPaths(paths []string) ([]string, error) {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve script path %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("script path %s: %w", p, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("script path %s is not a directory", p)
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
	}
	return out, nil
}

func fileArg(c *cli.Context) (string, error) {
	if c.NArg() < 1 {
		return "", fmt.Errorf("%s: script path required", c.Command.Name)
	}
	return c.Args().First(), nil
}

func runCommand(c *cli.Context) error {
	path, err := fileArg(c)
	if err != nil {
		return err
	}
	cfg, err := configure(c)
	if err != nil {
		return err
	}
	cfg.Args = c.Args().Tail()

	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Logger.Info().Str("file", path).Int("args", len(cfg.Args)).Msg("run")
	err = s.runFile(ctx, path)
	if zen.IsInterrupt(err) {
		fmt.Fprintln(c.App.Writer, "Program interrupted")
		return nil
	}
	return err
}

func buildCommand(c *cli.Context) error {
	path, err := fileArg(c)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if _, err := zen.Parse(string(src)); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "✓ Build successful: %s\n", path)
	return nil
}

func replCommand(c *cli.Context) error {
	cfg, err := configure(c)
	if err != nil {
		return err
	}
	if c.Bool("plain") {
		return runPlainREPL(cfg)
	}
	return runREPL(cfg)
}

// session pairs an interpreter with the runtime of its built-in packages.
type session struct {
	in *zen.Interpreter
	rt *stdlib.Runtime
}

func newSession(cfg zen.Config) (*session, error) {
	rt := stdlib.New(stdlib.Options{Logger: cfg.Logger})
	reg := zen.NewRegistry()
	rt.Register(reg)
	cfg.Packages = reg
	in, err := zen.New(cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Bind(in)
	return &session{in: in, rt: rt}, nil
}

func (s *session) runFile(ctx context.Context, path string) error {
	return s.rt.Do(func() error {
		return s.in.RunFile(ctx, path)
	})
}

func (s *session) eval(ctx context.Context, src string) (zen.Value, error) {
	out := zen.NewNull()
	err := s.rt.Do(func() error {
		var err error
		out, err = s.in.Eval(ctx, src)
		return err
	})
	return out, err
}

func (s *session) close() error {
	err := s.rt.Close()
	s.in.Close()
	return err
}

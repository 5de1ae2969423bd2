package zen

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oarkflow/log"
)

// Version is the language version reported by the CLI and sys.version().
const Version = "1.0.0"

const (
	defaultRecursionLimit = 1000
	defaultCacheSize      = 64 << 20
	defaultPackageDir     = ".zenpkgs"
)

// Config controls interpreter limits, include resolution and host streams.
type Config struct {
	RecursionLimit int
	StepQuota      int
	ScriptPaths    []string
	PackageDir     string
	Args           []string
	Stdout         io.Writer
	Stdin          io.Reader
	Logger         *log.Logger
	CacheSize      int64
	Packages       *Registry
}

type callFrame struct {
	Function string
	Pos      Position
}

// DefaultPackageDir is the installed-packages directory used when
// Config.PackageDir is empty.
func DefaultPackageDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, defaultPackageDir)
}

// Interpreter evaluates programs against one persistent global environment.
// It is not safe for concurrent use; hosts that call back into it from
// other goroutines must serialize those calls.
type Interpreter struct {
	config   Config
	globals  *Env
	registry *Registry
	log      *log.Logger
	ctx      context.Context

	steps     int
	callStack []callFrame

	source    string
	scriptDir string
	// methodOwner is the class whose method body is running, nil at top
	// level and inside plain functions called from it.
	methodOwner *Class

	packages     map[string]Value
	includeStack []string
	cache        *includeCache
	stdinReader  *lineReader
}

// New constructs an Interpreter with defaults applied and the core
// built-ins bound in the global scope.
func New(cfg Config) (*Interpreter, error) {
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = defaultRecursionLimit
	}
	if cfg.StepQuota < 0 {
		cfg.StepQuota = 0
	}
	if cfg.PackageDir == "" {
		cfg.PackageDir = DefaultPackageDir()
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Logger == nil {
		cfg.Logger = NewLogger("", os.Stderr)
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.Packages == nil {
		cfg.Packages = NewRegistry()
	}

	cache, err := newIncludeCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	in := &Interpreter{
		config:   cfg,
		globals:  newEnv(nil),
		registry: cfg.Packages,
		log:      cfg.Logger,
		ctx:      context.Background(),
		packages: make(map[string]Value),
		cache:    cache,
	}
	registerCoreBuiltins(in)
	return in, nil
}

// Close releases the include cache.
func (in *Interpreter) Close() {
	in.cache.close()
}

// RegisterBuiltin binds a host function in the global scope.
func (in *Interpreter) RegisterBuiltin(name string, fn BuiltinFunc) {
	in.globals.Define(name, NewBuiltin(name, fn))
}

// Globals exposes the global environment.
func (in *Interpreter) Globals() *Env { return in.globals }

// Registry returns the package registry consulted by include directives.
func (in *Interpreter) Registry() *Registry { return in.registry }

func (in *Interpreter) Logger() *log.Logger { return in.log }

func (in *Interpreter) Stdout() io.Writer { return in.config.Stdout }

func (in *Interpreter) Stdin() io.Reader { return in.config.Stdin }

// Args returns the script arguments supplied by the host.
func (in *Interpreter) Args() []string { return in.config.Args }

// Context returns the context of the evaluation in progress.
func (in *Interpreter) Context() context.Context { return in.ctx }

// RunFile reads, parses and runs a script file. Relative includes resolve
// against the script's directory after the working directory.
func (in *Interpreter) RunFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	program, err := Parse(string(data))
	if err != nil {
		return err
	}
	program.path = abs
	in.scriptDir = filepath.Dir(abs)
	in.includeStack = append(in.includeStack[:0], abs)
	defer func() { in.includeStack = in.includeStack[:0] }()
	return in.Run(ctx, program)
}

// RunSource parses and runs source text.
func (in *Interpreter) RunSource(ctx context.Context, source string) error {
	program, err := Parse(source)
	if err != nil {
		return err
	}
	return in.Run(ctx, program)
}

// Run executes all includes in order, then every top-level statement, on
// the shared global environment. It surfaces at most one error.
func (in *Interpreter) Run(ctx context.Context, program *Program) error {
	_, err := in.execProgram(ctx, program)
	return err
}

// Eval runs a source fragment against the persistent globals and returns
// the value of the last expression statement, or null.
func (in *Interpreter) Eval(ctx context.Context, source string) (Value, error) {
	program, err := Parse(source)
	if err != nil {
		return NewNull(), err
	}
	return in.execProgram(ctx, program)
}

func (in *Interpreter) execProgram(ctx context.Context, program *Program) (Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	restore := in.enter(ctx, program.source)
	defer restore()
	in.steps = 0
	in.callStack = in.callStack[:0]

	for _, inc := range program.Includes {
		if err := in.loadInclude(inc); err != nil {
			return NewNull(), err
		}
	}
	return in.execTopLevel(program.Statements)
}

// enter swaps in the context and source for a nested run and returns a
// function restoring the previous state.
func (in *Interpreter) enter(ctx context.Context, source string) func() {
	prevCtx, prevSource := in.ctx, in.source
	in.ctx, in.source = ctx, source
	return func() {
		in.ctx, in.source = prevCtx, prevSource
	}
}

// Call invokes a callable value from host code, for example a server
// callback or a higher-order built-in.
func (in *Interpreter) Call(ctx context.Context, fn Value, args ...Value) (Value, error) {
	if ctx == nil {
		ctx = in.ctx
	}
	prevCtx := in.ctx
	in.ctx = ctx
	defer func() { in.ctx = prevCtx }()
	return in.callValue(fn, args, Position{})
}

func (in *Interpreter) step() error {
	in.steps++
	if in.config.StepQuota > 0 && in.steps > in.config.StepQuota {
		return fmt.Errorf("%w (%d)", ErrStepQuota, in.config.StepQuota)
	}
	if in.ctx != nil {
		select {
		case <-in.ctx.Done():
			return in.ctx.Err()
		default:
		}
	}
	return nil
}

func (in *Interpreter) pushFrame(function string, pos Position) error {
	if len(in.callStack) >= in.config.RecursionLimit {
		return in.errorAt(ErrRecursion, pos, "stack exhausted: recursion depth exceeded (limit %d)", in.config.RecursionLimit)
	}
	in.callStack = append(in.callStack, callFrame{Function: function, Pos: pos})
	return nil
}

func (in *Interpreter) popFrame() {
	if len(in.callStack) == 0 {
		return
	}
	in.callStack = in.callStack[:len(in.callStack)-1]
}

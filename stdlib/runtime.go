// Package stdlib provides the built-in packages that scripts load with
// `.include <name>`: console and input helpers, system access, time and
// scheduling, math, files, HTTP client and HTML scraping, a JSON-file
// database, web servers and terminal styling.
//
// A Runtime is created per interpreter. It owns the lock that serializes
// every entry into the evaluator, so server and scheduler callbacks never
// run concurrently with the main script.
package stdlib

import (
	"context"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oarkflow/log"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/kr1shnaakhurana/zenlang/zen"
)

// Options configures a Runtime. Zero values select defaults.
type Options struct {
	Logger     *log.Logger
	DataDir    string
	HTTPClient *http.Client

	// OnlineURL and IPLookupURL back net.isOnline and net.getIP.
	OnlineURL   string
	IPLookupURL string
}

// Runtime holds the per-interpreter state of the built-in packages.
type Runtime struct {
	mu   sync.Mutex
	held atomic.Bool

	log     *log.Logger
	dataDir string
	client  *http.Client
	agent   string

	onlineURL string
	ipURL     string

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	scheduler *cron.Cron

	servers []*server
	web     *webState

	databases map[string]*database
	currentDB *database
}

// New creates a Runtime. Close must be called to stop servers and
// scheduled jobs.
func New(opts Options) *Runtime {
	if opts.Logger == nil {
		opts.Logger = zen.NewLogger("", os.Stderr)
	}
	if opts.DataDir == "" {
		opts.DataDir = "."
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.OnlineURL == "" {
		opts.OnlineURL = "https://www.google.com"
	}
	if opts.IPLookupURL == "" {
		opts.IPLookupURL = "https://api.ipify.org?format=json"
	}
	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)
	return &Runtime{
		log:       opts.Logger,
		dataDir:   opts.DataDir,
		client:    opts.HTTPClient,
		agent:     defaultUserAgent,
		onlineURL: opts.OnlineURL,
		ipURL:     opts.IPLookupURL,
		ctx:       gctx,
		cancel:    cancel,
		group:     group,
		web:       newWebState(),
		databases: make(map[string]*database),
	}
}

// Register adds every built-in package to reg, bound to this runtime.
func (rt *Runtime) Register(reg *zen.Registry) {
	loaders := map[string]zen.PackageLoader{
		"zenout":   rt.loadZenout,
		"zenin":    rt.loadZenin,
		"sys":      rt.loadSys,
		"time":     rt.loadTime,
		"math":     rt.loadMath,
		"fs":       rt.loadFS,
		"net":      rt.loadNet,
		"zendb":    rt.loadZenDB,
		"zenweb":   rt.loadZenweb,
		"http":     rt.loadZenweb,
		"web":      rt.loadWeb,
		"zenwares": rt.loadZenwares,
	}
	for name, loader := range loaders {
		reg.Register(name, loader)
	}
}

// Bind overrides interpreter globals that must release the evaluator lock
// while they wait. Hosts call it once after zen.New.
func (rt *Runtime) Bind(in *zen.Interpreter) {
	in.RegisterBuiltin("sleep", func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
		d := time.Duration(zen.Arg(args, 0).Float() * float64(time.Second))
		return zen.NewNull(), rt.sleep(in, d)
	})
}

// Do runs fn while holding the evaluator lock. Hosts wrap every call into
// the interpreter (Run, Eval, Call) with it.
func (rt *Runtime) Do(fn func() error) error {
	rt.mu.Lock()
	rt.held.Store(true)
	defer func() {
		rt.held.Store(false)
		rt.mu.Unlock()
	}()
	return fn()
}

// blocking releases the evaluator lock around fn so callbacks can run while
// the script waits.
func (rt *Runtime) blocking(fn func()) {
	if !rt.held.Load() {
		fn()
		return
	}
	rt.held.Store(false)
	rt.mu.Unlock()
	defer func() {
		rt.mu.Lock()
		rt.held.Store(true)
	}()
	fn()
}

// invoke calls a script function from a server or scheduler goroutine.
func (rt *Runtime) invoke(in *zen.Interpreter, fn zen.Value, args ...zen.Value) (zen.Value, error) {
	out := zen.NewNull()
	err := rt.Do(func() error {
		var err error
		out, err = in.Call(rt.ctx, fn, args...)
		return err
	})
	return out, err
}

// Close stops scheduled jobs and shuts down servers. It must not be called
// from inside Do.
func (rt *Runtime) Close() error {
	if rt.scheduler != nil {
		<-rt.scheduler.Stop().Done()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, s := range rt.servers {
		s.shutdown(ctx)
	}
	rt.cancel()
	return rt.group.Wait()
}

type funcs map[string]zen.BuiltinFunc

// object builds a package value named pkg from its functions and constants.
func object(pkg string, fns funcs, consts map[string]zen.Value) zen.Value {
	members := make(map[string]zen.Value, len(fns)+len(consts))
	names := make([]string, 0, len(fns))
	for name := range fns {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		members[name] = zen.NewBuiltin(pkg+"."+name, fns[name])
	}
	for name, val := range consts {
		members[name] = val
	}
	return zen.NewObject(members)
}

func stringArg(args []zen.Value, i int, def string) string {
	v := zen.Arg(args, i)
	if v.IsNull() {
		return def
	}
	return v.String()
}

func intArg(args []zen.Value, i int, def int64) int64 {
	v := zen.Arg(args, i)
	if v.IsNull() {
		return def
	}
	return v.Int()
}

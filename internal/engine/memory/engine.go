// Package memory implements an in-process dry-run provisioning engine.
//
// It realizes resources as records in memory, synthesizes the outputs a cloud
// control plane would report (identifiers, hostnames, workspace keys), and
// converges repeated creates of the same name. It backs previews and every
// topology test.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/opmodel/geodeploy/internal/engine"
	"github.com/opmodel/geodeploy/internal/future"
	"github.com/opmodel/geodeploy/internal/identity"
	"github.com/opmodel/geodeploy/internal/output"
)

// DefaultTimeout bounds an operation when the caller sets no custom timeout.
const DefaultTimeout = 10 * time.Minute

// OutputFunc synthesizes kind-specific outputs. It receives a copy of the
// inputs with id and name already set and may modify it in place.
type OutputFunc func(name string, outputs engine.Properties) error

// QueryFunc answers a named query.
type QueryFunc func(params engine.Properties) (engine.Properties, error)

// Request records a Create or Query call as it was made, before its inputs
// resolved.
type Request struct {
	Op   string
	Kind engine.Kind
	Name string
	Opts engine.Options
}

// Request operations.
const (
	OpCreate = "create"
	OpQuery  = "query"
)

type key struct {
	kind engine.Kind
	name string
}

// Engine is the in-memory provisioning engine. Safe for concurrent use.
type Engine struct {
	mu        sync.Mutex
	resources map[key]*engine.Resource
	order     []key
	requests  []Request

	outputs       map[engine.Kind]OutputFunc
	queries       map[string]QueryFunc
	failures      map[key]error
	queryFailures map[string]error
	latency       map[key]time.Duration

	defaultLatency time.Duration
	domain         string
	sem            *semaphore.Weighted
}

var _ engine.Engine = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithParallelism caps the number of operations in flight. n <= 0 means no cap.
func WithParallelism(n int64) Option {
	return func(e *Engine) {
		if n > 0 {
			e.sem = semaphore.NewWeighted(n)
		}
	}
}

// WithLatency delays every operation by d.
func WithLatency(d time.Duration) Option {
	return func(e *Engine) {
		e.defaultLatency = d
	}
}

// WithResourceLatency delays the create of kind/name by d, overriding WithLatency.
func WithResourceLatency(kind engine.Kind, name string, d time.Duration) Option {
	return func(e *Engine) {
		e.latency[key{kind, name}] = d
	}
}

// WithDomain sets the DNS suffix of synthesized workload hostnames.
func WithDomain(domain string) Option {
	return func(e *Engine) {
		e.domain = domain
	}
}

// FailCreate makes every create of kind/name fail with err.
func FailCreate(kind engine.Kind, name string, err error) Option {
	return func(e *Engine) {
		e.failures[key{kind, name}] = err
	}
}

// FailQuery makes every run of query fail with err.
func FailQuery(query string, err error) Option {
	return func(e *Engine) {
		e.queryFailures[query] = err
	}
}

// WithOutputs replaces the output synthesizer for kind.
func WithOutputs(kind engine.Kind, fn OutputFunc) Option {
	return func(e *Engine) {
		e.outputs[kind] = fn
	}
}

// WithQuery registers or replaces a query handler.
func WithQuery(name string, fn QueryFunc) Option {
	return func(e *Engine) {
		e.queries[name] = fn
	}
}

// New creates an in-memory engine with the default synthesizers.
func New(opts ...Option) *Engine {
	e := &Engine{
		resources:     make(map[key]*engine.Resource),
		outputs:       make(map[engine.Kind]OutputFunc),
		queries:       make(map[string]QueryFunc),
		failures:      make(map[key]error),
		queryFailures: make(map[string]error),
		latency:       make(map[key]time.Duration),
		domain:        DefaultDomain,
	}
	e.outputs[engine.KindWorkspace] = workspaceOutputs
	e.outputs[engine.KindWorkload] = e.workloadOutputs
	e.outputs[engine.KindRouter] = routerOutputs
	e.queries[engine.QueryWorkspaceSharedKeys] = workspaceSharedKeys

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Create implements engine.Engine.
func (e *Engine) Create(ctx context.Context, kind engine.Kind, name string, props *future.Future[engine.Properties], opts engine.Options) *future.Future[*engine.Resource] {
	e.record(Request{Op: OpCreate, Kind: kind, Name: name, Opts: opts})

	return future.Then(props, func(inputs engine.Properties) *future.Future[*engine.Resource] {
		return future.Go(func() (*engine.Resource, error) {
			return e.apply(ctx, kind, name, inputs, opts)
		})
	})
}

// Query implements engine.Engine.
func (e *Engine) Query(ctx context.Context, query string, params *future.Future[engine.Properties]) *future.Future[engine.Properties] {
	e.record(Request{Op: OpQuery, Name: query})

	return future.Then(params, func(in engine.Properties) *future.Future[engine.Properties] {
		return future.Go(func() (engine.Properties, error) {
			return e.runQuery(ctx, query, in)
		})
	})
}

func (e *Engine) record(r Request) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requests = append(e.requests, r)
}

// apply realizes one resource and reports whether it was created, changed or
// left as is.
func (e *Engine) apply(ctx context.Context, kind engine.Kind, name string, inputs engine.Properties, opts engine.Options) (*engine.Resource, error) {
	k := key{kind, name}

	e.mu.Lock()
	existing, exists := e.resources[k]
	e.mu.Unlock()

	timeout := DefaultTimeout
	if opts.CustomTimeouts != nil {
		t := opts.CustomTimeouts.Create
		if exists {
			t = opts.CustomTimeouts.Update
		}
		if t > 0 {
			timeout = t
		}
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	release, err := e.acquire(opCtx)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", kind, name, err)
	}
	defer release()

	if err := e.wait(opCtx, k); err != nil {
		return nil, fmt.Errorf("%s/%s: %w", kind, name, err)
	}

	e.mu.Lock()
	failure := e.failures[k]
	e.mu.Unlock()
	if failure != nil {
		output.Warn(output.FormatResourceLine(string(kind), regionOf(inputs), name, output.StatusFailed))
		return nil, fmt.Errorf("%s/%s: %w", kind, name, failure)
	}

	id := ResourceID(kind, name)
	outs := inputs.DeepCopy()
	if outs == nil {
		outs = engine.Properties{}
	}
	outs[engine.PropID] = id
	outs[engine.PropName] = name
	if fn, ok := e.outputs[kind]; ok {
		if err := fn(name, outs); err != nil {
			return nil, fmt.Errorf("%s/%s: synthesizing outputs: %w", kind, name, err)
		}
	}

	status := output.StatusCreated
	if exists {
		status = output.StatusConfigured
		if reflect.DeepEqual(existing.Inputs, inputs) {
			status = output.StatusUnchanged
		}
	}

	res := &engine.Resource{
		Kind:    kind,
		Name:    name,
		ID:      id,
		Status:  status,
		Inputs:  inputs.DeepCopy(),
		Outputs: outs,
	}

	e.mu.Lock()
	if _, ok := e.resources[k]; !ok {
		e.order = append(e.order, k)
	}
	e.resources[k] = res
	e.mu.Unlock()

	output.Info(output.FormatResourceLine(string(kind), regionOf(inputs), name, status))
	return res, nil
}

func (e *Engine) runQuery(ctx context.Context, query string, params engine.Properties) (engine.Properties, error) {
	release, err := e.acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", query, err)
	}
	defer release()

	e.mu.Lock()
	failure := e.queryFailures[query]
	fn, ok := e.queries[query]
	e.mu.Unlock()

	if failure != nil {
		return nil, fmt.Errorf("query %s: %w", query, failure)
	}
	if !ok {
		return nil, fmt.Errorf("query %s: not supported", query)
	}
	output.Debug("query answered", "query", query)
	return fn(params)
}

// acquire takes a parallelism slot, returning a release func.
func (e *Engine) acquire(ctx context.Context) (func(), error) {
	if e.sem == nil {
		return func() {}, nil
	}
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { e.sem.Release(1) }, nil
}

// wait applies the configured latency, honoring ctx.
func (e *Engine) wait(ctx context.Context, k key) error {
	e.mu.Lock()
	d, ok := e.latency[k]
	if !ok {
		d = e.defaultLatency
	}
	e.mu.Unlock()

	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// regionOf returns the location of a resource for log lines; "global" and
// shared resources print without one.
func regionOf(inputs engine.Properties) string {
	loc, _ := inputs.String(engine.PropLocation)
	if loc == "global" {
		return ""
	}
	return loc
}

// ResourceID returns the deterministic identifier of kind/name.
func ResourceID(kind engine.Kind, name string) string {
	return fmt.Sprintf("/%s/%s/%s", kind, name, identity.Derive(string(kind), name))
}

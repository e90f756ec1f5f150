// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package engine exposes the high-level API for answering queries against a
// compiled program. An Engine compiles once and answers many queries,
// caching one evaluation plan per (predicate, adornment) pair: the plan
// depends on which argument positions are bound, never on the bound values,
// so queries that differ only in constants share a plan.
package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/seer-datalog/seer/ast"
	"github.com/seer-datalog/seer/bottomup"
	"github.com/seer-datalog/seer/logging"
	"github.com/seer-datalog/seer/magic"
	"github.com/seer-datalog/seer/metrics"
	"github.com/seer-datalog/seer/storage"
)

// Engine answers queries against one compiled program. Engines are safe for
// concurrent use: the compiled program and fact store are read-only after
// construction, and every query evaluates in its own forked store.
type Engine struct {
	compiler *ast.Compiler
	strategy magic.Strategy
	logger   logging.Logger
	metrics  metrics.Metrics
	workers  int
	naive    bool
	facts    *storage.Store

	mu    sync.Mutex
	plans map[planKey]*magic.Program
	plain *magic.Program
}

type planKey struct {
	name      string
	adornment ast.Adornment
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// Strategy sets the sideways information passing strategy used to order rule
// bodies during adornment. The default evaluates bodies in written order.
func Strategy(s magic.Strategy) Option {
	return func(e *Engine) { e.strategy = s }
}

// Logger sets the logger used by the engine and its evaluations.
func Logger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Metrics sets the metrics collection updated by the engine.
func Metrics(m metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// Workers sets the number of goroutines evaluating rules within a round.
func Workers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// Naive disables the demand-driven transformation: every query computes the
// full closure of the program and filters it afterwards. Queries return the
// same answers either way; this exists for comparison and debugging.
func Naive() Option {
	return func(e *Engine) { e.naive = true }
}

// New returns an Engine over the compiler's program. The compiler must have
// compiled successfully.
func New(compiler *ast.Compiler, opts ...Option) (*Engine, error) {
	if compiler.Failed() {
		return nil, compiler.Errors
	}
	e := &Engine{
		compiler: compiler,
		strategy: magic.LeftToRight(),
		logger:   logging.NewNoOpLogger(),
		metrics:  metrics.NoOp(),
		workers:  1,
		plans:    map[planKey]*magic.Program{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.facts = storage.NewFromFacts(compiler.Program.Facts)
	return e, nil
}

// Compiler returns the compiled program the engine answers queries against.
func (e *Engine) Compiler() *ast.Compiler {
	return e.compiler
}

// Result holds the answer to one query: the tuples of the queried predicate
// that satisfy the query's constants, at the predicate's full arity, in
// ascending order.
type Result struct {
	Query  *ast.Query
	Tuples []ast.Tuple
}

// Empty returns true if the query produced no answers.
func (r *Result) Empty() bool {
	return len(r.Tuples) == 0
}

// QueryString parses and answers a single query.
func (e *Engine) QueryString(ctx context.Context, input string) (*Result, error) {
	e.metrics.Timer(metrics.QueryParse).Start()
	q, err := ast.ParseQuery(input)
	e.metrics.Timer(metrics.QueryParse).Stop()
	if err != nil {
		return nil, err
	}
	return e.Query(ctx, q)
}

// Query answers q. A query against a predicate the program never defines is
// not an error: it returns an empty result. A query whose arity disagrees
// with the program's use of the predicate is rejected.
func (e *Engine) Query(ctx context.Context, q *ast.Query) (*Result, error) {

	if err := e.compiler.CheckQuery(q); err != nil {
		return nil, err
	}

	result := &Result{Query: q}

	if _, known := e.compiler.Arity(q.Name); !known {
		e.logger.Debug("query %v: predicate unknown, answer is empty", q)
		return result, nil
	}

	bindings := q.Bindings()

	if e.compiler.IsExtensional(q.Name) {
		if rel, ok := e.facts.Get(ast.PlainKey(q.Name)); ok {
			result.Tuples = sortTuples(match(q, rel.Lookup(bindings)))
		}
		return result, nil
	}

	adornment := ast.QueryAdornment(q)

	// Queries with no bound argument have nothing to pass sideways; the
	// untransformed program computes exactly their answer.
	if e.naive || adornment.BoundCount() == 0 {
		return e.queryPlain(ctx, q, result)
	}

	program, err := e.plan(q.Name, adornment)
	if err != nil {
		return nil, err
	}

	store := e.facts.Fork()
	seed := make(ast.Tuple, 0, len(bindings))
	for i := 0; i < q.Arity(); i++ {
		if v, ok := bindings[i]; ok {
			seed = append(seed, v)
		}
	}
	store.Relation(program.Seed, program.Arities[program.Seed]).Insert(seed)

	if err := e.run(ctx, program, store); err != nil {
		return nil, err
	}

	if answer, ok := store.Get(program.Answer); ok {
		result.Tuples = sortTuples(match(q, answer.Lookup(bindings)))
	}
	return result, nil
}

// queryPlain computes the program's full closure and filters the queried
// relation afterwards.
func (e *Engine) queryPlain(ctx context.Context, q *ast.Query, result *Result) (*Result, error) {

	program := e.plainProgram()
	store := e.facts.Fork()

	if err := e.run(ctx, program, store); err != nil {
		return nil, err
	}

	if rel, ok := store.Get(ast.PlainKey(q.Name)); ok {
		result.Tuples = sortTuples(match(q, rel.Lookup(q.Bindings())))
	}
	return result, nil
}

// plan returns the cached evaluation plan for the predicate and adornment,
// building and caching it on first use.
func (e *Engine) plan(name string, adornment ast.Adornment) (*magic.Program, error) {

	key := planKey{name: name, adornment: adornment}

	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.plans[key]; ok {
		return p, nil
	}

	e.metrics.Timer(metrics.QueryAdorn).Start()
	adorned, err := magic.Adorn(e.compiler, name, adornment, e.strategy)
	e.metrics.Timer(metrics.QueryAdorn).Stop()
	if err != nil {
		return nil, err
	}

	e.metrics.Timer(metrics.QueryTransform).Start()
	p := magic.Transform(e.compiler, adorned, name, adornment)
	e.metrics.Timer(metrics.QueryTransform).Stop()

	e.metrics.Timer(metrics.QueryStratify).Start()
	p.Stratify()
	e.metrics.Timer(metrics.QueryStratify).Stop()

	e.logger.Debug("plan %v^%v: %d rules in %d strata", name, adornment, len(p.Rules), len(p.Strata))
	e.plans[key] = p
	return p, nil
}

func (e *Engine) plainProgram() *magic.Program {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.plain == nil {
		e.plain = magic.Plain(e.compiler)
		e.plain.Stratify()
	}
	return e.plain
}

func (e *Engine) run(ctx context.Context, program *magic.Program, store *storage.Store) error {

	cancel := bottomup.NewCancel()
	done := make(chan struct{})
	defer close(done)
	go waitForDone(ctx, done, cancel.Cancel)

	e.metrics.Timer(metrics.QueryEval).Start()
	defer e.metrics.Timer(metrics.QueryEval).Stop()

	return bottomup.New(program, store).
		WithCancel(cancel).
		WithLogger(e.logger).
		WithMetrics(e.metrics).
		WithWorkers(e.workers).
		Run(ctx)
}

func waitForDone(ctx context.Context, done chan struct{}, f func()) {
	select {
	case <-ctx.Done():
		f()
	case <-done:
	}
}

// match filters tuples against the query literal. Lookup already restricted
// the constant positions; this additionally enforces agreement where the
// query repeats a variable, as in p(X, X).
func match(q *ast.Query, tuples []ast.Tuple) []ast.Tuple {
	var out []ast.Tuple
	for _, t := range tuples {
		if matchOne(q, t) {
			out = append(out, t)
		}
	}
	return out
}

func matchOne(q *ast.Query, t ast.Tuple) bool {
	seen := map[ast.Var]ast.Value{}
	for i, arg := range q.Args {
		switch v := arg.Value.(type) {
		case ast.Var:
			if prev, ok := seen[v]; ok {
				if !prev.Equal(t[i]) {
					return false
				}
			} else if !v.IsWildcard() {
				seen[v] = t[i]
			}
		default:
			if !arg.Value.Equal(t[i]) {
				return false
			}
		}
	}
	return true
}

func sortTuples(tuples []ast.Tuple) []ast.Tuple {
	sort.Slice(tuples, func(i, j int) bool {
		return tuples[i].Compare(tuples[j]) < 0
	})
	return tuples
}

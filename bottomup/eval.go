// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package bottomup implements semi-naive bottom-up fixpoint evaluation of
// transformed rule programs over the relation store.
package bottomup

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/seer-datalog/seer/ast"
	"github.com/seer-datalog/seer/logging"
	"github.com/seer-datalog/seer/magic"
	"github.com/seer-datalog/seer/metrics"
	"github.com/seer-datalog/seer/storage"
)

// Evaluator executes a transformed program stratum by stratum, each stratum
// to a fixpoint. Relations only grow during a run; once a stratum reaches
// fixpoint its relations are final and become input to later strata.
type Evaluator struct {
	program *magic.Program
	store   *storage.Store
	cancel  Cancel
	logger  logging.Logger
	metrics metrics.Metrics
	workers int
}

// New returns an Evaluator for the program, reading and growing relations in
// the given store. The store is exclusive to this run.
func New(program *magic.Program, store *storage.Store) *Evaluator {
	return &Evaluator{
		program: program,
		store:   store,
		logger:  logging.NewNoOpLogger(),
		metrics: metrics.NoOp(),
		workers: 1,
	}
}

// WithCancel sets the cancellation object checked at the top of each round.
func (e *Evaluator) WithCancel(c Cancel) *Evaluator {
	e.cancel = c
	return e
}

// WithLogger sets the logger to use during evaluation.
func (e *Evaluator) WithLogger(logger logging.Logger) *Evaluator {
	e.logger = logger
	return e
}

// WithMetrics sets the metrics collection to update during evaluation.
func (e *Evaluator) WithMetrics(m metrics.Metrics) *Evaluator {
	e.metrics = m
	return e
}

// WithWorkers sets the number of goroutines used to evaluate the rules of
// one round. Derived tuples are committed at the round boundary regardless,
// so parallel and serial evaluation produce the same relations.
func (e *Evaluator) WithWorkers(n int) *Evaluator {
	if n > 0 {
		e.workers = n
	}
	return e
}

// Run evaluates every stratum of the program in dependency order.
func (e *Evaluator) Run(ctx context.Context) error {
	if len(e.program.Strata) == 0 && len(e.program.Rules) > 0 {
		return internalError("program has not been stratified")
	}
	// Create every relation up front so that evaluation, which may touch
	// relations from multiple goroutines, only ever reads the registry.
	for key, arity := range e.program.Arities {
		e.store.Relation(key, arity)
	}
	for i := range e.program.Strata {
		if err := e.fixpoint(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

// task is one unit of round work: a rule evaluated with one body position
// restricted to the delta window (delta < 0 means no restriction).
type task struct {
	rule  *magic.Rule
	delta int
}

func (e *Evaluator) fixpoint(ctx context.Context, index int) error {

	stratum := &e.program.Strata[index]

	// The delta window of each relation computed here: [lo, hi) offsets into
	// the relation's insertion-ordered tuples. Rounds commit at their
	// boundary, so during a round every relation's visible length equals hi.
	lo := map[ast.PredKey]int{}
	hi := map[ast.PredKey]int{}
	for key := range stratum.Keys {
		hi[key] = e.relation(key).Len()
	}

	for round := 1; ; round++ {

		if err := e.check(ctx); err != nil {
			return err
		}

		tasks := e.roundTasks(stratum, round)
		if len(tasks) == 0 {
			return nil
		}

		derived, err := e.evalRound(ctx, tasks, lo)
		if err != nil {
			return err
		}

		var added int
		for _, d := range derived {
			rel := e.relation(d.key)
			for _, t := range d.tuples {
				if rel.Insert(t) {
					added++
				}
			}
		}

		for key := range stratum.Keys {
			lo[key] = hi[key]
			hi[key] = e.relation(key).Len()
		}

		e.metrics.Counter(metrics.EvalRounds).Incr()
		e.metrics.Counter(metrics.EvalTuples).Add(uint64(added))
		e.metrics.Histogram(metrics.EvalRoundTuples).Update(int64(added))
		e.logger.Debug("stratum %d round %d derived %d new tuples", index, round, added)

		if added == 0 {
			return nil
		}
	}
}

// roundTasks returns the work for one round. The first round evaluates every
// rule without a delta restriction, bootstrapping from lower strata, stored
// relations, and seed tuples. Later rounds evaluate each rule once per body
// position defined in this stratum, restricted to that position's delta:
// every derivation then uses at least one tuple that is genuinely new, which
// is the semi-naive discipline. Rules with no in-stratum body atom have
// final inputs and need only the first round.
func (e *Evaluator) roundTasks(stratum *magic.Stratum, round int) []task {
	var tasks []task
	for _, rule := range stratum.Rules {
		if round == 1 {
			tasks = append(tasks, task{rule: rule, delta: -1})
			continue
		}
		for i, atom := range rule.Body {
			if stratum.Defines(atom.Key) {
				tasks = append(tasks, task{rule: rule, delta: i})
			}
		}
	}
	return tasks
}

type derivation struct {
	key    ast.PredKey
	tuples []ast.Tuple
}

func (e *Evaluator) evalRound(ctx context.Context, tasks []task, lo map[ast.PredKey]int) ([]derivation, error) {

	if e.workers <= 1 {
		derived := make([]derivation, 0, len(tasks))
		for _, t := range tasks {
			tuples, err := e.evalTask(t, lo)
			if err != nil {
				return nil, err
			}
			derived = append(derived, derivation{key: t.rule.Head.Key, tuples: tuples})
		}
		return derived, nil
	}

	var mtx sync.Mutex
	derived := make([]derivation, 0, len(tasks))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			tuples, err := e.evalTask(t, lo)
			if err != nil {
				return err
			}
			mtx.Lock()
			derived = append(derived, derivation{key: t.rule.Head.Key, tuples: tuples})
			mtx.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return derived, nil
}

func (e *Evaluator) evalTask(t task, lo map[ast.PredKey]int) ([]ast.Tuple, error) {
	var out []ast.Tuple
	bindings := map[ast.Var]ast.Value{}
	err := e.join(t.rule, 0, t.delta, lo, bindings, &out)
	return out, err
}

// join evaluates the rule body left to right by substitution: each matching
// tuple extends the current bindings, and a fully satisfied body emits one
// head tuple.
func (e *Evaluator) join(rule *magic.Rule, i, delta int, lo map[ast.PredKey]int, bindings map[ast.Var]ast.Value, out *[]ast.Tuple) error {

	if i == len(rule.Body) {
		head := make(ast.Tuple, len(rule.Head.Args))
		for j, arg := range rule.Head.Args {
			v, ok := resolve(arg.Value, bindings)
			if !ok {
				return internalError("rule %v: head variable %v not bound by body", rule, arg)
			}
			head[j] = v
		}
		*out = append(*out, head)
		return nil
	}

	atom := rule.Body[i]
	rel := e.relation(atom.Key)

	// Relations only grow at the round barrier, so within a round the window
	// starting at lo is exactly the previous round's delta.
	var candidates []ast.Tuple
	if i == delta {
		candidates = rel.Window(lo[atom.Key])
	} else {
		candidates = rel.Lookup(partial(atom, bindings))
	}

	for _, t := range candidates {
		extended, ok := extend(atom, t, bindings)
		if !ok {
			continue
		}
		if err := e.join(rule, i+1, delta, lo, bindings, out); err != nil {
			return err
		}
		for _, v := range extended {
			delete(bindings, v)
		}
	}

	return nil
}

// partial returns the argument positions of the atom whose values are
// already determined by constants or bound variables.
func partial(atom magic.Atom, bindings map[ast.Var]ast.Value) map[int]ast.Value {
	p := map[int]ast.Value{}
	for j, arg := range atom.Args {
		if v, ok := resolve(arg.Value, bindings); ok {
			p[j] = v
		}
	}
	return p
}

// extend matches the tuple against the atom under the current bindings. On
// success it binds the atom's free variables in place and returns them so
// the caller can backtrack; repeated variables and constants must agree with
// the tuple.
func extend(atom magic.Atom, t ast.Tuple, bindings map[ast.Var]ast.Value) ([]ast.Var, bool) {
	var added []ast.Var
	for j, arg := range atom.Args {
		switch v := arg.Value.(type) {
		case ast.Var:
			if cur, ok := bindings[v]; ok {
				if !cur.Equal(t[j]) {
					undo(bindings, added)
					return nil, false
				}
			} else {
				bindings[v] = t[j]
				added = append(added, v)
			}
		default:
			if !arg.Value.Equal(t[j]) {
				undo(bindings, added)
				return nil, false
			}
		}
	}
	return added, true
}

func undo(bindings map[ast.Var]ast.Value, added []ast.Var) {
	for _, v := range added {
		delete(bindings, v)
	}
}

func resolve(v ast.Value, bindings map[ast.Var]ast.Value) (ast.Value, bool) {
	if va, ok := v.(ast.Var); ok {
		val, ok := bindings[va]
		return val, ok
	}
	return v, true
}

func (e *Evaluator) relation(key ast.PredKey) *storage.Relation {
	return e.store.Relation(key, e.program.Arities[key])
}

func (e *Evaluator) check(ctx context.Context) error {
	if e.cancel != nil && e.cancel.Cancelled() {
		return cancelError()
	}
	select {
	case <-ctx.Done():
		return cancelError()
	default:
		return nil
	}
}

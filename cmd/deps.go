// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/seer-datalog/seer/ast"
	"github.com/seer-datalog/seer/metrics"
	"github.com/seer-datalog/seer/util"
)

type depsCommandParams struct {
	dataPaths repeatedStringFlag
	format    *util.EnumFlag
}

func init() {

	params := depsCommandParams{
		format: newFormatFlag(),
	}

	depsCommand := &cobra.Command{
		Use:   "deps <predicate> [predicate]",
		Short: "Analyze predicate dependencies",
		Long: `Print the predicates reachable from the given predicate in the rule dependency graph.

With a second predicate argument, print one dependency chain connecting the
first predicate to the second instead.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 2 {
				return errors.New("specify one predicate argument, or two for a dependency chain")
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			if err := deps(os.Stdout, args, params); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	addDataFlag(depsCommand.Flags(), &params.dataPaths)
	depsCommand.Flags().VarP(params.format, "format", "f", "set output format")

	RootCommand.AddCommand(depsCommand)
}

func deps(w io.Writer, args []string, params depsCommandParams) error {

	compiler, err := loadCompiler(params.dataPaths.v, metrics.NoOp())
	if err != nil {
		return err
	}

	t := newRuleGraphTraversal(compiler)

	var reached []string

	if len(args) == 2 {
		eq := func(u, v util.T) bool { return u == v }
		path := util.DFSPath(t, eq, args[0], args[1])
		if len(path) == 0 {
			return errors.Errorf("no dependency chain from %v to %v", args[0], args[1])
		}
		for _, u := range path {
			reached = append(reached, u.(string))
		}
	} else {
		util.BFS(t, func(u util.T) bool {
			if name := u.(string); name != args[0] {
				reached = append(reached, name)
			}
			return false
		}, args[0])
		sort.Strings(reached)
	}

	switch params.format.String() {
	case formatJSON:
		bs, err := json.MarshalIndent(reached, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(bs))
	default:
		for _, name := range reached {
			fmt.Fprintln(w, name)
		}
	}

	return nil
}

// ruleGraphTraversal adapts the compiler's rule dependency graph to the
// traversal interface.
type ruleGraphTraversal struct {
	compiler *ast.Compiler
	visited  map[string]struct{}
}

func newRuleGraphTraversal(compiler *ast.Compiler) *ruleGraphTraversal {
	return &ruleGraphTraversal{
		compiler: compiler,
		visited:  map[string]struct{}{},
	}
}

func (t *ruleGraphTraversal) Edges(u util.T) []util.T {
	var edges []util.T
	for v := range t.compiler.RuleGraph[u.(string)] {
		edges = append(edges, v)
	}
	return edges
}

func (t *ruleGraphTraversal) Visited(u util.T) bool {
	_, ok := t.visited[u.(string)]
	t.visited[u.(string)] = struct{}{}
	return ok
}

// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"os"

	"github.com/pkg/errors"

	"github.com/seer-datalog/seer/ast"
	"github.com/seer-datalog/seer/metrics"
)

// loadProgram parses the given files and merges their statements into one
// program.
func loadProgram(paths []string, m metrics.Metrics) (*ast.Program, error) {

	m.Timer(metrics.ProgramParse).Start()
	defer m.Timer(metrics.ProgramParse).Stop()

	var stmts []ast.Statement

	for _, path := range paths {
		bs, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "load %v", path)
		}
		program, err := ast.ParseProgram(path, string(bs))
		if err != nil {
			return nil, err
		}
		for _, fact := range program.Facts {
			stmts = append(stmts, fact)
		}
		for _, rule := range program.Rules {
			stmts = append(stmts, rule)
		}
	}

	return ast.NewProgram(stmts...), nil
}

// loadCompiler parses and compiles the given files.
func loadCompiler(paths []string, m metrics.Metrics) (*ast.Compiler, error) {

	program, err := loadProgram(paths, m)
	if err != nil {
		return nil, err
	}

	m.Timer(metrics.ProgramCompile).Start()
	defer m.Timer(metrics.ProgramCompile).Stop()

	compiler := ast.NewCompiler()
	if compiler.Compile(program); compiler.Failed() {
		return nil, compiler.Errors
	}
	return compiler, nil
}

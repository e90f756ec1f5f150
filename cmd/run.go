// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/seer-datalog/seer/metrics"
	"github.com/seer-datalog/seer/repl"
	"github.com/seer-datalog/seer/version"
)

const defaultHistoryFile = ".seer_history"

func init() {

	var dataPaths repeatedStringFlag
	format := newFormatFlag()
	logLevel := newLogLevelFlag()

	runCommand := &cobra.Command{
		Use:   "run",
		Short: "Start the interactive shell",
		Long: `Start an interactive shell for asserting facts and rules and running queries.

Statements ending in '.' assert facts or rules; statements ending in '?' are
queries. The shell can be initialized with one or more program files:

	$ seer run -d family.dl
`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := run(dataPaths.v, format.String(), logLevel.String()); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	addDataFlag(runCommand.Flags(), &dataPaths)
	runCommand.Flags().VarP(format, "format", "f", "set output format")
	runCommand.Flags().Var(logLevel, "log-level", "set log level")

	RootCommand.AddCommand(runCommand)
}

func run(paths []string, format, logLevel string) error {

	program, err := loadProgram(paths, metrics.NoOp())
	if err != nil {
		return err
	}

	banner := fmt.Sprintf("seer %v (commit %v, built at %v)", version.Version, version.Vcs, version.Timestamp)

	r := repl.New(historyPath(), os.Stdout, format, banner).
		WithLogger(newLogger(logLevel))

	if err := r.Init(program); err != nil {
		return err
	}

	r.Loop(context.Background())
	return nil
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultHistoryFile
	}
	return filepath.Join(home, defaultHistoryFile)
}

// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seer-datalog/seer/metrics"
)

func init() {

	checkCommand := &cobra.Command{
		Use:   "check <file> [file [...]]",
		Short: "Check Datalog programs for parse and compile errors",
		Long:  "Parse and compile the given programs, reporting any structural errors found.",
		Run: func(cmd *cobra.Command, args []string) {
			if err := check(args); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	RootCommand.AddCommand(checkCommand)
}

func check(args []string) error {
	_, err := loadCompiler(args, metrics.NoOp())
	return err
}

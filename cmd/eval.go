// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/seer-datalog/seer/engine"
	"github.com/seer-datalog/seer/metrics"
	"github.com/seer-datalog/seer/util"
)

type evalCommandParams struct {
	dataPaths   repeatedStringFlag
	format      *util.EnumFlag
	logLevel    *util.EnumFlag
	naive       bool
	showMetrics bool
	workers     int
}

func init() {

	params := evalCommandParams{
		format:   newFormatFlag(),
		logLevel: newLogLevelFlag(),
	}

	evalCommand := &cobra.Command{
		Use:   "eval <query>",
		Short: "Evaluate a query against Datalog programs",
		Long: `Evaluate one query against the programs loaded with -d and print the answer.

Example:

	$ seer eval -d family.dl 'ancestor(ada, X)'
`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("specify exactly one query argument")
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			if err := eval(os.Stdout, args, params); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	addDataFlag(evalCommand.Flags(), &params.dataPaths)
	evalCommand.Flags().VarP(params.format, "format", "f", "set output format")
	evalCommand.Flags().Var(params.logLevel, "log-level", "set log level")
	evalCommand.Flags().BoolVar(&params.naive, "naive", false, "compute the full closure instead of the demanded subset")
	evalCommand.Flags().BoolVar(&params.showMetrics, "metrics", false, "report query performance metrics")
	evalCommand.Flags().IntVar(&params.workers, "workers", 1, "set number of goroutines evaluating rules within a round")

	RootCommand.AddCommand(evalCommand)
}

func eval(w io.Writer, args []string, params evalCommandParams) error {

	m := metrics.New()

	compiler, err := loadCompiler(params.dataPaths.v, m)
	if err != nil {
		return err
	}

	opts := []engine.Option{
		engine.Logger(newLogger(params.logLevel.String())),
		engine.Metrics(m),
		engine.Workers(params.workers),
	}
	if params.naive {
		opts = append(opts, engine.Naive())
	}

	e, err := engine.New(compiler, opts...)
	if err != nil {
		return err
	}

	result, err := e.QueryString(context.Background(), args[0])
	if err != nil {
		return err
	}

	switch params.format.String() {
	case formatJSON:
		if err := printResultJSON(w, result); err != nil {
			return err
		}
	default:
		printResultPretty(w, result)
	}

	if params.showMetrics {
		bs, err := json.MarshalIndent(m.All(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(bs))
	}

	return nil
}

func printResultPretty(w io.Writer, result *engine.Result) {
	if result.Empty() {
		fmt.Fprintln(w, "undefined")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	headers := make([]string, len(result.Query.Args))
	for i, arg := range result.Query.Args {
		headers[i] = arg.String()
	}
	table.SetHeader(headers)
	for _, t := range result.Tuples {
		row := make([]string, len(t))
		for i, v := range t {
			row[i] = v.String()
		}
		table.Append(row)
	}
	table.Render()
}

func printResultJSON(w io.Writer, result *engine.Result) error {
	rows := make([][]string, 0, len(result.Tuples))
	for _, t := range result.Tuples {
		row := make([]string, len(t))
		for i, v := range t {
			row[i] = v.String()
		}
		rows = append(rows, row)
	}
	bs, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(bs))
	return nil
}

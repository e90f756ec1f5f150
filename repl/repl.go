// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package repl implements a Read-Eval-Print-Loop (REPL) for interacting with
// the query engine.
//
// The REPL is typically used from the command line, however, it can also be
// used as a library.
package repl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/peterh/liner"

	"github.com/seer-datalog/seer/ast"
	"github.com/seer-datalog/seer/engine"
	"github.com/seer-datalog/seer/logging"
)

// REPL represents an instance of the interactive shell.
type REPL struct {
	output io.Writer

	base       []ast.Statement
	statements []ast.Statement
	engine     *engine.Engine
	dirty      bool

	outputFormat string
	historyPath  string
	initPrompt   string
	banner       string
	logger       logging.Logger
}

// New returns a new instance of the REPL.
func New(historyPath string, output io.Writer, outputFormat string, banner string) *REPL {
	return &REPL{
		output:       output,
		outputFormat: outputFormat,
		historyPath:  historyPath,
		initPrompt:   "> ",
		banner:       banner,
		logger:       logging.NewNoOpLogger(),
		dirty:        true,
	}
}

// WithLogger sets the logger passed to the engines the REPL constructs.
func (r *REPL) WithLogger(logger logging.Logger) *REPL {
	r.logger = logger
	return r
}

// Init loads the program's statements as the REPL's base: the "clear"
// command resets to this state rather than to an empty program.
func (r *REPL) Init(program *ast.Program) error {
	var stmts []ast.Statement
	for _, fact := range program.Facts {
		stmts = append(stmts, fact)
	}
	for _, rule := range program.Rules {
		stmts = append(stmts, rule)
	}
	r.base = stmts
	r.statements = append([]ast.Statement(nil), stmts...)
	r.dirty = true
	_, err := r.loadEngine()
	return err
}

// Loop will run until the user enters "exit", Ctrl+C, Ctrl+D, or an
// unexpected error occurs.
func (r *REPL) Loop(ctx context.Context) {

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(true)
	r.loadHistory(line)

	if len(r.banner) > 0 {
		fmt.Fprintln(r.output, r.banner)
	}

	line.SetCompleter(r.complete)

	for {

		input, err := line.Prompt(r.initPrompt)

		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Fprintln(r.output, "Exiting")
			break
		}

		if err != nil {
			fmt.Fprintln(r.output, "error (fatal):", err)
			os.Exit(1)
		}

		if err := r.OneShot(ctx, input); err != nil {
			if _, ok := err.(stop); ok {
				line.AppendHistory(input)
				break
			}
			fmt.Fprintln(r.output, "error:", err)
		}

		line.AppendHistory(input)
	}

	r.saveHistory(line)
}

// OneShot evaluates the line and prints the result. If an error occurs it is
// returned for the caller to display.
func (r *REPL) OneShot(ctx context.Context, line string) error {

	if cmd := newCommand(line); cmd != nil {
		switch cmd.op {
		case "facts":
			return r.cmdFacts()
		case "rules":
			return r.cmdRules()
		case "clear":
			return r.cmdClear()
		case "json":
			return r.cmdFormat("json")
		case "pretty":
			return r.cmdFormat("pretty")
		case "help":
			return r.cmdHelp()
		case "exit":
			return r.cmdExit()
		}
	}

	if strings.TrimSpace(line) == "" {
		return nil
	}

	stmt, err := ast.ParseStatement(line)
	if err != nil {
		return err
	}

	switch stmt := stmt.(type) {
	case *ast.Query:
		return r.evalQuery(ctx, stmt)
	default:
		return r.assert(stmt)
	}
}

func (r *REPL) complete(line string) (c []string) {
	e, err := r.loadEngine()
	if err != nil {
		return nil
	}
	for _, info := range e.Compiler().SortedPredicates() {
		if strings.HasPrefix(info.Name, line) {
			c = append(c, info.Name)
		}
	}
	return c
}

func (r *REPL) cmdFacts() error {
	e, err := r.loadEngine()
	if err != nil {
		return err
	}
	for _, fact := range e.Compiler().Program.Facts {
		fmt.Fprintln(r.output, fact)
	}
	return nil
}

func (r *REPL) cmdRules() error {
	e, err := r.loadEngine()
	if err != nil {
		return err
	}
	for _, rule := range e.Compiler().Program.Rules {
		fmt.Fprintln(r.output, rule)
	}
	return nil
}

func (r *REPL) cmdClear() error {
	r.statements = append([]ast.Statement(nil), r.base...)
	r.dirty = true
	return nil
}

func (r *REPL) cmdFormat(s string) error {
	r.outputFormat = s
	return nil
}

func (r *REPL) cmdHelp() error {
	printHelpExamples(r.output, r.initPrompt)
	printHelpCommands(r.output)
	return nil
}

func (r *REPL) cmdExit() error {
	return stop{}
}

// assert adds the fact or rule to the program. If the resulting program does
// not compile the statement is withdrawn and the compile errors returned.
func (r *REPL) assert(stmt ast.Statement) error {
	r.statements = append(r.statements, stmt)
	r.dirty = true
	if _, err := r.loadEngine(); err != nil {
		r.statements = r.statements[:len(r.statements)-1]
		r.dirty = true
		return err
	}
	return nil
}

func (r *REPL) evalQuery(ctx context.Context, q *ast.Query) error {

	e, err := r.loadEngine()
	if err != nil {
		return err
	}

	result, err := e.Query(ctx, q)
	if err != nil {
		return err
	}

	if result.Empty() {
		r.printUndefined()
		return nil
	}

	r.printResults(headersFor(q), result)
	return nil
}

// loadEngine recompiles the current statements if they changed since the
// last call.
func (r *REPL) loadEngine() (*engine.Engine, error) {
	if !r.dirty && r.engine != nil {
		return r.engine, nil
	}
	compiler := ast.NewCompiler()
	compiler.Compile(ast.NewProgram(r.statements...))
	e, err := engine.New(compiler, engine.Logger(r.logger))
	if err != nil {
		return nil, err
	}
	r.engine = e
	r.dirty = false
	return e, nil
}

func (r *REPL) loadHistory(prompt *liner.State) {
	if f, err := os.Open(r.historyPath); err == nil {
		prompt.ReadHistory(f)
		f.Close()
	}
}

func (r *REPL) saveHistory(prompt *liner.State) {
	if f, err := os.Create(r.historyPath); err == nil {
		prompt.WriteHistory(f)
		f.Close()
	}
}

func (r *REPL) printResults(headers []string, result *engine.Result) {
	switch r.outputFormat {
	case "json":
		r.printJSON(headers, result)
	default:
		r.printPretty(headers, result)
	}
}

func (r *REPL) printJSON(headers []string, result *engine.Result) {
	rows := make([]map[string]string, 0, len(result.Tuples))
	for _, t := range result.Tuples {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			row[h] = t[i].String()
		}
		rows = append(rows, row)
	}
	buf, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		fmt.Fprintln(r.output, err)
		return
	}
	fmt.Fprintln(r.output, string(buf))
}

func (r *REPL) printPretty(headers []string, result *engine.Result) {
	table := tablewriter.NewWriter(r.output)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
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

func (r *REPL) printUndefined() {
	fmt.Fprintln(r.output, "undefined")
}

// headersFor returns one column header per query argument: the variable's
// name, or the constant's value for bound positions.
func headersFor(q *ast.Query) []string {
	headers := make([]string, len(q.Args))
	for i, arg := range q.Args {
		headers[i] = arg.String()
	}
	return headers
}

type stop struct{}

func (stop) Error() string {
	return "exit"
}

type commandDesc struct {
	name string
	args []string
	help string
}

func (c commandDesc) syntax() string {
	if len(c.args) > 0 {
		return fmt.Sprintf("%v %v", c.name, strings.Join(c.args, " "))
	}
	return c.name
}

type exampleDesc struct {
	example string
	comment string
}

var examples = [...]exampleDesc{
	{"parent(ada, ben).", "assert a fact"},
	{"ancestor(X, Y) :- parent(X, Y).", "assert a rule"},
	{"ancestor(ada, Y)?", "query with the first argument bound"},
}

var extra = [...]commandDesc{
	{"<fact>.", []string{}, "assert a fact"},
	{"<rule>.", []string{}, "assert a rule"},
	{"<query>?", []string{}, "evaluate a query"},
}

var builtin = [...]commandDesc{
	{"facts", []string{}, "show asserted facts"},
	{"rules", []string{}, "show asserted rules"},
	{"clear", []string{}, "discard statements asserted this session"},
	{"json", []string{}, "set output format to JSON"},
	{"pretty", []string{}, "set output format to pretty"},
	{"help", []string{}, "print this message"},
	{"exit", []string{}, "exit back to shell (or ctrl+c, ctrl+d)"},
	{"ctrl+l", []string{}, "clear the screen"},
}

type command struct {
	op   string
	args []string
}

func newCommand(line string) *command {
	p := strings.Fields(strings.TrimSpace(strings.ToLower(line)))
	if len(p) == 0 {
		return nil
	}
	for _, c := range builtin {
		if c.name == p[0] {
			return &command{
				op:   c.name,
				args: p[1:],
			}
		}
	}
	return nil
}

func printHelpExamples(output io.Writer, promptSymbol string) {

	fmt.Fprintln(output, "Examples")
	fmt.Fprintln(output, "========")
	fmt.Fprintln(output, "")

	maxLength := 0
	for _, ex := range examples {
		if len(ex.example) > maxLength {
			maxLength = len(ex.example)
		}
	}

	f := fmt.Sprintf("%v%%-%dv # %%v\n", promptSymbol, maxLength+1)

	for _, ex := range examples {
		fmt.Fprintf(output, f, ex.example, ex.comment)
	}

	fmt.Fprintln(output, "")
}

func printHelpCommands(output io.Writer) {

	fmt.Fprintln(output, "Commands")
	fmt.Fprintln(output, "========")
	fmt.Fprintln(output, "")

	all := extra[:]
	all = append(all, builtin[:]...)

	maxLength := 0
	for _, c := range all {
		if length := len(c.syntax()); length > maxLength {
			maxLength = length
		}
	}

	f := fmt.Sprintf("%%%dv : %%v\n", maxLength)

	for _, c := range all {
		fmt.Fprintf(output, f, c.syntax(), c.help)
	}

	fmt.Fprintln(output, "")
}

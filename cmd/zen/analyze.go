package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/kr1shnaakhurana/zenlang/zen"
)

const mainFunction = "<main>"

type lintWarning struct {
	Function string
	Pos      zen.Position
	Message  string
}

func analyzeCommand(c *cli.Context) error {
	path, err := fileArg(c)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	src, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	program, err := zen.Parse(string(src))
	if err != nil {
		return err
	}

	warnings := analyzeProgram(program)
	if len(warnings) == 0 {
		fmt.Fprintln(c.App.Writer, "No issues found")
		return nil
	}
	for _, w := range warnings {
		fmt.Fprintf(c.App.Writer, "%s:%d:%d: %s (%s)\n", abs, max(w.Pos.Line, 1), max(w.Pos.Column, 1), w.Message, w.Function)
	}
	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

// analyzeProgram reports statements that follow a return, break or
// continue in the same block, in every function and method body.
func analyzeProgram(program *zen.Program) []lintWarning {
	var warnings []lintWarning
	lintStatements(mainFunction, program.Statements, &warnings)

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		if warnings[i].Pos.Column != warnings[j].Pos.Column {
			return warnings[i].Pos.Column < warnings[j].Pos.Column
		}
		return warnings[i].Function < warnings[j].Function
	})
	return warnings
}

func lintStatements(function string, statements []zen.Node, warnings *[]lintWarning) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			*warnings = append(*warnings, lintWarning{
				Function: function,
				Pos:      stmt.Pos(),
				Message:  "unreachable statement",
			})
			continue
		}
		if statementTerminates(function, stmt, warnings) {
			terminated = true
		}
	}
	return terminated
}

func lintBlock(function string, block *zen.Block, warnings *[]lintWarning) bool {
	if block == nil {
		return false
	}
	return lintStatements(function, block.Statements, warnings)
}

func statementTerminates(function string, stmt zen.Node, warnings *[]lintWarning) bool {
	switch typed := stmt.(type) {
	case *zen.ReturnStmt, *zen.BreakStmt, *zen.ContinueStmt:
		return true
	case *zen.Block:
		return lintBlock(function, typed, warnings)
	case *zen.IfStmt:
		thenTerminated := lintBlock(function, typed.Then, warnings)
		if typed.Else == nil {
			return false
		}
		elseTerminated := lintBlock(function, typed.Else, warnings)
		return thenTerminated && elseTerminated
	case *zen.WhileStmt:
		lintBlock(function, typed.Body, warnings)
	case *zen.DoWhileStmt:
		lintBlock(function, typed.Body, warnings)
	case *zen.ForStmt:
		lintBlock(function, typed.Body, warnings)
	case *zen.FunctionDef:
		lintBlock(typed.Name, typed.Body, warnings)
	case *zen.ClassDef:
		for _, method := range typed.Methods {
			lintBlock(typed.Name+"."+method.Name, method.Body, warnings)
		}
	}
	return false
}

package script

import (
	"fmt"
	"strings"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// failureKind selects the traceback formatting policy. Parse-time failures
// have no call stack and render from the error position list; runtime
// failures render the interpreter backtrace, which contains only the
// example's own frames.
type failureKind int

const (
	failSyntax failureKind = iota
	failRuntime
)

const tracebackHeader = "Traceback (most recent call last):"

// FormatTraceback renders an execution failure for inline display. Engine
// frames never appear: the Starlark backtrace is scoped to the script, and
// syntax failures are reconstructed from positions alone.
func FormatTraceback(err error, kind failureKind) string {
	if kind == failRuntime {
		var evalErr *starlark.EvalError
		if ok := asEvalError(err, &evalErr); ok {
			return evalErr.Backtrace()
		}
	}

	var sb strings.Builder
	sb.WriteString(tracebackHeader)
	sb.WriteByte('\n')
	switch e := err.(type) {
	case syntax.Error:
		writeSyntaxFrame(&sb, e.Pos, e.Msg)
	case *syntax.Error:
		writeSyntaxFrame(&sb, e.Pos, e.Msg)
	case resolve.ErrorList:
		for _, re := range e {
			writeSyntaxFrame(&sb, re.Pos, re.Msg)
		}
	case resolve.Error:
		writeSyntaxFrame(&sb, e.Pos, e.Msg)
	default:
		fmt.Fprintf(&sb, "Error: %v\n", err)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func asEvalError(err error, target **starlark.EvalError) bool {
	if evalErr, ok := err.(*starlark.EvalError); ok {
		*target = evalErr
		return true
	}
	return false
}

func writeSyntaxFrame(sb *strings.Builder, pos syntax.Position, msg string) {
	fmt.Fprintf(sb, "  File %q, line %d\nSyntaxError: %s\n", pos.Filename(), pos.Line, msg)
}

// Package errors defines the category-tagged compiler/runtime errors shared
// by every phase of the Bloch pipeline (lexer, parser, module loader,
// semantic analyser, evaluator) and the two-line failure banner printed by
// the driver.
package errors

import (
	"fmt"
	"strings"
)

// Position is a 1-based source location. Every phase of the pipeline
// attaches one to every error it raises.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Category identifies which phase raised an error. The driver's two-line
// banner names the category on its second line (spec §6, §7).
type Category string

const (
	Lexical  Category = "Lexical"
	Parse    Category = "Parse"
	Semantic Category = "Semantic"
	Runtime  Category = "Runtime"
)

// CompilerError is the single error type every phase returns. It carries
// enough context to render spec §6's two-line failure banner and, when
// source text is attached, a caret-annotated source excerpt for humans
// running the CLI directly.
type CompilerError struct {
	Category Category
	Message  string
	Pos      Position
	Source   string // optional: full source text, for pretty-printing
	File     string // optional: source file path
}

// New constructs a CompilerError for the given category.
func New(category Category, pos Position, format string, args ...any) *CompilerError {
	return &CompilerError{
		Category: category,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface. It is deliberately the same text
// as the second line of the CLI's failure banner (spec §6):
//
//	<Category> error at <line>:<col>: <message>
func (e *CompilerError) Error() string {
	return fmt.Sprintf("%s error at %d:%d: %s", e.Category, e.Pos.Line, e.Pos.Column, e.Message)
}

// Banner renders the two-line failure banner the driver writes to stderr.
func (e *CompilerError) Banner() string {
	return "[ERROR]: Stopping program execution...\n" + e.Error()
}

// WithSource attaches source text and a file name, enabling Pretty to show
// a caret-annotated excerpt. It returns the receiver for chaining.
func (e *CompilerError) WithSource(source, file string) *CompilerError {
	e.Source = source
	e.File = file
	return e
}

// Pretty renders the error with a source excerpt and a caret pointing at
// the offending column, in the style of the teacher's CompilerError.Format.
func (e *CompilerError) Pretty(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "%s error in %s:%d:%d\n", e.Category, e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s error at %d:%d\n", e.Category, e.Pos.Line, e.Pos.Column)
	}

	if line := sourceLine(e.Source, e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// As extracts a *CompilerError from err with a plain type assertion;
// wrapped errors are not unwrapped. It exists so callers elsewhere in the
// pipeline that only see `error` can recover the category and position
// for the final banner.
func As(err error) (*CompilerError, bool) {
	ce, ok := err.(*CompilerError)
	return ce, ok
}

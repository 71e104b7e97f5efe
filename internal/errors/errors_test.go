package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompilerErrorString(t *testing.T) {
	err := New(Runtime, Position{Line: 4, Column: 5}, "gate applied to measured qubit")

	assert.Equal(t, "Runtime error at 4:5: gate applied to measured qubit", err.Error())
	assert.True(t, strings.HasPrefix(err.Banner(), "[ERROR]: Stopping program execution...\n"))
	assert.Contains(t, err.Banner(), "Runtime error at 4:5")
}

func TestPrettyShowsCaret(t *testing.T) {
	src := "int a = 2 + 3;\necho(a)\n"
	err := New(Parse, Position{Line: 2, Column: 8}, "expected ';'").WithSource(src, "main.bloch")

	pretty := err.Pretty(false)
	assert.Contains(t, pretty, "Parse error in main.bloch:2:8")
	assert.Contains(t, pretty, "echo(a)")
	assert.Contains(t, pretty, "^")
}

func TestAs(t *testing.T) {
	var err error = New(Semantic, Position{Line: 1, Column: 1}, "boom")
	ce, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, Semantic, ce.Category)
}

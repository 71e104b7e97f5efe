package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEchoModePrecedence(t *testing.T) {
	t.Cleanup(func() {
		echoMode = ""
		os.Unsetenv("BLOCH_ECHO")
	})

	echoMode = ""
	os.Unsetenv("BLOCH_ECHO")
	assert.Equal(t, "auto", resolveEchoMode(&config.Config{}))

	assert.Equal(t, "all", resolveEchoMode(&config.Config{DefaultEcho: "all"}))

	os.Setenv("BLOCH_ECHO", "none")
	assert.Equal(t, "none", resolveEchoMode(&config.Config{DefaultEcho: "all"}))

	echoMode = "all"
	assert.Equal(t, "all", resolveEchoMode(&config.Config{DefaultEcho: "none"}))
}

func TestBlochPathDirsSplitsOnListSeparator(t *testing.T) {
	t.Cleanup(func() { os.Unsetenv("BLOCH_PATH") })

	os.Unsetenv("BLOCH_PATH")
	assert.Empty(t, blochPathDirs())

	os.Setenv("BLOCH_PATH", "/a"+string(os.PathListSeparator)+"/b")
	assert.Equal(t, []string{"/a", "/b"}, blochPathDirs())
}

func TestMainShotsReturnsAnnotationWhenPresent(t *testing.T) {
	n := 5
	prog := &ast.Program{
		Functions: []*ast.FunctionDecl{
			{Name: "helper"},
			{Name: "main", Annotations: []ast.Annotation{{Name: "shots", Arg: &n}}},
		},
	}
	shots, ok := mainShots(prog)
	require.True(t, ok)
	assert.Equal(t, 5, shots)
}

func TestMainShotsAbsentWithoutAnnotation(t *testing.T) {
	prog := &ast.Program{Functions: []*ast.FunctionDecl{{Name: "main"}}}
	_, ok := mainShots(prog)
	assert.False(t, ok)
}

func TestWriteQASMWritesAdjacentToSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.bloch")
	require.NoError(t, os.WriteFile(src, []byte("function main() -> void {}"), 0o644))

	require.NoError(t, writeQASM(src, "OPENQASM 2.0;\n"))

	data, err := os.ReadFile(filepath.Join(dir, "prog.qasm"))
	require.NoError(t, err)
	assert.Equal(t, "OPENQASM 2.0;\n", string(data))
}

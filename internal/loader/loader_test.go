package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSingleFileNoImports(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.bloch", "function main() -> void { echo(1); }")

	l := New(nil)
	prog, err := l.Load(entry)
	require.NoError(t, err)
	require.Len(t, prog.Functions, 1)
	assert.Equal(t, "main", prog.Functions[0].Name)
}

func TestLoadResolvesPlainImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.bloch", "function helper() -> void { echo(2); }")
	entry := writeFile(t, dir, "main.bloch", "import util;\nfunction main() -> void { helper(); }")

	l := New(nil)
	prog, err := l.Load(entry)
	require.NoError(t, err)
	names := []string{}
	for _, fn := range prog.Functions {
		names = append(names, fn.Name)
	}
	assert.Contains(t, names, "helper")
	assert.Contains(t, names, "main")
}

func TestLoadResolvesWildcardImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pkg/a.bloch", "function a() -> void { echo(1); }")
	writeFile(t, dir, "pkg/b.bloch", "function b() -> void { echo(2); }")
	entry := writeFile(t, dir, "main.bloch", "import pkg.*;\nfunction main() -> void { a(); b(); }")

	l := New(nil)
	prog, err := l.Load(entry)
	require.NoError(t, err)
	names := map[string]bool{}
	for _, fn := range prog.Functions {
		names[fn.Name] = true
	}
	assert.True(t, names["a"])
	assert.True(t, names["b"])
}

func TestLoadDetectsImportCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.bloch", "import b;\nfunction fa() -> void {}")
	writeFile(t, dir, "b.bloch", "import a;\nfunction fb() -> void {}")
	entry := writeFile(t, dir, "main.bloch", "import a;\nfunction main() -> void {}")

	l := New(nil)
	_, err := l.Load(entry)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestLoadRejectsDuplicateTopLevelName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.bloch", "function main() -> void { echo(1); }")
	entry := writeFile(t, dir, "main.bloch", "import util;\nfunction main() -> void { echo(2); }")

	l := New(nil)
	_, err := l.Load(entry)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadRejectsMissingMain(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.bloch", "function helper() -> void { echo(1); }")

	l := New(nil)
	_, err := l.Load(entry)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "main")
}

func TestLoadInjectsImplicitObjectBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bloch/lang/Object.bloch", "class Object {}")
	entry := writeFile(t, dir, "main.bloch", "class Widget {}\nfunction main() -> void {}")

	l := New(nil)
	prog, err := l.Load(entry)
	require.NoError(t, err)
	found := false
	for _, cls := range prog.Classes {
		if cls.Name == "Widget" {
			found = true
			require.NotNil(t, cls.Base)
			assert.Equal(t, "Object", cls.Base.Name)
		}
	}
	assert.True(t, found)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.ImportPaths)
	assert.Empty(t, cfg.DefaultEcho)
}

func TestLoadParsesImportPathsAndDefaultEcho(t *testing.T) {
	dir := t.TempDir()
	content := "importPaths: [\"./lib\", \"./vendor/bloch\"]\ndefaultEcho: auto\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bloch.yaml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"./lib", "./vendor/bloch"}, cfg.ImportPaths)
	assert.Equal(t, "auto", cfg.DefaultEcho)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bloch.yaml"), []byte("importPaths: [\n"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}

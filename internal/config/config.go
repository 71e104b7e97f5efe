// Package config loads the optional per-project bloch.yaml file
// (SPEC_FULL.md §2.2).
package config

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Config is the subset of bloch.yaml the module loader and CLI consult.
type Config struct {
	ImportPaths []string `yaml:"importPaths"`
	DefaultEcho string   `yaml:"defaultEcho"`
}

const fileName = "bloch.yaml"

// Load looks for bloch.yaml in dir and returns its parsed contents. A
// missing file is not an error: Load returns a zero-value Config (no
// extra import paths, no default echo mode), since project configuration
// is always optional.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Package config loads brace.toml, the optional per-project render defaults
// the CLI falls back to when flags are absent.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the brace.toml document.
type Config struct {
	Render RenderConfig `toml:"render"`
}

// RenderConfig holds defaults for the render command.
type RenderConfig struct {
	// ImportDir is the directory relative imports resolve against,
	// relative to the config file's own directory.
	ImportDir string `toml:"import_dir"`

	// Data lists data files merged into the context in order, later files
	// overriding earlier ones.
	Data []string `toml:"data"`

	// Out is the default output file. Empty means stdout.
	Out string `toml:"out"`
}

// DefaultConfig returns the configuration used when no brace.toml exists.
func DefaultConfig() *Config {
	return &Config{}
}

// FindAndLoad searches startDir and its ancestors for brace.toml and loads
// the first one found. The returned path is empty when no file exists, in
// which case defaults apply.
func FindAndLoad(startDir string) (*Config, string, error) {
	configPath := FindConfigFile(startDir)
	if configPath == "" {
		return DefaultConfig(), "", nil
	}

	config, err := Load(configPath)
	if err != nil {
		return nil, "", err
	}
	return config, configPath, nil
}

// FindConfigFile walks upward from startDir looking for brace.toml.
func FindConfigFile(startDir string) string {
	dir := startDir

	for {
		configPath := filepath.Join(dir, "brace.toml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load decodes a single config file.
func Load(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// ProjectRoot is the directory holding the config file. Paths inside the
// config resolve against it.
func ProjectRoot(configPath string) string {
	if configPath == "" {
		return ""
	}
	return filepath.Dir(configPath)
}

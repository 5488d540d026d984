// Package project loads the optional netedit.toml manifest. The manifest
// configures what cannot be derived from the netlist itself: extra library
// search roots and a forced text encoding. It is discovered by walking up
// from the start directory, so invocations from anywhere inside a project
// tree see the same configuration.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const manifestName = "netedit.toml"

// Manifest is a located and parsed netedit.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Library  LibraryConfig  `toml:"library"`
	Encoding EncodingConfig `toml:"encoding"`
}

type LibraryConfig struct {
	// Paths are additional directories searched for .lib/.inc files,
	// after the netlist's own directory and before giving up.
	Paths []string `toml:"paths"`
}

type EncodingConfig struct {
	// Name forces a netlist encoding instead of autodetection.
	Name string `toml:"name"`
}

// findManifest walks up from startDir looking for netedit.toml.
func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load locates and parses the manifest governing startDir. The second
// return value is false when no manifest exists, which is not an error.
// Relative library paths are resolved against the manifest's directory.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, false, err
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, false, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	root := filepath.Dir(path)
	for i, p := range cfg.Library.Paths {
		if !filepath.IsAbs(p) {
			cfg.Library.Paths[i] = filepath.Join(root, p)
		}
	}
	return &Manifest{Path: path, Root: root, Config: cfg}, true, nil
}

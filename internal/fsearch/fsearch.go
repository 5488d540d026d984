// Package fsearch locates library files across an ordered list of
// container directories. Netlists name their libraries the way the
// authoring tool saw them, so a `.lib` reference may be absolute, relative
// to the netlist, or something only findable under a simulator install
// directory. The first container holding the file wins.
package fsearch

import (
	"os"
	"path/filepath"
	"strings"
)

// Find returns the path of name inside the first container that holds it.
// An absolute name is checked as-is before the containers are consulted.
// Empty container entries are skipped. The boolean reports success.
func Find(name string, containers ...string) (string, bool) {
	name = strings.Trim(name, `"`)
	if filepath.IsAbs(name) {
		if fileExists(name) {
			return name, true
		}
		// Fall through: try the basename against the containers, the
		// absolute prefix may belong to another machine.
		name = filepath.Base(name)
	}
	for _, container := range containers {
		if container == "" {
			continue
		}
		candidate := filepath.Join(container, name)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

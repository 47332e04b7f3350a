// Package paths provides path resolution utilities.
package paths

import (
	"path/filepath"
	"strings"
)

// DirName is the per-project data directory curio keeps its files in.
const DirName = ".curio"

// ConfigFileName is the config file inside the data directory.
const ConfigFileName = "config.yaml"

// ResolveDataDir resolves the .curio directory path from user input. It
// normalizes the input, accepting either the project directory or the .curio
// directory itself.
//
// Input normalization:
//   - "/path/to/project" -> "/path/to/project/.curio"
//   - "/path/to/project/.curio" -> "/path/to/project/.curio"
//   - "" -> "./.curio"
func ResolveDataDir(path string) string {
	if path == "" {
		path = "."
	}
	path = filepath.Clean(path)
	if strings.HasSuffix(path, string(filepath.Separator)+DirName) || filepath.Base(path) == DirName {
		return path
	}
	return filepath.Join(path, DirName)
}

// ConfigFile returns the config file path inside the resolved data directory.
func ConfigFile(path string) string {
	return filepath.Join(ResolveDataDir(path), ConfigFileName)
}

package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDataDir(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty defaults to cwd", "", ".curio"},
		{"project directory", "/path/to/project", "/path/to/project/.curio"},
		{"already the data directory", "/path/to/project/.curio", "/path/to/project/.curio"},
		{"trailing slash", "/path/to/project/", "/path/to/project/.curio"},
		{"relative project", "project", filepath.Join("project", ".curio")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tt.want), ResolveDataDir(filepath.FromSlash(tt.input)))
		})
	}
}

func TestConfigFile(t *testing.T) {
	assert.Equal(t,
		filepath.FromSlash("/p/.curio/config.yaml"),
		ConfigFile(filepath.FromSlash("/p")))
	assert.Equal(t,
		filepath.Join(".curio", "config.yaml"),
		ConfigFile(""))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandTilde(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	assert.NoError(t, err, "should get home directory")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no tilde",
			input:    "/absolute/path",
			expected: "/absolute/path",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: homeDir,
		},
		{
			name:     "tilde with path",
			input:    "~/deploy/geodeploy.yaml",
			expected: filepath.Join(homeDir, "deploy", "geodeploy.yaml"),
		},
		{
			name:     "tilde username pattern (not expanded)",
			input:    "~username/file",
			expected: "~username/file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandTilde(tt.input))
		})
	}
}

func TestResolveConfigFile(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		t.Setenv("GEODEPLOY_CONFIG", "/from/env.yaml")
		assert.Equal(t, "/explicit.yaml", ResolveConfigFile("/explicit.yaml"))
	})

	t.Run("environment variable", func(t *testing.T) {
		t.Setenv("GEODEPLOY_CONFIG", "/from/env.yaml")
		assert.Equal(t, "/from/env.yaml", ResolveConfigFile(""))
	})

	t.Run("default file", func(t *testing.T) {
		t.Setenv("GEODEPLOY_CONFIG", "")
		assert.Equal(t, DefaultConfigFile, ResolveConfigFile(""))
	})
}

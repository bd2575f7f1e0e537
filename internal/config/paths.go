package config

import (
	"os"
	"path/filepath"
)

// DefaultConfigFile is looked up in the working directory when no config
// file is given.
const DefaultConfigFile = "geodeploy.yaml"

// ResolveConfigFile returns the config file to read. An explicit path wins,
// then GEODEPLOY_CONFIG, then DefaultConfigFile.
func ResolveConfigFile(explicit string) string {
	path := explicit
	if path == "" {
		path = os.Getenv(envPrefix + "_CONFIG")
	}
	if path == "" {
		path = DefaultConfigFile
	}
	return ExpandTilde(path)
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}

	// Handle ~/path/to/something
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// Handle ~username (not supported, return as-is)
	return path
}

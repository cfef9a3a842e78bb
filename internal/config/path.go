// Package config holds helpers for resolving user-supplied paths from
// the config file, flags and environment.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves ~ to the user's home directory and expands $VAR
// style environment variables. Paths from the database, salt and token
// settings all pass through here before use.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}

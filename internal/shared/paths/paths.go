package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AppDir is the per-user directory name under the OS config directory.
const AppDir = "spotifytv"

// TokenFile is the token cache file name inside the app directory.
const TokenFile = "token.json"

// ConfigDir returns <user config dir>/spotifytv, e.g.
// ~/.config/spotifytv on Linux and ~/Library/Application Support/spotifytv
// on macOS.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, AppDir), nil
}

// DefaultTokenCache returns the token cache path used when none is
// configured.
func DefaultTokenCache() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, TokenFile), nil
}

// Expand replaces a leading ~ with the user's home directory. Other paths are
// returned unchanged.
func Expand(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Absolute expands ~ and makes path absolute.
func Absolute(path string) (string, error) {
	expanded, err := Expand(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}

package paths

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Expand replaces a leading "~" with the user's home directory.
func Expand(path string) string {
	switch {
	case path == "~":
		return xdg.Home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(xdg.Home, path[2:])
	}
	return path
}

// ConfigDir is where htbcli looks for its config file.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, "htbcli")
}

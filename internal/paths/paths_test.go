package paths

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

func TestExpand(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"~", xdg.Home},
		{"~/htb/cache.json", filepath.Join(xdg.Home, "htb", "cache.json")},
		{"/tmp/cache.json", "/tmp/cache.json"},
		{"relative/cache.json", "relative/cache.json"},
		{"~other/cache.json", "~other/cache.json"},
	}
	for _, tt := range tests {
		if got := Expand(tt.in); got != tt.want {
			t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

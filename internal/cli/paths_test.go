package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestStateDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	t.Setenv("XDG_STATE_HOME", "")
	dir, err := stateDir()
	if err != nil {
		t.Fatalf("stateDir() error: %v", err)
	}
	if want := filepath.Join(home, ".local", "state", appName); dir != want {
		t.Errorf("stateDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_STATE_HOME", "/tmp/custom-state")
	dir, _ = stateDir()
	if want := filepath.Join("/tmp/custom-state", appName); dir != want {
		t.Errorf("stateDir() = %q, want %q", dir, want)
	}
}

func TestCLICacheDirFromConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Cache.Dir = "/srv/pidlayout-cache"
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/srv/pidlayout-cache" {
		t.Errorf("cacheDir() = %q", dir)
	}
}

package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("configDir() = %q, should be under home %q", dir, home)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("configDir() = %q, should end with %q", dir, appName)
	}
	if !strings.Contains(dir, ".config") {
		t.Errorf("configDir() = %q, should contain '.config'", dir)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	if dir, _ := cacheDir(); dir != filepath.Join(xdg, appName) {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, filepath.Join(xdg, appName))
	}
}

func TestConfigDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("configDir() = %q, want %q", dir, want)
	}
}

func TestLoadConfigDefaultFile(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	c := New(&strings.Builder{}, LogInfo)
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() without file error: %v", err)
	}
	if cfg.Layout.Algorithm != "dot" {
		t.Errorf("Algorithm = %q, want dot", cfg.Layout.Algorithm)
	}

	if err := os.MkdirAll(filepath.Join(xdg, appName), 0o755); err != nil {
		t.Fatal(err)
	}
	data := []byte("auto_layout = true\n[layout]\nalgorithm = \"neato\"\n")
	if err := os.WriteFile(filepath.Join(xdg, appName, configFile), data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Layout.Algorithm != "neato" || !cfg.AutoLayout {
		t.Errorf("loadConfig() = %+v, want neato with auto layout", cfg)
	}
}

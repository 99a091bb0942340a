package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	os.Unsetenv("XDG_CACHE_HOME")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join("/tmp/custom-cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")

	path := defaultConfigPath()
	expected := filepath.Join("/tmp/custom-config", appName, "stowplan.toml")
	if path != expected {
		t.Errorf("defaultConfigPath() = %q, want %q", path, expected)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"no output strips input extension", "", "load.toml", "load"},
		{"output with format extension stripped", "out.svg", "load.toml", "out"},
		{"output with json extension stripped", "out.json", "load.toml", "out"},
		{"output without known extension kept", "out.dat", "load.toml", "out.dat"},
		{"bare output kept", "scenes/out", "load.toml", "scenes/out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); len(got) != 1 || got[0] != "json" {
		t.Errorf("parseFormats(\"\") = %v, want [json]", got)
	}
	if got := parseFormats("json,svg"); len(got) != 2 || got[1] != "svg" {
		t.Errorf("parseFormats = %v, want [json svg]", got)
	}
	if !strings.Contains(strings.Join(parseFormats("svg"), ","), "svg") {
		t.Error("parseFormats should pass through svg")
	}
}

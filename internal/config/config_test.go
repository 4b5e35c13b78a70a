package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDefaultsWhenFileMissing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SEMA_API_URL", "")
	c, err := New(home)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if c.TopN() != defaultTopN {
		t.Fatalf("expected default top_n %d, got %d", defaultTopN, c.TopN())
	}
	if c.APIURL() != "" {
		t.Fatalf("expected empty api_url, got %q", c.APIURL())
	}
}

func TestNewParsesYaml(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SEMA_API_URL", "")
	if err := Init(home); err != nil {
		t.Fatalf("init: %v", err)
	}
	settingsYAML := strings.TrimSpace(`
version: 1
api_url: https://sema.example.com/api/
top_n: 5
`)
	if err := os.WriteFile(filepath.Join(home, SemaDir, "config.yaml"), []byte(settingsYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := New(home)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if c.APIURL() != "https://sema.example.com/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", c.APIURL())
	}
	if c.TopN() != 5 {
		t.Fatalf("top_n = %d, want 5", c.TopN())
	}
}

func TestNewClampsTopN(t *testing.T) {
	home := t.TempDir()
	if err := Init(home); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(home, SemaDir, "config.yaml"), []byte("version: 1\ntop_n: 99\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := New(home)
	if err != nil {
		t.Fatal(err)
	}
	if c.TopN() != maxTopN {
		t.Fatalf("top_n = %d, want clamp to %d", c.TopN(), maxTopN)
	}
}

func TestEnvOverridesAPIURL(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SEMA_API_URL", "https://override.example.com")
	c, err := New(home)
	if err != nil {
		t.Fatal(err)
	}
	if c.APIURL() != "https://override.example.com" {
		t.Fatalf("env override ignored, got %q", c.APIURL())
	}
}

func TestTokenLifecycle(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SEMA_TOKEN", "")
	c, err := New(home)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Token(); got != "" {
		t.Fatalf("expected no token, got %q", got)
	}
	if err := c.SaveToken("abc123"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	if got := c.Token(); got != "abc123" {
		t.Fatalf("token = %q, want abc123", got)
	}
	info, err := os.Stat(c.TokenPath())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("token file mode = %v, want 0600", info.Mode().Perm())
	}
	c.ClearToken()
	if got := c.Token(); got != "" {
		t.Fatalf("expected cleared token, got %q", got)
	}
}

func TestTokenEnvWins(t *testing.T) {
	home := t.TempDir()
	c, err := New(home)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SaveToken("from-file"); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SEMA_TOKEN", "from-env")
	if got := c.Token(); got != "from-env" {
		t.Fatalf("token = %q, want env value", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SEMA_API_URL", "")
	c, err := New(home)
	if err != nil {
		t.Fatal(err)
	}
	c.Settings.APIURL = "https://sema.example.com/api"
	c.Settings.TopN = 7
	if err := c.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	reloaded, err := New(home)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.APIURL() != "https://sema.example.com/api" || reloaded.TopN() != 7 {
		t.Fatalf("round trip lost settings: %+v", reloaded.Settings)
	}
}

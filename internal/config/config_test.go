package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	// Point the search path at an empty directory so a developer's real
	// config cannot leak into the test.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.ServerURL != "http://localhost:7070" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.RefreshRate != time.Minute {
		t.Errorf("RefreshRate = %v, want 1m", cfg.RefreshRate)
	}
	if !cfg.ConfirmDelete {
		t.Error("ConfirmDelete should default to true")
	}
	if cfg.MinBlockMinutes != 20 {
		t.Errorf("MinBlockMinutes = %d, want 20", cfg.MinBlockMinutes)
	}
	if cfg.StartupView != "month" {
		t.Errorf("StartupView = %q, want month", cfg.StartupView)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `server_url: https://meet.example.com
startup_view: week
refresh_rate: 30s
confirm_delete: false
min_block_minutes: 15
oauth:
  client_id: cid
  client_secret: secret
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.ServerURL != "https://meet.example.com" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.StartupView != "week" {
		t.Errorf("StartupView = %q", cfg.StartupView)
	}
	if cfg.RefreshRate != 30*time.Second {
		t.Errorf("RefreshRate = %v", cfg.RefreshRate)
	}
	if cfg.ConfirmDelete {
		t.Error("ConfirmDelete = true, want false")
	}
	if cfg.OAuth.ClientID != "cid" {
		t.Errorf("OAuth.ClientID = %q", cfg.OAuth.ClientID)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestWatcherFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server_url: http://a\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	changed := make(chan string, 1)
	w, err := NewWatcher(path, func(p string) {
		select {
		case changed <- p:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("server_url: http://b\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-changed:
		if p != path {
			t.Errorf("changed path = %q, want %q", p, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not fire within 2s")
	}
}

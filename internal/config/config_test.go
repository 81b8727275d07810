package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("worldshell", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.ServerURL != "http://localhost:5001" {
		t.Fatalf("expected default server URL, got %q", cfg.ServerURL)
	}
	if cfg.GameID == "" {
		t.Fatal("expected a generated game id, got empty")
	}
	if cfg.LogFile != "" {
		t.Fatalf("expected empty log file, got %q", cfg.LogFile)
	}
}

func TestParseConfigFlagOverrides(t *testing.T) {
	fs := flag.NewFlagSet("worldshell", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-server", "http://game.example:9000", "-game", "night-shift", "-log", "ws.log"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.ServerURL != "http://game.example:9000" {
		t.Fatalf("expected server override, got %q", cfg.ServerURL)
	}
	if cfg.GameID != "night-shift" {
		t.Fatalf("expected game id override, got %q", cfg.GameID)
	}
	if cfg.LogFile != "ws.log" {
		t.Fatalf("expected log file override, got %q", cfg.LogFile)
	}
}

func TestParseConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worldshell.yaml")
	data := []byte("server_url: http://from-file:5001\ngame_id: from-file\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WORLDSHELL_CONFIG", path)
	t.Setenv("WORLDSHELL_GAME_ID", "from-env")

	fs := flag.NewFlagSet("worldshell", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.ServerURL != "http://from-file:5001" {
		t.Fatalf("expected file server URL to survive, got %q", cfg.ServerURL)
	}
	if cfg.GameID != "from-env" {
		t.Fatalf("expected env to override file, got %q", cfg.GameID)
	}
}

func TestParseConfigBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worldshell.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WORLDSHELL_CONFIG", path)

	fs := flag.NewFlagSet("worldshell", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected an error for a malformed config file")
	}
}

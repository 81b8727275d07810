// Package config loads client configuration. Precedence, lowest to
// highest: optional YAML file (WORLDSHELL_CONFIG), environment
// variables, command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const defaultServerURL = "http://localhost:5001"

// Config holds the application configuration.
type Config struct {
	ServerURL string `env:"WORLDSHELL_SERVER_URL" yaml:"server_url"`
	GameID    string `env:"WORLDSHELL_GAME_ID" yaml:"game_id"`
	LogFile   string `env:"WORLDSHELL_LOG_FILE" yaml:"log_file"`
}

// ParseConfig parses the config file, environment and flags into a
// Config. An empty game id gets a generated one so two clients started
// without configuration land in distinct sessions.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if path := os.Getenv("WORLDSHELL_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = defaultServerURL
	}

	fs.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "game server base URL")
	fs.StringVar(&cfg.GameID, "game", cfg.GameID, "game session id (generated when empty)")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "debug log file (logging disabled when empty)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.GameID == "" {
		cfg.GameID = uuid.NewString()
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

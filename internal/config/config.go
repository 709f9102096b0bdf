// Package config loads runtime settings from the environment, after first
// applying any .env file found in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreBlob   = "blob"
)

// Config holds the server settings.
type Config struct {
	Addr       string        `env:"THAVALON_ADDR" envDefault:":8080"`
	Store      string        `env:"THAVALON_STORE" envDefault:"memory"`
	SQLitePath string        `env:"THAVALON_SQLITE_PATH" envDefault:"data/thavalon.sqlite"`
	BlobURL    string        `env:"THAVALON_BLOB_URL"`
	LobbyPoll  time.Duration `env:"THAVALON_LOBBY_POLL" envDefault:"7500ms"`
	GamePoll   time.Duration `env:"THAVALON_GAME_POLL" envDefault:"3s"`
	PublicURL  string        `env:"THAVALON_PUBLIC_URL" envDefault:"http://localhost:8080"`
	Debug      string        `env:"DEBUG"` // any non-empty value enables verbose logs
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadDotEnv applies the given .env files without overriding variables that
// are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads .env and the environment into a validated Config.
func Load() (Config, error) {
	if err := LoadDotEnv(); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DebugEnabled reports whether DEBUG holds any non-empty value.
func (c Config) DebugEnabled() bool {
	return c.Debug != ""
}

// Validate checks that the selected store has what it needs.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StoreSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("THAVALON_SQLITE_PATH is required for the sqlite store")
		}
	case StoreBlob:
		if strings.TrimSpace(c.BlobURL) == "" {
			return fmt.Errorf("THAVALON_BLOB_URL is required for the blob store")
		}
	default:
		return fmt.Errorf("unknown THAVALON_STORE %q", c.Store)
	}
	if c.LobbyPoll <= 0 || c.GamePoll <= 0 {
		return fmt.Errorf("poll intervals must be positive")
	}
	return nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

package config

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port int `env:"THAVALON_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("THAVALON_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.Store != StoreMemory {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.LobbyPoll != 7500*time.Millisecond || cfg.GamePoll != 3*time.Second {
		t.Fatalf("unexpected poll intervals lobby=%v game=%v", cfg.LobbyPoll, cfg.GamePoll)
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dotenv := "THAVALON_STORE=SQLite\nTHAVALON_GAME_POLL=1s\nTHAVALON_ADDR=:9999\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("THAVALON_ADDR", ":7000")
	// godotenv sets variables process-wide; make sure they are cleaned up.
	t.Setenv("THAVALON_STORE", "")
	os.Unsetenv("THAVALON_STORE")
	t.Setenv("THAVALON_GAME_POLL", "")
	os.Unsetenv("THAVALON_GAME_POLL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store != StoreSQLite {
		t.Fatalf("expected store from .env, got %q", cfg.Store)
	}
	if cfg.GamePoll != time.Second {
		t.Fatalf("expected game poll from .env, got %v", cfg.GamePoll)
	}
	if cfg.Addr != ":7000" {
		t.Fatalf("expected environment to win over .env, got %q", cfg.Addr)
	}
}

func TestLoadDebugFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DEBUG=1\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("DEBUG", "")
	os.Unsetenv("DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.DebugEnabled() {
		t.Fatalf("expected debug from .env, got %q", cfg.Debug)
	}
	if (Config{}).DebugEnabled() {
		t.Fatal("expected debug off for an empty DEBUG")
	}
}

func TestValidate(t *testing.T) {
	base := Config{Store: StoreMemory, LobbyPoll: time.Second, GamePoll: time.Second}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := map[string]Config{
		"unknown store":  {Store: "redis", LobbyPoll: time.Second, GamePoll: time.Second},
		"blob no url":    {Store: StoreBlob, LobbyPoll: time.Second, GamePoll: time.Second},
		"sqlite no path": {Store: StoreSQLite, LobbyPoll: time.Second, GamePoll: time.Second},
		"zero poll":      {Store: StoreMemory},
	}
	for name, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

// TestExitf_ExitsWithCode1 uses the subprocess pattern because os.Exit
// cannot be intercepted in-process.
func TestExitf_ExitsWithCode1(t *testing.T) {
	if os.Getenv("TEST_EXITF_SUBPROCESS") == "1" {
		Exitf("fatal: %s", "something broke")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitf_ExitsWithCode1$")
	cmd.Env = append(os.Environ(), "TEST_EXITF_SUBPROCESS=1")

	out, err := cmd.CombinedOutput()

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	if exitErr.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %d", exitErr.ExitCode())
	}
	if !strings.Contains(string(out), "fatal: something broke") {
		t.Fatalf("expected stderr to contain %q, got %q", "fatal: something broke", string(out))
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Transport.Host != "localhost" || cfg.Transport.Port != 22 {
		t.Fatalf("expected defaults, got %+v", cfg.Transport)
	}
}

func TestLoadParsesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := "[transport]\nhost = \"relay.example.com\"\nport = 2222\nuser = \"hermes\"\n\n[remote]\ninbox = \"in\"\noutbox = \"out\"\nfiles = \"data\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Transport.Host != "relay.example.com" || cfg.Transport.Port != 2222 {
		t.Fatalf("unexpected transport: %+v", cfg.Transport)
	}
	if cfg.Remote.Inbox != "in" || cfg.Remote.Files != "data" {
		t.Fatalf("unexpected remote dirs: %+v", cfg.Remote)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("this is not [ valid toml"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); !herrors.Is(err, herrors.ConfigError) {
		t.Fatalf("expected ConfigError for malformed TOML, got %v", err)
	}
}

func TestEnvOverridesApplyOverDefaults(t *testing.T) {
	t.Setenv("HERMES_TRANSPORT_HOST", "override.example.com")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Transport.Host != "override.example.com" {
		t.Fatalf("expected env override, got %q", cfg.Transport.Host)
	}
}

func TestHomeDirHonorsEnvOverride(t *testing.T) {
	t.Setenv("HERMES_HOME", "/tmp/custom-hermes-home")
	dir, err := HomeDir()
	if err != nil {
		t.Fatalf("HomeDir: %v", err)
	}
	if dir != "/tmp/custom-hermes-home" {
		t.Fatalf("HomeDir = %q, want override", dir)
	}
}

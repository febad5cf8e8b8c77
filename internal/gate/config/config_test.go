package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/v2"
)

func TestLoad_Defaults(t *testing.T) {
	// No env overrides
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Env != "prod" {
		t.Errorf("expected Env=prod, got %q", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel=info, got %q", cfg.LogLevel)
	}
	if cfg.Port != 8081 {
		t.Errorf("expected Port=8081, got %d", cfg.Port)
	}
	if cfg.UpstreamURL != "http://127.0.0.1:8080" {
		t.Errorf("expected UpstreamURL=http://127.0.0.1:8080, got %q", cfg.UpstreamURL)
	}
	if cfg.UpstreamTimeout != 120*time.Second {
		t.Errorf("expected UpstreamTimeout=120s, got %v", cfg.UpstreamTimeout)
	}
	if cfg.CacheWindow != 300*time.Second {
		t.Errorf("expected CacheWindow=300s, got %v", cfg.CacheWindow)
	}
	if cfg.SyncInterval != 24*time.Hour {
		t.Errorf("expected SyncInterval=24h, got %v", cfg.SyncInterval)
	}
	if cfg.Jurisdiction != "US" {
		t.Errorf("expected Jurisdiction=US, got %q", cfg.Jurisdiction)
	}
	if cfg.OverrideFile != "/etc/cid-gate/blacklist.txt" {
		t.Errorf("expected OverrideFile=/etc/cid-gate/blacklist.txt, got %q", cfg.OverrideFile)
	}
	if cfg.MaxConns != 512 {
		t.Errorf("expected MaxConns=512, got %d", cfg.MaxConns)
	}
	if cfg.NoticeMemo != 256 {
		t.Errorf("expected NoticeMemo=256, got %d", cfg.NoticeMemo)
	}
}

func TestLoad_ValidOverrides(t *testing.T) {
	t.Setenv("GATE_ENV", "dev")
	t.Setenv("GATE_LOG_LEVEL", "debug")
	t.Setenv("GATE_PORT", "9090")
	t.Setenv("GATE_UPSTREAM_URL", "http://10.0.0.5:8080")
	t.Setenv("GATE_UPSTREAM_TIMEOUT", "45s")
	t.Setenv("GATE_CACHE_WINDOW", "2m")
	t.Setenv("GATE_JURISDICTION", "fr")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Env != "dev" {
		t.Errorf("expected Env=dev, got %q", cfg.Env)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug, got %q", cfg.LogLevel)
	}
	if cfg.Port != 9090 {
		t.Errorf("expected Port=9090, got %d", cfg.Port)
	}
	if cfg.UpstreamURL != "http://10.0.0.5:8080" {
		t.Errorf("expected UpstreamURL override, got %q", cfg.UpstreamURL)
	}
	if cfg.UpstreamTimeout != 45*time.Second {
		t.Errorf("expected UpstreamTimeout=45s, got %v", cfg.UpstreamTimeout)
	}
	if cfg.CacheWindow != 2*time.Minute {
		t.Errorf("expected CacheWindow=2m, got %v", cfg.CacheWindow)
	}
	if cfg.Jurisdiction != "FR" {
		t.Errorf("expected Jurisdiction normalized to FR, got %q", cfg.Jurisdiction)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gate.yaml")
	content := "port: 8888\nlog_level: warn\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GATE_CONFIG", path)
	// Environment still wins over the file.
	t.Setenv("GATE_LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Port != 8888 {
		t.Errorf("expected Port=8888 from file, got %d", cfg.Port)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("expected LogLevel=error from env, got %q", cfg.LogLevel)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("GATE_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Load(); err == nil {
		t.Error("expected error for a named but missing config file")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad_env", "GATE_ENV", "staging"},
		{"bad_log_level", "GATE_LOG_LEVEL", "verbose"},
		{"bad_port", "GATE_PORT", "0"},
		{"bad_upstream_url", "GATE_UPSTREAM_URL", "not-a-url"},
		{"bad_jurisdiction", "GATE_JURISDICTION", "USA"},
		{"bad_max_conns", "GATE_MAX_CONNS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() accepted %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_LoaderFailures(t *testing.T) {
	origDefault := defaultLoader
	origFile := fileLoader
	origEnv := envLoader
	origReg := registerValidation
	t.Cleanup(func() {
		defaultLoader = origDefault
		fileLoader = origFile
		envLoader = origEnv
		registerValidation = origReg
	})

	defaultLoader = func(k *koanf.Koanf) error { return errors.New("defaults broken") }
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "default config") {
		t.Errorf("expected default loader error, got %v", err)
	}
	defaultLoader = origDefault

	fileLoader = func(k *koanf.Koanf) error { return errors.New("file broken") }
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "config file") {
		t.Errorf("expected file loader error, got %v", err)
	}
	fileLoader = origFile

	envLoader = func(k *koanf.Koanf) error { return errors.New("env broken") }
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "env") {
		t.Errorf("expected env loader error, got %v", err)
	}
	envLoader = origEnv

	registerValidation = func(v *validator.Validate) error { return errors.New("registration broken") }
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "registering validation") {
		t.Errorf("expected registration error, got %v", err)
	}
}

func TestValidCountryCode(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"US", true},
		{"EU", true},
		{"us", false},
		{"USA", false},
		{"", false},
		{"U1", false},
	}

	v := validator.New()
	if err := v.RegisterValidation("country_code", validCountryCode); err != nil {
		t.Fatal(err)
	}
	for _, tt := range tests {
		err := v.Var(tt.value, "country_code")
		if got := err == nil; got != tt.want {
			t.Errorf("country_code(%q) valid = %v, want %v", tt.value, got, tt.want)
		}
	}
}

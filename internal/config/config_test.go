package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xvierd/purrmodoro/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Notifications.Enabled || !cfg.Notifications.Sound {
		t.Error("notifications should default to enabled with sound")
	}
	if cfg.Wisdom.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q", cfg.Wisdom.Model)
	}
	if time.Duration(cfg.Wisdom.Timeout) != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Wisdom.Timeout)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoadFrom_CreatesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "conf", "config.toml")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be written: %v", err)
	}
	if want := filepath.Join(home, ".purrmodoro"); cfg.Storage.DataDir != want {
		t.Errorf("DataDir = %q, want %q", cfg.Storage.DataDir, want)
	}
	if time.Duration(cfg.Wisdom.Timeout) != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Wisdom.Timeout)
	}
	if cfg.Theme != DefaultThemeConfig() {
		t.Errorf("Theme = %+v", cfg.Theme)
	}
}

func TestLoadFrom_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[notifications]
enabled = false
sound = true

[wisdom]
enabled = true
model = "gemini-test"
timeout = "3s"
max_retries = 4

[storage]
data_dir = "` + filepath.ToSlash(dir) + `/data"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Notifications.Enabled {
		t.Error("Notifications.Enabled should be false")
	}
	if cfg.Wisdom.Model != "gemini-test" || cfg.Wisdom.MaxRetries != 4 {
		t.Errorf("Wisdom = %+v", cfg.Wisdom)
	}
	if time.Duration(cfg.Wisdom.Timeout) != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", cfg.Wisdom.Timeout)
	}
	if cfg.Wisdom.APIKeyEnv != "GEMINI_API_KEY" {
		t.Errorf("missing keys should keep defaults, APIKeyEnv = %q", cfg.Wisdom.APIKeyEnv)
	}
	if !strings.HasSuffix(filepath.ToSlash(cfg.Storage.DataDir), "/data") {
		t.Errorf("DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("PURR_WISDOM_ENABLED", "false")
	t.Setenv("PURR_LOG_LEVEL", "warn")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Wisdom.Enabled {
		t.Error("env override should disable wisdom")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestLoadFrom_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[wisdom]\ntimeout = \"soon\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Storage.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Wisdom.Timeout = Duration(1500 * time.Millisecond)
	cfg.Theme.ColorWork = "#000000"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *got, *cfg)
	}
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if time.Duration(d) != 90*time.Second {
		t.Errorf("d = %v", d)
	}
	text, _ := d.MarshalText()
	if string(text) != "1m30s" {
		t.Errorf("MarshalText() = %q", text)
	}
	if err := d.UnmarshalText([]byte("x")); err == nil {
		t.Error("expected parse error")
	}
}

func TestThemeConfig_ColorFor(t *testing.T) {
	theme := DefaultThemeConfig()
	if theme.ColorFor(domain.ModeWork) != theme.ColorWork {
		t.Error("work colour mismatch")
	}
	if theme.ColorFor(domain.ModeShortBreak) != theme.ColorShortBreak {
		t.Error("short break colour mismatch")
	}
	if theme.ColorFor(domain.ModeLongBreak) != theme.ColorLongBreak {
		t.Error("long break colour mismatch")
	}
}

func TestWisdomConfig_APIKey(t *testing.T) {
	t.Setenv("PURR_TEST_KEY", "secret")
	if got := (WisdomConfig{APIKeyEnv: "PURR_TEST_KEY"}).APIKey(); got != "secret" {
		t.Errorf("APIKey() = %q", got)
	}
	if got := (WisdomConfig{}).APIKey(); got != "" {
		t.Errorf("APIKey() = %q, want empty", got)
	}
}

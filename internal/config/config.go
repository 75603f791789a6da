// Package config provides configuration management for PurrModoro.
//
// Application configuration (where data lives, whether to notify, how to
// reach the quote service, colours, log level) is read from a TOML file
// through viper. User durations are not configuration: they are preferences
// stored next to the history database.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/xvierd/purrmodoro/internal/domain"
)

// EnvPrefix prefixes environment overrides, e.g. PURR_WISDOM_ENABLED=false.
const EnvPrefix = "PURR"

const defaultDataDir = "~/.purrmodoro"

// Config holds all configuration for the PurrModoro application.
type Config struct {
	Notifications NotificationConfig `mapstructure:"notifications"`
	Wisdom        WisdomConfig       `mapstructure:"wisdom"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Theme         ThemeConfig        `mapstructure:"theme"`
	Log           LogConfig          `mapstructure:"log"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Sound   bool   `mapstructure:"sound"`
	Icon    string `mapstructure:"icon"`
}

// WisdomConfig configures the cat wisdom quote service.
type WisdomConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Endpoint   string   `mapstructure:"endpoint"`
	Model      string   `mapstructure:"model"`
	APIKeyEnv  string   `mapstructure:"api_key_env"`
	Timeout    Duration `mapstructure:"timeout"`
	MaxRetries int      `mapstructure:"max_retries"`
}

// APIKey reads the key from the configured environment variable.
func (w WisdomConfig) APIKey() string {
	if w.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(w.APIKeyEnv)
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ThemeConfig holds the per-mode colours of the TUI.
type ThemeConfig struct {
	ColorWork       string `mapstructure:"color_work"`
	ColorShortBreak string `mapstructure:"color_short_break"`
	ColorLongBreak  string `mapstructure:"color_long_break"`
	ColorPaused     string `mapstructure:"color_paused"`
	ColorTitle      string `mapstructure:"color_title"`
	ColorQuote      string `mapstructure:"color_quote"`
	ColorHelp       string `mapstructure:"color_help"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorWork:       "#F87171",
		ColorShortBreak: "#4ECDC4",
		ColorLongBreak:  "#60A5FA",
		ColorPaused:     "#6B7280",
		ColorTitle:      "#2C2C2C",
		ColorQuote:      "#A78BFA",
		ColorHelp:       "#95A5A6",
	}
}

// ColorFor returns the accent colour of mode.
func (t ThemeConfig) ColorFor(m domain.Mode) string {
	switch m {
	case domain.ModeShortBreak:
		return t.ColorShortBreak
	case domain.ModeLongBreak:
		return t.ColorLongBreak
	default:
		return t.ColorWork
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Wisdom: WisdomConfig{
			Enabled:    true,
			Endpoint:   "https://generativelanguage.googleapis.com",
			Model:      "gemini-2.5-flash",
			APIKeyEnv:  "GEMINI_API_KEY",
			Timeout:    Duration(10 * time.Second),
			MaxRetries: 1,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
		},
		Theme: DefaultThemeConfig(),
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads the configuration from the default config file, creating it
// with defaults on first run.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath.
func LoadFrom(configPath string) (*Config, error) {
	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir

	return &cfg, nil
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg as TOML to configPath.
func SaveTo(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(configPath)

	// Set all values
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("notifications.icon", cfg.Notifications.Icon)
	v.Set("wisdom.enabled", cfg.Wisdom.Enabled)
	v.Set("wisdom.endpoint", cfg.Wisdom.Endpoint)
	v.Set("wisdom.model", cfg.Wisdom.Model)
	v.Set("wisdom.api_key_env", cfg.Wisdom.APIKeyEnv)
	v.Set("wisdom.timeout", cfg.Wisdom.Timeout.String())
	v.Set("wisdom.max_retries", cfg.Wisdom.MaxRetries)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("theme.color_work", cfg.Theme.ColorWork)
	v.Set("theme.color_short_break", cfg.Theme.ColorShortBreak)
	v.Set("theme.color_long_break", cfg.Theme.ColorLongBreak)
	v.Set("theme.color_paused", cfg.Theme.ColorPaused)
	v.Set("theme.color_title", cfg.Theme.ColorTitle)
	v.Set("theme.color_quote", cfg.Theme.ColorQuote)
	v.Set("theme.color_help", cfg.Theme.ColorHelp)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".purrmodoro", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "purr.db")
}

// GetLogPath returns the path of the log file used while the TUI owns the terminal.
func GetLogPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "purr.log")
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
	v.SetDefault("notifications.sound", defaults.Notifications.Sound)
	v.SetDefault("notifications.icon", defaults.Notifications.Icon)
	v.SetDefault("wisdom.enabled", defaults.Wisdom.Enabled)
	v.SetDefault("wisdom.endpoint", defaults.Wisdom.Endpoint)
	v.SetDefault("wisdom.model", defaults.Wisdom.Model)
	v.SetDefault("wisdom.api_key_env", defaults.Wisdom.APIKeyEnv)
	v.SetDefault("wisdom.timeout", defaults.Wisdom.Timeout.String())
	v.SetDefault("wisdom.max_retries", defaults.Wisdom.MaxRetries)
	v.SetDefault("storage.data_dir", defaults.Storage.DataDir)
	v.SetDefault("log.level", defaults.Log.Level)

	// Theme defaults
	theme := defaults.Theme
	v.SetDefault("theme.color_work", theme.ColorWork)
	v.SetDefault("theme.color_short_break", theme.ColorShortBreak)
	v.SetDefault("theme.color_long_break", theme.ColorLongBreak)
	v.SetDefault("theme.color_paused", theme.ColorPaused)
	v.SetDefault("theme.color_title", theme.ColorTitle)
	v.SetDefault("theme.color_quote", theme.ColorQuote)
	v.SetDefault("theme.color_help", theme.ColorHelp)
}

func expandHome(path string) (string, error) {
	if path == "" {
		path = defaultDataDir
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}

// Package config loads snip settings from a TOML file and SNIP_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/renato0307/snip/internal/keyboard"
	"github.com/renato0307/snip/internal/logging"
)

// EnvPrefix prefixes every environment override (SNIP_LOG_LEVEL,
// SNIP_STATE_PATH, ...). SNIP_CONFIG points at the config file.
const EnvPrefix = "SNIP"

// Config holds application configuration.
type Config struct {
	Log     LogConfig
	State   StateConfig
	Plugins PluginsConfig
	Keys    KeysConfig
	UI      UIConfig
}

// LogConfig holds logger settings. An empty File disables logging.
type LogConfig struct {
	File       string
	Level      string
	Format     string
	MaxSizeMB  int `mapstructure:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups"`
}

// StateConfig holds the session state file location. An empty Path keeps
// state in memory only.
type StateConfig struct {
	Path string
}

// PluginsConfig holds plugin loading settings.
type PluginsConfig struct {
	Dir     string
	Builtin bool
	Timeout time.Duration
}

// KeysConfig holds the keymap file and a trigger override.
type KeysConfig struct {
	Keymap  string
	Trigger string
}

// UIConfig holds terminal host settings.
type UIConfig struct {
	Theme string
}

// Dir returns the snip configuration directory.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, "snip")
}

// Load reads configuration. path, or SNIP_CONFIG when path is empty, names
// an explicit file that must exist; otherwise config.toml in Dir is read
// if present.
func Load(path string) (Config, error) {
	v := viper.New()
	dir := Dir()

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", string(logging.FormatText))
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("state.path", filepath.Join(dir, "state.json"))
	v.SetDefault("plugins.dir", filepath.Join(dir, "plugins"))
	v.SetDefault("plugins.builtin", true)
	v.SetDefault("plugins.timeout", "5s")
	v.SetDefault("keys.keymap", filepath.Join(dir, "keymap.yaml"))
	v.SetDefault("keys.trigger", "")
	v.SetDefault("ui.theme", "charm")

	v.SetConfigType("toml")
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return c, nil
}

// Logging converts the log section into a logger configuration.
func (c LogConfig) Logging() logging.Config {
	return logging.Config{
		FilePath:   c.File,
		Level:      logging.ParseLevel(c.Level),
		Format:     logging.ParseFormat(c.Format),
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
	}
}

// LoadKeys reads the keymap file and applies the trigger override.
func (c KeysConfig) LoadKeys() (*keyboard.Keys, map[string][]string, error) {
	keys, overrides, err := keyboard.LoadKeymap(c.Keymap)
	if err != nil {
		return nil, nil, err
	}
	if c.Trigger != "" {
		keys.Trigger = keyboard.Normalize(c.Trigger)
	}
	return keys, overrides, nil
}

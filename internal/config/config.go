// Package config loads chipwarden configuration from a YAML file with
// CHIPWARDEN_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Directories names the four working directories of the pipeline.
type Directories struct {
	Watch   string `mapstructure:"watch"`
	Archive string `mapstructure:"archive"`
	Publish string `mapstructure:"publish"`
	Logs    string `mapstructure:"logs"`
}

type Retention struct {
	KeepPublished int `mapstructure:"keep_published"`
}

type Git struct {
	AutoCommit bool `mapstructure:"auto_commit"`
}

type Telegram struct {
	Enabled      bool  `mapstructure:"enabled"`
	ChatID       int64 `mapstructure:"chat_id"`
	NotifyOnPost bool  `mapstructure:"notify_on_post"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

// Watcher tunes file discovery.
type Watcher struct {
	SettleMillis int  `mapstructure:"settle_millis"`
	RemoveSource bool `mapstructure:"remove_source"`
}

type Config struct {
	Directories Directories `mapstructure:"directories"`
	Retention   Retention   `mapstructure:"retention"`
	Git         Git         `mapstructure:"git"`
	Telegram    Telegram    `mapstructure:"telegram"`
	Logging     Logging     `mapstructure:"logging"`
	Watcher     Watcher     `mapstructure:"watcher"`

	// dir the config file was loaded from; the telegram token file lives here
	configDir string
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	if env := os.Getenv("CHIPWARDEN_CONFIG"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "chipwarden.yaml"
	}
	return filepath.Join(home, ".config", "chipwarden", "chipwarden.yaml")
}

// Load reads the config file at path. A missing file yields the defaults;
// a malformed file is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("CHIPWARDEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.configDir = filepath.Dir(path)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, "chipwarden")

	v.SetDefault("directories.watch", filepath.Join(base, "incoming"))
	v.SetDefault("directories.archive", filepath.Join(base, "archive"))
	v.SetDefault("directories.publish", filepath.Join(base, "share"))
	v.SetDefault("directories.logs", filepath.Join(base, "logs"))
	v.SetDefault("retention.keep_published", 2)
	v.SetDefault("git.auto_commit", true)
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.notify_on_post", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("watcher.settle_millis", 500)
	v.SetDefault("watcher.remove_source", true)
}

func (c *Config) validate() error {
	if c.Retention.KeepPublished < 1 {
		return fmt.Errorf("retention.keep_published must be at least 1, got %d", c.Retention.KeepPublished)
	}
	if c.Directories.Watch == "" || c.Directories.Archive == "" || c.Directories.Publish == "" {
		return fmt.Errorf("watch, archive and publish directories must all be set")
	}
	if c.Telegram.Enabled && c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
	}
	return nil
}

// ConfigDir returns the directory the config file was loaded from.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// IndexPath returns the location of the version index database.
func (c *Config) IndexPath() string {
	return filepath.Join(c.Directories.Archive, ".chipwarden", "index.db")
}

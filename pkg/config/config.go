// Package config loads and saves taskflow's settings. Values come from
// defaults, then ~/.config/taskflow/config.yaml, then TASKFLOW_* environment
// variables (TASKFLOW_REMOTE_URL, TASKFLOW_STORAGE_BACKEND, ...).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	xdgAppName = "taskflow"
	configFile = "config.yaml"
	envPrefix  = "TASKFLOW"
)

type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
}

type RemoteConfig struct {
	URL     string        `mapstructure:"url"`
	Limit   int           `mapstructure:"limit"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CalendarConfig struct {
	Name    string `mapstructure:"name"`
	Workers int    `mapstructure:"workers"`
}

type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Calendar CalendarConfig `mapstructure:"calendar"`
}

// GetConfigDir returns ~/.config/taskflow.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.dir", filepath.Join(configDir, "data"))
	v.SetDefault("remote.url", "https://jsonplaceholder.typicode.com")
	v.SetDefault("remote.limit", 5)
	v.SetDefault("remote.timeout", 10*time.Second)
	v.SetDefault("calendar.name", "Tasks")
	v.SetDefault("calendar.workers", 4)
}

// Load reads the config at path, or at the default location when path is
// empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = filepath.Join(configDir, configFile)
	}

	v := viper.New()
	setDefaults(v, configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// fileConfig is the on-disk shape; durations are written as "10s" strings.
type fileConfig struct {
	Storage struct {
		Backend string `yaml:"backend"`
		Dir     string `yaml:"dir"`
	} `yaml:"storage"`
	Remote struct {
		URL     string `yaml:"url"`
		Limit   int    `yaml:"limit"`
		Timeout string `yaml:"timeout"`
	} `yaml:"remote"`
	Calendar struct {
		Name    string `yaml:"name"`
		Workers int    `yaml:"workers"`
	} `yaml:"calendar"`
}

// Save writes cfg to path, or to the default location when path is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	var fc fileConfig
	fc.Storage.Backend = cfg.Storage.Backend
	fc.Storage.Dir = cfg.Storage.Dir
	fc.Remote.URL = cfg.Remote.URL
	fc.Remote.Limit = cfg.Remote.Limit
	fc.Remote.Timeout = cfg.Remote.Timeout.String()
	fc.Calendar.Name = cfg.Calendar.Name
	fc.Calendar.Workers = cfg.Calendar.Workers

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, b, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

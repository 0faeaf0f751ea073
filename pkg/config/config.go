// Package config loads the bridge configuration from a YAML file with
// sensible defaults for every field.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PluginSpec names a plugin from the built-in registry plus its options.
type PluginSpec struct {
	Name    string            `yaml:"name"`
	Options map[string]string `yaml:"options,omitempty"`
}

// Config is the on-disk configuration.
type Config struct {
	Port           int    `yaml:"port"`
	HTTPPort       int    `yaml:"http_port"` // 0 disables the HTTP listener
	MaxMessageSize int    `yaml:"max_message_size"`
	Nick           string `yaml:"nick"`
	SourceRoot     string `yaml:"source_root"`
	FilenameFormat string `yaml:"filename_format"`

	Apps    []string `yaml:"apps,omitempty"`
	Clients []string `yaml:"clients,omitempty"`
	Friends []string `yaml:"friends,omitempty"` // "address[:port][=name]"

	Plugins []PluginSpec `yaml:"plugins,omitempty"`

	Counter int  `yaml:"counter"`
	Paused  bool `yaml:"paused"`
	Debug   bool `yaml:"debug"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return &Config{
		Port:           5979,
		HTTPPort:       0,
		MaxMessageSize: 16777215,
		SourceRoot:     wd,
	}
}

// Load reads the YAML file at path over the defaults. A missing path is not
// an error; a malformed file is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("config %s: invalid port %d", path, cfg.Port)
	}
	if cfg.MaxMessageSize < 1 {
		return nil, fmt.Errorf("config %s: invalid max_message_size %d", path, cfg.MaxMessageSize)
	}
	return cfg, nil
}

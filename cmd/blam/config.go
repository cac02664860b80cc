package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/32bitkid/blam/errs"
)

// Config is the optional file at $XDG_CONFIG_HOME/blam/config.yaml. Flags
// given on the command line win over it.
type Config struct {
	TagsDir   string `yaml:"tags_dir"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Engine is the cache file engine `cache compress` expects.
	Engine string `yaml:"engine"`
	// Dither is the default for `bitmap import --dither`.
	Dither *bool `yaml:"dither"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "blam", "config.yaml")
}

// LoadConfig reads the config file at path. A missing file is an empty
// config.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errs.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errs.Invalidf("config %s: %v", path, err)
	}
	return cfg, nil
}

// applyGlobalConfig fills the global flags the user did not set.
func applyGlobalConfig(c *cli.Command, cfg Config) {
	if cfg.TagsDir != "" && !c.IsSet("tags") {
		tagsDir = cfg.TagsDir
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

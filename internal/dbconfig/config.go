// Package dbconfig loads the CLI/loader collaborators' runtime settings:
// where the table files live, and how verbose logging should be.
package dbconfig

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Config is the settings a CLI or loader collaborator needs before it can
// drive the core engine. The engine itself (internal/btree, internal/pager,
// internal/space) takes no config of its own beyond a file path and node
// capacities passed directly to btree.Open/Create and their WithCapacity
// variants.
type Config struct {
	Storage struct {
		// DataDir is where table files are created/opened if a command
		// gives a bare name instead of a full path.
		DataDir string `mapstructure:"data_dir"`
	} `mapstructure:"storage"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// Default returns the configuration used when no config file is present:
// table files in the current directory, info-level logging.
func Default() *Config {
	cfg := &Config{}
	cfg.Storage.DataDir = "."
	cfg.Log.Level = "info"
	return cfg
}

// Load reads path (a YAML file) when path is non-empty, overlays any
// BPTREEDB_* environment variables, and returns the merged configuration.
// A non-empty path that cannot be read is an error. An empty path is not:
// the same values as Default() are used, still subject to the environment
// overlay, matching the reference program's "run with sane defaults, no
// config file required" behavior.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("storage.data_dir", ".")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("bptreedb")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("dbconfig: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("dbconfig: unmarshal: %w", err)
	}
	return &cfg, nil
}

// SlogLevel parses Log.Level into a slog.Level, defaulting to Info for an
// unrecognized value.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/tendermint/tendermint/libs/log"
)

const configFile = "config.toml"

// Config is the node configuration, stored in the home directory.
type Config struct {
	// DBDir is the database directory, relative to the home directory.
	DBDir string `toml:"db_dir"`
	// LogLevel is a tendermint log level filter, for example "info" or
	// "*:error,cosign:debug".
	LogLevel string `toml:"log_level"`
	// Debug exposes internal error messages in results.
	Debug bool `toml:"debug"`
	// MetricsAddr is the listen address of the prometheus endpoint used
	// by serve. Empty disables it.
	MetricsAddr string `toml:"metrics_addr"`
	// RedisAddr enables publishing events to redis when set.
	RedisAddr    string `toml:"redis_addr"`
	RedisChannel string `toml:"redis_channel"`
}

// DefaultConfig returns the configuration written by init.
func DefaultConfig() *Config {
	return &Config{
		DBDir:        "data",
		LogLevel:     "info",
		MetricsAddr:  "localhost:26660",
		RedisChannel: "treasury",
	}
}

// LoadConfig reads the configuration from the home directory.
func LoadConfig(home string) (*Config, error) {
	c := DefaultConfig()
	if _, err := toml.DecodeFile(filepath.Join(home, configFile), c); err != nil {
		return nil, err
	}
	return c, nil
}

// WriteTo writes the config to the specified file path.
func (c *Config) WriteTo(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(c); err != nil {
		return err
	}
	return file.Close()
}

// Logger returns a logger writing to w, filtered by the configured level.
func (c *Config) Logger(w *os.File) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(w))
	opt, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(logger, opt).With("module", "treasury"), nil
}

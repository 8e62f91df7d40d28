package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	CacheDB       string `toml:"cache_db"`
	UseCache      bool   `toml:"use_cache"`
	FromNamespace string `toml:"from_namespace"`
	ToNamespace   string `toml:"to_namespace"`
	Progress      bool   `toml:"progress"`
}

// Path returns the location of the config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "awremap", "config.toml"), nil
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	cfgPath, err := Path()
	if err != nil {
		return nil, err
	}
	return load(cfgPath, home)
}

func load(cfgPath, home string) (*Config, error) {
	cfg := &Config{
		CacheDB:  filepath.Join(home, ".cache", "awremap", "mappings.db"),
		UseCache: true,
		Progress: true,
	}

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// expand ~ in paths
	cfg.CacheDB = expandHome(cfg.CacheDB, home)

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/goccy/go-yaml"
)

// Config is the driver configuration layered under the command-line
// flags. It is read from yuc.yaml in the working directory unless an
// explicit path is given.
type Config struct {
	Color    bool   `yaml:"color"`
	Jobs     int    `yaml:"jobs"`
	CacheDir string `yaml:"cache_dir"`
	DumpIR   bool   `yaml:"dump_ir"`
}

func defaultConfig() Config {
	return Config{Color: true}
}

// loadConfig reads the config file. A missing default file is not an
// error; a missing explicit file is.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = "yuc.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// defaultCacheDir resolves the yuc cache directory: YUCACHE if set,
// otherwise the platform cache location.
func defaultCacheDir() string {
	if env := os.Getenv("YUCACHE"); env != "" {
		return env
	}

	homeDir, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		if localAppData := os.Getenv("LocalAppData"); localAppData != "" {
			return filepath.Join(localAppData, "yuc")
		}
		return filepath.Join(homeDir, "AppData", "Local", "yuc")

	case "darwin":
		return filepath.Join(homeDir, "Library", "Caches", "yuc")

	default: // Linux and others
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, "yuc")
		}
		return filepath.Join(homeDir, ".cache", "yuc")
	}
}

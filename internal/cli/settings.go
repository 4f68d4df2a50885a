package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Cache backend names accepted in the config file.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendMongo = "mongo"
	CacheBackendNone  = "none"
)

// Settings holds user preferences loaded from the TOML config file at
// ~/.config/forcelayout/config.toml (or $XDG_CONFIG_HOME/forcelayout/).
// Command-line flags always win over settings.
type Settings struct {
	Layout LayoutSettings `toml:"layout"`
	Cache  CacheSettings  `toml:"cache"`
	Serve  ServeSettings  `toml:"serve"`
}

// LayoutSettings carries default simulation parameters.
type LayoutSettings struct {
	Iterations int     `toml:"iterations"`
	Seed       uint64  `toml:"seed"`
	Scaling    float64 `toml:"scaling"`
	Gravity    float64 `toml:"gravity"`
}

// CacheSettings selects and configures the cache backend.
type CacheSettings struct {
	Backend       string `toml:"backend"`
	RedisAddr     string `toml:"redis_addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServeSettings configures the HTTP server.
type ServeSettings struct {
	Addr string `toml:"addr"`
}

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() Settings {
	return Settings{
		Cache: CacheSettings{
			Backend:       CacheBackendFile,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
		},
		Serve: ServeSettings{
			Addr: ":8080",
		},
	}
}

// LoadSettings reads the config file, if present, on top of the defaults.
// A missing file is not an error; a malformed one is.
func LoadSettings() (Settings, error) {
	settings := DefaultSettings()

	path, err := settingsPath()
	if err != nil {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return settings, err
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("parse %s: %w", path, err)
	}

	if err := settings.validate(); err != nil {
		return DefaultSettings(), fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}

func (s Settings) validate() error {
	switch s.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendMongo, CacheBackendNone, "":
		return nil
	}
	return fmt.Errorf("unknown cache backend %q (use file, redis, mongo, or none)", s.Cache.Backend)
}

// settingsPath returns the config file location using XDG conventions.
func settingsPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Package config loads stowplan's TOML configuration file.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/boxlogic/stowplan/pkg/errors"
)

// Config is the full stowplan configuration.
type Config struct {
	Packer PackerConfig `toml:"packer"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// PackerConfig configures the remote packing service client.
type PackerConfig struct {
	// URL is the packing service base URL. Empty disables remote
	// packing; the fallback shelf layout is used instead.
	URL     string   `toml:"url"`
	Timeout duration `toml:"timeout"`
	TTL     duration `toml:"cache_ttl"`
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	// Backend is "file", "redis" or "none".
	Backend string `toml:"backend"`
	// Dir is the file cache directory. Empty means the platform
	// cache dir under "stowplan".
	Dir string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// StoreConfig selects where the server persists plans.
type StoreConfig struct {
	// MongoURI enables the MongoDB backend. Empty keeps plans in
	// memory.
	MongoURI string `toml:"mongo_uri"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// AllowedOrigins is the CORS allowlist for browser clients.
	AllowedOrigins []string `toml:"allowed_origins"`
}

// duration lets TOML carry values like "30s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Packer: PackerConfig{
			Timeout: duration{30 * time.Second},
			TTL:     duration{24 * time.Hour},
		},
		Cache: CacheConfig{
			Backend: "file",
		},
		Server: ServerConfig{
			Addr: ":8080",
			AllowedOrigins: []string{
				"http://localhost:5173",
				"http://localhost:3000",
			},
		},
	}
}

// Load reads the config file at path over the defaults. A missing file
// is not an error. Secrets can be supplied via environment instead of
// the file: STOWPLAN_REDIS_PASSWORD and STOWPLAN_MONGO_URI override
// their file counterparts.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
			}
		}
	}

	if v := os.Getenv("STOWPLAN_REDIS_PASSWORD"); v != "" {
		cfg.Cache.RedisPassword = v
	}
	if v := os.Getenv("STOWPLAN_MONGO_URI"); v != "" {
		cfg.Store.MongoURI = v
	}

	return cfg, nil
}

// PackerTimeout returns the configured request timeout.
func (c Config) PackerTimeout() time.Duration { return c.Packer.Timeout.Duration }

// PackerTTL returns the configured cache TTL for packing responses.
func (c Config) PackerTTL() time.Duration { return c.Packer.TTL.Duration }

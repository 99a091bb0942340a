// Package cli implements the stowplan command-line interface.
package cli

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/boxlogic/stowplan/pkg/buildinfo"
	"github.com/boxlogic/stowplan/pkg/cache"
	"github.com/boxlogic/stowplan/pkg/config"
	"github.com/boxlogic/stowplan/pkg/packer"
	"github.com/boxlogic/stowplan/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "stowplan"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "stowplan",
		Short:        "Stowplan turns container packing results into 3D scenes",
		Long:         `Stowplan interprets container-loading results and lays them out as visualization-ready scenes. It can call a remote bin-packing service, fall back to a built-in shelf layout, and export scenes as JSON or SVG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: $XDG_CONFIG_HOME/stowplan/stowplan.toml)")

	root.AddCommand(c.planCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file, falling back to the default search
// path when --config was not given.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.ConfigPath
	if path == "" {
		path = defaultConfigPath()
	}
	return config.Load(path)
}

// newRunner creates a pipeline runner for CLI use, wiring the cache
// backend and remote packer from the config.
func (c *CLI) newRunner(cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	ca, err := newCache(cfg, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(ca, nil, c.Logger)

	if cfg.Packer.URL != "" {
		runner.Packer = packer.New(cfg.Packer.URL,
			packer.WithHTTPClient(httpClient(cfg)),
			packer.WithCache(ca, nil),
			packer.WithLogger(c.Logger),
			packer.WithTTL(cfg.PackerTTL()))
	}
	return runner, nil
}

func newCache(cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Backend == "none" {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.Backend == "redis" {
		return cache.NewRedisCache(context.Background(), cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

func httpClient(cfg config.Config) *http.Client {
	return &http.Client{Timeout: cfg.PackerTimeout()}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/stowplan/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// defaultConfigPath returns the config file location using XDG standard
// (~/.config/stowplan/stowplan.toml).
func defaultConfigPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "stowplan.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "stowplan.toml")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatJSON}
	}
	return strings.Split(s, ",")
}

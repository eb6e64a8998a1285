// Package cli implements the pidlayout command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pidlayout/pkg/buildinfo"
	"github.com/matzehuels/pidlayout/pkg/cache"
	"github.com/matzehuels/pidlayout/pkg/config"
	"github.com/matzehuels/pidlayout/pkg/pipeline"
	"github.com/matzehuels/pidlayout/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pidlayout"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs. Flags override it.
	Config config.Config

	out        io.Writer
	configPath string
	logFile    string
	closers    []io.Closer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "pidlayout lays out and routes P&ID diagrams",
		Long: `pidlayout turns a list of equipment, connections and instruments into a
positioned piping and instrumentation diagram: equipment placement, pipe
routing, instrument balloons and annotations.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.Close()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $"+config.EnvPath+" or the user config dir)")
	root.PersistentFlags().StringVar(&c.logFile, "log-file", "", "also write logs to this file, rotated")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.rearrangeCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.schemaCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file and applies its logging section.
func (c *CLI) setup() error {
	path, explicit := c.configPath, c.configPath != ""
	if !explicit {
		p, err := config.Path(appName)
		if err != nil {
			c.Logger.Debug("no config dir", "error", err)
			return nil
		}
		path = p
	}

	var err error
	if explicit {
		c.Config, err = config.Load(path)
	} else {
		c.Config, err = config.LoadOrEmpty(path)
	}
	if err != nil {
		return err
	}
	c.Logger.Debug("config loaded", "path", path)

	if lvl := c.Config.Logging.Level; lvl != "" {
		level, err := log.ParseLevel(lvl)
		if err != nil {
			return err
		}
		c.SetLogLevel(level)
	}

	if c.logFile == "" {
		c.logFile = c.Config.Logging.File
	}
	if c.logFile != "" {
		lj := newRotatingFile(c.logFile, c.Config.Logging)
		c.Logger.SetOutput(io.MultiWriter(c.out, lj))
		c.closers = append(c.closers, lj)
	}
	return nil
}

// Close releases the log file, if any.
func (c *CLI) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache opens the configured cache backend.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, c.Config.Cache.RedisURL, c.Config.Cache.RedisPrefix)
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newSessionStore picks a session store matching the cache backend. Redis
// shares sessions between replicas; otherwise they live on local disk.
func (c *CLI) newSessionStore(cc cache.Cache) (session.Store, error) {
	switch c.Config.Cache.Backend {
	case config.BackendRedis:
		return session.NewCacheStore(cc), nil
	case config.BackendNone:
		return session.NewMemoryStore(), nil
	}
	dir, err := stateDir()
	if err != nil {
		return session.NewMemoryStore(), nil
	}
	return session.NewFileStore(filepath.Join(dir, "sessions"))
}

// options applies the config file underneath flag values.
func (c *CLI) options(opts pipeline.Options) pipeline.Options {
	c.Config.Apply(&opts)
	opts.Logger = c.Logger
	return opts
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns cache.dir from the config, else the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/pidlayout/).
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

// stateDir returns the state directory (~/.local/state/pidlayout/). Editing
// sessions live here so that "cache clear" leaves them alone.
func stateDir() (string, error) {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// An empty string means no extra artifacts.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// artifactPath derives the path for format next to the diagram output.
func artifactPath(output, format string) string {
	base := strings.TrimSuffix(output, filepath.Ext(output))
	return base + "." + format
}

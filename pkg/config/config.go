// Package config loads pidlayout settings from a TOML file.
//
// The file mirrors the pipeline options plus the settings that only the CLI
// and the HTTP service need (cache backend, log output, listen address):
//
//	[canvas]
//	width = 1600
//	height = 1000
//
//	[routing]
//	strategy = "smart"
//	avoid_crossings = true
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
// Command-line flags take precedence: [Config.Apply] only fills options the
// caller left at their zero value.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pidlayout/pkg/errors"
	"github.com/matzehuels/pidlayout/pkg/pipeline"
)

// EnvPath overrides the default config file location.
const EnvPath = "PIDLAYOUT_CONFIG"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the content of a config file.
type Config struct {
	Canvas      Canvas      `toml:"canvas"`
	Placement   Placement   `toml:"placement"`
	Routing     Routing     `toml:"routing"`
	Instruments Instruments `toml:"instruments"`
	Annotations Annotations `toml:"annotations"`
	Cache       Cache       `toml:"cache"`
	Logging     Logging     `toml:"logging"`
	Server      Server      `toml:"server"`
}

type Canvas struct {
	Width    float64 `toml:"width,omitempty"`
	Height   float64 `toml:"height,omitempty"`
	Margin   float64 `toml:"margin,omitempty"`
	GridSize float64 `toml:"grid_size,omitempty"`
}

type Placement struct {
	Strategy         string  `toml:"strategy,omitempty"`
	FlowDirection    string  `toml:"flow_direction,omitempty"`
	MinSpacing       float64 `toml:"min_spacing,omitempty"`
	RespectElevation bool    `toml:"respect_elevation"`
	Optimize         *bool   `toml:"optimize,omitempty"`
}

type Routing struct {
	Strategy       string  `toml:"strategy,omitempty"`
	AvoidCrossings bool    `toml:"avoid_crossings"`
	SnapToGrid     *bool   `toml:"snap_to_grid,omitempty"`
	PipeSpacing    float64 `toml:"pipe_spacing,omitempty"`
	MinPipeSpacing float64 `toml:"min_pipe_spacing,omitempty"`
	MaxExpansions  int     `toml:"max_expansions,omitempty"`
}

type Instruments struct {
	Layout       string `toml:"layout,omitempty"`
	AutoGenerate bool   `toml:"auto_generate"`
}

type Annotations struct {
	// Categories lists enabled categories; empty enables all.
	Categories []string `toml:"categories,omitempty"`
	Seed       uint64   `toml:"seed,omitempty"`
}

// Cache selects where laid-out diagrams are kept between runs.
type Cache struct {
	Backend     string `toml:"backend,omitempty"`
	Dir         string `toml:"dir,omitempty"`
	RedisURL    string `toml:"redis_url,omitempty"`
	RedisPrefix string `toml:"redis_prefix,omitempty"`
}

// Logging configures the log level and an optional rotating log file.
type Logging struct {
	Level      string `toml:"level,omitempty"`
	File       string `toml:"file,omitempty"`
	MaxSizeMB  int    `toml:"max_size_mb,omitempty"`
	MaxBackups int    `toml:"max_backups,omitempty"`
	MaxAgeDays int    `toml:"max_age_days,omitempty"`
	Compress   bool   `toml:"compress"`
}

// Server configures the HTTP service.
type Server struct {
	Addr            string `toml:"addr,omitempty"`
	ReadTimeout     string `toml:"read_timeout,omitempty"`
	WriteTimeout    string `toml:"write_timeout,omitempty"`
	ShutdownTimeout string `toml:"shutdown_timeout,omitempty"`
	MaxBodyBytes    int64  `toml:"max_body_bytes,omitempty"`
}

// Default returns the configuration written by "pidlayout config init".
func Default() Config {
	on := true
	return Config{
		Canvas: Canvas{
			Width:    pipeline.DefaultWidth,
			Height:   pipeline.DefaultHeight,
			Margin:   pipeline.DefaultMargin,
			GridSize: 20,
		},
		Placement: Placement{
			Strategy:      pipeline.DefaultPlacement,
			FlowDirection: pipeline.DefaultDirection,
			MinSpacing:    100,
			Optimize:      &on,
		},
		Routing: Routing{
			Strategy:   pipeline.DefaultRouting,
			SnapToGrid: &on,
		},
		Instruments: Instruments{Layout: pipeline.DefaultInstruments},
		Annotations: Annotations{Seed: pipeline.DefaultSeed},
		Cache:       Cache{Backend: BackendFile},
		Logging: Logging{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     "30s",
			WriteTimeout:    "60s",
			ShutdownTimeout: "10s",
			MaxBodyBytes:    4 << 20,
		},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Path returns the config file location: $PIDLAYOUT_CONFIG, else
// config.toml under the user config directory.
func Path(appName string) (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// Load reads a config file. Unknown keys are rejected so that typos do not
// silently fall back to defaults.
func Load(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrEmpty is like [Load] but treats a missing file as an empty config.
func LoadOrEmpty(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return Config{}, nil
	}
	return cfg, err
}

// Validate checks values that are not pipeline options. Pipeline options
// are validated by the pipeline itself once applied.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "", BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
	}
	for _, d := range []string{c.Server.ReadTimeout, c.Server.WriteTimeout, c.Server.ShutdownTimeout} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid server timeout %q", d)
		}
	}
	return nil
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteString("# pidlayout configuration. Command-line flags override these values.\n\n")
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteFile writes c to path, creating parent directories. An existing file
// is only replaced when overwrite is set.
func (c Config) WriteFile(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidPath, "%s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// =============================================================================
// Applying
// =============================================================================

// Apply copies configured values into opts wherever opts is still zero.
func (c Config) Apply(opts *pipeline.Options) {
	setFloat(&opts.Width, c.Canvas.Width)
	setFloat(&opts.Height, c.Canvas.Height)
	setFloat(&opts.Margin, c.Canvas.Margin)
	setFloat(&opts.GridSize, c.Canvas.GridSize)

	setString(&opts.Placement, c.Placement.Strategy)
	setString(&opts.FlowDirection, c.Placement.FlowDirection)
	setFloat(&opts.MinSpacing, c.Placement.MinSpacing)
	opts.RespectElevation = opts.RespectElevation || c.Placement.RespectElevation
	if c.Placement.Optimize != nil && !*c.Placement.Optimize {
		opts.SkipOptimize = true
	}

	setString(&opts.Routing, c.Routing.Strategy)
	opts.AvoidCrossings = opts.AvoidCrossings || c.Routing.AvoidCrossings
	if c.Routing.SnapToGrid != nil && !*c.Routing.SnapToGrid {
		opts.SkipSnap = true
	}
	setFloat(&opts.PipeSpacing, c.Routing.PipeSpacing)
	setFloat(&opts.MinPipeSpacing, c.Routing.MinPipeSpacing)
	if opts.MaxExpansions == 0 {
		opts.MaxExpansions = c.Routing.MaxExpansions
	}

	setString(&opts.Instruments, c.Instruments.Layout)
	opts.AutoGenerate = opts.AutoGenerate || c.Instruments.AutoGenerate

	if len(opts.Annotations) == 0 {
		opts.Annotations = c.Annotations.Categories
	}
	if opts.Seed == 0 {
		opts.Seed = c.Annotations.Seed
	}
}

// Durations returns the parsed server timeouts, defaulting empty values.
func (s Server) Durations() (read, write, shutdown time.Duration) {
	parse := func(v string, def time.Duration) time.Duration {
		if d, err := time.ParseDuration(v); err == nil && v != "" {
			return d
		}
		return def
	}
	return parse(s.ReadTimeout, 30*time.Second),
		parse(s.WriteTimeout, 60*time.Second),
		parse(s.ShutdownTimeout, 10*time.Second)
}

func setFloat(dst *float64, v float64) {
	if *dst == 0 {
		*dst = v
	}
}

func setString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

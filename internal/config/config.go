package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/dshills/ustr/internal/config/layer"
	"github.com/dshills/ustr/internal/config/loader"
)

// Config is the decoded configuration of the ustr tools.
type Config struct {
	Inspect InspectConfig
	Log     LogConfig
	Script  ScriptConfig

	layers *layer.Manager
}

// InspectConfig controls the inspect and compare reports.
type InspectConfig struct {
	// Format is the report format ("text" or "json").
	Format string

	// Scalars includes the scalar listing.
	Scalars bool

	// UTF16 includes the UTF-16 code units.
	UTF16 bool

	// Graphemes includes the character clusters.
	Graphemes bool

	// MaxItems caps every listing; 0 means unlimited.
	MaxItems int
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string

	// Format is the handler format ("text" or "json").
	Format string
}

// ScriptConfig bounds Lua script execution.
type ScriptConfig struct {
	// InstructionLimit caps bridged calls per run; 0 means unlimited.
	InstructionLimit int

	// Timeout cancels a run; 0 means no timeout.
	Timeout time.Duration
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Inspect: InspectConfig{
			Format:    "text",
			Scalars:   true,
			UTF16:     true,
			Graphemes: true,
			MaxItems:  64,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Script: ScriptConfig{
			InstructionLimit: 1_000_000,
			Timeout:          5 * time.Second,
		},
	}
}

// DefaultMap returns the built-in configuration as a layer map.
func DefaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"inspect": map[string]any{
			"format":    d.Inspect.Format,
			"scalars":   d.Inspect.Scalars,
			"utf16":     d.Inspect.UTF16,
			"graphemes": d.Inspect.Graphemes,
			"max_items": d.Inspect.MaxItems,
		},
		"log": map[string]any{
			"level":  d.Log.Level,
			"format": d.Log.Format,
		},
		"script": map[string]any{
			"instruction_limit": d.Script.InstructionLimit,
			"timeout":           d.Script.Timeout,
		},
	}
}

// DefaultPath returns the user configuration file, or "" when the user
// configuration directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ustr", "config.toml")
}

// Options selects the configuration sources for Load.
type Options struct {
	// Path is a TOML or YAML file. A missing file is not an error.
	Path string

	// FS reads Path; nil means the OS file system.
	FS loader.FileSystem

	// EnvPrefix selects environment variables; "" means loader.DefaultEnvPrefix.
	EnvPrefix string

	// Environ supplies environment entries; nil means os.Environ.
	Environ func() []string

	// Overrides are dotted setting paths from the command line.
	Overrides map[string]any
}

// Load layers defaults, the file, the environment and the overrides, in
// increasing priority, and decodes the result.
func Load(opts Options) (*Config, error) {
	m := layer.NewManager()
	m.AddLayer(layer.NewLayerWithData("defaults", layer.SourceDefaults, DefaultMap()))

	if opts.Path != "" {
		fsys := opts.FS
		if fsys == nil {
			fsys = loader.DefaultFS()
		}
		l, err := loader.ForPath(fsys, opts.Path)
		if err != nil {
			return nil, err
		}
		data, err := l.Load()
		if err != nil {
			return nil, err
		}
		if data != nil {
			fl := layer.NewLayerWithData(opts.Path, layer.SourceFile, data)
			fl.Path = opts.Path
			if err := checkShape(fl); err != nil {
				return nil, err
			}
			m.AddLayer(fl)
		}
	}

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = loader.DefaultEnvPrefix
	}
	env := loader.NewEnvLoader(prefix)
	env.SetEnviron(opts.Environ)
	data, err := env.Load()
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	m.AddLayer(layer.NewLayerWithData("environment", layer.SourceEnv, data))

	if len(opts.Overrides) > 0 {
		args := make(map[string]any)
		for path, val := range opts.Overrides {
			if !strings.Contains(path, ".") {
				return nil, fmt.Errorf("override %q: %w", path, ErrInvalidPath)
			}
			layer.SetByPath(args, path, val)
		}
		al := layer.NewLayerWithData("arguments", layer.SourceArgs, args)
		if err := checkShape(al); err != nil {
			return nil, err
		}
		m.AddLayer(al)
	}

	c, err := Decode(m.Merge())
	if err != nil {
		return nil, err
	}
	c.layers = m
	return c, nil
}

// checkShape rejects a layer that would replace a whole section with a
// plain value, or nest tables inside a section.
func checkShape(l *layer.Layer) error {
	var errs []error
	for _, se := range layer.CheckShape(l.Data) {
		val, _ := layer.GetByPath(l.Data, se.Path)
		errs = append(errs, &ValidationError{
			Path:    se.Path,
			Message: se.Problem() + " in " + l.Name,
			Value:   val,
			Code:    ErrCodeTypeMismatch,
		})
	}
	return errors.Join(errs...)
}

// Origin returns the name of the layer that provided path: "defaults",
// the file path, "environment" or "arguments".
func (c *Config) Origin(path string) string {
	if c.layers == nil {
		if _, ok := fields[path]; ok {
			return "defaults"
		}
		return ""
	}
	return c.layers.WhichLayer(path)
}

type field func(c *Config, path string, val any) error

var fields = map[string]field{
	"inspect.format": func(c *Config, path string, val any) (err error) {
		c.Inspect.Format, err = toString(path, val)
		return err
	},
	"inspect.scalars": func(c *Config, path string, val any) (err error) {
		c.Inspect.Scalars, err = toBool(path, val)
		return err
	},
	"inspect.utf16": func(c *Config, path string, val any) (err error) {
		c.Inspect.UTF16, err = toBool(path, val)
		return err
	},
	"inspect.graphemes": func(c *Config, path string, val any) (err error) {
		c.Inspect.Graphemes, err = toBool(path, val)
		return err
	},
	"inspect.max_items": func(c *Config, path string, val any) (err error) {
		c.Inspect.MaxItems, err = toInt(path, val)
		return err
	},
	"log.level": func(c *Config, path string, val any) (err error) {
		c.Log.Level, err = toString(path, val)
		return err
	},
	"log.format": func(c *Config, path string, val any) (err error) {
		c.Log.Format, err = toString(path, val)
		return err
	},
	"script.instruction_limit": func(c *Config, path string, val any) (err error) {
		c.Script.InstructionLimit, err = toInt(path, val)
		return err
	},
	"script.timeout": func(c *Config, path string, val any) (err error) {
		c.Script.Timeout, err = toDuration(path, val)
		return err
	},
}

// Settings returns the known setting paths in sorted order.
func Settings() []string {
	paths := make([]string, 0, len(fields))
	for path := range fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Decode converts a merged configuration map, applied over the defaults,
// and validates the result. All problems are reported together.
func Decode(data map[string]any) (*Config, error) {
	c := Default()
	flat := layer.FlattenMap(data)

	paths := make([]string, 0, len(flat))
	for path := range flat {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	var errs []error
	for _, path := range paths {
		val := flat[path]
		set, ok := fields[path]
		if !ok {
			errs = append(errs, &ValidationError{
				Path:    path,
				Message: "unknown setting",
				Value:   val,
				Code:    ErrCodeUnknownSetting,
			})
			continue
		}
		if err := set(c, path, val); err != nil {
			errs = append(errs, &ValidationError{
				Path:    path,
				Message: err.Error(),
				Value:   val,
				Code:    ErrCodeTypeMismatch,
			})
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	enum := func(path, val string, allowed ...string) {
		if !slices.Contains(allowed, val) {
			errs = append(errs, &ValidationError{
				Path:    path,
				Message: "must be one of " + strings.Join(allowed, ", "),
				Value:   val,
				Code:    ErrCodeInvalidEnum,
			})
		}
	}
	nonNegative := func(path string, val int64) {
		if val < 0 {
			errs = append(errs, &ValidationError{
				Path:    path,
				Message: "must not be negative",
				Value:   val,
				Code:    ErrCodeOutOfRange,
			})
		}
	}

	enum("inspect.format", c.Inspect.Format, "text", "json")
	nonNegative("inspect.max_items", int64(c.Inspect.MaxItems))
	enum("log.level", c.Log.Level, "debug", "info", "warn", "error")
	enum("log.format", c.Log.Format, "text", "json")
	nonNegative("script.instruction_limit", int64(c.Script.InstructionLimit))
	nonNegative("script.timeout", int64(c.Script.Timeout))

	return errors.Join(errs...)
}

// SlogLevel maps Level to a slog level. Unknown names map to warn.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// NewLogger returns a logger writing to w in the configured format.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

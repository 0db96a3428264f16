// Package config loads the settings of the ustr command.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment (USTR_*)    │
//	├─────────────────────────────┤
//	│  2. Config File             │  ← config.toml or config.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The merged layers are decoded into a Config and validated; unknown
// settings and values of the wrong type are errors.
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment variable loading
//   - layer: layer management and deep merging
//
// # Settings
//
//	[inspect]
//	format = "text"        # or "json"
//	scalars = true
//	utf16 = true
//	graphemes = true
//	max_items = 64
//
//	[log]
//	level = "warn"         # debug, info, warn, error
//	format = "text"        # or "json"
//
//	[script]
//	instruction_limit = 1000000
//	timeout = "5s"
//
// Environment variables map onto settings by section, so
// USTR_INSPECT_MAX_ITEMS sets inspect.max_items and USTR_LOG_LEVEL sets
// log.level. USTR_FORMAT is a shorthand for inspect.format.
//
// # Basic Usage
//
//	cfg, err := config.Load(config.Options{Path: config.DefaultPath()})
//	if err != nil {
//	    return err
//	}
//	logger := cfg.Log.NewLogger(os.Stderr)
package config

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/ustr/internal/config"
)

// app carries the state shared by the subcommands.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	// Flags.
	cfgFile  string
	format   string
	logLevel string

	// Set by load.
	cfg    *config.Config
	logger *slog.Logger

	environ func() []string
	isTTY   func() bool
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
		environ: os.Environ,
		isTTY: func() bool {
			f, ok := stdout.(*os.File)
			return ok && term.IsTerminal(int(f.Fd()))
		},
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "ustr",
		Short: "Inspect and compare Unicode strings",
		Long: "ustr reports how text is stored and segmented: user-perceived\n" +
			"characters, Unicode scalars, UTF-8 bytes and UTF-16 code units.\n\n" +
			"Strings compare canonically: \"\u00e9\" and \"e\u0301\" are equal.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file, TOML or YAML (default: "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&a.format, "format", "", "output format: text or json")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newInspectCmd(a),
		newCompareCmd(a),
		newRunCmd(a),
		newVersionCmd(a),
	)
	return root
}

// load reads the configuration; flags override every other source. Without
// an explicit format, output piped to another program defaults to JSON.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	path := a.cfgFile
	if path == "" {
		path = config.DefaultPath()
	}

	overrides := make(map[string]any)
	if cmd.Flags().Changed("format") {
		overrides["inspect.format"] = a.format
	}
	if cmd.Flags().Changed("log-level") {
		overrides["log.level"] = a.logLevel
	}

	cfg, err := config.Load(config.Options{
		Path:      path,
		Environ:   a.environ,
		Overrides: overrides,
	})
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.Origin("inspect.format") == "defaults" && !a.isTTY() {
		cfg.Inspect.Format = "json"
	}

	a.cfg = cfg
	a.logger = cfg.Log.NewLogger(a.stderr)
	a.logger.Debug("configuration loaded",
		"path", path,
		"format", cfg.Inspect.Format,
		"format_source", cfg.Origin("inspect.format"))
	return nil
}

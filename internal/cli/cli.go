// Package cli implements the depsort command-line interface.
//
// # Commands
//
//   - order: print the dependency (or precedence) order of a document
//   - cycles: list every circular dependency
//   - graph: draw the dependency graph with cycles highlighted
//   - explore: browse the order interactively
//   - serve: run the HTTP API
//   - cache: manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The level can
// also be set with log.level in the config file or DEPSORT_LOG_LEVEL.
//
// # Exit codes
//
// A document with circular dependencies exits with status 2, any other
// failure with status 1. See [ExitError].
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depsort/internal/config"
	"github.com/matzehuels/depsort/pkg/buildinfo"
	"github.com/matzehuels/depsort/pkg/cache"
	pkgio "github.com/matzehuels/depsort/pkg/io"
	"github.com/matzehuels/depsort/pkg/observability"
	"github.com/matzehuels/depsort/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "depsort"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Exit codes.
const (
	ExitFailure = 1
	ExitCycles  = 2
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configFile string
	verbose    bool
}

// New creates a new CLI instance whose logger writes to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.DefaultConfig(),
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
		Short: "depsort orders elements by their dependencies",
		Long: `depsort computes a deterministic order of elements such that every element
comes after everything it depends on, and reports every circular dependency
when no such order exists.

Documents are JSON, TOML or YAML mappings (element -> dependencies) or lists
of [element, dependencies] pairs.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/depsort/config.toml)")

	root.AddCommand(c.orderCommand())
	root.AddCommand(c.cyclesCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration and applies the log level before any command.
func (c *CLI) setup(_ *cobra.Command, _ []string) error {
	cfg, path, err := config.Load(config.LoadOptions{ConfigFilePath: c.configFile})
	if err != nil {
		return err
	}
	c.Config = cfg

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	if c.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)
	if level == log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// newCache opens the configured backend. An unreachable backend degrades
// to no caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	ch, err := cache.Open(ctx, c.Config.CacheOptions())
	if err != nil {
		if b := c.backend(); b == cache.BackendRedis || b == cache.BackendMongo {
			c.Logger.Warn("cache unavailable, continuing without", "backend", c.Config.Cache.Backend, "err", err)
			return cache.NewNullCache(), nil
		}
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return ch, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// documentFlags are shared by every command that reads a document.
type documentFlags struct {
	format  string
	noCache bool
}

func (f *documentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "document format: json, toml, yaml, graph (default: from file extension)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
}

// documentOptions builds validated pipeline options for path; "-" reads
// standard input, which defaults to JSON.
func (c *CLI) documentOptions(cmd *cobra.Command, f *documentFlags, path, mode string) (pipeline.Options, error) {
	opts := pipeline.Options{
		Path:    path,
		Mode:    mode,
		NoCache: f.noCache,
		TTL:     c.Config.Cache.TTL,
	}
	if f.format != "" {
		opts.Format = pkgio.Format(f.format)
	}
	if path == "-" {
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), pipeline.MaxDocumentSize+1))
		if err != nil {
			return opts, fmt.Errorf("read stdin: %w", err)
		}
		opts.Path, opts.Data = "", data
		if opts.Format == "" {
			opts.Format = pkgio.FormatJSON
		}
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

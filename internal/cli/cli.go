package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackfold/pkg/buildinfo"
	"github.com/matzehuels/stackfold/pkg/cache"
	"github.com/matzehuels/stackfold/pkg/config"
	"github.com/matzehuels/stackfold/pkg/fold"
	"github.com/matzehuels/stackfold/pkg/layout"
	"github.com/matzehuels/stackfold/pkg/metrics"
	"github.com/matzehuels/stackfold/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stackfold"

	// configFile is the file looked up in the config directory when
	// --config is not given.
	configFile = "config.toml"
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

	verbose     bool
	noCache     bool
	configPath  string
	metricsPath string
	registry    *prometheus.Registry
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Stackfold collapses and expands compound graphs",
		Long: `Stackfold loads a compound graph (nodes nested in other nodes), collapses and
expands subtrees with automatic edge aggregation, and reconciles the layout
afterwards by resolving overlaps or delegating to Graphviz.`,
		Version:            buildinfo.Resolve().Version,
		SilenceUsage:       true,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: "+filepath.Join("$XDG_CONFIG_HOME", appName, configFile)+" if present)")
	root.PersistentFlags().StringVar(&c.metricsPath, "metrics", "", "write Prometheus metrics to this file on exit")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "do not read or write cached layouts")

	root.AddCommand(c.foldCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies the log level, attaches the logger to the command context
// and installs metrics hooks when requested.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	level := LogInfo
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))

	if c.metricsPath != "" {
		c.registry = prometheus.NewRegistry()
		metrics.New(c.registry).Register()
	}
	return nil
}

func (c *CLI) teardown(*cobra.Command, []string) error {
	if c.registry == nil {
		return nil
	}
	if err := metrics.WriteFile(c.metricsPath, c.registry); err != nil {
		return err
	}
	c.Logger.Debugf("Wrote metrics to %s", c.metricsPath)
	return nil
}

// =============================================================================
// Config & Session Factory
// =============================================================================

// loadConfig reads --config, or the default config file when it exists.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return config.Default(), nil
		}
		path = filepath.Join(dir, configFile)
		if _, err := os.Stat(path); err != nil {
			return config.Default(), nil
		}
	}
	c.Logger.Debugf("Using config %s", path)
	return config.Load(path)
}

// newCache returns the layout cache for this run: a file cache under the
// XDG cache directory, or a null cache with --no-cache.
func (c *CLI) newCache() cache.Cache {
	if c.noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warnf("Layout cache disabled: %v", err)
		return cache.NewNullCache()
	}
	return fc
}

// openSession loads a graph file into a session that lays out with
// Graphviz (through the layout cache) and reports engine events to the log
// and the metrics hooks.
func (c *CLI) openSession(ctx context.Context, path string, cfg config.Config) (*session.Session, error) {
	logger := loggerFromContext(ctx)
	return session.Open(path, session.Options{
		Config:     cfg,
		Capability: cache.NewCapability(layout.Graphviz{}, c.newCache(), cache.DefaultTTL, logger.WithPrefix("cache")),
		Sink:       fold.Tee(fold.LogSink{Logger: logger}, fold.HooksSink{}),
		Logger:     logger,
	})
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stackfold/).
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

// configDir returns the config directory using XDG standard (~/.config/stackfold/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

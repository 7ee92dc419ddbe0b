// Package cli implements the calctree command-line interface.
//
// # Commands
//
//   - rank: scan the calculation scripts, rank every item and write the
//     dependency tree artifact plus any extra formats
//   - tree: print the stages of an existing artifact as a table
//   - check: report cycles, leaves and malformed declarations
//   - render: draw an artifact or ranked graph as DOT, SVG or PNG
//   - cache: clear or locate the ranking cache
//   - completion: generate shell completion scripts
//
// # Configuration
//
// Settings come from calctree.toml, .env and CALCTREE_* variables (see
// package config). Flags given on the command line win over all of them.
//
// # Logging
//
// Every command supports --verbose (-v) for debug-level logging. The logger
// carries a per-run id and travels through context.Context.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fiktools/calctree/pkg/buildinfo"
	"github.com/fiktools/calctree/pkg/cache"
	"github.com/fiktools/calctree/pkg/config"
	"github.com/fiktools/calctree/pkg/observability"
	"github.com/fiktools/calctree/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "calctree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	out        io.Writer
	configPath string
	envFile    string
	verbose    bool
}

// New creates a CLI that logs to w at level. Command output goes to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
	}
}

// SetOutput redirects command output, which is stdout by default.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "calctree ranks character-sheet calculations by dependency",
		Long: `calctree reads the "# token input/output" declarations in calculation scripts
and assigns every item a calculation stage, so that each value is computed
only after everything it depends on.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")
	flags.StringVar(&c.envFile, "env-file", "", "dotenv file (default ./"+config.DefaultEnvFile+" if present)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.rankCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches a run-scoped logger to the
// command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	cfg, err := config.Load(c.configPath, c.envFile)
	if err != nil {
		return err
	}
	c.Config = cfg

	logger := withRunID(c.Logger)
	if cfg.Source != "" {
		logger.Debug("loaded config", "file", cfg.Source)
	}
	observability.SetPipelineHooks(observability.NewLogHooks(logger))
	observability.SetCacheHooks(observability.NewLogHooks(logger))
	cmd.SetContext(withLogger(cmd.Context(), logger))
	return nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cmd *cobra.Command, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(cmd, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, c.projectScope()), loggerFromContext(cmd.Context()))
	runner.TreeTTL = c.Config.Cache.TTL
	return runner, nil
}

// projectScope names the scripts directory in cache keys, so projects that
// share a cache can be told apart.
func (c *CLI) projectScope() string {
	dir := c.Config.ScriptsDir
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Base(dir) + ":"
}

// newCache opens the configured cache backend. An unusable file cache
// directory disables caching rather than failing the command.
func (c *CLI) newCache(cmd *cobra.Command, noCache bool) (cache.Cache, error) {
	cc := c.Config.Cache
	if noCache || cc.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}
	switch cc.Backend {
	case config.BackendMemory:
		return cache.NewMemoryCache(cc.Entries)
	case config.BackendRedis:
		return cache.NewRedisCache(cmd.Context(), cache.RedisOptions{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
			Prefix:   cc.Prefix,
		})
	default:
		dir, err := c.cacheDir()
		if err != nil {
			loggerFromContext(cmd.Context()).Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// cacheDir returns the configured file cache directory, or the XDG one.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/calctree/).
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

// parseFormats splits a comma-separated format list. An empty string keeps
// the configured formats.
func parseFormats(s string, fallback []string) []string {
	if s == "" {
		return fallback
	}
	var out []string
	for f := range strings.SplitSeq(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func joinFormats() string {
	return strings.Join(pipeline.Formats(), ", ")
}

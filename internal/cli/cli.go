// Package cli implements the supplychain command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/supplychain/internal/config"
	"github.com/matzehuels/supplychain/pkg/audit"
	"github.com/matzehuels/supplychain/pkg/buildinfo"
	"github.com/matzehuels/supplychain/pkg/cache"
	"github.com/matzehuels/supplychain/pkg/cargo"
	"github.com/matzehuels/supplychain/pkg/integrations/crates"
	"github.com/matzehuels/supplychain/pkg/publishers"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "supplychain"

	// redisKeyPrefix scopes cache keys on a shared Redis instance.
	redisKeyPrefix = appName + ":"
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

	cfg   config.Config
	flags auditFlags

	// loader and owners replace cargo and crates.io when set (tests).
	loader audit.GraphLoader
	owners publishers.OwnerFetcher

	// spinners enables progress animation on stderr.
	spinners bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		spinners: true,
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
		Short: "Audit who can publish the crates in a Rust build",
		Long: `supplychain gathers the authors, contributors and publishers of the crates in a
Cargo project's dependency tree, so you can see who you implicitly trust.

Arguments after "--" are not accepted; cargo metadata options are exposed as flags.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	c.flags.register(root)

	root.AddCommand(c.cratesCommand())
	root.AddCommand(c.publishersCommand())
	root.AddCommand(c.jsonCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Collaborator Factories
// =============================================================================

// newAuditRunner creates an audit runner that runs the configured cargo.
func (c *CLI) newAuditRunner() *audit.Runner {
	loader := c.loader
	if loader == nil {
		loader = &cargo.Loader{Binary: c.cfg.Metadata.Cargo}
	}
	return audit.NewRunner(loader, c.Logger)
}

// newOwnerFetcher creates the crates.io client. The returned close function
// releases the cache backend.
func (c *CLI) newOwnerFetcher(ctx context.Context) (publishers.OwnerFetcher, func(), error) {
	if c.owners != nil {
		return c.owners, func() {}, nil
	}
	backend, keyer, err := c.newCache(ctx, c.flags.noCache)
	if err != nil {
		return nil, nil, err
	}
	client := crates.NewClient(backend, c.cfg.Cache.TTL).WithBaseURL(c.cfg.Crates.BaseURL)
	client.WithKeyer(keyer)
	return client, func() { _ = backend.Close() }, nil
}

// newCache opens the configured backend: Redis when cache.redis_url is set,
// otherwise the file cache. A file cache that cannot be opened degrades to no
// caching; an unreachable Redis is an error.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	if noCache {
		return cache.NewNullCache(), cache.NewDefaultKeyer(), nil
	}
	if url := c.cfg.Cache.RedisURL; url != "" {
		rc, err := cache.NewRedisCache(ctx, url)
		if err != nil {
			return nil, nil, err
		}
		return rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), redisKeyPrefix), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), cache.NewDefaultKeyer(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), cache.NewDefaultKeyer(), nil
	}
	return fc, cache.NewDefaultKeyer(), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns cache.dir from the config, or the XDG cache directory
// (~/.cache/supplychain/).
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cacheDir()
}

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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kitops-ml/blogdata/internal/app"
	"github.com/kitops-ml/blogdata/internal/config"
	"github.com/kitops-ml/blogdata/internal/domain"
	"github.com/kitops-ml/blogdata/internal/utils"
	"github.com/kitops-ml/blogdata/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli carries the state shared by the command tree
type cli struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "blogdata",
		Short: "Build the blog post list for the site",
		Long: `blogdata reads the curated list of blog posts, fetches every post page,
extracts Open Graph, Twitter card and standard meta tags, and writes the
enriched list as JSON for the site renderer.

The result is cached next to the manifest and reused until the manifest
changes.`,
		Version:       version.Short(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.runBuild,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "config file (default is ~/.blogdata/config.yaml)")
	pf.StringP("manifest", "m", config.DefaultManifestPath, "Manifest listing the posts")
	pf.String("cache-file", config.DefaultCachePath, "Cache file for the enriched posts")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "Verbose output")
	pf.String("log-format", config.DefaultLogFormat, "Log format (pretty or json)")
	pf.Bool("pages", config.DefaultPagesEnabled, "Cache fetched pages on disk")
	pf.String("pages-dir", config.PagesDir(), "Page cache directory")

	// Build flags
	f := rootCmd.Flags()
	f.StringP("output", "o", "", "Output file (default stdout)")
	f.Bool("no-cache", false, "Neither read nor write the cache file")
	f.Bool("refresh", false, "Ignore a valid cache and refetch every post")
	f.Duration("timeout", config.DefaultFetchTimeout, "Per-post fetch timeout")
	f.Int("retries", config.DefaultMaxRetries, "Retries for rate-limited or unavailable pages")
	f.String("user-agent", "", "Custom User-Agent")
	f.Duration("pages-ttl", config.DefaultPagesTTL, "Page cache TTL")
	f.Bool("readability", false, "Fill missing fields with the readability extractor")
	f.Bool("progress", false, "Show a progress bar on stderr")

	// Bind flags to viper
	_ = c.v.BindPFlag("manifest.path", pf.Lookup("manifest"))
	_ = c.v.BindPFlag("cache.path", pf.Lookup("cache-file"))
	_ = c.v.BindPFlag("logging.format", pf.Lookup("log-format"))
	_ = c.v.BindPFlag("pages.enabled", pf.Lookup("pages"))
	_ = c.v.BindPFlag("pages.directory", pf.Lookup("pages-dir"))
	_ = c.v.BindPFlag("output.path", f.Lookup("output"))
	_ = c.v.BindPFlag("fetch.timeout", f.Lookup("timeout"))
	_ = c.v.BindPFlag("fetch.max_retries", f.Lookup("retries"))
	_ = c.v.BindPFlag("fetch.user_agent", f.Lookup("user-agent"))
	_ = c.v.BindPFlag("pages.ttl", f.Lookup("pages-ttl"))
	_ = c.v.BindPFlag("extract.readability_fallback", f.Lookup("readability"))

	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newDoctorCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig loads the configuration through the command's viper instance
func (c *cli) loadConfig() (*config.Config, error) {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	}
	cfg, err := config.LoadWithViper(c.v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (c *cli) newLogger(cmd *cobra.Command, cfg *config.Config) *utils.Logger {
	return utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cmd.ErrOrStderr(),
		Verbose: c.verbose,
	})
}

// newOrchestrator loads the configuration and builds an orchestrator for cmd
func (c *cli) newOrchestrator(cmd *cobra.Command, common domain.CommonOptions) (*app.Orchestrator, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
		CommonOptions: common,
		Config:        cfg,
		Logger:        c.newLogger(cmd, cfg),
		Stdout:        cmd.OutOrStdout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}
	return orchestrator, nil
}

func (c *cli) runBuild(cmd *cobra.Command, args []string) error {
	noCache, _ := cmd.Flags().GetBool("no-cache")
	refresh, _ := cmd.Flags().GetBool("refresh")
	progress, _ := cmd.Flags().GetBool("progress")

	orchestrator, err := c.newOrchestrator(cmd, domain.CommonOptions{
		Verbose:  c.verbose,
		Refresh:  refresh,
		NoCache:  noCache,
		Progress: progress,
	})
	if err != nil {
		return err
	}
	defer orchestrator.Close()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(cmd.ErrOrStderr(), "Shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
	}()

	_, err = orchestrator.Run(ctx)
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	}
}

// shortDigest trims a digest for display
func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}

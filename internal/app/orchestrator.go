package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kitops-ml/blogdata/internal/cache"
	"github.com/kitops-ml/blogdata/internal/config"
	"github.com/kitops-ml/blogdata/internal/domain"
	"github.com/kitops-ml/blogdata/internal/output"
	"github.com/kitops-ml/blogdata/internal/utils"
)

// Orchestrator runs a build from configuration and writes the result
type Orchestrator struct {
	config  *config.Config
	deps    *Dependencies
	logger  *utils.Logger
	writer  *output.Writer
	fetcher domain.Fetcher
	common  domain.CommonOptions
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	domain.CommonOptions
	Config *config.Config
	// Logger overrides the logger built from Config.Logging
	Logger *utils.Logger
	// Stdout receives the records when no output path is configured
	Stdout io.Writer
	// Fetcher replaces the configured HTTP client
	Fetcher domain.Fetcher
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			Verbose: opts.Verbose,
		})
	}

	deps, err := NewDependencies(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create dependencies: %w", err)
	}

	return &Orchestrator{
		config:  cfg,
		deps:    deps,
		logger:  logger,
		writer:  output.NewWriter(output.WriterOptions{Path: cfg.Output.Path, Stdout: opts.Stdout}),
		fetcher: opts.Fetcher,
		common:  opts.CommonOptions,
	}, nil
}

// Run builds the post list and writes it to the configured output
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()

	pipeline, err := o.deps.NewPipeline(o.config, o.common)
	if err != nil {
		return nil, err
	}
	if o.fetcher != nil {
		pipeline.fetcher = o.fetcher
	}

	result, err := pipeline.Build(ctx)
	if err != nil {
		if ctx.Err() != nil {
			o.logger.Warn().Msg("Build cancelled")
			return nil, ctx.Err()
		}
		return nil, err
	}

	if err := o.writer.Write(result.Records); err != nil {
		return nil, err
	}

	o.logger.Info().
		Int("posts", len(result.Records)).
		Bool("cache_hit", result.CacheHit).
		Str("output", o.writer.Path()).
		Dur("duration", time.Since(startTime)).
		Msg("Build completed")

	return result, nil
}

// CacheStatus describes the record cache relative to the current manifest
type CacheStatus struct {
	Path           string
	Exists         bool
	StoredDigest   string
	ManifestDigest string
	Fresh          bool
	// Pages is the number of cached pages, -1 when the page cache is off
	Pages int64
}

// CacheStatus reports whether the next build will be served from the cache
func (o *Orchestrator) CacheStatus() (*CacheStatus, error) {
	manifestDigest, _, err := cache.DigestFile(utils.ExpandPath(o.config.Manifest.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	store := o.deps.Store
	status := &CacheStatus{
		Path:           store.Path(),
		Exists:         store.Exists(),
		ManifestDigest: manifestDigest,
		Pages:          -1,
	}
	if o.deps.Pages != nil {
		status.Pages = o.deps.Pages.Size()
	}
	if status.Exists {
		if digest, err := store.Digest(); err == nil {
			status.StoredDigest = digest
		}
	}
	status.Fresh = status.StoredDigest != "" && status.StoredDigest == manifestDigest
	return status, nil
}

// ClearCache removes the record cache file and, when enabled, the page cache
func (o *Orchestrator) ClearCache() error {
	if err := o.deps.Store.Clear(); err != nil {
		return fmt.Errorf("failed to clear post cache: %w", err)
	}
	if o.deps.Pages != nil {
		if err := o.deps.Pages.Clear(); err != nil {
			return fmt.Errorf("failed to clear page cache: %w", err)
		}
	}
	o.logger.Info().Str("path", o.deps.Store.Path()).Msg("Cache cleared")
	return nil
}

// Close releases all resources held by the orchestrator
func (o *Orchestrator) Close() error {
	if o.deps != nil {
		return o.deps.Close()
	}
	return nil
}

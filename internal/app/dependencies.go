package app

import (
	"context"
	"fmt"

	"github.com/kitops-ml/blogdata/internal/cache"
	"github.com/kitops-ml/blogdata/internal/config"
	"github.com/kitops-ml/blogdata/internal/domain"
	"github.com/kitops-ml/blogdata/internal/extractor"
	"github.com/kitops-ml/blogdata/internal/fetcher"
	"github.com/kitops-ml/blogdata/internal/utils"
)

// Dependencies holds the collaborators of a pipeline built from configuration
type Dependencies struct {
	Fetcher   *fetcher.Client
	Extractor *extractor.Extractor
	Store     *cache.Store
	Pages     *cache.BadgerCache
	Logger    *utils.Logger
}

// NewDependencies creates the fetcher, extractor, record store and, when
// enabled, the Badger page cache
func NewDependencies(cfg *config.Config, logger *utils.Logger) (*Dependencies, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	client, err := fetcher.NewClient(fetcher.ClientOptions{
		Timeout:     cfg.Fetch.Timeout,
		MaxRetries:  cfg.Fetch.MaxRetries,
		EnableCache: cfg.Pages.Enabled,
		CacheTTL:    cfg.Pages.TTL,
		UserAgent:   cfg.Fetch.UserAgent,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}

	deps := &Dependencies{
		Fetcher: client,
		Extractor: extractor.New(extractor.Options{
			ReadabilityFallback: cfg.Extract.ReadabilityFallback,
			Logger:              logger,
		}),
		Store: cache.NewStore(cache.StoreOptions{
			Path:   utils.ExpandPath(cfg.Cache.Path),
			Logger: logger.WithComponent("cache"),
		}),
		Logger: logger,
	}

	if cfg.Pages.Enabled {
		pages, err := cache.NewBadgerCache(cache.Options{
			Directory: utils.ExpandPath(cfg.Pages.Directory),
		})
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to open page cache: %w", err)
		}
		client.SetCache(pages)
		deps.Pages = pages
	}

	return deps, nil
}

// NewPipeline creates a pipeline over these dependencies. Refresh also
// bypasses page cache reads so every post is fetched again.
func (d *Dependencies) NewPipeline(cfg *config.Config, opts domain.CommonOptions) (*Pipeline, error) {
	if d.Fetcher != nil {
		d.Fetcher.SetCacheRefresh(opts.Refresh)
	}
	pipelineOpts := PipelineOptions{
		CommonOptions: opts,
		ManifestPath:  utils.ExpandPath(cfg.Manifest.Path),
		Store:         d.Store,
		Fetcher:       d.Fetcher,
		Extractor:     d.Extractor,
		Logger:        d.Logger,
		FetchTimeout:  cfg.Fetch.Timeout,
	}
	if !cfg.Cache.Enabled {
		pipelineOpts.NoCache = true
	}
	if opts.Progress {
		pipelineOpts.NewProgress = func(total int) ProgressReporter {
			return utils.NewProgressBar(total, utils.DescFetching)
		}
	}
	return NewPipeline(pipelineOpts)
}

// Close releases the fetcher and the page cache
func (d *Dependencies) Close() error {
	var firstErr error
	if d.Fetcher != nil {
		firstErr = d.Fetcher.Close()
	}
	if d.Pages != nil {
		if err := d.Pages.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// BuildPostRecords returns the enriched records for the manifest at
// manifestPath, reading and refreshing the cache file at cachePath
func BuildPostRecords(ctx context.Context, manifestPath, cachePath string) ([]domain.PostRecord, error) {
	cfg := config.Default()
	cfg.Manifest.Path = manifestPath
	cfg.Cache.Path = cachePath
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	deps, err := NewDependencies(cfg, nil)
	if err != nil {
		return nil, err
	}
	defer deps.Close()

	pipeline, err := deps.NewPipeline(cfg, domain.DefaultCommonOptions())
	if err != nil {
		return nil, err
	}

	result, err := pipeline.Build(ctx)
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}

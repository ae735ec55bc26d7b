package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/kitops-ml/blogdata/internal/cache"
	"github.com/kitops-ml/blogdata/internal/config"
	"github.com/kitops-ml/blogdata/internal/domain"
	"github.com/kitops-ml/blogdata/internal/manifest"
	"github.com/kitops-ml/blogdata/internal/utils"
)

// ProgressReporter receives one tick per manifest entry.
// *progressbar.ProgressBar satisfies it.
type ProgressReporter interface {
	Add(n int) error
	Finish() error
}

// Pipeline turns the manifest into enriched post records, reusing the cached
// list while the manifest is unchanged
type Pipeline struct {
	manifestPath string
	loader       *manifest.Loader
	store        domain.RecordStore
	fetcher      domain.Fetcher
	extractor    domain.Extractor
	logger       *utils.Logger
	fetchTimeout time.Duration
	refresh      bool
	newProgress  func(total int) ProgressReporter
}

// PipelineOptions contains options for creating a Pipeline
type PipelineOptions struct {
	domain.CommonOptions
	ManifestPath string
	// Store is ignored when NoCache is set
	Store        domain.RecordStore
	Fetcher      domain.Fetcher
	Extractor    domain.Extractor
	Logger       *utils.Logger
	FetchTimeout time.Duration
	// NewProgress is called with the number of entries when fetching starts
	NewProgress func(total int) ProgressReporter
}

// Result is the outcome of a pipeline run
type Result struct {
	Records  []domain.PostRecord
	Outcomes []domain.Outcome
	Digest   string
	CacheHit bool
	Saved    bool
}

// Skipped returns the number of manifest entries that produced no record
func (r *Result) Skipped() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.IsSuccess() {
			n++
		}
	}
	return n
}

// NewPipeline creates a pipeline
func NewPipeline(opts PipelineOptions) (*Pipeline, error) {
	if opts.ManifestPath == "" {
		return nil, fmt.Errorf("manifest path is required")
	}
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if opts.Extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = config.DefaultFetchTimeout
	}

	store := opts.Store
	if opts.NoCache {
		store = nil
	}

	return &Pipeline{
		manifestPath: opts.ManifestPath,
		loader:       manifest.NewLoader(),
		store:        store,
		fetcher:      opts.Fetcher,
		extractor:    opts.Extractor,
		logger:       opts.Logger.WithComponent("pipeline"),
		fetchTimeout: opts.FetchTimeout,
		refresh:      opts.Refresh,
		newProgress:  opts.NewProgress,
	}, nil
}

// Build runs the pipeline. Only manifest read or parse failures and context
// cancellation are returned as errors; a post that cannot be fetched or
// parsed is logged and left out.
func (p *Pipeline) Build(ctx context.Context) (*Result, error) {
	data, err := p.loader.Read(p.manifestPath)
	if err != nil {
		return nil, err
	}
	digest := cache.Digest(data)

	if p.store != nil && !p.refresh {
		if records, ok := p.store.Load(digest); ok {
			p.logger.WithDigest(digest).Info().
				Int("posts", len(records)).
				Msg("Manifest unchanged, using cached posts")
			return &Result{Records: records, Digest: digest, CacheHit: true}, nil
		}
	}

	posts, err := p.loader.LoadFromBytes(data, filepath.Ext(p.manifestPath))
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", p.manifestPath, err)
	}

	p.logger.Info().
		Str("manifest", p.manifestPath).
		Int("posts", len(posts)).
		Msg("Fetching post metadata")

	outcomes, err := p.collect(ctx, posts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Records:  domain.Records(outcomes),
		Outcomes: outcomes,
		Digest:   digest,
	}

	if p.store != nil {
		if err := p.store.Save(digest, result.Records); err != nil {
			p.logger.Warn().Err(err).Msg("Failed to write post cache")
		} else {
			result.Saved = true
		}
	}

	p.logger.Info().
		Int("posts", len(result.Records)).
		Int("skipped", result.Skipped()).
		Msg("Post metadata ready")

	return result, nil
}

// collect processes the descriptors one at a time in manifest order
func (p *Pipeline) collect(ctx context.Context, posts []domain.PostDescriptor) ([]domain.Outcome, error) {
	var bar ProgressReporter
	if p.newProgress != nil {
		bar = p.newProgress(len(posts))
		defer bar.Finish()
	}

	outcomes := make([]domain.Outcome, 0, len(posts))
	seen := make(map[string]struct{}, len(posts))

	for _, desc := range posts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome := p.process(ctx, desc, seen)
		if outcome.Reason != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !outcome.IsSuccess() {
			p.logger.PostSkipped(outcome.URL, outcome.Reason)
		}
		outcomes = append(outcomes, outcome)

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	return outcomes, nil
}

// process fetches and extracts a single descriptor
func (p *Pipeline) process(ctx context.Context, desc domain.PostDescriptor, seen map[string]struct{}) domain.Outcome {
	url := desc.URL
	if url == "" {
		return domain.Skipped(url, domain.ErrEmptyURL)
	}
	if _, dup := seen[url]; dup {
		return domain.Skipped(url, domain.ErrDuplicateURL)
	}
	seen[url] = struct{}{}
	if !utils.IsHTTPURL(url) {
		return domain.Skipped(url, domain.ErrInvalidURL)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	start := time.Now()
	resp, err := p.fetcher.Get(fetchCtx, url)
	if err != nil {
		return domain.Skipped(url, err)
	}

	record, err := p.extract(desc, resp)
	if err != nil {
		return domain.Skipped(url, err)
	}
	if !record.HasURL() {
		return domain.Skipped(url, domain.ErrEmptyURL)
	}

	p.logger.WithURL(url).Debug().
		Bool("from_cache", resp.FromCache).
		Dur("elapsed", time.Since(start)).
		Msg("Fetched post")

	return domain.Success(record)
}

// responseExtractor is implemented by extractors that use the whole
// response: its Content-Type for the encoding and its final URL for links
type responseExtractor interface {
	ExtractResponse(desc domain.PostDescriptor, resp *domain.Response) (domain.PostRecord, error)
}

func (p *Pipeline) extract(desc domain.PostDescriptor, resp *domain.Response) (domain.PostRecord, error) {
	if ex, ok := p.extractor.(responseExtractor); ok {
		return ex.ExtractResponse(desc, resp)
	}
	return p.extractor.Extract(desc, resp.Body)
}

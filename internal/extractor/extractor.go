package extractor

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/kitops-ml/blogdata/internal/domain"
	"github.com/kitops-ml/blogdata/internal/utils"
)

var _ domain.Extractor = (*Extractor)(nil)

// Options configures an Extractor
type Options struct {
	// ReadabilityFallback fills unresolved fields from go-readability
	ReadabilityFallback bool
	Logger              *utils.Logger
}

// Extractor turns a descriptor and its page into a PostRecord
type Extractor struct {
	readability bool
	logger      *utils.Logger
}

// New creates an Extractor
func New(opts Options) *Extractor {
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	return &Extractor{
		readability: opts.ReadabilityFallback,
		logger:      opts.Logger.WithComponent("extractor"),
	}
}

// Extract merges the descriptor overrides with metadata found in html.
// Relative links are resolved against the descriptor URL.
func (e *Extractor) Extract(desc domain.PostDescriptor, html []byte) (domain.PostRecord, error) {
	return e.extract(desc, html, "", "")
}

// ExtractResponse is Extract over a fetched response. The Content-Type
// header picks the page encoding and relative links are resolved against
// the final URL after redirects; the record keeps the descriptor URL.
func (e *Extractor) ExtractResponse(desc domain.PostDescriptor, resp *domain.Response) (domain.PostRecord, error) {
	if resp == nil {
		return e.extract(desc, nil, "", "")
	}
	return e.extract(desc, resp.Body, resp.ContentType, resp.URL)
}

func (e *Extractor) extract(desc domain.PostDescriptor, html []byte, contentType, baseURL string) (domain.PostRecord, error) {
	pageURL := strings.TrimSpace(desc.URL)
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = pageURL
	}

	content, err := ConvertToUTF8(html, contentType)
	if err != nil {
		return domain.PostRecord{}, domain.NewExtractError(pageURL, fmt.Errorf("%w: %v", domain.ErrParseFailed, err))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return domain.PostRecord{}, domain.NewExtractError(pageURL, fmt.Errorf("%w: %v", domain.ErrParseFailed, err))
	}

	record := domain.PostRecord{
		Title:         resolve(desc.Title, TitleChain, doc),
		Author:        resolve(desc.Author, AuthorChain, doc),
		Description:   resolve(desc.Description, DescriptionChain, doc),
		PublishedTime: resolve(desc.PublishedTime, PublishedTimeChain, doc),
		SiteName:      resolve(desc.SiteName, SiteNameChain, doc),
		Image:         desc.Image,
		Icon:          utils.ResolveURL(base, IconChain.Resolve(doc)),
		URL:           pageURL,
		Tags:          copyTags(desc.Tags),
	}
	if record.Image == "" {
		record.Image = utils.ResolveURL(base, ImageChain.Resolve(doc))
	}

	if e.readability && needsFallback(record) {
		e.applyReadability(&record, content, base)
	}

	return record, nil
}

// resolve returns the override verbatim when set, else the chain result
func resolve(override string, chain Chain, doc *goquery.Document) string {
	if override != "" {
		return override
	}
	return chain.Resolve(doc)
}

func copyTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

func needsFallback(r domain.PostRecord) bool {
	return r.Title == "" || r.Author == "" || r.Description == "" ||
		r.SiteName == "" || r.Image == "" || r.Icon == ""
}

// applyReadability fills empty fields from the readability article
func (e *Extractor) applyReadability(record *domain.PostRecord, content []byte, base string) {
	pageURL, err := url.Parse(base)
	if err != nil {
		return
	}

	article, err := readability.FromReader(bytes.NewReader(content), pageURL)
	if err != nil {
		e.logger.Debug().Err(err).Str("url", record.URL).Msg("Readability fallback failed")
		return
	}

	fill(&record.Title, article.Title)
	fill(&record.Author, article.Byline)
	fill(&record.Description, article.Excerpt)
	fill(&record.SiteName, article.SiteName)
	fill(&record.Image, utils.ResolveURL(base, strings.TrimSpace(article.Image)))
	fill(&record.Icon, utils.ResolveURL(base, strings.TrimSpace(article.Favicon)))
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = strings.TrimSpace(v)
	}
}

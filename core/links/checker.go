package links

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/schema"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NotFoundProbePath must answer 404 on a healthy site.
const NotFoundProbePath = "/this-page-should-not-exist-404-check"

// Path sources.
const (
	SourceSitemap  = "sitemap"
	SourceCritical = "critical"
	SourceCrawl    = "crawl"
)

// CriticalRoutes are always checked, whatever the sitemap lists.
var CriticalRoutes = []string{
	"/",
	"/status",
	"/utm-builder",
	"/review-requests",
	"/qr-generator",
	"/rank-grid",
	"/analytics",
}

// Target is a path queued for checking.
type Target struct {
	Path             string
	Source           string
	NotFoundExpected bool
}

// Checker issues the link requests of one run.
type Checker struct {
	client  contract.HTTPDoer
	baseURL string
	base    *url.URL
	workers int
	crawl   bool
	logger  *zap.Logger
}

// NewHTTPClient returns the client used for link checks.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// NewChecker builds a checker from validated configuration.
func NewChecker(cfg *contract.Config, client contract.HTTPDoer) (*Checker, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	workers := cfg.LinkWorkers
	if workers < 1 {
		workers = 1
	}
	return &Checker{
		client:  client,
		baseURL: cfg.BaseURL,
		base:    base,
		workers: workers,
		crawl:   cfg.Crawl,
		logger:  cfg.Log(),
	}, nil
}

// BuildTargets unions the sitemap paths (in order) with the critical routes and
// the not-found probe, dropping duplicates.
func BuildTargets(sitemapPaths []string) []Target {
	seen := make(map[string]struct{}, len(sitemapPaths)+len(CriticalRoutes)+1)
	targets := make([]Target, 0, len(sitemapPaths)+len(CriticalRoutes)+1)
	add := func(path, source string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		targets = append(targets, Target{
			Path:             path,
			Source:           source,
			NotFoundExpected: path == NotFoundProbePath,
		})
	}
	for _, p := range sitemapPaths {
		add(p, SourceSitemap)
	}
	for _, p := range CriticalRoutes {
		add(p, SourceCritical)
	}
	add(NotFoundProbePath, SourceCritical)
	return targets
}

// Classify maps a response status to its class and whether it counts as OK.
// Status 0 means the request never got a response.
func Classify(status int, notFoundExpected bool) (schema.LinkClass, bool) {
	switch {
	case status == 0:
		return schema.LinkNetworkError, false
	case status == http.StatusNotFound && notFoundExpected:
		return schema.LinkExpectedNotFound, true
	case status < 400 && notFoundExpected:
		return schema.LinkMissing404, false
	case status < 400:
		return schema.LinkOK, true
	case status == http.StatusNotFound:
		return schema.LinkNotFound, false
	case status < 500:
		return schema.LinkClientError, false
	default:
		return schema.LinkServerError, false
	}
}

// Run checks every target and, when crawling, the internal links found on the
// checked pages. It returns the report and an error only when ctx is done.
func (c *Checker) Run(ctx context.Context, runID string) (*schema.LinkReport, error) {
	start := time.Now()
	sitemapPaths, warnings := c.FetchSitemap(ctx)
	for _, w := range warnings {
		c.logger.Warn(w)
	}

	targets := BuildTargets(sitemapPaths)
	results, discovered := c.CheckAll(ctx, targets)

	if c.crawl {
		extra := crawlTargets(targets, discovered)
		c.logger.Debug("crawl discovered paths", zap.Int("count", len(extra)))
		more, _ := c.checkTargets(ctx, extra, false)
		results = append(results, more...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &schema.LinkReport{
		Summary:  Summarize(results, c.baseURL, runID, start, len(sitemapPaths), time.Since(start)),
		Results:  results,
		NotFound: make([]schema.LinkResult, 0),
		Warnings: warnings,
	}
	for _, r := range results {
		if r.Status == http.StatusNotFound {
			report.NotFound = append(report.NotFound, r)
		}
	}
	return report, nil
}

// CheckAll requests every target with at most c.workers in flight. Results keep
// the order of targets. The second value holds the internal links of each page
// when crawling is enabled.
func (c *Checker) CheckAll(ctx context.Context, targets []Target) ([]schema.LinkResult, [][]string) {
	return c.checkTargets(ctx, targets, c.crawl)
}

func (c *Checker) checkTargets(ctx context.Context, targets []Target, collect bool) ([]schema.LinkResult, [][]string) {
	results := make([]schema.LinkResult, len(targets))
	discovered := make([][]string, len(targets))

	g := new(errgroup.Group)
	g.SetLimit(c.workers)
	for i, t := range targets {
		g.Go(func() error {
			results[i], discovered[i] = c.checkOne(ctx, t, collect)
			return nil
		})
	}
	_ = g.Wait()
	return results, discovered
}

func (c *Checker) checkOne(ctx context.Context, t Target, collect bool) (schema.LinkResult, []string) {
	result := schema.LinkResult{
		Path:             t.Path,
		URL:              c.targetURL(t),
		Source:           t.Source,
		NotFoundExpected: t.NotFoundExpected,
	}
	start := time.Now()
	defer func() {
		c.logger.Debug("checked link",
			zap.String("path", result.Path),
			zap.Int("status", result.Status),
			zap.String("class", string(result.Class)),
			zap.Int64("duration_ms", result.DurationMs))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, result.URL, nil)
	if err != nil {
		result.Class, result.OK = Classify(0, t.NotFoundExpected)
		result.Error = err.Error()
		return result, nil
	}
	resp, err := c.client.Do(req)
	result.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		result.Class, result.OK = Classify(0, t.NotFoundExpected)
		result.Error = err.Error()
		return result, nil
	}
	defer func() { _ = resp.Body.Close() }()

	result.Status = resp.StatusCode
	result.Class, result.OK = Classify(resp.StatusCode, t.NotFoundExpected)

	var links []string
	if collect && result.Class == schema.LinkOK && isHTML(resp.Header.Get("Content-Type")) {
		pageURL := req.URL
		if resp.Request != nil && resp.Request.URL != nil {
			pageURL = resp.Request.URL
		}
		if found, err := ExtractLinks(io.LimitReader(resp.Body, maxBodyBytes), pageURL); err == nil {
			links = c.sameOrigin(pageURL, found)
		} else {
			c.logger.Debug("html parse failed", zap.String("path", t.Path), zap.Error(err))
		}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	return result, links
}

// targetURL resolves a target path. Critical routes live under the base URL,
// while sitemap and crawl paths are already absolute on the origin.
func (c *Checker) targetURL(t Target) string {
	if t.Source == SourceCritical {
		return c.baseURL + t.Path
	}
	return c.base.ResolveReference(&url.URL{Path: "/"}).String() + strings.TrimPrefix(t.Path, "/")
}

// sameOrigin drops links when a redirect moved the page off the base origin.
func (c *Checker) sameOrigin(pageURL *url.URL, links []string) []string {
	if pageURL.Scheme != c.base.Scheme || pageURL.Host != c.base.Host {
		return nil
	}
	return links
}

// crawlTargets returns the discovered paths that were not already targets, once each.
func crawlTargets(targets []Target, discovered [][]string) []Target {
	seen := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		seen[t.Path] = struct{}{}
	}
	var extra []Target
	for _, paths := range discovered {
		for _, p := range paths {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			extra = append(extra, Target{Path: p, Source: SourceCrawl})
		}
	}
	return extra
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "text/html"
}

// Summarize counts the results by class.
func Summarize(results []schema.LinkResult, baseURL, runID string, checkedAt time.Time, sitemapPaths int, elapsed time.Duration) schema.LinkSummary {
	s := schema.LinkSummary{
		RunID:        runID,
		BaseURL:      baseURL,
		CheckedAt:    checkedAt.UTC(),
		SitemapPaths: sitemapPaths,
		Total:        len(results),
		DurationMs:   elapsed.Milliseconds(),
	}
	for _, r := range results {
		if r.OK {
			s.OK++
		}
		switch r.Class {
		case schema.LinkNotFound:
			s.NotFound++
		case schema.LinkClientError:
			s.ClientErrors++
		case schema.LinkServerError:
			s.ServerErrors++
		case schema.LinkNetworkError:
			s.NetworkErrors++
		case schema.LinkMissing404:
			s.Missing404++
		}
	}
	return s
}

// ToRunItems converts link results into history items.
func ToRunItems(results []schema.LinkResult) []schema.RunItem {
	items := make([]schema.RunItem, 0, len(results))
	for _, r := range results {
		items = append(items, schema.RunItem{
			Name:   r.Path,
			Status: string(r.Class),
			Detail: http.StatusText(r.Status),
		})
	}
	return items
}

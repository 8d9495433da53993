// Package links checks every sitemap and critical route of a site and
// classifies the HTTP responses.
package links

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// SitemapPath is requested relative to the base URL.
const SitemapPath = "/sitemap.xml"

// maxBodyBytes caps how much of a sitemap or page is read.
const maxBodyBytes = 5 << 20

type locEntry struct {
	Loc string `xml:"loc"`
}

// sitemapDoc decodes both <urlset> and <sitemapindex> documents.
type sitemapDoc struct {
	XMLName  xml.Name
	URLs     []locEntry `xml:"url"`
	Sitemaps []locEntry `xml:"sitemap"`
}

// ParseSitemap returns the page locations and the child sitemap locations of a document.
func ParseSitemap(data []byte) (locs []string, children []string, err error) {
	var doc sitemapDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("invalid sitemap XML: %w", err)
	}
	switch doc.XMLName.Local {
	case "urlset", "sitemapindex":
	default:
		return nil, nil, fmt.Errorf("unexpected sitemap root element <%s>", doc.XMLName.Local)
	}
	for _, u := range doc.URLs {
		if loc := strings.TrimSpace(u.Loc); loc != "" {
			locs = append(locs, loc)
		}
	}
	for _, s := range doc.Sitemaps {
		if loc := strings.TrimSpace(s.Loc); loc != "" {
			children = append(children, loc)
		}
	}
	return locs, children, nil
}

// PathOf reduces a location to its path and query. Relative locations must start with "/".
func PathOf(loc string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(loc))
	if err != nil {
		return "", fmt.Errorf("invalid location %q: %w", loc, err)
	}
	if !u.IsAbs() && !strings.HasPrefix(u.Path, "/") {
		return "", fmt.Errorf("location %q is neither absolute nor rooted", loc)
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path, nil
}

// FetchSitemap loads {base}/sitemap.xml and returns the paths it lists. A sitemap
// index has each child fetched once. Failures come back as warnings so the
// caller can continue with the critical routes.
func (c *Checker) FetchSitemap(ctx context.Context) ([]string, []string) {
	var warnings []string
	locs, children, err := c.fetchSitemapDoc(ctx, c.baseURL+SitemapPath)
	if err != nil {
		return nil, []string{fmt.Sprintf("sitemap unavailable: %v", err)}
	}

	for _, child := range children {
		childLocs, nested, err := c.fetchSitemapDoc(ctx, child)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("child sitemap %s unavailable: %v", child, err))
			continue
		}
		if len(nested) > 0 {
			warnings = append(warnings, fmt.Sprintf("child sitemap %s is itself an index; its %d entries were skipped", child, len(nested)))
		}
		locs = append(locs, childLocs...)
	}

	paths := make([]string, 0, len(locs))
	for _, loc := range locs {
		path, err := PathOf(loc)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		paths = append(paths, path)
	}
	return paths, warnings
}

func (c *Checker) fetchSitemapDoc(ctx context.Context, target string) ([]string, []string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("GET %s returned status %d", target, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", target, err)
	}
	c.logger.Debug("fetched sitemap", zap.String("url", target), zap.Int("bytes", len(data)))
	return ParseSitemap(data)
}

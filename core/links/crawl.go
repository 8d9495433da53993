package links

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ExtractLinks returns the same-origin paths linked from an HTML page, in
// document order and without duplicates.
func ExtractLinks(r io.Reader, pageURL *url.URL) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var paths []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if path, ok := internalPath(getAttr(n, "href"), pageURL); ok {
				if _, dup := seen[path]; !dup {
					seen[path] = struct{}{}
					paths = append(paths, path)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return paths, nil
}

// internalPath resolves href against the page and keeps it only when it stays on the same origin.
func internalPath(href string, pageURL *url.URL) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := pageURL.ResolveReference(ref)
	if resolved.Scheme != pageURL.Scheme || resolved.Host != pageURL.Host {
		return "", false
	}
	path, err := PathOf(resolved.String())
	if err != nil {
		return "", false
	}
	return path, true
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

package crawler

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Extractor pulls visible text and in-scope links out of one HTML page.
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure to walk
//  3. More maintainable than complex regex patterns
type Extractor struct {
	// pageURL is the raw URL of the page being extracted. Scope checks
	// compare href attributes against this string as written.
	pageURL string

	// base is the parsed form of pageURL, used to resolve relative links.
	base *url.URL
}

// PageContent is everything extracted from a single page.
type PageContent struct {
	// Text is the page's visible text: every text node outside script,
	// style, noscript, and template elements, whitespace-collapsed and
	// joined with single spaces.
	Text string

	// Links are the absolute in-scope URLs found in anchor hrefs, in
	// document order, deduplicated within the page.
	Links []string
}

// NewExtractor creates an Extractor for the page at pageURL.
func NewExtractor(pageURL string) (*Extractor, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}
	return &Extractor{pageURL: pageURL, base: u}, nil
}

// Extract parses HTML content and returns its visible text and in-scope links.
func (e *Extractor) Extract(content io.Reader) (*PageContent, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	result := &PageContent{Links: make([]string, 0)}

	var text strings.Builder
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "template":
				// Nothing under these elements is visible text.
				return
			case "a":
				if href := getAttr(n, "href"); href != "" {
					if resolved := e.resolveInScope(href); resolved != "" && !seen[resolved] {
						seen[resolved] = true
						result.Links = append(result.Links, resolved)
					}
				}
			}
		case html.TextNode:
			// Collapse each text node's whitespace and separate nodes
			// with single spaces so the output is one searchable line.
			fields := strings.Fields(n.Data)
			if len(fields) > 0 {
				if text.Len() > 0 {
					text.WriteString(" ")
				}
				text.WriteString(strings.Join(fields, " "))
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	result.Text = text.String()
	return result, nil
}

// resolveInScope resolves an href against the page URL when it is in scope,
// returning "" otherwise.
//
// Scope is decided on the raw attribute value before any resolution:
// site-relative paths ("/about") and absolute URLs that extend the page's
// own URL are kept; everything else is dropped. That rejects other hosts
// along with mailto:, javascript:, tel:, and bare fragments without
// needing a scheme allowlist. Malformed hrefs are skipped silently.
func (e *Extractor) resolveInScope(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	if !strings.HasPrefix(href, "/") && !strings.HasPrefix(href, e.pageURL) {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return e.base.ResolveReference(u).String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

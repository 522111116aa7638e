package crawler

import (
	"strings"
	"testing"
)

func TestExtractorText(t *testing.T) {
	t.Parallel()

	t.Run("extracts visible text", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Shop</title></head><body><h1>Welcome</h1><p>Fresh coffee beans</p></body></html>`
		extractor, err := NewExtractor("http://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		content, err := extractor.Extract(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		if !strings.Contains(content.Text, "Welcome") {
			t.Errorf("expected text to contain heading, got %q", content.Text)
		}
		if !strings.Contains(content.Text, "Fresh coffee beans") {
			t.Errorf("expected text to contain paragraph, got %q", content.Text)
		}
	})

	t.Run("collapses whitespace", func(t *testing.T) {
		t.Parallel()

		html := "<html><body><p>Hello\n\n\t   World</p></body></html>"
		extractor, err := NewExtractor("http://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		content, err := extractor.Extract(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		if !strings.Contains(content.Text, "Hello World") {
			t.Errorf("expected collapsed whitespace, got %q", content.Text)
		}
	})

	t.Run("joins text across elements with single spaces", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>Opening hours</p><ul><li>Monday</li><li>Tuesday</li></ul></body></html>`
		extractor, err := NewExtractor("http://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		content, err := extractor.Extract(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		if !strings.Contains(content.Text, "Opening hours Monday Tuesday") {
			t.Errorf("expected element texts joined with spaces, got %q", content.Text)
		}
	})

	t.Run("includes anchor text", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>See our <a href="/contact">contact page</a> for details</body></html>`
		extractor, err := NewExtractor("http://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		content, err := extractor.Extract(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		if !strings.Contains(content.Text, "contact page") {
			t.Errorf("expected anchor text in output, got %q", content.Text)
		}
	})

	t.Run("skips script style noscript and template content", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
			<script>var secret = "scriptText";</script>
			<style>.cls { color: red; }</style>
		</head><body>
			<noscript>noscriptText</noscript>
			<template>templateText</template>
			<p>visibleText</p>
		</body></html>`
		extractor, err := NewExtractor("http://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		content, err := extractor.Extract(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		if !strings.Contains(content.Text, "visibleText") {
			t.Errorf("expected visible text present, got %q", content.Text)
		}
		for _, hidden := range []string{"scriptText", "color: red", "noscriptText", "templateText"} {
			if strings.Contains(content.Text, hidden) {
				t.Errorf("expected %q to be excluded from text, got %q", hidden, content.Text)
			}
		}
	})

	t.Run("empty body yields empty text and no links", func(t *testing.T) {
		t.Parallel()

		extractor, err := NewExtractor("http://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		content, err := extractor.Extract(strings.NewReader(""))
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		if content.Text != "" {
			t.Errorf("expected empty text, got %q", content.Text)
		}
		if len(content.Links) != 0 {
			t.Errorf("expected no links, got %v", content.Links)
		}
	})

	t.Run("tolerates malformed HTML", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>Unclosed paragraph<div>Stray <b>bold text</body>`
		extractor, err := NewExtractor("http://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		content, err := extractor.Extract(strings.NewReader(html))
		if err != nil {
			t.Fatalf("expected malformed HTML to parse, got %v", err)
		}

		if !strings.Contains(content.Text, "bold text") {
			t.Errorf("expected text from malformed HTML, got %q", content.Text)
		}
	})
}

func TestExtractorLinks(t *testing.T) {
	t.Parallel()

	t.Run("resolves site-relative hrefs against the page URL", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><a href="/b">B</a></body></html>`
		extractor, err := NewExtractor("http://x.com/a/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		content, err := extractor.Extract(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		if len(content.Links) != 1 || content.Links[0] != "http://x.com/b" {
			t.Errorf("expected [http://x.com/b], got %v", content.Links)
		}
	})

	t.Run("keeps absolute hrefs that extend the page URL", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><a href="http://example.com/about">About</a></body></html>`
		extractor, err := NewExtractor("http://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		content, err := extractor.Extract(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		if len(content.Links) != 1 || content.Links[0] != "http://example.com/about" {
			t.Errorf("expected [http://example.com/about], got %v", content.Links)
		}
	})

	t.Run("drops hrefs to other hosts", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="http://other.com/page">Other</a>
			<a href="https://example.com/secure">Different scheme prefix</a>
		</body></html>`
		extractor, err := NewExtractor("http://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		content, err := extractor.Extract(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		if len(content.Links) != 0 {
			t.Errorf("expected no links, got %v", content.Links)
		}
	})

	t.Run("drops mailto javascript tel and fragment hrefs", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="mailto:info@example.com">Mail</a>
			<a href="javascript:void(0)">JS</a>
			<a href="tel:+1234567890">Call</a>
			<a href="#top">Top</a>
			<a href="">Empty</a>
			<a href="/valid">Valid</a>
		</body></html>`
		extractor, err := NewExtractor("http://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		content, err := extractor.Extract(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		if len(content.Links) != 1 || content.Links[0] != "http://example.com/valid" {
			t.Errorf("expected only the valid link, got %v", content.Links)
		}
	})

	t.Run("deduplicates links within a page", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/about">About</a>
			<a href="/about">About again</a>
			<a href="/contact">Contact</a>
		</body></html>`
		extractor, err := NewExtractor("http://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		content, err := extractor.Extract(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		if len(content.Links) != 2 {
			t.Errorf("expected 2 deduplicated links, got %v", content.Links)
		}
	})

	t.Run("preserves document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/first">1</a>
			<a href="/second">2</a>
			<a href="/third">3</a>
		</body></html>`
		extractor, err := NewExtractor("http://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		content, err := extractor.Extract(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		want := []string{
			"http://example.com/first",
			"http://example.com/second",
			"http://example.com/third",
		}
		if len(content.Links) != len(want) {
			t.Fatalf("expected %d links, got %v", len(want), content.Links)
		}
		for i, link := range want {
			if content.Links[i] != link {
				t.Errorf("link[%d] = %q, want %q", i, content.Links[i], link)
			}
		}
	})

	t.Run("skips malformed hrefs silently", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/%zz">Bad escape</a>
			<a href="/ok">Good</a>
		</body></html>`
		extractor, err := NewExtractor("http://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		content, err := extractor.Extract(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		if len(content.Links) != 1 || content.Links[0] != "http://example.com/ok" {
			t.Errorf("expected only the well-formed link, got %v", content.Links)
		}
	})

	t.Run("trims whitespace around hrefs", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><a href="  /padded  ">Padded</a></body></html>`
		extractor, err := NewExtractor("http://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		content, err := extractor.Extract(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		if len(content.Links) != 1 || !strings.Contains(content.Links[0], "/padded") {
			t.Errorf("expected padded href to be trimmed and kept, got %v", content.Links)
		}
	})

	t.Run("scope is judged on the raw href", func(t *testing.T) {
		t.Parallel()

		// The page lives under /docs/, but "/other" is still in scope
		// because scope follows the raw href prefix, not the final host
		// path. Protocol-relative hrefs pass the same leading-slash rule.
		html := `<html><body>
			<a href="/other">Site relative</a>
			<a href="//cdn.example.net/lib">Protocol relative</a>
		</body></html>`
		extractor, err := NewExtractor("http://example.com/docs/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		content, err := extractor.Extract(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		want := []string{
			"http://example.com/other",
			"http://cdn.example.net/lib",
		}
		if len(content.Links) != len(want) {
			t.Fatalf("expected %d links, got %v", len(want), content.Links)
		}
		for i, link := range want {
			if content.Links[i] != link {
				t.Errorf("link[%d] = %q, want %q", i, content.Links[i], link)
			}
		}
	})
}

func TestNewExtractor(t *testing.T) {
	t.Parallel()

	t.Run("rejects invalid page URL", func(t *testing.T) {
		t.Parallel()

		if _, err := NewExtractor("http://example.com/%zz"); err == nil {
			t.Error("expected error for invalid page URL")
		}
	})
}

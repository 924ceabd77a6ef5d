// Package richtext turns editor input into HTML that is safe to serve.
package richtext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Format names the markup an article body is written in.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// Renderer converts Markdown to HTML and sanitizes HTML.
// It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	strict *bluemonday.Policy
}

// New returns a Renderer with GitHub-flavoured Markdown and a UGC policy
// that keeps headings, lists, links, images and tables.
func New() *Renderer {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &Renderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: policy,
		strict: bluemonday.StrictPolicy(),
	}
}

// Render converts body in the given format into sanitized HTML.
// An empty format is treated as HTML.
func (r *Renderer) Render(body string, format Format) (string, error) {
	switch format {
	case FormatMarkdown:
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(body), &buf); err != nil {
			return "", fmt.Errorf("richtext.Render: markdown: %w", err)
		}
		return r.Sanitize(buf.String()), nil
	case FormatHTML, "":
		return r.Sanitize(body), nil
	default:
		return "", fmt.Errorf("richtext.Render: unknown format %q", format)
	}
}

// Sanitize strips scripts, event handlers and unsafe URLs from html.
func (r *Renderer) Sanitize(html string) string {
	return strings.TrimSpace(r.policy.Sanitize(html))
}

// Plain strips all markup from s.
func (r *Renderer) Plain(s string) string {
	return strings.TrimSpace(r.strict.Sanitize(s))
}

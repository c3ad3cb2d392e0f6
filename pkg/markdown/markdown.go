package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	engine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	policy = bluemonday.UGCPolicy()

	imagePattern = regexp.MustCompile(`!\[([^\]]*)]\((<[^>]+>|[^)\s]+)([^)]*)\)`)
)

// Render converts article markdown into sanitized HTML
func Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return policy.Sanitize(buf.String()), nil
}

// URLRewriter points markdown image links at the current site.
// Root-relative links get the base URL prepended; links on a retired domain are moved over.
type URLRewriter struct {
	baseURL    string
	oldDomains []string
}

// NewURLRewriter creates a rewriter. An empty baseURL disables rewriting.
func NewURLRewriter(baseURL string, oldDomains []string) *URLRewriter {
	trimmed := make([]string, 0, len(oldDomains))
	for _, d := range oldDomains {
		if d = strings.TrimRight(strings.TrimSpace(d), "/"); d != "" {
			trimmed = append(trimmed, d)
		}
	}
	return &URLRewriter{baseURL: strings.TrimRight(baseURL, "/"), oldDomains: trimmed}
}

// Rewrite returns content with image URLs rewritten
func (r *URLRewriter) Rewrite(content string) string {
	if r == nil || r.baseURL == "" || !imagePattern.MatchString(content) {
		return content
	}

	return imagePattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := imagePattern.FindStringSubmatch(match)
		if len(groups) < 4 {
			return match
		}
		alt, target, rest := groups[1], groups[2], groups[3]

		bracketed := strings.HasPrefix(target, "<") && strings.HasSuffix(target, ">")
		url := strings.TrimSuffix(strings.TrimPrefix(target, "<"), ">")

		rewritten, ok := r.rewriteURL(url)
		if !ok {
			return match
		}
		if bracketed {
			rewritten = "<" + rewritten + ">"
		}
		return "![" + alt + "](" + rewritten + rest + ")"
	})
}

func (r *URLRewriter) rewriteURL(url string) (string, bool) {
	if strings.HasPrefix(url, "/") && !strings.HasPrefix(url, "//") {
		return r.baseURL + url, true
	}
	for _, old := range r.oldDomains {
		if url == old || strings.HasPrefix(url, old+"/") {
			return r.baseURL + strings.TrimPrefix(url, old), true
		}
	}
	return "", false
}

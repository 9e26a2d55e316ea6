package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// MarkdownToHTML converts markdown source to an HTML fragment suitable for
// fragment insertion.
func MarkdownToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Patterns that make a plain-text paste read as markdown. Matching any one
// is enough; plain prose matches none of them.
var markdownSignals = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^#{1,6}\s`),          // heading
	regexp.MustCompile(`(?m)^\s*[-*+]\s`),        // bullet list
	regexp.MustCompile(`(?m)^\s*\d+\.\s`),        // ordered list
	regexp.MustCompile(`(?m)^>\s`),               // blockquote
	regexp.MustCompile("(?m)^```"),               // fenced code
	regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`),    // link
	regexp.MustCompile(`(\*\*|__)[^*_]+(\*\*|__)`), // strong
}

// LooksLikeMarkdown reports whether plain text carries markdown structure
// worth converting on paste.
func LooksLikeMarkdown(s string) bool {
	for _, re := range markdownSignals {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

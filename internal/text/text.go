package text

import (
	"strings"
	"unicode"
)

var (
	lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

	// Single pass, so an ampersand produced by one substitution is never re-escaped.
	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
)

// NormalizeLineEndings rewrites \r\n and lone \r to \n.
func NormalizeLineEndings(raw string) string {
	return lineEndings.Replace(raw)
}

// SplitParagraphs breaks raw text into trimmed, non-empty paragraphs separated by blank lines.
// A line holding only Unicode whitespace counts as blank.
func SplitParagraphs(raw string) []string {
	var (
		paragraphs []string
		current    []string
	)
	flush := func() {
		if paragraph := trimSpace(strings.Join(current, "\n")); paragraph != "" {
			paragraphs = append(paragraphs, paragraph)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(NormalizeLineEndings(raw), "\n") {
		if trimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return paragraphs
}

// isSpace also treats the byte order mark as whitespace, as browsers do.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// EscapeHTML escapes the five HTML-reserved characters.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// ParagraphsHTML renders raw text as a sequence of escaped <p> elements.
// It returns an empty string when the text holds no paragraphs.
func ParagraphsHTML(raw string) string {
	paragraphs := SplitParagraphs(raw)
	if len(paragraphs) == 0 {
		return ""
	}

	var b strings.Builder
	for _, p := range paragraphs {
		b.WriteString("<p>")
		b.WriteString(EscapeHTML(p))
		b.WriteString("</p>")
	}
	return b.String()
}

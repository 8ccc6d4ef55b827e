package renderer

import (
	"regexp"
	"strings"
)

var interTagWhitespace = regexp.MustCompile(`>\s+<`)

// htmlEscaper rewrites the characters that can change meaning when output
// lands inside HTML attribute or element context.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"`", "&#96;",
	"=", "&#61;",
	"/", "&#47;",
)

// applyFlags applies a tag's flag characters to rendered text in the order
// they were written. '!' trims layout whitespace, '#' HTML-escapes.
func applyFlags(s, flags string) string {
	for _, flag := range flags {
		switch flag {
		case '!':
			s = trim(s)
		case '#':
			s = htmlEscaper.Replace(s)
		}
	}
	return s
}

// trim collapses whitespace between adjacent tags and strips tabs and line
// breaks, leaving ordinary spaces inside text intact.
func trim(s string) string {
	s = interTagWhitespace.ReplaceAllString(s, "><")
	return strings.NewReplacer("\t", "", "\n", "", "\r", "").Replace(s)
}

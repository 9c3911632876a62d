package render

import (
	"net/url"
	"strings"
)

// htmlEscaper is the fixed five-character substitution table applied to every
// server- or user-supplied string placed into markup.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML replaces & < > " ' with their entities in a single pass, so an
// already-escaped sequence is escaped again rather than passed through.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// mapSearchBase is the external map search endpoint used by the map link.
const mapSearchBase = "https://www.google.com/maps/search/"

// MapURL builds the external map search link for query. The query is encoded
// as a single path segment, spaces as %20.
func MapURL(query string) string {
	return mapSearchBase + strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}

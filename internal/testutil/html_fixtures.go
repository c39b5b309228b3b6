package testutil

import (
	"fmt"
	"html"
	"strings"
)

// ListingEntry is one anchor of a generated archive page
type ListingEntry struct {
	Href string
	Text string
}

// FileEntries builds entries whose href and text are both the given file names
func FileEntries(names ...string) []ListingEntry {
	entries := make([]ListingEntry, len(names))
	for i, name := range names {
		entries[i] = ListingEntry{Href: name, Text: name}
	}
	return entries
}

// GenerateListingHTML generates a directory listing page shaped like the archive's
// year pages: a table with one row per file, preceded by a parent link.
func GenerateListingHTML(entries []ListingEntry) string {
	var sb strings.Builder

	sb.WriteString(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Index</title></head>
<body>
<table id="paperslist">
	<thead><tr><th>Name</th><th>Size</th></tr></thead>
	<tbody>
`)
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("\t\t<tr><td class=\"name\"><a href=\"%s\">%s</a></td><td class=\"size\">-</td></tr>\n",
			html.EscapeString(e.Href), html.EscapeString(e.Text)))
	}
	sb.WriteString(`	</tbody>
</table>
</body>
</html>`)

	return sb.String()
}

// GenerateIndexHTML generates a home or category page: a navigation list of links
func GenerateIndexHTML(entries []ListingEntry) string {
	var sb strings.Builder

	sb.WriteString(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Past Papers</title></head>
<body>
<nav><ul>
`)
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("\t<li><a href=\"%s\">%s</a></li>\n",
			html.EscapeString(e.Href), html.EscapeString(e.Text)))
	}
	sb.WriteString(`</ul></nav>
</body>
</html>`)

	return sb.String()
}

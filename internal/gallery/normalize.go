package gallery

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveDiacritics removes diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizeLabel normalizes a label for query-side comparison (lowercase, no
// diacritics, spaces for dashes). Stored labels are never normalized; they
// round-trip exactly as enrolled.
func NormalizeLabel(label string) string {
	label = RemoveDiacritics(label)
	label = strings.ToLower(label)
	label = strings.ReplaceAll(label, "-", " ")
	return strings.TrimSpace(label)
}

// FilterByLabel returns the records whose normalized label matches the
// normalized query. An empty query matches everything.
func (g Gallery) FilterByLabel(query string) Gallery {
	if query == "" {
		return g
	}
	want := NormalizeLabel(query)

	var out Gallery
	for _, rec := range g {
		if NormalizeLabel(rec.Label) == want {
			out = append(out, rec)
		}
	}
	return out
}

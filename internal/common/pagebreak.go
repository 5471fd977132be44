package common

import (
	"regexp"
	"strings"
)

// pageBreakPattern matches the TinyMCE page-break sentinel embedded in body
// HTML, e.g. <hr class="mce-pagebreak" /> with any extra attributes and
// either quote style. Markers are structural wherever they appear, including
// inside preformatted regions; the editor only ever emits them top-level.
var pageBreakPattern = regexp.MustCompile(`(?i)<hr\s+class=["']mce-pagebreak["'][^>]*>`)

// SplitPages splits a content body into its navigable page fragments at each
// page-break marker. A body without markers yields a single fragment (the
// whole body). Fragments are trimmed of surrounding whitespace.
//
// SplitPages is pure and deterministic; cache keys and page navigation both
// rely on identical input always producing identical fragments.
func SplitPages(body string) []string {
	parts := pageBreakPattern.Split(body, -1)
	pages := make([]string, len(parts))
	for i, p := range parts {
		pages[i] = strings.TrimSpace(p)
	}
	return pages
}

// PageCount returns the number of page fragments in body, at least 1.
func PageCount(body string) int {
	n := len(SplitPages(body))
	if n < 1 {
		return 1
	}
	return n
}

// GetPage returns the 1-indexed page fragment n of body.
// Returns ErrPageOutOfRange when n < 1 or n exceeds the page count.
func GetPage(body string, n int) (string, error) {
	pages := SplitPages(body)
	if n < 1 || n > len(pages) {
		return "", ErrPageOutOfRange
	}
	return pages[n-1], nil
}

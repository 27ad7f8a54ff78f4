package segmenter

import "strings"

// splitBody divides one instrument's body into citation preamble and
// operative text at the first trigger verb («décrète :», «arrêtent :», …).
// Both singular and plural forms are configured because joint ministerial
// orders use the plural. The earliest trigger position wins; configuration
// order breaks exact ties.
//
// Fallback order is fixed: trigger, then first article header, then the
// whole body as preamble with empty operative text. The last case means the
// instrument has no recognized article structure and must surface downstream
// as a single whole-text chunk, never be dropped.
func splitBody(body string, r *Rules) (preamble, operative string) {
	best := -1
	bestEnd := -1
	for _, re := range r.triggers {
		if loc := re.FindStringIndex(body); loc != nil && (best < 0 || loc[0] < best) {
			best, bestEnd = loc[0], loc[1]
		}
	}
	if best >= 0 {
		return strings.TrimSpace(body[:best]), strings.TrimSpace(body[bestEnd:])
	}

	if loc := r.articleRe.FindStringIndex(body); loc != nil {
		// keep the header: the article extractor needs it
		return strings.TrimSpace(body[:loc[0]]), strings.TrimSpace(body[loc[0]:])
	}

	return strings.TrimSpace(body), ""
}

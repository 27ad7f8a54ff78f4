package segmenter

import (
	"strings"

	"github.com/dtnitsch/llm-gazette-parser/models"
)

// filterCitations drops anchors that are inline citations of previously
// published instruments rather than true titles. The same keyword+number
// string is legitimately reused both ways; the only reliable signal is a
// citation-introducing phrase («Vu le décret …», «modifiant l'arrêté …») in
// the short context immediately preceding the anchor.
//
// Markers are matched literally, lowercased, in configuration order — that
// order is the precedence rule, and a marker anywhere in the window wins
// over anything further right. OCR-mangled markers (smart quotes, doubled
// spaces) only match when listed as explicit variants; an unlisted variant
// lets the anchor survive, which is a documented false-accept of this
// filter, not a bug to patch locally.
func filterCitations(text string, anchors []models.Anchor, r *Rules) ([]models.Anchor, int) {
	kept := anchors[:0]
	dropped := 0
	for _, a := range anchors {
		if isCitation(text, a.Start, r) {
			dropped++
			continue
		}
		kept = append(kept, a)
	}
	return kept, dropped
}

func isCitation(text string, start int, r *Rules) bool {
	ctx := strings.ToLower(text[backRunes(text, start, r.citationWindow):start])
	for _, marker := range r.citationMarkers {
		if strings.Contains(ctx, marker) {
			return true
		}
	}
	return false
}

package segmenter

import (
	"sort"
	"unicode/utf8"

	"github.com/dtnitsch/llm-gazette-parser/models"
)

// detectAnchors finds candidate instrument starts. Separator detection runs
// first: for every run of dash-like characters it scans a bounded lookback
// window backward for the last instrument keyword, which is by construction
// the title adjacent to the separator (scanning forward from keywords would
// anchor on qualifier repetitions before the true boundary). When the
// transcript contains no separator at all, the forward keyword scan used for
// separator-less issues takes over.
//
// Returned anchors are sorted by start, non-overlapping, and deduplicated:
// two separators resolving to the same keyword keep the first. Separators
// with no keyword in the window are skipped and counted, not failed: either
// the instrument type is not configured or the title exceeds the window.
func detectAnchors(text string, r *Rules) ([]models.Anchor, int) {
	seps := r.separator.FindAllStringIndex(text, -1)
	if len(seps) == 0 {
		return detectAnchorsForward(text, r), 0
	}

	var anchors []models.Anchor
	skipped := 0
	lastStart := -1
	lastEnd := 0

	for _, sep := range seps {
		winStart := backRunes(text, sep[0], r.lookbackWindow)
		window := text[winStart:sep[0]]

		best := -1
		var bestType models.InstrumentType
		var bestQual string
		for _, rule := range r.keywords {
			ms := rule.backward.FindAllStringSubmatchIndex(window, -1)
			if len(ms) == 0 {
				continue
			}
			// m[2] is the keyword group's start, past the boundary char
			m := ms[len(ms)-1]
			if m[2] > best {
				best = m[2]
				bestType = rule.typ
				bestQual = submatch(window, m, 2)
			}
		}
		if best < 0 {
			skipped++
			continue
		}

		start := winStart + best
		if start == lastStart || start < lastEnd {
			// same title matched by a second dash run, keep the first
			continue
		}

		anchors = append(anchors, models.Anchor{
			Type:         bestType,
			Qualifier:    bestQual,
			Start:        start,
			SeparatorEnd: sep[1],
			RawTitle:     text[start:sep[0]],
		})
		lastStart = start
		lastEnd = sep[1]
	}

	return anchors, skipped
}

// detectAnchorsForward handles issues whose separators were stripped
// upstream: it scans forward for keyword+«n°»/«du» constructs and ends each
// title at the first sentence boundary after the construct, which plays the
// separator's role.
func detectAnchorsForward(text string, r *Rules) []models.Anchor {
	type hit struct {
		start, end int
		typ        models.InstrumentType
		qual       string
	}
	var hits []hit
	for _, rule := range r.keywords {
		for _, m := range rule.forward.FindAllStringSubmatchIndex(text, -1) {
			hits = append(hits, hit{
				start: m[2],
				end:   m[1],
				typ:   rule.typ,
				qual:  submatch(text, m, 2),
			})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].start < hits[j].start })

	var anchors []models.Anchor
	lastEnd := 0
	for _, h := range hits {
		if h.start < lastEnd {
			continue
		}
		sepEnd := titleSentenceEnd(text, h.end)
		anchors = append(anchors, models.Anchor{
			Type:         h.typ,
			Qualifier:    h.qual,
			Start:        h.start,
			SeparatorEnd: sepEnd,
			RawTitle:     text[h.start:sepEnd],
		})
		lastEnd = sepEnd
	}
	return anchors
}

// titleSentenceEnd finds the end of a title sentence: the first period
// followed by whitespace within a bounded range after the keyword construct.
// Titles with no sentence end in range fall back to the end of the line.
func titleSentenceEnd(text string, from int) int {
	limit := from + 400
	if limit > len(text) {
		limit = len(text)
	}
	for i := from; i < limit; i++ {
		if text[i] == '.' && i+1 < len(text) && isSpaceByte(text[i+1]) {
			return i + 1
		}
		if text[i] == '\n' {
			return i
		}
	}
	return limit
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t'
}

// backRunes returns the byte offset n runes before from, clamped to 0.
func backRunes(s string, from, n int) int {
	for i := 0; i < n && from > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(s[:from])
		from -= size
	}
	return from
}

// submatch extracts capture group g from a FindAllStringSubmatchIndex match,
// or "" when the group did not participate.
func submatch(s string, m []int, g int) string {
	lo, hi := 2*g, 2*g+1
	if hi >= len(m) || m[lo] < 0 {
		return ""
	}
	return s[m[lo]:m[hi]]
}

package segmenter

import (
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/llm-gazette-parser/models"
)

// slice turns the filtered anchor list into instruments with attributed
// pages. Body spans are contiguous and non-overlapping by construction:
// instrument i runs from its own separator end to instrument i+1's anchor
// start, the last one to end of transcript. Text before the first anchor is
// front matter and is discarded, never merged into instrument 1.
//
// Boundaries are always computed from the full anchor list; the
// include-types filter only suppresses emission, so excluding a type never
// bleeds its text into a neighbour.
func slice(text string, anchors []models.Anchor, pageAt func(int) int, r *Rules) ([]models.Instrument, int) {
	var instruments []models.Instrument
	dropped := 0

	for i, a := range anchors {
		bodyEnd := len(text)
		if i+1 < len(anchors) {
			bodyEnd = anchors[i+1].Start
		}
		if !r.emits(a.Type) {
			continue
		}

		body := text[a.SeparatorEnd:bodyEnd]
		if utf8.RuneCountInString(strings.TrimSpace(body)) < r.minBodyLength {
			// title with no body survives OCR occasionally
			dropped++
			continue
		}

		instruments = append(instruments, models.Instrument{
			Type:      a.Type,
			Qualifier: a.Qualifier,
			Title:     cleanTitle(a.RawTitle, r),
			PageStart: pageAt(a.Start),
			BodyStart: a.SeparatorEnd,
			BodyEnd:   bodyEnd,
		})
	}

	return instruments, dropped
}

// cleanTitle trims the raw keyword→separator span down to the actual title:
// lines are kept until a preamble marker («Vu …», «Le Président …») shows
// the lookback capture overran, then joined and whitespace-collapsed.
func cleanTitle(raw string, r *Rules) string {
	var kept []string
lines:
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, marker := range r.titleStopMarkers {
			if strings.Contains(line, marker) {
				break lines
			}
		}
		kept = append(kept, line)
	}
	return strings.Join(strings.Fields(strings.Join(kept, " ")), " ")
}

// Package normalizer prepares raw gazette transcripts for segmentation:
// charset and whitespace cleanup, page-marker indexing, and issue metadata.
// The segmenter treats the normalized text as the transcript; all offsets
// downstream refer to it.
package normalizer

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
	newlineRunRe = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

// cleaner applies NFC composition and strips control runes other than
// newline and tab. OCR output for older issues carries stray C0/C1 bytes.
var cleaner = transform.Chain(
	norm.NFC,
	runes.Remove(runes.Predicate(func(r rune) bool {
		return unicode.IsControl(r) && r != '\n' && r != '\t'
	})),
)

// Normalize cleans one raw transcript: newline normalization, NFC
// composition, control-rune removal, and whitespace collapsing. Page markers
// survive untouched so the PageIndex can be built on the result.
func Normalize(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if out, _, err := transform.String(cleaner, text); err == nil {
		text = out
	}
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = newlineRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// PageIndex maps transcript offsets to the page number most recently
// announced before that offset. It is monotone: for offsets a < b,
// PageAt(a) <= PageAt(b).
type PageIndex struct {
	offsets []int
	pages   []int
}

// BuildPageIndex scans the transcript for page markers. The pattern must
// carry exactly one capture group holding the page number. Zero markers is
// valid; every offset then maps to page 1.
func BuildPageIndex(text string, pattern *regexp.Regexp) *PageIndex {
	idx := &PageIndex{}
	for _, m := range pattern.FindAllStringSubmatchIndex(text, -1) {
		if len(m) < 4 || m[2] < 0 {
			continue
		}
		n, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		idx.offsets = append(idx.offsets, m[0])
		idx.pages = append(idx.pages, n)
	}
	return idx
}

// PageAt returns the page announced at or before offset, or 1 when no marker
// precedes it.
func (p *PageIndex) PageAt(offset int) int {
	i := sort.SearchInts(p.offsets, offset+1) - 1
	if i < 0 {
		return 1
	}
	return p.pages[i]
}

// Markers returns the number of page markers found in the transcript.
func (p *PageIndex) Markers() int {
	return len(p.offsets)
}

// JournalDate extracts the issue date announced in the transcript head
// («Correspondant au 15 janvier 2024»). Only the first few thousand runes
// are searched; the empty string means the head carries no date.
func JournalDate(text string, pattern *regexp.Regexp) string {
	head := text
	if len(head) > 5000 {
		head = head[:5000]
		// do not cut a rune in half
		for len(head) > 0 {
			if r, size := utf8.DecodeLastRuneInString(head); r == utf8.RuneError && size == 1 {
				head = head[:len(head)-1]
				continue
			}
			break
		}
	}
	m := pattern.FindStringSubmatch(head)
	if len(m) < 2 {
		return ""
	}
	return strings.Join(strings.Fields(m[1]), " ")
}

package segmenter

import (
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/llm-gazette-parser/models"
)

// extractArticles splits operative text into its numbered articles. Headers
// are matched with their enumeration punctuation and retained so the number
// can be normalized from them. Content runs to the next header or to end of
// text, then is truncated at the first signature/footer marker — a stray
// trigger phrase in the content signals a mis-detected embedded instrument
// and truncates the same way. Articles are returned in appearance order;
// duplicate or irregular numbering is preserved, not corrected.
//
// Zero matches returns an empty list; the caller is responsible for emitting
// the operative text as a single whole-text unit in that case.
func extractArticles(operative string, r *Rules) ([]models.Article, int) {
	matches := r.articleRe.FindAllStringSubmatchIndex(operative, -1)
	if len(matches) == 0 {
		return nil, 0
	}

	var articles []models.Article
	dropped := 0

	for i, m := range matches {
		contentEnd := len(operative)
		if i+1 < len(matches) {
			contentEnd = matches[i+1][0]
		}

		header := strings.TrimRight(operative[m[0]:m[1]], " .—–-\t\n")
		content := trimSignature(operative[m[1]:contentEnd], r)
		content = strings.TrimSpace(content)
		content = strings.TrimRight(content, " .—–-")

		if utf8.RuneCountInString(content) < r.minArticleLength {
			dropped++
			continue
		}

		articles = append(articles, models.Article{
			Number:  normalizeNumber(submatch(operative, m, 1)),
			Header:  header,
			Content: content,
		})
	}

	return articles, dropped
}

// trimSignature cuts content at the earliest signature/footer marker.
func trimSignature(content string, r *Rules) string {
	cut := len(content)
	for _, marker := range r.signatureMarkers {
		if idx := strings.Index(content, marker); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return content[:cut]
}

// normalizeNumber maps the captured article number to its plain form:
// the ordinal suffix «er» is dropped («1er» -> «1»).
func normalizeNumber(n string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(n)), "er")
}

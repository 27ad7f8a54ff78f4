// Package segmenter recovers the logical structure of a gazette transcript:
// the sequence of legal instruments it contains, each instrument's citation
// preamble versus its operative text, and the operative text's numbered
// articles. The pipeline is positional and heuristic; it partitions the
// transcript conservatively so no content is silently dropped.
package segmenter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dtnitsch/llm-gazette-parser/models"
)

// keywordRule is one compiled instrument-keyword pattern. The backward
// pattern anchors on the bare keyword (plus optional qualifier and a
// number-or-date clause); the forward pattern is the stricter variant used
// for separator-less issues.
type keywordRule struct {
	typ      models.InstrumentType
	backward *regexp.Regexp
	forward  *regexp.Regexp
}

// Rules holds every compiled pattern and threshold of one segmentation
// configuration. A Rules value is immutable and safe for concurrent use; no
// module-level state exists.
type Rules struct {
	separator *regexp.Regexp
	keywords  []keywordRule
	articleRe *regexp.Regexp
	triggers  []*regexp.Regexp

	citationMarkers  []string
	signatureMarkers []string
	titleStopMarkers []string

	lookbackWindow   int
	citationWindow   int
	minBodyLength    int
	minArticleLength int

	includeTypes map[models.InstrumentType]bool
}

// articlePattern requires enumeration punctuation after the number so that
// incidental in-sentence references («de l'article 26») never split.
const articlePattern = `(?i)(?:Article|Art\.?)\s+(1er|\d+(?:er)?)\.?\s*[.—–-]`

// CompileRules compiles a segmenter configuration into immutable matching
// rules. Every pattern in the config is validated here, so a malformed
// config fails the run before any file is touched.
func CompileRules(cfg models.SegmenterConfig) (*Rules, error) {
	sep, err := regexp.Compile(cfg.SeparatorPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid separator pattern: %w", err)
	}

	r := &Rules{
		separator:        sep,
		articleRe:        regexp.MustCompile(articlePattern),
		citationMarkers:  lowerAll(cfg.CitationMarkers),
		signatureMarkers: cfg.SignatureMarkers,
		titleStopMarkers: cfg.TitleStopMarkers,
		lookbackWindow:   cfg.LookbackWindow,
		citationWindow:   cfg.CitationWindow,
		minBodyLength:    cfg.MinBodyLength,
		minArticleLength: cfg.MinArticleLength,
	}

	for _, kw := range cfg.Keywords {
		rule, err := compileKeyword(kw)
		if err != nil {
			return nil, err
		}
		r.keywords = append(r.keywords, rule)
	}
	if len(r.keywords) == 0 {
		return nil, fmt.Errorf("no instrument keywords configured")
	}

	for _, verb := range cfg.TriggerPhrases {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(verb) + `\s*:`)
		if err != nil {
			return nil, fmt.Errorf("invalid trigger phrase %q: %w", verb, err)
		}
		r.triggers = append(r.triggers, re)
	}

	if len(cfg.IncludeTypes) > 0 {
		r.includeTypes = make(map[models.InstrumentType]bool, len(cfg.IncludeTypes))
		for _, t := range cfg.IncludeTypes {
			r.includeTypes[t] = true
		}
	}

	return r, nil
}

func compileKeyword(kw models.KeywordRule) (keywordRule, error) {
	// RE2 has no lookbehind, so a leading non-letter alternation keeps
	// word-internal matches («l'emploi du» read as «loi du») from anchoring.
	// Group 1 is the keyword itself, group 2 the qualifier.
	base := `(?i)(?:^|[^\p{L}\p{N}])(` + regexp.QuoteMeta(kw.Keyword) + `)`
	if len(kw.Qualifiers) > 0 {
		quoted := make([]string, len(kw.Qualifiers))
		for i, q := range kw.Qualifiers {
			quoted[i] = regexp.QuoteMeta(q)
		}
		base += `(?:\s+(` + strings.Join(quoted, "|") + `))?`
	} else {
		base += `()`
	}

	// «Décret n° 24-10 …», «Arrêté du 12 janvier …». The clause keeps bare
	// keyword mentions in running prose from anchoring.
	backward, err := regexp.Compile(base + `\s+(?:n\s*[°º]|du\s)`)
	if err != nil {
		return keywordRule{}, fmt.Errorf("invalid keyword %q: %w", kw.Keyword, err)
	}
	forward, err := regexp.Compile(base + `\s*(?:n\s*[°º]\s*[\d/.\-]+)?\s*\bdu\s+`)
	if err != nil {
		return keywordRule{}, fmt.Errorf("invalid keyword %q: %w", kw.Keyword, err)
	}

	return keywordRule{typ: kw.Type, backward: backward, forward: forward}, nil
}

// emits reports whether instruments of type t are included in output.
// Boundary computation always uses all anchors regardless of this filter.
func (r *Rules) emits(t models.InstrumentType) bool {
	return r.includeTypes == nil || r.includeTypes[t]
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

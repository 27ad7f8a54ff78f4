package segmenter

import (
	"github.com/dtnitsch/llm-gazette-parser/models"
)

// Segmenter applies the five segmentation stages — anchor detection,
// citation filtering, body slicing, preamble/operative splitting, article
// extraction — strictly in order to one transcript at a time. It is a pure
// transformation: no shared mutable state, safe to run from one worker per
// file.
type Segmenter struct {
	rules *Rules
}

// Stats counts the conservative drops of one run over one transcript. None
// of these are errors; they are surfaced in per-file summaries so noisy
// extractions get flagged for review instead of failing the batch.
type Stats struct {
	SeparatorsSkipped int `json:"separators_skipped" yaml:"separators_skipped"`
	CitationsFiltered int `json:"citations_filtered" yaml:"citations_filtered"`
	BodiesDropped     int `json:"bodies_dropped" yaml:"bodies_dropped"`
	ArticlesDropped   int `json:"articles_dropped" yaml:"articles_dropped"`
}

// Result is the outcome of segmenting one transcript.
type Result struct {
	Instruments []models.Instrument
	Stats       Stats
}

// New compiles the configured rule sets into a Segmenter.
func New(cfg models.SegmenterConfig) (*Segmenter, error) {
	rules, err := CompileRules(cfg)
	if err != nil {
		return nil, err
	}
	return &Segmenter{rules: rules}, nil
}

// Segment parses one normalized transcript. pageAt resolves a transcript
// offset to its page number (normalizer.PageIndex.PageAt); it may be nil
// when no page attribution is wanted.
//
// Zero instruments is a valid result, not an error: the caller decides
// whether to flag the file. Re-running Segment on the same transcript yields
// an identical result.
func (s *Segmenter) Segment(text string, pageAt func(int) int) *Result {
	if pageAt == nil {
		pageAt = func(int) int { return 1 }
	}

	res := &Result{}

	anchors, skipped := detectAnchors(text, s.rules)
	res.Stats.SeparatorsSkipped = skipped

	anchors, filtered := filterCitations(text, anchors, s.rules)
	res.Stats.CitationsFiltered = filtered

	instruments, droppedBodies := slice(text, anchors, pageAt, s.rules)
	res.Stats.BodiesDropped = droppedBodies

	for i := range instruments {
		inst := &instruments[i]
		body := text[inst.BodyStart:inst.BodyEnd]
		inst.PreambleText, inst.OperativeText = splitBody(body, s.rules)

		articles, dropped := extractArticles(inst.OperativeText, s.rules)
		inst.Articles = articles
		res.Stats.ArticlesDropped += dropped
	}

	res.Instruments = instruments
	return res
}

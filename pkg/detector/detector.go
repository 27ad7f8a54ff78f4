// Package detector annotates chunks with the language they are written in.
// Official gazettes mix French instrument text with Arabic passages and the
// occasional English annex, so each chunk carries its own language tag.
package detector

import (
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Detector wraps a lingua language detector restricted to a candidate set.
// Restricting candidates keeps detection fast and avoids spurious matches
// on short legal boilerplate.
type Detector struct {
	inner lingua.LanguageDetector
	langs []lingua.Language
}

var languagesByName = map[string]lingua.Language{
	"french":  lingua.French,
	"arabic":  lingua.Arabic,
	"english": lingua.English,
	"spanish": lingua.Spanish,
	"german":  lingua.German,
	"italian": lingua.Italian,
}

// New builds a detector over the named candidate languages. Names are
// case-insensitive English language names ("french", "arabic", ...).
func New(candidates []string) (*Detector, error) {
	if len(candidates) < 2 {
		return nil, fmt.Errorf("need at least 2 candidate languages, got %d", len(candidates))
	}
	langs := make([]lingua.Language, 0, len(candidates))
	for _, name := range candidates {
		lang, ok := languagesByName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown candidate language: %q", name)
		}
		langs = append(langs, lang)
	}
	inner := lingua.NewLanguageDetectorBuilder().
		FromLanguages(langs...).
		Build()
	return &Detector{inner: inner, langs: langs}, nil
}

// Detect returns the ISO 639-1 code of the most likely language and a
// confidence in [0,1]. Empty or undecidable text returns ("", 0).
func (d *Detector) Detect(text string) (string, float64) {
	lang, ok := d.inner.DetectLanguageOf(text)
	if !ok {
		return "", 0
	}
	confidence := d.inner.ComputeLanguageConfidence(text, lang)
	return strings.ToLower(lang.IsoCode639_1().String()), confidence
}

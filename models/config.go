// Package models defines data structures for configuration and segmentation.
package models

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KeywordRule describes one instrument-type keyword the anchor detector
// recognizes, with its optional sub-type qualifiers.
type KeywordRule struct {
	Keyword    string         `yaml:"keyword"`
	Type       InstrumentType `yaml:"type"`
	Qualifiers []string       `yaml:"qualifiers,omitempty"`
}

// SegmenterConfig holds every heuristic knob of the segmentation pipeline.
// All rule sets are configurable so new instrument types or languages can be
// added without code changes.
type SegmenterConfig struct {
	// SeparatorPattern matches the visual rule terminating a title block.
	SeparatorPattern string `yaml:"separator_pattern"`
	// LookbackWindow is how many runes before a separator are searched for
	// the title keyword.
	LookbackWindow int `yaml:"lookback_window"`
	// CitationWindow is how many runes before an anchor are inspected for
	// citation markers.
	CitationWindow int `yaml:"citation_window"`
	// MinBodyLength drops instruments whose body is extraction noise.
	MinBodyLength int `yaml:"min_body_length"`
	// MinArticleLength drops articles whose trimmed content is extraction noise.
	MinArticleLength int `yaml:"min_article_length"`

	Keywords []KeywordRule `yaml:"keywords"`

	// CitationMarkers are compared (lowercased, in order) against the window
	// preceding an anchor; any hit discards the anchor. OCR quote variants
	// (smart quotes) must be listed as separate entries. Whitespace variants
	// need no entries: normalization collapses space runs before matching.
	CitationMarkers []string `yaml:"citation_markers"`

	// TriggerPhrases are the verbs ("décrète", "arrêtent", ...) whose first
	// occurrence splits preamble from operative text. Both singular and
	// plural forms belong here; joint ministerial orders use the plural.
	TriggerPhrases []string `yaml:"trigger_phrases"`

	// SignatureMarkers truncate article content at the signature block.
	SignatureMarkers []string `yaml:"signature_markers"`

	// TitleStopMarkers end the cleaned title when the lookback capture ran
	// into preamble text ("Vu ...", "Le Président ...").
	TitleStopMarkers []string `yaml:"title_stop_markers"`

	// IncludeTypes restricts output to the listed instrument types.
	// Empty means all types.
	IncludeTypes []InstrumentType `yaml:"include_types,omitempty"`
}

// LanguageConfig configures the per-file language annotation.
type LanguageConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Candidates []string `yaml:"candidates"`
}

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Workers   int    `yaml:"workers"`
	OutputDir string `yaml:"output_dir"`

	// PageMarkerPattern must contain exactly one capture group for the page
	// number. Markers may appear anywhere in the transcript, not just at
	// structural boundaries.
	PageMarkerPattern string `yaml:"page_marker_pattern"`

	// JournalDatePattern extracts the issue date from the transcript head.
	JournalDatePattern string `yaml:"journal_date_pattern"`

	// PreambleExcerptLength bounds the preamble excerpt included in each
	// chunk's denormalized full context.
	PreambleExcerptLength int `yaml:"preamble_excerpt_length"`

	Segmenter SegmenterConfig `yaml:"segmenter"`
	Language  LanguageConfig  `yaml:"language"`
}

// LoadConfig reads a config from path. A missing file yields the defaults;
// a present file has defaults applied to any omitted field.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// DefaultConfig returns the rule sets used by the Journal Officiel corpus.
func DefaultConfig() *Config {
	return &Config{
		Workers:               4,
		OutputDir:             "data/json",
		PageMarkerPattern:     `==== PAGE (\d+) ====`,
		JournalDatePattern:    `(?i)Correspondant\s+au\s+(\d{1,2}\s+\S+\s+\d{4})`,
		PreambleExcerptLength: 300,
		Segmenter: SegmenterConfig{
			SeparatorPattern: `[—–―_-]{3,}`,
			LookbackWindow:   2000,
			CitationWindow:   50,
			MinBodyLength:    50,
			MinArticleLength: 20,
			Keywords: []KeywordRule{
				{Keyword: "Décret", Type: TypeDecree, Qualifiers: []string{"présidentiel", "exécutif", "législatif"}},
				{Keyword: "Arrêté", Type: TypeOrder, Qualifiers: []string{"interministériel", "ministériel"}},
				{Keyword: "Décision", Type: TypeDecision},
				{Keyword: "Ordonnance", Type: TypeOrdinance},
				{Keyword: "Loi", Type: TypeLaw},
			},
			CitationMarkers: []string{
				"vu le", "vu la", "vu l'", "vu l’",
				"modifiant le", "modifiant l'", "modifiant l’",
				"complétant le", "complétant l'", "complétant l’",
			},
			TriggerPhrases: []string{
				"décrète", "décrètent",
				"arrête", "arrêtent",
				"décide", "décident",
			},
			SignatureMarkers: []string{
				"Fait à Alger",
				"Fait à ",
				"Le Président de la République",
				"Le Premier ministre",
				"Abdelmadjid TEBBOUNE",
				"Mohamed Ennadir LARBAOUI",
				"Décrète :",
				"Décrètent :",
				"Arrête :",
				"Arrêtent :",
			},
			TitleStopMarkers: []string{
				"Vu ", "Le Président", "Le Premier", "Sur le rapport",
			},
		},
		Language: LanguageConfig{
			Enabled:    true,
			Candidates: []string{"french", "arabic", "english"},
		},
	}
}

func applyConfigDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = def.OutputDir
	}
	if cfg.PageMarkerPattern == "" {
		cfg.PageMarkerPattern = def.PageMarkerPattern
	}
	if cfg.JournalDatePattern == "" {
		cfg.JournalDatePattern = def.JournalDatePattern
	}
	if cfg.PreambleExcerptLength <= 0 {
		cfg.PreambleExcerptLength = def.PreambleExcerptLength
	}
	s, ds := &cfg.Segmenter, def.Segmenter
	if s.SeparatorPattern == "" {
		s.SeparatorPattern = ds.SeparatorPattern
	}
	if s.LookbackWindow <= 0 {
		s.LookbackWindow = ds.LookbackWindow
	}
	if s.CitationWindow <= 0 {
		s.CitationWindow = ds.CitationWindow
	}
	if s.MinBodyLength <= 0 {
		s.MinBodyLength = ds.MinBodyLength
	}
	if s.MinArticleLength <= 0 {
		s.MinArticleLength = ds.MinArticleLength
	}
	if len(s.Keywords) == 0 {
		s.Keywords = ds.Keywords
	}
	if len(s.CitationMarkers) == 0 {
		s.CitationMarkers = ds.CitationMarkers
	}
	if len(s.TriggerPhrases) == 0 {
		s.TriggerPhrases = ds.TriggerPhrases
	}
	if len(s.SignatureMarkers) == 0 {
		s.SignatureMarkers = ds.SignatureMarkers
	}
	if len(s.TitleStopMarkers) == 0 {
		s.TitleStopMarkers = ds.TitleStopMarkers
	}
	if len(cfg.Language.Candidates) == 0 {
		cfg.Language.Candidates = def.Language.Candidates
	}
}

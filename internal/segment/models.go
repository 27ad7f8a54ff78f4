package segment

import (
	"github.com/dtnitsch/llm-gazette-parser/pkg/segmenter"
)

type Job struct {
	Path string
}

// Result holds the outcome of a processed transcript.
type Result struct {
	Path               string
	Name               string
	OutputPath         string
	Error              error
	ErrorType          string
	Flagged            bool
	JournalDate        string
	Language           string
	LanguageConfidence float64
	Instruments        int
	Articles           int
	Chunks             int
	WholeTextChunks    int
	FileSizeBytes      int64
	WordCounts         map[string]int
	SegStats           segmenter.Stats
}

// ResultSummary is the structured output for a single transcript.
type ResultSummary struct {
	File               string  `json:"file" yaml:"file"`
	OutputPath         string  `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Status             string  `json:"status" yaml:"status"`
	Error              string  `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorType          string  `json:"error_type,omitempty" yaml:"error_type,omitempty"`
	Flagged            bool    `json:"flagged,omitempty" yaml:"flagged,omitempty"`
	JournalDate        string  `json:"journal_date,omitempty" yaml:"journal_date,omitempty"`
	Language           string  `json:"language,omitempty" yaml:"language,omitempty"`
	LanguageConfidence float64 `json:"language_confidence,omitempty" yaml:"language_confidence,omitempty"`
	Instruments        int     `json:"instruments" yaml:"instruments"`
	Articles           int     `json:"articles" yaml:"articles"`
	Chunks             int     `json:"chunks" yaml:"chunks"`
	WholeTextChunks    int     `json:"whole_text_chunks,omitempty" yaml:"whole_text_chunks,omitempty"`
	FileSizeBytes      int64   `json:"file_size_bytes,omitempty" yaml:"file_size_bytes,omitempty"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	TotalFiles        int      `json:"total_files" yaml:"total_files"`
	Successful        int      `json:"successful" yaml:"successful"`
	Failed            int      `json:"failed" yaml:"failed"`
	Flagged           int      `json:"flagged" yaml:"flagged"`
	Instruments       int      `json:"instruments" yaml:"instruments"`
	Articles          int      `json:"articles" yaml:"articles"`
	Chunks            int      `json:"chunks" yaml:"chunks"`
	SeparatorsSkipped int      `json:"separators_skipped,omitempty" yaml:"separators_skipped,omitempty"`
	CitationsFiltered int      `json:"citations_filtered,omitempty" yaml:"citations_filtered,omitempty"`
	BodiesDropped     int      `json:"bodies_dropped,omitempty" yaml:"bodies_dropped,omitempty"`
	ArticlesDropped   int      `json:"articles_dropped,omitempty" yaml:"articles_dropped,omitempty"`
	TotalTimeSeconds  float64  `json:"total_time_seconds" yaml:"total_time_seconds"`
	TopKeywords       []string `json:"top_keywords,omitempty" yaml:"top_keywords,omitempty"`
}

// FinalOutput is the structured output for the entire run.
type FinalOutput struct {
	Status  string          `json:"status" yaml:"status"`
	RunID   int64           `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Results []ResultSummary `json:"results" yaml:"results"`
	Stats   Stats           `json:"stats" yaml:"stats"`
}

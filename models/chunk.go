package models

// WholeTextHeader is the sentinel article header for instruments with no
// recognized article structure: the whole operative (or body) text is emitted
// as a single chunk instead of being dropped.
const WholeTextHeader = "TEXTE INTEGRAL"

// Chunk is one emitted output record, destined for downstream indexing.
// One chunk per article, or one whole-text chunk when no articles were found.
type Chunk struct {
	SourceFile        string         `json:"source_file"`
	JournalDate       string         `json:"journal_date,omitempty"`
	DocumentType      InstrumentType `json:"document_type"`
	DocumentQualifier string         `json:"document_qualifier,omitempty"`
	DocumentTitle     string         `json:"document_title"`
	PageNumber        int            `json:"page_number"`
	ArticleHeader     string         `json:"article_header"`
	ArticleNumber     string         `json:"article_number,omitempty"`
	ArticleContent    string         `json:"article_content"`

	// FullContext is the denormalized string (title + preamble excerpt +
	// article content) intended for downstream embedding.
	FullContext string `json:"full_context"`

	Language           string  `json:"language,omitempty"`
	LanguageConfidence float64 `json:"language_confidence,omitempty"`
}

// IsWholeText reports whether this chunk carries an instrument that yielded
// no recognized articles.
func (c *Chunk) IsWholeText() bool {
	return c.ArticleHeader == WholeTextHeader
}

// Package emitter converts parsed instruments into the ordered chunk
// sequence consumed by downstream indexing, and serializes it as one JSON
// object per line. The in-memory instrument graph is discarded after
// emission; chunks are the only artifact that leaves a run.
package emitter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/llm-gazette-parser/models"
	"github.com/dtnitsch/llm-gazette-parser/pkg/storage"
)

// FileMeta carries the per-file context denormalized onto every chunk.
type FileMeta struct {
	SourceFile  string
	JournalDate string
	// PreambleExcerptLength bounds the preamble excerpt in full_context.
	PreambleExcerptLength int
}

// BuildChunks produces one chunk per article, in transcript order. An
// instrument with zero articles yields exactly one whole-text chunk — its
// operative text when a trigger was found, otherwise its full body — so no
// instrument ever vanishes from the output.
func BuildChunks(instruments []models.Instrument, meta FileMeta) []models.Chunk {
	var chunks []models.Chunk
	for _, inst := range instruments {
		if len(inst.Articles) == 0 {
			chunks = append(chunks, wholeTextChunk(inst, meta))
			continue
		}
		for _, art := range inst.Articles {
			content := flatten(art.Content)
			chunks = append(chunks, models.Chunk{
				SourceFile:        meta.SourceFile,
				JournalDate:       meta.JournalDate,
				DocumentType:      inst.Type,
				DocumentQualifier: inst.Qualifier,
				DocumentTitle:     inst.Title,
				PageNumber:        inst.PageStart,
				ArticleHeader:     art.Header,
				ArticleNumber:     art.Number,
				ArticleContent:    content,
				FullContext:       fullContext(inst, meta, art.Header, content),
			})
		}
	}
	return chunks
}

func wholeTextChunk(inst models.Instrument, meta FileMeta) models.Chunk {
	content := flatten(inst.OperativeText)
	if content == "" {
		content = flatten(inst.PreambleText)
	}
	return models.Chunk{
		SourceFile:        meta.SourceFile,
		JournalDate:       meta.JournalDate,
		DocumentType:      inst.Type,
		DocumentQualifier: inst.Qualifier,
		DocumentTitle:     inst.Title,
		PageNumber:        inst.PageStart,
		ArticleHeader:     models.WholeTextHeader,
		ArticleContent:    content,
		FullContext:       fullContext(inst, meta, models.WholeTextHeader, content),
	}
}

// fullContext builds the denormalized embedding string: title, a bounded
// preamble excerpt, then the article header and content.
func fullContext(inst models.Instrument, meta FileMeta, header, content string) string {
	var sb strings.Builder
	sb.WriteString(inst.Title)
	if excerpt := truncateRunes(flatten(inst.PreambleText), meta.PreambleExcerptLength); excerpt != "" {
		sb.WriteString("\n\n")
		sb.WriteString(excerpt)
	}
	sb.WriteString("\n\n")
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(content)
	return sb.String()
}

// WriteJSONL serializes chunks as JSONL and writes the artifact in a single
// operation. It returns the number of bytes written.
func WriteJSONL(path string, chunks []models.Chunk, s *storage.Storage) (int64, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for i := range chunks {
		if err := enc.Encode(&chunks[i]); err != nil {
			return 0, fmt.Errorf("failed to encode chunk %d: %w", i, err)
		}
	}
	if err := s.SaveFile(path, buf.Bytes()); err != nil {
		return 0, err
	}
	return int64(buf.Len()), nil
}

// flatten collapses all whitespace runs to single spaces. Downstream
// embedding has no use for the gazette's column layout.
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "…"
}

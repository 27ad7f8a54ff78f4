package emitter

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/llm-gazette-parser/models"
	"github.com/dtnitsch/llm-gazette-parser/pkg/storage"
)

func testMeta() FileMeta {
	return FileMeta{
		SourceFile:            "F2024010.txt",
		JournalDate:           "2 février 2024",
		PreambleExcerptLength: 300,
	}
}

func TestBuildChunks_OneChunkPerArticle(t *testing.T) {
	instruments := []models.Instrument{{
		Type:         models.TypeDecree,
		Qualifier:    "exécutif",
		Title:        "Décret exécutif n° 24-102 du 5 mars 2024 portant création d'un institut.",
		PageStart:    3,
		PreambleText: "Le Premier ministre,\nVu la Constitution ;",
		Articles: []models.Article{
			{Number: "1", Header: "Article 1er", Content: "Il est créé   un institut\nnational"},
			{Number: "2", Header: "Art. 2", Content: "Le présent décret sera publié"},
		},
	}}

	chunks := BuildChunks(instruments, testMeta())

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}

	first := chunks[0]
	if first.SourceFile != "F2024010.txt" {
		t.Errorf("SourceFile = %q", first.SourceFile)
	}
	if first.JournalDate != "2 février 2024" {
		t.Errorf("JournalDate = %q", first.JournalDate)
	}
	if first.DocumentType != models.TypeDecree || first.DocumentQualifier != "exécutif" {
		t.Errorf("type/qualifier = %q/%q", first.DocumentType, first.DocumentQualifier)
	}
	if first.PageNumber != 3 {
		t.Errorf("PageNumber = %d, want 3", first.PageNumber)
	}
	if first.ArticleNumber != "1" {
		t.Errorf("ArticleNumber = %q, want 1", first.ArticleNumber)
	}
	if first.ArticleContent != "Il est créé un institut national" {
		t.Errorf("ArticleContent = %q, want whitespace flattened", first.ArticleContent)
	}
	if first.IsWholeText() {
		t.Error("article chunk reported as whole-text")
	}

	for _, c := range chunks {
		if !strings.Contains(c.FullContext, "24-102") {
			t.Errorf("FullContext missing title: %q", c.FullContext)
		}
		if !strings.Contains(c.FullContext, c.ArticleContent) {
			t.Errorf("FullContext missing article content: %q", c.FullContext)
		}
	}
}

func TestBuildChunks_WholeTextFallback(t *testing.T) {
	tests := []struct {
		name        string
		inst        models.Instrument
		wantContent string
	}{
		{
			name: "operative without articles",
			inst: models.Instrument{
				Type:          models.TypeDecision,
				Title:         "Décision du 20 avril 2024 portant désignation.",
				PreambleText:  "Le ministre,",
				OperativeText: "Sont désignés les membres suivants",
			},
			wantContent: "Sont désignés les membres suivants",
		},
		{
			name: "preamble only",
			inst: models.Instrument{
				Type:         models.TypeDecision,
				Title:        "Décision du 20 avril 2024 portant désignation.",
				PreambleText: "Sont désignés membres de la commission les personnes suivantes",
			},
			wantContent: "Sont désignés membres de la commission les personnes suivantes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := BuildChunks([]models.Instrument{tt.inst}, testMeta())
			if len(chunks) != 1 {
				t.Fatalf("got %d chunks, want exactly 1 whole-text chunk", len(chunks))
			}
			c := chunks[0]
			if !c.IsWholeText() {
				t.Errorf("ArticleHeader = %q, want %q", c.ArticleHeader, models.WholeTextHeader)
			}
			if c.ArticleContent != tt.wantContent {
				t.Errorf("ArticleContent = %q, want %q", c.ArticleContent, tt.wantContent)
			}
			if c.ArticleNumber != "" {
				t.Errorf("ArticleNumber = %q, want empty", c.ArticleNumber)
			}
		})
	}
}

func TestBuildChunks_PreambleExcerptBounded(t *testing.T) {
	meta := testMeta()
	meta.PreambleExcerptLength = 10

	instruments := []models.Instrument{{
		Type:         models.TypeDecree,
		Title:        "Titre",
		PreambleText: "un préambule nettement plus long que la limite configurée",
		Articles:     []models.Article{{Number: "1", Header: "Article 1er", Content: "contenu"}},
	}}

	chunks := BuildChunks(instruments, meta)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if strings.Contains(chunks[0].FullContext, "configurée") {
		t.Errorf("FullContext = %q, want preamble truncated", chunks[0].FullContext)
	}
	if !strings.Contains(chunks[0].FullContext, "…") {
		t.Errorf("FullContext = %q, want ellipsis after truncation", chunks[0].FullContext)
	}
}

func TestBuildChunks_Empty(t *testing.T) {
	if chunks := BuildChunks(nil, testMeta()); len(chunks) != 0 {
		t.Errorf("got %d chunks from no instruments, want 0", len(chunks))
	}
}

func TestWriteJSONL(t *testing.T) {
	chunks := []models.Chunk{
		{SourceFile: "a.txt", DocumentType: models.TypeDecree, DocumentTitle: "Décret n° 1", ArticleHeader: "Article 1er", ArticleContent: "premier"},
		{SourceFile: "a.txt", DocumentType: models.TypeDecree, DocumentTitle: "Décret n° 1", ArticleHeader: "Art. 2", ArticleContent: "second"},
	}

	path := filepath.Join(t.TempDir(), "a.jsonl")
	size, err := WriteJSONL(path, chunks, &storage.Storage{})
	if err != nil {
		t.Fatalf("WriteJSONL() error = %v", err)
	}
	if size <= 0 {
		t.Errorf("size = %d, want > 0", size)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	var got []models.Chunk
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var c models.Chunk
		if err := json.Unmarshal(scanner.Bytes(), &c); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		got = append(got, c)
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if got[0].ArticleContent != "premier" || got[1].ArticleContent != "second" {
		t.Errorf("chunk order not preserved: %+v", got)
	}
}

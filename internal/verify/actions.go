// Package verify cross-checks emitted chunk files against their source
// transcripts. It re-runs segmentation on each transcript and compares the
// recount with what the chunk file actually contains, so silent drift
// between a rule-set change and previously emitted corpora is caught.
package verify

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/dtnitsch/llm-gazette-parser/models"
	"github.com/dtnitsch/llm-gazette-parser/pkg/normalizer"
	"github.com/dtnitsch/llm-gazette-parser/pkg/segmenter"
	"github.com/dtnitsch/llm-gazette-parser/pkg/storage"
	"github.com/urfave/cli/v2"
)

type fileReport struct {
	Name            string
	ExpectedChunks  int
	EmittedChunks   int
	Instruments     int
	Articles        int
	WholeTextChunks int
	Err             error
}

func VerifyAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	if c.IsSet("output-dir") {
		cfg.OutputDir = c.String("output-dir")
	}

	seg, err := segmenter.New(cfg.Segmenter)
	if err != nil {
		logger.Error("invalid segmenter configuration", "error", err)
		os.Exit(2)
	}

	pageRe, err := regexp.Compile(cfg.PageMarkerPattern)
	if err != nil {
		logger.Error("invalid page marker pattern", "error", err)
		os.Exit(2)
	}

	inputs, err := gatherInputs(c)
	if err != nil {
		logger.Error("failed to gather input transcripts", "error", err)
		os.Exit(2)
	}
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No transcripts provided")
		fmt.Fprintln(os.Stderr, "Usage: lgp verify --input-dir ./transcripts --output-dir ./chunks")
		os.Exit(1)
	}

	s := &storage.Storage{}
	var reports []fileReport
	mismatches := 0
	for _, path := range inputs {
		report := verifyOne(cfg, seg, pageRe, s, path)
		if report.Err != nil || report.ExpectedChunks != report.EmittedChunks {
			mismatches++
		}
		reports = append(reports, report)
	}

	fmt.Printf("%-24s %-12s %-10s %-10s %-10s %-10s\n",
		"File", "Instruments", "Articles", "Whole", "Expected", "Emitted")
	fmt.Println(strings.Repeat("-", 80))
	for _, r := range reports {
		if r.Err != nil {
			fmt.Printf("%-24s ERROR: %s\n", r.Name, r.Err)
			continue
		}
		status := ""
		if r.ExpectedChunks != r.EmittedChunks {
			status = "  MISMATCH"
		}
		fmt.Printf("%-24s %-12d %-10d %-10d %-10d %-10d%s\n",
			r.Name, r.Instruments, r.Articles, r.WholeTextChunks,
			r.ExpectedChunks, r.EmittedChunks, status)
	}
	fmt.Printf("\nVerified %d files, %d mismatched\n", len(reports), mismatches)

	if mismatches > 0 {
		os.Exit(1)
	}
	return nil
}

// verifyOne recounts one transcript and compares against its chunk file.
func verifyOne(cfg *models.Config, seg *segmenter.Segmenter, pageRe *regexp.Regexp, s *storage.Storage, path string) fileReport {
	report := fileReport{Name: filepath.Base(path)}

	raw, err := s.ReadFile(path)
	if err != nil {
		report.Err = err
		return report
	}
	text := normalizer.Normalize(string(raw))
	pages := normalizer.BuildPageIndex(text, pageRe)

	result := seg.Segment(text, pages.PageAt)
	report.Instruments = len(result.Instruments)
	for _, inst := range result.Instruments {
		report.Articles += len(inst.Articles)
		if len(inst.Articles) == 0 {
			// Instruments without articles emit a single whole-text chunk
			report.ExpectedChunks++
		} else {
			report.ExpectedChunks += len(inst.Articles)
		}
	}

	base := strings.TrimSuffix(report.Name, filepath.Ext(report.Name))
	chunkPath := filepath.Join(cfg.OutputDir, base+".jsonl")
	data, err := s.ReadFile(chunkPath)
	if err != nil {
		report.Err = fmt.Errorf("missing chunk file: %w", err)
		return report
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk models.Chunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			report.Err = fmt.Errorf("malformed chunk line: %w", err)
			return report
		}
		report.EmittedChunks++
		if chunk.IsWholeText() {
			report.WholeTextChunks++
		}
	}
	if err := scanner.Err(); err != nil {
		report.Err = err
	}

	return report
}

func gatherInputs(c *cli.Context) ([]string, error) {
	var inputs []string
	if c.IsSet("input-dir") {
		matches, err := filepath.Glob(filepath.Join(c.String("input-dir"), "*.txt"))
		if err != nil {
			return nil, fmt.Errorf("failed to glob %s: %w", c.String("input-dir"), err)
		}
		inputs = append(inputs, matches...)
	}
	inputs = append(inputs, c.Args().Slice()...)

	seen := make(map[string]struct{}, len(inputs))
	deduped := inputs[:0]
	for _, p := range inputs {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		deduped = append(deduped, p)
	}
	sort.Strings(deduped)
	return deduped, nil
}

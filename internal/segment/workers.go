package segment

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/dtnitsch/llm-gazette-parser/models"
	"github.com/dtnitsch/llm-gazette-parser/pkg/analytics"
	"github.com/dtnitsch/llm-gazette-parser/pkg/db"
	"github.com/dtnitsch/llm-gazette-parser/pkg/detector"
	"github.com/dtnitsch/llm-gazette-parser/pkg/emitter"
	"github.com/dtnitsch/llm-gazette-parser/pkg/mapreduce"
	"github.com/dtnitsch/llm-gazette-parser/pkg/normalizer"
	"github.com/dtnitsch/llm-gazette-parser/pkg/segmenter"
	"github.com/dtnitsch/llm-gazette-parser/pkg/storage"
)

// languageSampleRunes bounds the text handed to language detection.
// Whole gazettes run to hundreds of kilobytes and the detector's
// accuracy plateaus long before that.
const languageSampleRunes = 4000

// pipeline bundles the shared read-only machinery handed to every worker.
type pipeline struct {
	cfg       *models.Config
	outputDir string
	seg       *segmenter.Segmenter
	det       *detector.Detector
	pageRe    *regexp.Regexp
	dateRe    *regexp.Regexp
	storage   *storage.Storage
	analytics *analytics.Analytics
}

// newPipeline validates the transcript-level patterns and assembles the
// worker machinery.
func newPipeline(cfg *models.Config, seg *segmenter.Segmenter, det *detector.Detector) (*pipeline, error) {
	pageRe, err := regexp.Compile(cfg.PageMarkerPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid page marker pattern: %w", err)
	}
	dateRe, err := regexp.Compile(cfg.JournalDatePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid journal date pattern: %w", err)
	}
	return &pipeline{
		cfg:       cfg,
		outputDir: cfg.OutputDir,
		seg:       seg,
		det:       det,
		pageRe:    pageRe,
		dateRe:    dateRe,
		storage:   &storage.Storage{},
		analytics: &analytics.Analytics{},
	}, nil
}

func run(logger *slog.Logger, p *pipeline, inputs []string, database *db.DB, runID int64) ([]Result, map[string]int, error) {
	cfg := p.cfg

	logger.Info("Starting concurrent segmentation phase", "file_count", len(inputs), "workers", cfg.Workers)
	var wg sync.WaitGroup
	jobs := make(chan Job, len(inputs))
	results := make(chan Result, len(inputs))

	for w := 1; w <= cfg.Workers; w++ {
		wg.Add(1)
		go worker(w, logger, p, &wg, jobs, results, database, runID)
	}

	for _, path := range inputs {
		jobs <- Job{Path: path}
	}
	close(jobs)

	wg.Wait()
	close(results)
	logger.Info("All segmentation workers finished")

	allResults := make([]Result, 0, len(inputs))
	var runErr error
	for result := range results {
		allResults = append(allResults, result)
		if result.Error != nil {
			runErr = fmt.Errorf("one or more transcripts failed")
		}
	}

	logger.Info("Starting MapReduce phase")
	intermediateResults := []map[string]int{}
	for _, result := range allResults {
		if result.WordCounts != nil {
			intermediateResults = append(intermediateResults, result.WordCounts)
		}
	}
	finalWordCounts := mapreduce.Reduce(intermediateResults)

	return allResults, finalWordCounts, runErr
}

func worker(id int, logger *slog.Logger, p *pipeline, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result, database *db.DB, runID int64) {
	defer wg.Done()
	for job := range jobs {
		logger.Info("Worker started job", "worker_id", id, "file", job.Path)
		result := processTranscript(id, logger, p, job.Path)

		if database != nil && runID > 0 {
			if dbErr := database.RecordFile(toRunFile(runID, result)); dbErr != nil {
				logger.Warn("Failed to record file to DB", "file", result.Name, "error", dbErr)
			}
		}

		results <- result
		logger.Info("Worker finished processing", "worker_id", id, "file", job.Path)
	}
}

func processTranscript(id int, logger *slog.Logger, p *pipeline, path string) Result {
	result := Result{Path: path, Name: filepath.Base(path)}

	raw, err := p.storage.ReadFile(path)
	if err != nil {
		logger.Error("Error reading transcript", "worker_id", id, "file", path, "error", err)
		result.Error = err
		result.ErrorType = "read_error"
		return result
	}

	text := normalizer.Normalize(string(raw))
	pages := normalizer.BuildPageIndex(text, p.pageRe)
	result.JournalDate = normalizer.JournalDate(text, p.dateRe)

	segResult := p.seg.Segment(text, pages.PageAt)
	result.Instruments = len(segResult.Instruments)
	result.SegStats = segResult.Stats
	for _, inst := range segResult.Instruments {
		result.Articles += len(inst.Articles)
	}

	// A transcript that yields no instruments still succeeds, but gets
	// flagged for manual review of its rule set.
	if result.Instruments == 0 {
		result.Flagged = true
		logger.Warn("No instruments detected, flagging transcript", "worker_id", id, "file", path)
	}

	chunks := emitter.BuildChunks(segResult.Instruments, emitter.FileMeta{
		SourceFile:            result.Name,
		JournalDate:           result.JournalDate,
		PreambleExcerptLength: p.cfg.PreambleExcerptLength,
	})
	result.Chunks = len(chunks)
	for i := range chunks {
		if chunks[i].IsWholeText() {
			result.WholeTextChunks++
		}
	}

	if p.det != nil {
		result.Language, result.LanguageConfidence = p.det.Detect(truncateSample(text, languageSampleRunes))
		for i := range chunks {
			chunks[i].Language = result.Language
			chunks[i].LanguageConfidence = result.LanguageConfidence
		}
	}

	result.OutputPath = filepath.Join(p.outputDir, outputName(result.Name))
	size, err := emitter.WriteJSONL(result.OutputPath, chunks, p.storage)
	if err != nil {
		logger.Error("Error writing chunk output", "worker_id", id, "file", path, "error", err)
		result.Error = err
		result.ErrorType = "write_error"
		return result
	}
	result.FileSizeBytes = size

	result.WordCounts = mapreduce.Map(text, p.analytics)

	return result
}

func toRunFile(runID int64, r Result) *db.RunFile {
	rf := &db.RunFile{
		RunID:              runID,
		Name:               r.Name,
		Status:             "success",
		JournalDate:        r.JournalDate,
		Instruments:        r.Instruments,
		Articles:           r.Articles,
		Chunks:             r.Chunks,
		WholeTextChunks:    r.WholeTextChunks,
		Flagged:            r.Flagged,
		Language:           r.Language,
		LanguageConfidence: r.LanguageConfidence,
		OutputPath:         r.OutputPath,
	}
	if r.Error != nil {
		rf.Status = "failed"
		rf.ErrorType = r.ErrorType
		rf.ErrorMessage = r.Error.Error()
	}
	return rf
}

func outputName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return base + ".jsonl"
}

func truncateSample(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

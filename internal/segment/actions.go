package segment

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dtnitsch/llm-gazette-parser/models"
	"github.com/dtnitsch/llm-gazette-parser/pkg/db"
	"github.com/dtnitsch/llm-gazette-parser/pkg/detector"
	"github.com/dtnitsch/llm-gazette-parser/pkg/mapreduce"
	"github.com/dtnitsch/llm-gazette-parser/pkg/segmenter"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func SegmentAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("output-dir") {
		cfg.OutputDir = c.String("output-dir")
	}

	inputs, err := gatherInputs(c)
	if err != nil {
		logger.Error("failed to gather input transcripts", "error", err)
		os.Exit(2)
	}
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No transcripts provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  lgp segment --input-dir ./transcripts`)
		fmt.Fprintln(os.Stderr, `  lgp segment F2025068.txt F2025069.txt`)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Need help? Run: lgp segment --help")
		os.Exit(1)
	}

	seg, err := segmenter.New(cfg.Segmenter)
	if err != nil {
		logger.Error("invalid segmenter configuration", "error", err)
		os.Exit(2)
	}

	var det *detector.Detector
	if cfg.Language.Enabled {
		det, err = detector.New(cfg.Language.Candidates)
		if err != nil {
			logger.Error("invalid language configuration", "error", err)
			os.Exit(2)
		}
	}

	pipe, err := newPipeline(cfg, seg, det)
	if err != nil {
		logger.Error("invalid transcript patterns", "error", err)
		os.Exit(2)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		logger.Error("failed to create output directory", "error", err, "dir", cfg.OutputDir)
		os.Exit(2)
	}

	// Open database for run tracking
	database, err := openDatabase(c)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer database.Close()

	runID, err := database.CreateRun(c.String("config"), cfg.OutputDir, len(inputs))
	if err != nil {
		logger.Error("failed to create run", "error", err)
		os.Exit(2)
	}
	logger.Info("Run created", "run_id", runID)

	allResults, finalWordCounts, runErr := run(logger, pipe, inputs, database, runID)

	// Stable output order regardless of worker completion order
	sort.Slice(allResults, func(i, j int) bool {
		return allResults[i].Name < allResults[j].Name
	})

	stats := BuildStats(allResults)
	stats.TotalTimeSeconds = time.Since(startTime).Seconds()
	stats.TopKeywords = mapreduce.TopKeywords(finalWordCounts, 25)

	if err := database.FinishRun(runID,
		stats.Successful, stats.Failed, stats.Flagged,
		stats.Instruments, stats.Articles, stats.Chunks,
		time.Since(startTime), stats.TopKeywords); err != nil {
		logger.Warn("Failed to finish run in DB", "run_id", runID, "error", err)
	}

	finalOutput := &FinalOutput{RunID: runID, Stats: stats}
	for _, r := range allResults {
		finalOutput.Results = append(finalOutput.Results, BuildSummary(r))
	}
	if runErr != nil {
		finalOutput.Status = "partial_failure"
	} else {
		finalOutput.Status = "success"
	}

	var outputData []byte
	var marshalErr error
	if strings.ToLower(c.String("format")) == "json" {
		outputData, marshalErr = json.MarshalIndent(finalOutput, "", "  ")
	} else {
		outputData, marshalErr = yaml.Marshal(finalOutput)
	}
	if marshalErr != nil {
		logger.Error("failed to marshal final output", "error", marshalErr)
		os.Exit(2)
	}
	fmt.Println(string(outputData))

	if stats.Failed == stats.TotalFiles {
		os.Exit(2)
	}
	if stats.Failed > 0 {
		os.Exit(1)
	}

	return nil
}

// gatherInputs collects transcript paths from --input-dir and positional args.
func gatherInputs(c *cli.Context) ([]string, error) {
	var inputs []string

	if c.IsSet("input-dir") {
		dir := c.String("input-dir")
		matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
		if err != nil {
			return nil, fmt.Errorf("failed to glob %s: %w", dir, err)
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

func openDatabase(c *cli.Context) (*db.DB, error) {
	if c.IsSet("db") {
		return db.OpenAt(c.String("db"))
	}
	return db.Open()
}

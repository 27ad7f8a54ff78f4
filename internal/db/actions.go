package db

import (
	"fmt"
	"strconv"
	"strings"

	dbpkg "github.com/dtnitsch/llm-gazette-parser/pkg/db"
	"github.com/urfave/cli/v2"
)

func RunsAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	limit := c.Int("limit")
	runs, err := database.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	// Print table header
	fmt.Printf("%-6s %-20s %-7s %-8s %-7s %-8s %-12s %-9s %-8s\n",
		"ID", "Created", "Files", "Success", "Failed", "Flagged", "Instruments", "Articles", "Chunks")
	fmt.Println(strings.Repeat("-", 95))

	for _, r := range runs {
		fmt.Printf("%-6d %-20s %-7d %-8d %-7d %-8d %-12d %-9d %-8d\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.FileCount,
			r.SuccessCount,
			r.FailedCount,
			r.FlaggedCount,
			r.InstrumentCount,
			r.ArticleCount,
			r.ChunkCount,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'lgp db run <id>' to see details\n")

	return nil
}

// RunAction shows details for a specific run
func RunAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := getRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	files, err := database.GetRunFiles(runID)
	if err != nil {
		return fmt.Errorf("failed to get run files: %w", err)
	}

	// Print run details
	fmt.Printf("Run %d\n", run.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Created:     %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Output Dir:  %s\n", run.OutputDir)
	if run.ConfigPath != "" {
		fmt.Printf("Config:      %s\n", run.ConfigPath)
	}
	fmt.Printf("Files:       %d total (%d success, %d failed, %d flagged)\n",
		run.FileCount, run.SuccessCount, run.FailedCount, run.FlaggedCount)
	fmt.Printf("Extracted:   %d instruments, %d articles, %d chunks\n",
		run.InstrumentCount, run.ArticleCount, run.ChunkCount)
	fmt.Printf("Duration:    %.2fs\n", run.DurationSeconds)

	if len(run.TopKeywords) > 0 {
		fmt.Printf("\nTop keywords:\n")
		for i, kw := range run.TopKeywords {
			if i >= 10 {
				break
			}
			fmt.Printf("  %2d. %s\n", i+1, kw)
		}
	}

	if len(files) > 0 {
		fmt.Printf("\nFiles (%d):\n", len(files))
		fmt.Println(strings.Repeat("-", 60))
		for i, f := range files {
			marker := ""
			if f.Flagged {
				marker = " [flagged]"
			}
			fmt.Printf("%2d. [%s] %s%s\n", i+1, f.Status, f.Name, marker)
			if f.Status == "failed" {
				fmt.Printf("    Error: [%s] %s\n", f.ErrorType, f.ErrorMessage)
				continue
			}
			fmt.Printf("    Instruments: %d | Articles: %d | Chunks: %d (%d whole-text)\n",
				f.Instruments, f.Articles, f.Chunks, f.WholeTextChunks)
			if f.JournalDate != "" {
				fmt.Printf("    Journal date: %s\n", f.JournalDate)
			}
			if f.Language != "" {
				fmt.Printf("    Language: %s (%.2f)\n", f.Language, f.LanguageConfidence)
			}
			if f.OutputPath != "" {
				fmt.Printf("    Output: %s\n", f.OutputPath)
			}
		}
	}

	return nil
}

// getRunIDOrLatest resolves the run ID from args, falling back to the most
// recent run when none is given.
func getRunIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.Args().Len() > 0 {
		runID, err := strconv.ParseInt(c.Args().First(), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid run ID %q: %w", c.Args().First(), err)
		}
		return runID, nil
	}

	runs, err := database.ListRuns(1)
	if err != nil {
		return 0, fmt.Errorf("failed to find latest run: %w", err)
	}
	if len(runs) == 0 {
		return 0, fmt.Errorf("no runs found")
	}
	return runs[0].RunID, nil
}

func openDatabase(c *cli.Context) (*dbpkg.DB, error) {
	if c.IsSet("db") {
		return dbpkg.OpenAt(c.String("db"))
	}
	return dbpkg.Open()
}

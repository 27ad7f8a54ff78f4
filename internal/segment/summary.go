package segment

func BuildSummary(r Result) ResultSummary {
	summary := ResultSummary{
		File:          r.Name,
		OutputPath:    r.OutputPath,
		FileSizeBytes: r.FileSizeBytes,
	}
	if r.Error != nil {
		summary.Status = "failed"
		summary.Error = r.Error.Error()
		summary.ErrorType = r.ErrorType
		return summary
	}

	summary.Status = "success"
	summary.Flagged = r.Flagged
	summary.JournalDate = r.JournalDate
	summary.Language = r.Language
	summary.LanguageConfidence = r.LanguageConfidence
	summary.Instruments = r.Instruments
	summary.Articles = r.Articles
	summary.Chunks = r.Chunks
	summary.WholeTextChunks = r.WholeTextChunks
	return summary
}

// BuildStats aggregates per-transcript results into run statistics.
func BuildStats(results []Result) Stats {
	stats := Stats{TotalFiles: len(results)}
	for _, r := range results {
		if r.Error != nil {
			stats.Failed++
			continue
		}
		stats.Successful++
		if r.Flagged {
			stats.Flagged++
		}
		stats.Instruments += r.Instruments
		stats.Articles += r.Articles
		stats.Chunks += r.Chunks
		stats.SeparatorsSkipped += r.SegStats.SeparatorsSkipped
		stats.CitationsFiltered += r.SegStats.CitationsFiltered
		stats.BodiesDropped += r.SegStats.BodiesDropped
		stats.ArticlesDropped += r.SegStats.ArticlesDropped
	}
	return stats
}

package main

import (
	"fmt"
	"os"

	dbcmd "github.com/dtnitsch/llm-gazette-parser/internal/db"
	"github.com/dtnitsch/llm-gazette-parser/internal/segment"
	"github.com/dtnitsch/llm-gazette-parser/internal/verify"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "lgp",
		Usage: "Turn raw gazette transcripts into LLM-ready chunk corpora",
		Commands: []*cli.Command{
			{
				Name:      "segment",
				Usage:     "Segment transcripts into instruments and article chunks",
				ArgsUsage: "[transcript.txt ...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Value:   "config.yaml",
						Usage:   "Path to the YAML configuration file",
					},
					&cli.StringFlag{
						Name:  "input-dir",
						Usage: "Directory of .txt transcripts to process",
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Usage:   "Directory for emitted .jsonl chunk files",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Number of concurrent workers",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: "yaml",
						Usage: "Run summary format: yaml or json",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to the run-tracking SQLite database",
					},
					&cli.BoolFlag{
						Name:    "quiet",
						Aliases: []string{"q"},
						Usage:   "Suppress progress logging",
					},
				},
				Action: segment.SegmentAction,
			},
			{
				Name:      "verify",
				Usage:     "Recount transcripts and cross-check emitted chunk files",
				ArgsUsage: "[transcript.txt ...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Value:   "config.yaml",
						Usage:   "Path to the YAML configuration file",
					},
					&cli.StringFlag{
						Name:  "input-dir",
						Usage: "Directory of .txt transcripts to verify",
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Usage:   "Directory of emitted .jsonl chunk files",
					},
					&cli.BoolFlag{
						Name:    "quiet",
						Aliases: []string{"q"},
						Usage:   "Suppress progress logging",
					},
				},
				Action: verify.VerifyAction,
			},
			{
				Name:  "db",
				Usage: "Inspect the run-tracking database",
				Subcommands: []*cli.Command{
					{
						Name:  "runs",
						Usage: "List recent segmentation runs",
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Value: 20,
								Usage: "Maximum number of runs to list",
							},
							&cli.StringFlag{
								Name:  "db",
								Usage: "Path to the run-tracking SQLite database",
							},
						},
						Action: dbcmd.RunsAction,
					},
					{
						Name:      "run",
						Usage:     "Show details for a run (latest if no ID given)",
						ArgsUsage: "[run-id]",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "db",
								Usage: "Path to the run-tracking SQLite database",
							},
						},
						Action: dbcmd.RunAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

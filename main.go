package main

import (
	"fmt"
	"os"

	"github.com/mlockett/wp-archiver/internal/dump"
	"github.com/mlockett/wp-archiver/internal/report"
	"github.com/mlockett/wp-archiver/internal/runs"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "wp-archiver",
		Usage: "archive a WordPress site's content through its REST API",
		Commands: []*cli.Command{
			{
				Name:      "dump",
				Usage:     "extract text, media and a JSON manifest from a site",
				ArgsUsage: "<base-url>",
				Action:    dump.Action,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Value: "wp_dump",
						Usage: "output root directory",
					},
					&cli.Float64Flag{
						Name:  "sleep",
						Value: 0.2,
						Usage: "delay between requests, in seconds",
					},
					&cli.BoolFlag{
						Name:  "all-types",
						Usage: "include public custom post types beyond pages and posts",
					},
					&cli.BoolFlag{
						Name:  "skip-media",
						Usage: "skip media downloads",
					},
					&cli.IntFlag{
						Name:  "per-page",
						Value: 100,
						Usage: "collection page size",
					},
					&cli.StringFlag{
						Name:  "rules",
						Usage: "YAML file overriding the blocked-endpoint list",
					},
					&cli.StringFlag{
						Name:    "username",
						Usage:   "WordPress username for HTTP Basic Auth",
						EnvVars: []string{"WP_ARCHIVER_USERNAME"},
					},
					&cli.StringFlag{
						Name:    "password",
						Usage:   "WordPress application password for HTTP Basic Auth",
						EnvVars: []string{"WP_ARCHIVER_PASSWORD"},
					},
				}, verbosityFlags()...),
			},
			{
				Name:      "report",
				Usage:     "write an analytics report for a dumped site directory",
				ArgsUsage: "<site-dir>",
				Action:    report.Action,
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "no-language",
						Usage: "skip per-item language detection",
					},
				}, verbosityFlags()...),
			},
			{
				Name:   "runs",
				Usage:  "list recorded extraction runs",
				Action: runs.Action,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Value: "wp_dump",
						Usage: "output root directory holding the run history",
					},
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "maximum number of runs to list",
					},
				}, verbosityFlags()...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func verbosityFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "log every skipped route, record and media file",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "log errors only",
		},
	}
}

// Package dump implements the `dump` command: one full extraction run
// against a WordPress site.
package dump

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mlockett/wp-archiver/internal/common"
	"github.com/mlockett/wp-archiver/models"
	"github.com/mlockett/wp-archiver/pkg/db"
	"github.com/mlockett/wp-archiver/pkg/pager"
	"github.com/mlockett/wp-archiver/pkg/pipeline"
	"github.com/mlockett/wp-archiver/pkg/storage"
	"github.com/urfave/cli/v2"
)

func Action(c *cli.Context) error {
	logger := common.NewLogger(c)

	base := c.Args().First()
	if base == "" {
		return cli.Exit("usage: wp-archiver dump <base-url> [flags]", 2)
	}

	var creds *models.Credentials
	username := c.String("username")
	password := c.String("password")
	if username != "" || password != "" {
		if username == "" || password == "" {
			return cli.Exit("both --username and --password are required for authentication", 2)
		}
		creds = &models.Credentials{Username: username, Password: password}
	}

	opts := models.Options{
		BaseURL:     base,
		OutDir:      c.String("out"),
		AllTypes:    c.Bool("all-types"),
		SkipMedia:   c.Bool("skip-media"),
		Verbose:     c.Bool("verbose"),
		Delay:       time.Duration(c.Float64("sleep") * float64(time.Second)),
		PerPage:     c.Int("per-page"),
		RulesPath:   c.String("rules"),
		Credentials: creds,
	}

	// Run history is best-effort: a broken database never blocks a dump.
	// The output root must exist before the database file can be created
	// inside it; the pipeline only creates the per-site subdirectory.
	var history *db.DB
	var runID int64
	store := &storage.Storage{}
	if err := store.EnsureDir(opts.OutDir); err != nil {
		logger.Warn("run history unavailable", "error", err)
	} else if database, err := db.Open(filepath.Join(opts.OutDir, db.DefaultDBName)); err != nil {
		logger.Warn("run history unavailable", "error", err)
	} else {
		history = database
		defer history.Close()
		if runID, err = history.StartRun(base, ""); err != nil {
			logger.Warn("failed to record run start", "error", err)
			history = nil
		}
	}

	started := time.Now()
	result, err := pipeline.Run(c.Context, logger, opts)
	if err != nil {
		if history != nil {
			_ = history.FinishRun(runID, time.Since(started), 0, 0, 0, 0, false)
		}
		return cli.Exit(fmt.Sprintf("dump failed: %v", err), 1)
	}

	if history != nil {
		recordRun(logger, history, runID, started, result)
	}

	skippedEndpoints := 0
	for _, ep := range result.Endpoints {
		if ep.State == pager.StateErrored {
			skippedEndpoints++
		}
	}
	fmt.Printf("Done. %d item(s), %d media file(s), %d record(s) skipped, %d endpoint(s) skipped. See: %s\n",
		len(result.Manifest.Items), len(result.Manifest.Media), result.SkippedItems,
		skippedEndpoints, result.Site.OutDir)
	return nil
}

func recordRun(logger *slog.Logger, history *db.DB, runID int64, started time.Time, result *pipeline.Result) {
	if err := history.UpdateRunSiteName(runID, result.Site.SiteName); err != nil {
		logger.Warn("failed to record site name", "error", err)
	}
	skipped := 0
	for _, ep := range result.Endpoints {
		if err := history.RecordEndpoint(db.EndpointOutcome{
			RunID:      runID,
			Type:       ep.Type,
			State:      ep.State.String(),
			Pages:      ep.Pages,
			Items:      ep.Items,
			ErrorClass: ep.ErrorClass,
		}); err != nil {
			logger.Warn("failed to record endpoint outcome", "type", ep.Type, "error", err)
		}
		if ep.State == pager.StateErrored {
			skipped++
		}
	}
	if err := history.FinishRun(runID, time.Since(started),
		len(result.Manifest.Items), len(result.Manifest.Media),
		len(result.Endpoints), skipped, true); err != nil {
		logger.Warn("failed to record run", "error", err)
	}
}

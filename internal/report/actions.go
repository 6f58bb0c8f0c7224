// Package report implements the `report` command: derived analytics over a
// previously dumped site archive.
package report

import (
	"fmt"
	"path/filepath"

	"github.com/mlockett/wp-archiver/internal/common"
	"github.com/mlockett/wp-archiver/pkg/langdetect"
	"github.com/mlockett/wp-archiver/pkg/manifest"
	"github.com/mlockett/wp-archiver/pkg/report"
	"github.com/mlockett/wp-archiver/pkg/storage"
	"github.com/urfave/cli/v2"
)

func Action(c *cli.Context) error {
	logger := common.NewLogger(c)

	siteDir := c.Args().First()
	if siteDir == "" {
		return cli.Exit("usage: wp-archiver report <site-dir> [flags]", 2)
	}
	siteDir = filepath.Clean(siteDir)

	store := &storage.Storage{}
	m, err := manifest.Load(store, siteDir)
	if err != nil {
		return cli.Exit(fmt.Sprintf("report failed: %v", err), 1)
	}

	var det *langdetect.Detector
	if !c.Bool("no-language") {
		det = langdetect.New()
	}

	rep := report.Generate(logger, store, siteDir, m, det)
	path, err := report.Write(store, siteDir, rep)
	if err != nil {
		return cli.Exit(fmt.Sprintf("report failed: %v", err), 1)
	}

	fmt.Printf("Report written to %s (%d item(s), %d total words)\n", path, rep.ItemCount, rep.TotalWords)
	return nil
}

// Package runs implements the `runs` command: a listing of recorded
// extraction runs from the history database.
package runs

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/mlockett/wp-archiver/pkg/db"
	"github.com/urfave/cli/v2"
)

func Action(c *cli.Context) error {
	dbPath := filepath.Join(c.String("out"), db.DefaultDBName)
	if _, err := os.Stat(dbPath); err != nil {
		return cli.Exit(fmt.Sprintf("no run history at %s", dbPath), 1)
	}

	history, err := db.Open(dbPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("opening run history: %v", err), 1)
	}
	defer history.Close()

	runs, err := history.RecentRuns(c.Int("limit"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("listing runs: %v", err), 1)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tSITE\tITEMS\tMEDIA\tSKIPPED\tDURATION\tOK")
	for _, r := range runs {
		name := r.SiteName
		if name == "" {
			name = r.Site
		}
		ok := "yes"
		if !r.Success {
			ok = "no"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04"), name,
			r.ItemCount, r.MediaCount, r.SkippedEndpoints, r.Duration.Round(time.Millisecond), ok)
	}
	return w.Flush()
}

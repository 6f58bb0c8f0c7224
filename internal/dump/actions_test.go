package dump

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mlockett/wp-archiver/pkg/db"
	"github.com/urfave/cli/v2"
)

func newDumpApp() *cli.App {
	return &cli.App{
		Commands: []*cli.Command{{
			Name:   "dump",
			Action: Action,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "out"},
				&cli.Float64Flag{Name: "sleep"},
				&cli.BoolFlag{Name: "all-types"},
				&cli.BoolFlag{Name: "skip-media"},
				&cli.IntFlag{Name: "per-page", Value: 100},
				&cli.StringFlag{Name: "rules"},
				&cli.StringFlag{Name: "username"},
				&cli.StringFlag{Name: "password"},
				&cli.BoolFlag{Name: "verbose"},
				&cli.BoolFlag{Name: "quiet"},
			},
		}},
	}
}

// emptySiteServer answers the API root; every collection 404s, which the
// pager treats as end-of-data.
func emptySiteServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/wp-json/" {
			json.NewEncoder(w).Encode(map[string]any{
				"name":   "Fresh Site",
				"url":    "https://example.com",
				"routes": map[string]any{},
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestActionRecordsHistoryInFreshOutDir(t *testing.T) {
	srv := emptySiteServer(t)

	// The output root does not exist yet, as on any first run.
	out := filepath.Join(t.TempDir(), "wp_dump")
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("output root unexpectedly present: %v", err)
	}

	err := newDumpApp().Run([]string{"wp-archiver", "dump", "--out", out, "--skip-media", "--quiet", srv.URL})
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}

	history, err := db.Open(filepath.Join(out, db.DefaultDBName))
	if err != nil {
		t.Fatalf("opening run history: %v", err)
	}
	defer history.Close()

	runs, err := history.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("recorded runs = %d, want 1", len(runs))
	}
	if !runs[0].Success {
		t.Error("Success = false, want true")
	}
	if runs[0].SiteName != "Fresh-Site" {
		t.Errorf("SiteName = %q, want Fresh-Site", runs[0].SiteName)
	}
	if runs[0].Site != srv.URL {
		t.Errorf("Site = %q, want %q", runs[0].Site, srv.URL)
	}
}

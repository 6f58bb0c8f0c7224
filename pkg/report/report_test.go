package report

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mlockett/wp-archiver/models"
	"github.com/mlockett/wp-archiver/pkg/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// buildSite lays out a minimal archive: text files under per-type
// directories plus a manifest that references them.
func buildSite(t *testing.T, texts map[string]string) (string, *models.Manifest) {
	t.Helper()
	siteDir := t.TempDir()
	m := &models.Manifest{Site: "https://example.com", GeneratedAt: 1756250000}

	id := int64(0)
	for rel, text := range texts {
		id++
		p := filepath.Join(siteDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
		m.Items = append(m.Items, models.ContentItem{
			Type: "pages", ID: id, Slug: filepath.Base(rel), File: rel,
		})
	}
	return siteDir, m
}

func TestGenerate(t *testing.T) {
	siteDir, m := buildSite(t, map[string]string{
		"pages/pages-roast.txt": "Roasting Guide\n\nWe roast coffee beans daily. Fresh coffee tastes better.",
		"pages/pages-brew.txt":  "Brewing\n\nBrew coffee slowly. Grind beans first.",
	})
	m.Media = append(m.Media, models.MediaItem{ID: 1, File: "images/logo.jpg"})

	rep := Generate(discardLogger(), &storage.Storage{}, siteDir, m, nil)

	if rep.Site != "https://example.com" {
		t.Errorf("Site = %q", rep.Site)
	}
	if rep.ItemCount != 2 || len(rep.Items) != 2 {
		t.Fatalf("ItemCount = %d, Items = %d, want 2 each", rep.ItemCount, len(rep.Items))
	}
	if rep.MediaCount != 1 {
		t.Errorf("MediaCount = %d, want 1", rep.MediaCount)
	}
	if rep.TotalWords == 0 {
		t.Error("TotalWords = 0")
	}
	if rep.Languages != nil {
		t.Errorf("Languages = %v, want nil without a detector", rep.Languages)
	}

	// "coffee" appears in both items and should lead the aggregate ranking.
	if len(rep.AggregateKeywords) == 0 || rep.AggregateKeywords[0].Word != "coffee" {
		t.Errorf("AggregateKeywords = %v, want coffee first", rep.AggregateKeywords)
	}
	if rep.AggregateKeywords[0].Count != 3 {
		t.Errorf("coffee count = %d, want 3", rep.AggregateKeywords[0].Count)
	}

	for _, item := range rep.Items {
		if item.Stats.Words == 0 {
			t.Errorf("item %s has zero word count", item.Slug)
		}
		if len(item.TopKeywords) == 0 {
			t.Errorf("item %s has no keywords", item.Slug)
		}
		if item.Language != "" {
			t.Errorf("item %s has language %q without a detector", item.Slug, item.Language)
		}
	}
}

func TestGenerateSkipsMissingFiles(t *testing.T) {
	siteDir, m := buildSite(t, map[string]string{
		"pages/pages-real.txt": "Actual content lives here.",
	})
	m.Items = append(m.Items, models.ContentItem{
		Type: "pages", ID: 99, Slug: "ghost", File: "pages/pages-ghost.txt",
	})

	rep := Generate(discardLogger(), &storage.Storage{}, siteDir, m, nil)
	if rep.ItemCount != 1 {
		t.Errorf("ItemCount = %d, want 1 after skipping the missing file", rep.ItemCount)
	}
}

func TestGenerateEmptyManifest(t *testing.T) {
	siteDir := t.TempDir()
	m := &models.Manifest{Site: "https://example.com"}

	rep := Generate(discardLogger(), &storage.Storage{}, siteDir, m, nil)
	if rep.ItemCount != 0 || rep.TotalWords != 0 {
		t.Errorf("report = %+v, want empty", rep)
	}
	if len(rep.AggregateKeywords) != 0 {
		t.Errorf("AggregateKeywords = %v, want none", rep.AggregateKeywords)
	}
}

func TestWriteReport(t *testing.T) {
	siteDir, m := buildSite(t, map[string]string{
		"pages/pages-one.txt": "Short sample text for serialization.",
	})
	rep := Generate(discardLogger(), &storage.Storage{}, siteDir, m, nil)

	p, err := Write(&storage.Storage{}, siteDir, rep)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if p != filepath.Join(siteDir, FileName) {
		t.Errorf("Write() path = %q", p)
	}

	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	var got Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("report.json is not valid JSON: %v", err)
	}
	if got.ItemCount != 1 || got.Site != rep.Site {
		t.Errorf("roundtrip = %+v", got)
	}
}

// Package report derives the analytics report from a finished archive: it
// re-reads the manifest and the text files it references and produces
// report.json with per-item statistics, detected languages, and site-wide
// keyword rankings. Rendering dashboards from this data is someone else's
// job; the JSON is the contract.
package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mlockett/wp-archiver/models"
	"github.com/mlockett/wp-archiver/pkg/analytics"
	"github.com/mlockett/wp-archiver/pkg/langdetect"
	"github.com/mlockett/wp-archiver/pkg/mapreduce"
	"github.com/mlockett/wp-archiver/pkg/storage"
)

// FileName is the report filename within a site directory.
const FileName = "report.json"

// topN bounds keyword lists, matching what the dashboards display.
const topN = 20

// ItemReport is the per-item section of the report.
type ItemReport struct {
	Type        string              `json:"type"`
	ID          int64               `json:"id"`
	Slug        string              `json:"slug"`
	Title       string              `json:"title"`
	File        string              `json:"file"`
	Language    string              `json:"language,omitempty"`
	Stats       analytics.TextStats `json:"stats"`
	TopKeywords []mapreduce.Keyword `json:"top_keywords,omitempty"`
}

// Report is the site-wide analytics artifact.
type Report struct {
	Site              string              `json:"site"`
	GeneratedAt       string              `json:"generated_at"`
	ItemCount         int                 `json:"item_count"`
	MediaCount        int                 `json:"media_count"`
	TotalWords        int                 `json:"total_words"`
	Languages         map[string]int      `json:"languages,omitempty"`
	AggregateKeywords []mapreduce.Keyword `json:"aggregate_keywords"`
	Items             []ItemReport        `json:"items"`
}

// Generate builds the report for a site directory from its manifest.
// Items whose text file cannot be read are skipped with a warning; the
// archive may legitimately predate this command.
func Generate(logger *slog.Logger, store *storage.Storage, siteDir string, m *models.Manifest, det *langdetect.Detector) *Report {
	a := &analytics.Analytics{}
	rep := &Report{
		Site:        m.Site,
		GeneratedAt: time.Now().Format(time.RFC3339),
		MediaCount:  len(m.Media),
		Languages:   make(map[string]int),
	}

	var intermediate []map[string]int
	for _, item := range m.Items {
		data, err := store.ReadFile(filepath.Join(siteDir, filepath.FromSlash(item.File)))
		if err != nil {
			logger.Warn("skipping unreadable item file", "file", item.File, "error", err)
			continue
		}
		text := string(data)

		counts := mapreduce.Map(text, a)
		intermediate = append(intermediate, counts)

		ir := ItemReport{
			Type:        item.Type,
			ID:          item.ID,
			Slug:        item.Slug,
			Title:       item.Title,
			File:        item.File,
			Stats:       a.Stats(text),
			TopKeywords: mapreduce.TopKeywords(counts, topN),
		}
		if det != nil {
			if lang := det.Detect(text); lang != "" {
				ir.Language = lang
				rep.Languages[lang]++
			}
		}

		rep.Items = append(rep.Items, ir)
		rep.ItemCount++
		rep.TotalWords += ir.Stats.Words
	}

	rep.AggregateKeywords = mapreduce.TopKeywords(mapreduce.Reduce(intermediate), topN)
	if len(rep.Languages) == 0 {
		rep.Languages = nil
	}
	return rep
}

// Write serializes the report to <siteDir>/report.json.
func Write(store *storage.Storage, siteDir string, rep *Report) (string, error) {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling report: %w", err)
	}
	p := filepath.Join(siteDir, FileName)
	if err := store.SaveFile(p, data); err != nil {
		return "", fmt.Errorf("saving report: %w", err)
	}
	return p, nil
}

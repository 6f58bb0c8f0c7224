// Package normalize projects raw, loosely-typed REST records into manifest
// entries and materializes their plain-text bodies on disk. All JSON access
// beyond the required id/slug pair is optional with explicit defaults; the
// validation boundary for untrusted API output lives here.
package normalize

import (
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mlockett/wp-archiver/models"
	"github.com/mlockett/wp-archiver/pkg/htmltext"
	"github.com/mlockett/wp-archiver/pkg/storage"
)

// rendered is WordPress's {"rendered": "<html>"} wrapper.
type rendered struct {
	Rendered string `json:"rendered"`
}

// rawItem is the subset of a content record the pipeline consumes.
type rawItem struct {
	ID      int64    `json:"id"`
	Slug    string   `json:"slug"`
	Link    string   `json:"link"`
	Title   rendered `json:"title"`
	Content rendered `json:"content"`
}

// Normalizer converts raw records of one run into ContentItems, resolving
// filename collisions and enforcing the (type, id) uniqueness invariant.
// It is owned by the single run goroutine and is not safe for concurrent use.
type Normalizer struct {
	logger  *slog.Logger
	store   *storage.Storage
	siteDir string

	claimed map[string]bool // filenames already written this run
	seen    map[string]bool // "type:id" pairs already in the manifest
	skipped int
}

func New(logger *slog.Logger, store *storage.Storage, siteDir string) *Normalizer {
	return &Normalizer{
		logger:  logger,
		store:   store,
		siteDir: siteDir,
		claimed: make(map[string]bool),
		seen:    make(map[string]bool),
	}
}

// Normalize validates one raw record, writes its text file under
// <siteDir>/<type>/ and returns the manifest entry. A nil item with a nil
// error means the record was skipped; the reason has been logged.
func (n *Normalizer) Normalize(raw json.RawMessage, typ string) (*models.ContentItem, error) {
	var rec rawItem
	if err := json.Unmarshal(raw, &rec); err != nil {
		n.logger.Debug("skipping undecodable record", "type", typ, "error", err)
		n.skipped++
		return nil, nil
	}

	// Without both id and slug the record has no deterministic place in
	// storage.
	if rec.ID == 0 || rec.Slug == "" {
		n.logger.Debug("skipping record missing id or slug", "type", typ, "id", rec.ID, "slug", rec.Slug)
		n.skipped++
		return nil, nil
	}

	key := fmt.Sprintf("%s:%d", typ, rec.ID)
	if n.seen[key] {
		n.logger.Debug("skipping duplicate record", "type", typ, "id", rec.ID)
		n.skipped++
		return nil, nil
	}

	title := cleanTitle(rec.Title.Rendered)
	body := rec.Content.Rendered
	if strings.TrimSpace(body) == "" && title == "" {
		n.logger.Debug("skipping empty record", "type", typ, "id", rec.ID, "slug", rec.Slug)
		n.skipped++
		return nil, nil
	}

	text := htmltext.Text(body)
	if text == "" && strings.TrimSpace(body) != "" {
		// Theme-builder pages sometimes defeat plain tag stripping;
		// let readability have a go before giving up on the body.
		text = htmltext.Salvage(body, rec.Link)
	}

	relPath := n.claimPath(typ, rec.Slug, rec.ID)
	content := text
	if title != "" {
		content = strings.TrimSpace(title + "\n\n" + text)
	}
	if err := n.store.SaveFile(filepath.Join(n.siteDir, relPath), []byte(content)); err != nil {
		return nil, fmt.Errorf("writing %s: %w", relPath, err)
	}

	n.seen[key] = true
	return &models.ContentItem{
		Type:  typ,
		ID:    rec.ID,
		Slug:  rec.Slug,
		Title: title,
		Link:  rec.Link,
		File:  filepath.ToSlash(relPath),
		Text:  content,
	}, nil
}

// Skipped reports how many records were dropped so far: undecodable
// records, records missing id or slug, duplicates, and empty records.
func (n *Normalizer) Skipped() int { return n.skipped }

// claimPath reserves a unique relative path for a record. Slug collisions
// within a type resolve by suffixing the numeric id.
func (n *Normalizer) claimPath(typ, slug string, id int64) string {
	rel := filepath.Join(typ, fmt.Sprintf("%s-%s.txt", typ, slug))
	if n.claimed[rel] {
		rel = filepath.Join(typ, fmt.Sprintf("%s-%s-%d.txt", typ, slug, id))
	}
	n.claimed[rel] = true
	return rel
}

func cleanTitle(t string) string {
	return html.UnescapeString(strings.Join(strings.Fields(t), " "))
}

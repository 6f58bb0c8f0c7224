// Package media walks the media collection and downloads original binaries
// into the site's images directory. A failed download degrades the archive
// without invalidating it: the item is skipped with a warning and omitted
// from the manifest.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/mlockett/wp-archiver/models"
	"github.com/mlockett/wp-archiver/pkg/pager"
	"github.com/mlockett/wp-archiver/pkg/storage"
	"github.com/mlockett/wp-archiver/pkg/wpclient"
)

// DirName is the media subdirectory of a site archive.
const DirName = "images"

type rendered struct {
	Rendered string `json:"rendered"`
}

type rawMedia struct {
	ID        int64    `json:"id"`
	SourceURL string   `json:"source_url"`
	Post      *int64   `json:"post"`
	AltText   string   `json:"alt_text"`
	Title     rendered `json:"title"`
}

// Downloader fetches media records and their payloads. Owned by the single
// run goroutine; filename bookkeeping is not synchronized.
type Downloader struct {
	logger  *slog.Logger
	client  *wpclient.Client
	pg      *pager.Pager
	store   *storage.Storage
	siteDir string

	seenNames map[string]bool
	seenIDs   map[int64]bool
	skipped   int
}

func New(logger *slog.Logger, client *wpclient.Client, pg *pager.Pager, store *storage.Storage, siteDir string) *Downloader {
	return &Downloader{
		logger:    logger,
		client:    client,
		pg:        pg,
		store:     store,
		siteDir:   siteDir,
		seenNames: make(map[string]bool),
		seenIDs:   make(map[int64]bool),
	}
}

// FetchAll walks collectionURL and downloads every reachable payload.
// The returned items contain only successful (or already-present) files.
// Endpoint-level failures come back in the pager result; they skip the
// media stage without failing the run.
func (d *Downloader) FetchAll(ctx context.Context, collectionURL string, ep *models.Endpoint) ([]models.MediaItem, pager.Result, error) {
	var items []models.MediaItem
	res, err := d.pg.Fetch(ctx, collectionURL, ep, func(raw json.RawMessage) error {
		if item := d.one(ctx, raw); item != nil {
			items = append(items, *item)
		}
		return nil
	})
	return items, res, err
}

// Skipped reports how many media records were dropped so far: undecodable
// records, records without a source_url, duplicates, and failed downloads.
func (d *Downloader) Skipped() int { return d.skipped }

// one processes a single media record; nil means skipped (logged).
func (d *Downloader) one(ctx context.Context, raw json.RawMessage) *models.MediaItem {
	var rec rawMedia
	if err := json.Unmarshal(raw, &rec); err != nil {
		d.logger.Debug("skipping undecodable media record", "error", err)
		d.skipped++
		return nil
	}
	if rec.SourceURL == "" {
		d.logger.Debug("skipping media record without source_url", "id", rec.ID)
		d.skipped++
		return nil
	}
	if d.seenIDs[rec.ID] {
		d.logger.Debug("skipping duplicate media record", "id", rec.ID)
		d.skipped++
		return nil
	}
	// The id is burned before the attempt: a record repeated after a
	// failed download is a duplicate, not a retry.
	d.seenIDs[rec.ID] = true

	name := d.claimName(rec.SourceURL, rec.ID)
	relPath := filepath.Join(DirName, name)
	dest := filepath.Join(d.siteDir, relPath)

	// Each payload is fetched at most once; a file left by an earlier run
	// counts.
	if !d.store.HasFile(dest) {
		if err := d.client.Download(ctx, rec.SourceURL, dest); err != nil {
			d.logger.Debug("media download failed", "id", rec.ID, "source_url", rec.SourceURL, "error", err)
			d.skipped++
			return nil
		}
	}

	return &models.MediaItem{
		ID:        rec.ID,
		File:      filepath.ToSlash(relPath),
		SourceURL: rec.SourceURL,
		Post:      rec.Post,
		AltText:   rec.AltText,
		Title:     rec.Title.Rendered,
	}
}

// claimName derives a unique local filename from the source URL's final
// path segment, preferring the original name and disambiguating with the
// media id.
func (d *Downloader) claimName(src string, id int64) string {
	name := ""
	if u, err := url.Parse(src); err == nil {
		name = path.Base(u.Path)
	}
	if name == "" || name == "." || name == "/" {
		name = fmt.Sprintf("%d.bin", id)
	}
	if d.seenNames[name] {
		ext := path.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		name = fmt.Sprintf("%s-%d%s", stem, id, ext)
	}
	d.seenNames[name] = true
	return name
}

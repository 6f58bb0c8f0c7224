// Package pipeline wires discovery, pagination, normalization, media
// download and the manifest writer into a single embeddable entry point.
// A run is strictly sequential: one site, one HTTP client,
// one output directory, endpoints and pages walked in order with a fixed
// pause before every request.
//
// Failure policy: an unreachable API root is fatal; everything below that
// converts into a logged skip. One protected or malformed endpoint never
// aborts extraction of the others.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/mlockett/wp-archiver/models"
	"github.com/mlockett/wp-archiver/pkg/discovery"
	"github.com/mlockett/wp-archiver/pkg/manifest"
	"github.com/mlockett/wp-archiver/pkg/media"
	"github.com/mlockett/wp-archiver/pkg/normalize"
	"github.com/mlockett/wp-archiver/pkg/pager"
	"github.com/mlockett/wp-archiver/pkg/storage"
	"github.com/mlockett/wp-archiver/pkg/wpclient"
)

// EndpointSummary is the terminal outcome of one endpoint walk, kept for
// logging and the run-history database.
type EndpointSummary struct {
	Type       string
	State      pager.State
	Pages      int
	Items      int
	ErrorClass string
}

// Result is everything a run produced besides the files on disk.
type Result struct {
	Manifest      *models.Manifest
	Site          models.SiteContext
	Endpoints     []EndpointSummary
	SkippedRoutes int
	// SkippedItems counts individual records dropped during the run:
	// undecodable or incomplete content records, duplicates, and media
	// whose payload could not be fetched.
	SkippedItems int
}

// Run executes one extraction run. The returned error is non-nil only for
// the fatal class: an unreachable or non-JSON API root, an unusable output
// directory, or a broken rules file. Every other failure is logged and
// skipped, and the manifest covers whatever was successfully fetched.
func Run(ctx context.Context, logger *slog.Logger, opts models.Options) (*Result, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	client := wpclient.New(opts.Credentials, wpclient.FixedDelay{Delay: opts.Delay})
	store := &storage.Storage{}

	rules, err := discovery.LoadRules(opts.RulesPath)
	if err != nil {
		return nil, err
	}

	root, err := discovery.FetchRoot(ctx, client, base)
	if err != nil {
		return nil, err
	}

	site := models.SiteContext{
		BaseURL:     base,
		SiteName:    models.SanitizeSiteName(root.Name, base),
		Credentials: opts.Credentials,
	}
	site.OutDir = filepath.Join(opts.OutDir, site.SiteName)
	if err := store.EnsureDir(site.OutDir); err != nil {
		return nil, fmt.Errorf("preparing site directory: %w", err)
	}
	logger.Info("connected", "site", site.SiteName, "out_dir", site.OutDir)

	endpoints, skipped := discovery.Discover(root, rules, opts.AllTypes, client.Authenticated())
	for _, s := range skipped {
		logger.Debug("skipping route", "route", s.Route, "reason", s.Reason)
	}
	types := make([]string, 0, len(endpoints))
	for _, ep := range endpoints {
		types = append(types, ep.Type)
	}
	logger.Info("discovered content types", "types", strings.Join(types, ", "), "skipped_routes", len(skipped))

	res := &Result{
		Manifest: &models.Manifest{
			Site:  base,
			Items: []models.ContentItem{},
			Media: []models.MediaItem{},
		},
		Site:          site,
		SkippedRoutes: len(skipped),
	}

	pg := pager.New(client, opts.PerPage)
	norm := normalize.New(logger, store, site.OutDir)

	for i := range endpoints {
		ep := &endpoints[i]
		logger.Info("fetching endpoint", "type", ep.Type)

		pr, err := pg.Fetch(ctx, discovery.CollectionURL(base, *ep), ep, func(raw json.RawMessage) error {
			item, err := norm.Normalize(raw, ep.Type)
			if err != nil {
				return err
			}
			if item != nil {
				res.Manifest.Items = append(res.Manifest.Items, *item)
			}
			return nil
		})

		summary := EndpointSummary{
			Type:  ep.Type,
			State: pr.State,
			Pages: pr.Pages,
			Items: pr.Items,
		}
		if err != nil {
			summary.ErrorClass = classify(err)
			logSkip(logger, ep.Type, err)
		} else {
			logger.Info("endpoint done", "type", ep.Type, "items", pr.Items, "pages", pr.Pages)
		}
		res.Endpoints = append(res.Endpoints, summary)
	}
	res.SkippedItems = norm.Skipped()

	if !opts.SkipMedia {
		mep := discovery.MediaEndpoint()
		logger.Info("fetching endpoint", "type", mep.Type)
		dl := media.New(logger, client, pg, store, site.OutDir)
		items, pr, err := dl.FetchAll(ctx, discovery.CollectionURL(base, mep), &mep)
		res.Manifest.Media = append(res.Manifest.Media, items...)

		summary := EndpointSummary{
			Type:  mep.Type,
			State: pr.State,
			Pages: pr.Pages,
			Items: len(items),
		}
		if err != nil {
			summary.ErrorClass = classify(err)
			logSkip(logger, mep.Type, err)
		} else {
			logger.Info("endpoint done", "type", mep.Type, "items", len(items), "pages", pr.Pages)
		}
		res.Endpoints = append(res.Endpoints, summary)
		res.SkippedItems += dl.Skipped()
	}

	res.Manifest.GeneratedAt = time.Now().Unix()
	path, err := manifest.Write(store, site.OutDir, res.Manifest)
	if err != nil {
		return nil, err
	}
	logger.Info("manifest written", "path", path,
		"items", len(res.Manifest.Items), "media", len(res.Manifest.Media),
		"skipped_records", res.SkippedItems)

	return res, nil
}

// classify maps an endpoint failure to the class stored in run history.
func classify(err error) string {
	var epErr *pager.EndpointError
	if errors.As(err, &epErr) {
		switch {
		case epErr.AuthDenied():
			return "auth_denied"
		case epErr.Code != 0:
			return fmt.Sprintf("http_%d", epErr.Code)
		default:
			return "network"
		}
	}
	return "error"
}

func logSkip(logger *slog.Logger, typ string, err error) {
	var epErr *pager.EndpointError
	if errors.As(err, &epErr) && epErr.AuthDenied() {
		logger.Warn("skipped endpoint (access denied)", "type", typ, "status", epErr.Code)
		return
	}
	logger.Warn("skipped endpoint", "type", typ, "error", err)
}

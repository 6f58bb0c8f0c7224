// Package pager walks a WordPress REST collection page by page until the
// data runs out or the endpoint proves unusable. Each endpoint is isolated:
// a protected or broken collection terminates only its own walk, never the
// run. That isolation is the pipeline's key robustness property.
package pager

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mlockett/wp-archiver/models"
	"github.com/mlockett/wp-archiver/pkg/wpclient"
)

// State is the terminal condition of an endpoint walk.
type State int

const (
	// StateExhausted means every available page was fetched (or the server
	// signalled end-of-data with a 400/404). Normal completion.
	StateExhausted State = iota
	// StateErrored means the endpoint was abandoned: auth denied, an
	// unexpected status, a network failure, or an undecodable page.
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateExhausted:
		return "exhausted"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// EndpointError is the terminal error of an endpoint walk.
type EndpointError struct {
	Type string
	// Code is the HTTP status that killed the walk, or 0 for
	// network-level failures.
	Code int
	Err  error
}

func (e *EndpointError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("endpoint %s: HTTP %d", e.Type, e.Code)
	}
	return fmt.Sprintf("endpoint %s: %v", e.Type, e.Err)
}

func (e *EndpointError) Unwrap() error { return e.Err }

// AuthDenied reports whether the endpoint was abandoned because the server
// refused access (401/403).
func (e *EndpointError) AuthDenied() bool {
	return wpclient.AuthDenied(e.Code)
}

// Result summarizes one finished endpoint walk.
type Result struct {
	State State
	Pages int
	Items int
}

// Pager fetches collection pages through a shared client.
type Pager struct {
	client  *wpclient.Client
	perPage int
}

// New builds a pager. perPage <= 0 falls back to models.DefaultPerPage.
func New(client *wpclient.Client, perPage int) *Pager {
	if perPage <= 0 {
		perPage = models.DefaultPerPage
	}
	return &Pager{client: client, perPage: perPage}
}

// Fetch walks every page of collectionURL, advancing ep's cursor and
// invoking fn for each raw item in page order. On StateErrored the returned
// error is a *EndpointError describing why the endpoint was abandoned;
// items emitted before the failure have already been delivered to fn.
func (p *Pager) Fetch(ctx context.Context, collectionURL string, ep *models.Endpoint, fn func(json.RawMessage) error) (Result, error) {
	res := Result{State: StateExhausted}

	for {
		params := url.Values{
			"per_page": {strconv.Itoa(p.perPage)},
			"page":     {strconv.Itoa(ep.Page)},
		}
		resp, err := p.client.GetJSON(ctx, collectionURL, params)
		if err != nil {
			res.State = StateErrored
			return res, &EndpointError{Type: ep.Type, Err: err}
		}

		switch {
		case wpclient.AuthDenied(resp.StatusCode):
			res.State = StateErrored
			return res, &EndpointError{Type: ep.Type, Code: resp.StatusCode}
		case wpclient.PageEnd(resp.StatusCode):
			// End-of-data signal: WordPress answers 400 past the last
			// valid page, 404 for collections that vanished.
			return res, nil
		case !resp.OK():
			res.State = StateErrored
			return res, &EndpointError{Type: ep.Type, Code: resp.StatusCode}
		}

		var items []json.RawMessage
		if err := json.Unmarshal(resp.Body, &items); err != nil {
			res.State = StateErrored
			return res, &EndpointError{Type: ep.Type, Err: fmt.Errorf("decoding page %d: %w", ep.Page, err)}
		}
		if len(items) == 0 {
			return res, nil
		}

		res.Pages++
		for _, item := range items {
			if err := fn(item); err != nil {
				res.State = StateErrored
				return res, &EndpointError{Type: ep.Type, Err: err}
			}
			res.Items++
		}

		if resp.TotalPages > 0 {
			ep.TotalPages = resp.TotalPages
		}
		if ep.TotalPages > 0 && ep.Page >= ep.TotalPages {
			return res, nil
		}
		ep.Page++
	}
}

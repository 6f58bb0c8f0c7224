// Package discovery queries a WordPress REST API root document and turns
// its advertised routes into the ordered set of content endpoints a run
// will walk. Discovery failure is fatal for the whole run: without the
// root document there is no content-type catalog to extract against.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mlockett/wp-archiver/models"
	"github.com/mlockett/wp-archiver/pkg/wpclient"
)

// Root is the REST API root document. Routes maps route templates
// (e.g. "/wp/v2/posts") to handler descriptors we never inspect beyond
// the key itself.
type Root struct {
	Name   string                     `json:"name"`
	URL    string                     `json:"url"`
	Routes map[string]json.RawMessage `json:"routes"`
}

// FetchRoot retrieves <base>/wp-json/. Any network failure, non-2xx status
// or non-JSON body is returned as an error the caller must treat as fatal.
func FetchRoot(ctx context.Context, client *wpclient.Client, base string) (*Root, error) {
	rootURL := strings.TrimRight(base, "/") + "/wp-json/"
	resp, err := client.GetJSON(ctx, rootURL, nil)
	if err != nil {
		return nil, fmt.Errorf("REST API root unreachable at %s: %w", rootURL, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("REST API root returned status %d at %s", resp.StatusCode, rootURL)
	}
	var root Root
	if err := json.Unmarshal(resp.Body, &root); err != nil {
		return nil, fmt.Errorf("REST API root is not JSON at %s: %w", rootURL, err)
	}
	return &root, nil
}

// collectionRoute matches plain "<namespace>/<type>" collection routes.
// Anything else (item routes with regex captures, deeply nested templates)
// is dropped; this is a best-effort shape check, not a route grammar.
var collectionRoute = regexp.MustCompile(`^/wp/v2/([a-z0-9_-]+)$`)

// patternChars appear in route templates that embed regex captures.
var patternChars = []string{"(?", ")", "[", "]", "+"}

func malformed(route string) bool {
	for _, ch := range patternChars {
		if strings.Contains(route, ch) {
			return true
		}
	}
	return false
}

// Skipped describes one route discovery rejected, for verbose reporting.
type Skipped struct {
	Route  string
	Reason string
}

// Discover derives the ordered endpoint set from a root document.
// Core pages and posts are always included. With allTypes, every
// collection-shaped route joins them except the media collection (walked
// separately by the media stage) and, on unauthenticated runs, anything
// on the rules' blocked list.
func Discover(root *Root, rules *Rules, allTypes, authenticated bool) ([]models.Endpoint, []Skipped) {
	types := map[string]bool{"pages": true, "posts": true}
	var skipped []Skipped

	if allTypes {
		for route := range root.Routes {
			if !strings.HasPrefix(route, "/wp/v2/") {
				continue
			}
			if malformed(route) {
				skipped = append(skipped, Skipped{Route: route, Reason: "malformed endpoint pattern"})
				continue
			}
			m := collectionRoute.FindStringSubmatch(route)
			if m == nil {
				skipped = append(skipped, Skipped{Route: route, Reason: "not a collection route"})
				continue
			}
			name := m[1]
			if name == "media" {
				continue
			}
			if !authenticated && rules.IsBlocked(name) {
				skipped = append(skipped, Skipped{Route: route, Reason: "known to require authentication"})
				continue
			}
			types[name] = true
		}
	}

	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)

	endpoints := make([]models.Endpoint, 0, len(names))
	for _, name := range names {
		endpoints = append(endpoints, models.Endpoint{
			Route: "/wp/v2/" + name,
			Type:  name,
			Page:  1,
		})
	}
	return endpoints, skipped
}

// MediaEndpoint is the descriptor for the media collection, which is never
// part of the content endpoint set.
func MediaEndpoint() models.Endpoint {
	return models.Endpoint{Route: "/wp/v2/media", Type: "media", Page: 1}
}

// CollectionURL joins the site base with an endpoint route.
func CollectionURL(base string, ep models.Endpoint) string {
	return strings.TrimRight(base, "/") + "/wp-json" + ep.Route
}

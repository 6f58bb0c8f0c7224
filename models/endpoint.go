package models

// Endpoint describes one content-bearing REST collection route discovered
// from the API root. The pager owns the cursor fields and is the only
// component that mutates them.
type Endpoint struct {
	// Route is the collection path relative to the REST root,
	// e.g. "/wp/v2/posts".
	Route string
	// Type is the content-type label used for output directories and
	// manifest entries, e.g. "posts".
	Type string

	// Page is the next page the fetcher will request (1-based).
	Page int
	// TotalPages is the page count reported by the X-WP-TotalPages
	// response header, or 0 while unknown.
	TotalPages int
}

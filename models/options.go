// Package models defines the data structures shared by the extraction
// pipeline: run options, the site context, endpoint descriptors, and the
// manifest written at the end of a run.
package models

import "time"

// DefaultPerPage is the collection page size requested from the REST API.
const DefaultPerPage = 100

// Options holds the runtime configuration for a single extraction run.
// All values come from CLI flags; the pipeline never reads ambient
// configuration.
type Options struct {
	BaseURL     string
	OutDir      string
	AllTypes    bool
	SkipMedia   bool
	Verbose     bool
	Delay       time.Duration
	PerPage     int
	RulesPath   string
	Credentials *Credentials
}

// Credentials is an HTTP Basic Auth pair. A nil *Credentials means the run
// is unauthenticated.
type Credentials struct {
	Username string
	Password string
}

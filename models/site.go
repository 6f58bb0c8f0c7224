package models

import (
	"net/url"
	"regexp"
	"strings"
)

// SiteContext identifies one target site for the duration of a run. It is
// created once from the API root document and never mutated afterwards; it
// determines the destination subdirectory for every artifact the run writes.
type SiteContext struct {
	BaseURL     string
	SiteName    string
	OutDir      string
	Credentials *Credentials
}

// Authenticated reports whether the run carries a credential pair.
func (s *SiteContext) Authenticated() bool {
	return s.Credentials != nil
}

var (
	unsafeNameChars = regexp.MustCompile(`[^\w\s-]`)
	nameSeparators  = regexp.MustCompile(`[-\s]+`)
)

// SanitizeSiteName converts a site display name into a filesystem-safe
// directory name. Falls back to the host portion of base when the name is
// empty or sanitizes to nothing.
func SanitizeSiteName(name, base string) string {
	cleaned := unsafeNameChars.ReplaceAllString(name, "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = nameSeparators.ReplaceAllString(cleaned, "-")
	if cleaned != "" {
		return cleaned
	}
	if u, err := url.Parse(base); err == nil && u.Host != "" {
		return nameSeparators.ReplaceAllString(u.Host, "-")
	}
	return "site"
}

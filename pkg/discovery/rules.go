package discovery

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules is the endpoint filter policy. Which route names are design/layout
// plumbing rather than content is heuristic and varies across WordPress
// versions, so the list lives in configuration rather than code and makes
// no claim to being exhaustive.
type Rules struct {
	// Blocked lists rest_base names skipped on unauthenticated runs.
	// Authenticated runs attempt every discovered route and rely on
	// per-endpoint error handling instead.
	Blocked []string `yaml:"blocked"`
}

// DefaultRules covers the endpoint names that commonly 401 or return
// non-content schema documents on stock WordPress installs.
func DefaultRules() *Rules {
	return &Rules{
		Blocked: []string{
			"font-families",
			"font-faces",
			"global-styles",
			"template-parts",
			"templates",
			"navigation",
			"blocks",
			"patterns",
			"menu-items",
			"menus",
			"menu-locations",
			"sidebars",
			"widgets",
			"widget-types",
		},
	}
}

// LoadRules reads a rules file. An empty path returns the defaults.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	return &r, nil
}

// IsBlocked reports whether a rest_base name is on the blocked list.
func (r *Rules) IsBlocked(name string) bool {
	for _, b := range r.Blocked {
		if b == name {
			return true
		}
	}
	return false
}

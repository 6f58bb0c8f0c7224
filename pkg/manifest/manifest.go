// Package manifest serializes the run's accumulated state into the site's
// index.json and loads it back for downstream consumers. The manifest is
// the single point where a partial run becomes a durable artifact.
package manifest

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mlockett/wp-archiver/models"
	"github.com/mlockett/wp-archiver/pkg/storage"
)

// FileName is the manifest filename within a site directory.
const FileName = "index.json"

// Write serializes m once, indented, to <siteDir>/index.json.
func Write(store *storage.Storage, siteDir string, m *models.Manifest) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling manifest: %w", err)
	}
	p := filepath.Join(siteDir, FileName)
	if err := store.SaveFile(p, data); err != nil {
		return "", fmt.Errorf("saving manifest: %w", err)
	}
	return p, nil
}

// Load reads a previously written manifest from a site directory.
func Load(store *storage.Storage, siteDir string) (*models.Manifest, error) {
	data, err := store.ReadFile(filepath.Join(siteDir, FileName))
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}
	var m models.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"district-price-tracker/models"
)

// FileListingCache stores one run's normalized listings as a JSON array.
type FileListingCache struct {
	path string
}

func NewFileListingCache(path string) *FileListingCache {
	return &FileListingCache{path: path}
}

// Exists reports whether a cache file from a previous run is present.
func (c *FileListingCache) Exists() bool {
	_, err := os.Stat(c.path)
	return err == nil
}

// Load reads the cached listing set verbatim.
func (c *FileListingCache) Load() ([]models.Listing, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("cache: read %q: %w", c.path, err)
	}

	var listings []models.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("cache: parse %q: %w", c.path, err)
	}
	return listings, nil
}

// Save writes the collected listing set for later runs to reuse.
func (c *FileListingCache) Save(listings []models.Listing) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("cache: create output dir: %w", err)
	}

	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: marshal: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("cache: write %q: %w", c.path, err)
	}
	return nil
}

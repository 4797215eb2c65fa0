package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"district-price-tracker/models"
)

// FileSeriesStore reads and rewrites the data.json time series: a JSON
// object mapping stringified district codes to arrays of
// [date, average, median] triples.
type FileSeriesStore struct {
	path string
}

func NewFileSeriesStore(path string) *FileSeriesStore {
	return &FileSeriesStore{path: path}
}

// Load returns the persisted series. An absent or unreadable file is
// not an error: the store starts over with an empty sequence per
// district. Districts missing from an existing file get an empty
// sequence as well, so a newly added district merges cleanly.
func (s *FileSeriesStore) Load(categories []models.Category) models.Series {
	series := make(models.Series, len(categories))
	for _, cat := range categories {
		series[cat.Code] = []models.SeriesPoint{}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return series
	}

	var existing models.Series
	if err := json.Unmarshal(data, &existing); err != nil {
		return series
	}

	for code, points := range existing {
		series[code] = points
	}
	return series
}

// Save rewrites the whole series in one shot. Last writer wins; the
// process is single-threaded and runs to completion, so there is no
// concurrent writer to race against.
func (s *FileSeriesStore) Save(series models.Series) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("series: create output dir: %w", err)
	}

	data, err := json.MarshalIndent(series, "", "  ")
	if err != nil {
		return fmt.Errorf("series: marshal: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("series: write %q: %w", s.path, err)
	}
	return nil
}

package storage

import "district-price-tracker/models"

// SeriesStore is the durable sink for the per-district time series.
type SeriesStore interface {
	Load(categories []models.Category) models.Series
	Save(series models.Series) error
}

// ListingCache persists one run's collected listings so a later run can
// skip the scrape entirely.
type ListingCache interface {
	Exists() bool
	Load() ([]models.Listing, error)
	Save(listings []models.Listing) error
}

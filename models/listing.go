package models

import (
	"encoding/json"
	"fmt"
)

// Category is one district of the city. The district set is plain data,
// not an enum: codes are the site's own (sparse) district ids.
type Category struct {
	Code int    `yaml:"code"`
	Name string `yaml:"name"`
}

// Listing is one normalized apartment ad. Price is in GEL after
// currency normalization; Area is in square meters.
type Listing struct {
	ID       int64   `json:"id"`
	Category int     `json:"category"`
	Price    float64 `json:"price"`
	Area     float64 `json:"area"`
}

// SeriesPoint holds one day's aggregate price-per-m² statistics for a
// district. On disk it is the triple [date, average, median].
type SeriesPoint struct {
	Date    string
	Average float64
	Median  float64
}

// Series maps a district code to its chronological sequence of points.
// encoding/json stringifies the integer keys, which is exactly the
// shape data.json uses.
type Series map[int][]SeriesPoint

func (p SeriesPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]interface{}{p.Date, p.Average, p.Median})
}

func (p *SeriesPoint) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("series point: expected [date, average, median], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.Date); err != nil {
		return fmt.Errorf("series point date: %w", err)
	}
	if err := json.Unmarshal(raw[1], &p.Average); err != nil {
		return fmt.Errorf("series point average: %w", err)
	}
	if err := json.Unmarshal(raw[2], &p.Median); err != nil {
		return fmt.Errorf("series point median: %w", err)
	}
	return nil
}

// DefaultCategories is the built-in district table. It can be replaced
// at runtime via a categories.yaml file (see config.LoadCategories).
var DefaultCategories = []Category{
	{Code: 1, Name: "Old Tbilisi"},
	{Code: 2, Name: "Vake"},
	{Code: 3, Name: "Saburtalo"},
	{Code: 4, Name: "Didube"},
	{Code: 6, Name: "Gldani"},
	{Code: 8, Name: "Isani"},
	{Code: 10, Name: "Samgori"},
	{Code: 14, Name: "Chugureti"},
}

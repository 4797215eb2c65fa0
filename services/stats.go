package services

import (
	"fmt"
	"sort"
	"strings"

	"district-price-tracker/models"
	"district-price-tracker/utils"
)

// StatsService aggregates listings into per-district price-per-m²
// statistics and merges them into the persisted time series.
type StatsService struct {
	logger *utils.Logger
}

func NewStatsService(logger *utils.Logger) *StatsService {
	return &StatsService{logger: logger}
}

// MergeInto computes the average and median price/m² for every district
// and upserts one SeriesPoint per (district, date) into the series.
// Re-running on the same date overwrites that date's point in place;
// it never produces a second point for the same day.
func (s *StatsService) MergeInto(series models.Series, listings []models.Listing,
	categories []models.Category, date string) {
	for _, cat := range categories {
		values := pricePerArea(listings, cat.Code)
		avg := round2(average(values))
		med := round2(median(values))

		upsert(series, cat.Code, date, avg, med)

		s.logger.Info("[stats] %s: %d listings — avg %.2f, median %.2f GEL/m²",
			cat.Name, len(values), avg, med)
	}
}

// pricePerArea returns the sorted price/m² values for one district.
func pricePerArea(listings []models.Listing, code int) []float64 {
	var values []float64
	for _, l := range listings {
		if l.Category != code || l.Area <= 0 {
			continue
		}
		values = append(values, l.Price/l.Area)
	}
	sort.Float64s(values)
	return values
}

// average is the arithmetic mean; 0 for an empty input.
func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// median applies the standard middle-element rule to an already sorted
// input: the middle value for odd lengths, the mean of the two middle
// values for even lengths; 0 for an empty input.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// upsert overwrites an existing point for the date in place, preserving
// its position, or appends a new one.
func upsert(series models.Series, code int, date string, avg, med float64) {
	points := series[code]
	for i := range points {
		if points[i].Date == date {
			points[i].Average = avg
			points[i].Median = med
			series[code] = points
			return
		}
	}
	series[code] = append(points, models.SeriesPoint{Date: date, Average: avg, Median: med})
}

// Print writes a summary table of the given date's values.
func (s *StatsService) Print(series models.Series, categories []models.Category, date string) {
	thin := strings.Repeat("─", 52)

	fmt.Printf("\n  Price per m² — %s\n", date)
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  %-20s %12s %12s\n", "District", "Average", "Median")
	fmt.Printf("  %s\n", thin)

	for _, cat := range categories {
		for _, p := range series[cat.Code] {
			if p.Date != date {
				continue
			}
			fmt.Printf("  %-20s %12.2f %12.2f\n", cat.Name, p.Average, p.Median)
		}
	}
	fmt.Printf("  %s\n\n", thin)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

package main

import (
	"os"
	"time"

	"district-price-tracker/config"
	"district-price-tracker/rates"
	"district-price-tracker/scraper/ssge"
	"district-price-tracker/services"
	"district-price-tracker/storage"
	"district-price-tracker/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== District Price Tracker starting ===")
	logger.Info("Config — rate limit: %dms | 429 retries: %d | page cap: %d | use cache: %v | persist cache: %v",
		cfg.RateLimitMs, cfg.MaxRetries, cfg.MaxPages, cfg.UseCache, cfg.PersistCache)

	categories, err := config.LoadCategories(cfg.CategoriesPath)
	if err != nil {
		logger.Error("Failed to load category table: %v", err)
		os.Exit(1)
	}
	logger.Info("Tracking %d districts", len(categories))

	rateSet, err := rates.NewClient(cfg.RatesURL).Fetch()
	if err != nil {
		logger.Error("Exchange rate fetch failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Exchange rates per 1 GEL — USD: %.4f | EUR: %.4f | GBP: %.4f",
		rateSet["USD"], rateSet["EUR"], rateSet["GBP"])

	cache := storage.NewFileListingCache(cfg.CachePath)
	collector := ssge.New(cfg, categories, rateSet, cache, logger)
	listings := collector.Collect()
	if len(listings) == 0 {
		logger.Warn("No listings collected this run — series will record zeros")
	}

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
	} else {
		if err := csvWriter.Write(listings); err != nil {
			logger.Error("CSV write failed: %v", err)
		} else {
			logger.Info("Listing snapshot saved to %s", cfg.CSVOutputPath)
		}
		csvWriter.Close()
	}

	store := storage.NewFileSeriesStore(cfg.DataPath)
	series := store.Load(categories)

	today := time.Now().Format("2006-01-02")
	statsSvc := services.NewStatsService(logger)
	statsSvc.MergeInto(series, listings, categories, today)

	if err := store.Save(series); err != nil {
		logger.Error("Series write failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Series updated — %s", cfg.DataPath)

	statsSvc.Print(series, categories, today)
}

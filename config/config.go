package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"district-price-tracker/models"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// ListingsURL is a format string taking the district code and the
	// page number, in that order.
	ListingsURL string
	RatesURL    string
	UserAgent   string

	RateLimitMs int
	MaxRetries  int
	BackoffMs   int
	MaxPages    int

	UseCache     bool
	PersistCache bool

	CachePath      string
	DataPath       string
	CSVOutputPath  string
	CategoriesPath string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ListingsURL: getEnv("LISTINGS_URL", "https://ss.ge/en/real-estate/l?districtId=%d&page=%d"),
		RatesURL:    getEnv("RATES_URL", "https://api.exchangerate.host/latest?base=GEL&symbols=USD,EUR,GBP"),
		UserAgent: getEnv("USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),

		RateLimitMs: getEnvInt("RATE_LIMIT_MS", 1000),
		MaxRetries:  getEnvInt("MAX_RETRIES", 5),
		BackoffMs:   getEnvInt("BACKOFF_MS", 2000),
		MaxPages:    getEnvInt("MAX_PAGES", 250),

		UseCache:     getEnvBool("USE_CACHE", false),
		PersistCache: getEnvBool("PERSIST_CACHE", false),

		CachePath:      getEnv("CACHE_PATH", "./output/listings_cache.json"),
		DataPath:       getEnv("DATA_PATH", "./output/data.json"),
		CSVOutputPath:  getEnv("CSV_OUTPUT_PATH", "./output/listings.csv"),
		CategoriesPath: getEnv("CATEGORIES_PATH", ""),
	}
}

// LoadCategories returns the district table. With an empty path the
// built-in table is used; otherwise the YAML file at path replaces it.
func LoadCategories(path string) ([]models.Category, error) {
	if path == "" {
		return models.DefaultCategories, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("categories: read %q: %w", path, err)
	}

	var file struct {
		Categories []models.Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("categories: parse %q: %w", path, err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("categories: %q defines no categories", path)
	}

	return file.Categories, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

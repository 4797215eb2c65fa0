// Package ssge collects apartment listings from the classifieds site,
// one district at a time, one page at a time.
package ssge

import (
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"district-price-tracker/config"
	"district-price-tracker/models"
	"district-price-tracker/rates"
	"district-price-tracker/storage"
	"district-price-tracker/utils"
)

// numberRegexp captures the leading numeric token of a price or area
// string, with thousands commas and an optional decimal part.
var numberRegexp = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// currencySymbols maps a literal symbol in the price text to a currency
// code, checked in order. No match means the price is already in GEL.
var currencySymbols = []struct {
	Symbol string
	Code   string
}{
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
}

// Listing cards appear in two containers on every page; both are valid.
var cardSelectors = []string{
	"div.top-list div.listing-card",
	"div.latest-list div.listing-card",
}

const pageIndicatorSelector = "span.pagination-current"

// Collector walks every configured district page by page and produces
// the run's deduplicated listing set.
type Collector struct {
	cfg        *config.Config
	categories []models.Category
	rates      rates.RateSet
	cache      storage.ListingCache
	logger     *utils.Logger
	httpClient *http.Client
	retry      *utils.Backoff

	collected *utils.IDSet
	listings  []models.Listing
}

// New creates a ready-to-use Collector.
func New(cfg *config.Config, categories []models.Category, rateSet rates.RateSet,
	cache storage.ListingCache, logger *utils.Logger) *Collector {
	return &Collector{
		cfg:        cfg,
		categories: categories,
		rates:      rateSet,
		cache:      cache,
		logger:     logger,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retry: &utils.Backoff{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   time.Duration(cfg.BackoffMs) * time.Millisecond,
			Logger:      logger,
		},
		collected: utils.NewIDSet(),
		listings:  make([]models.Listing, 0),
	}
}

// Collect returns the full listing set for this run. With UseCache set
// and a cache file present, the previous run's set is returned verbatim
// and no network request is made.
func (c *Collector) Collect() []models.Listing {
	if c.cfg.UseCache && c.cache != nil && c.cache.Exists() {
		cached, err := c.cache.Load()
		if err == nil {
			c.logger.Info("[ssge] Loaded %d listings from cache — skipping scrape", len(cached))
			return cached
		}
		c.logger.Warn("[ssge] Cache unreadable (%v) — scraping instead", err)
	}

	for _, cat := range c.categories {
		c.collectCategory(cat)
	}

	c.logger.Info("[ssge] Scrape complete — total listings: %d", len(c.listings))

	if c.cfg.PersistCache && c.cache != nil {
		if err := c.cache.Save(c.listings); err != nil {
			c.logger.Warn("[ssge] Cache write failed: %v", err)
		} else {
			c.logger.Info("[ssge] Listing set cached for later runs")
		}
	}

	return c.listings
}

// collectCategory pages through one district until the page indicator
// stops matching, a page fails, or the hard page cap is reached.
func (c *Collector) collectCategory(cat models.Category) {
	c.logger.Info("[ssge] Scraping district %s (code %d)", cat.Name, cat.Code)

	for page := 1; page <= c.cfg.MaxPages; page++ {
		doc, err := c.fetchPage(cat, page)
		if err != nil {
			c.logger.Error("[ssge] %s: page %d failed: %v — stopping district", cat.Name, page, err)
			return
		}

		if !c.extractPage(doc, cat, page) {
			c.logger.Info("[ssge] %s: pagination exhausted at page %d", cat.Name, page)
			return
		}

		c.logger.Debug("[ssge] %s: page %d done — %d listings so far", cat.Name, page, len(c.listings))
		time.Sleep(time.Duration(c.cfg.RateLimitMs) * time.Millisecond)
	}

	c.logger.Warn("[ssge] %s: hit hard page cap (%d)", cat.Name, c.cfg.MaxPages)
}

// fetchPage GETs one listings page. A 429 response triggers the backoff
// loop and refetches the SAME page; any other failure is returned and
// ends pagination for the district.
func (c *Collector) fetchPage(cat models.Category, page int) (*goquery.Document, error) {
	url := fmt.Sprintf(c.cfg.ListingsURL, cat.Code, page)
	var doc *goquery.Document

	err := c.retry.Do(fmt.Sprintf("district-%d-page-%d", cat.Code, page), func() (bool, error) {
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return false, err
		}
		req.Header.Set("User-Agent", c.cfg.UserAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return false, fmt.Errorf("fetch: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return false, nil
		}
		if resp.StatusCode != http.StatusOK {
			return false, fmt.Errorf("status %d", resp.StatusCode)
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return false, fmt.Errorf("parse: %w", err)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// extractPage pulls listings from one parsed page. It returns false
// when pagination is exhausted: the page indicator in the body no
// longer matches the page that was requested (the site re-serves page 1
// past the end), in which case the page content is discarded.
func (c *Collector) extractPage(doc *goquery.Document, cat models.Category, page int) bool {
	indicator := strings.TrimSpace(doc.Find(pageIndicatorSelector).First().Text())
	shown, err := strconv.Atoi(indicator)
	if err != nil || shown != page {
		return false
	}

	for _, sel := range cardSelectors {
		doc.Find(sel).Each(func(_ int, card *goquery.Selection) {
			c.extractListing(card, cat)
		})
	}
	return true
}

// extractListing parses one card into a Listing. Cards with an
// unparsable id, a duplicate id, or no price element are dropped
// silently; invalid price or area values are dropped with a warning.
func (c *Collector) extractListing(card *goquery.Selection, cat models.Category) {
	href, ok := card.Find("a.listing-link").First().Attr("href")
	if !ok {
		return
	}

	id, err := parseListingID(href)
	if err != nil || c.collected.Contains(id) {
		return
	}

	priceNode := card.Find("span.listing-price")
	if priceNode.Length() == 0 {
		return
	}

	priceText := priceNode.First().Text()
	price := parseNumber(priceText)
	if price == 0 || math.IsNaN(price) {
		c.logger.Warn("[ssge] Listing %d: invalid price %q — skipped", id, strings.TrimSpace(priceText))
		return
	}
	price = c.normalizePrice(price, priceText)

	area := parseArea(card.Find("div.listing-info").First().Text())
	if area == 0 {
		c.logger.Warn("[ssge] Listing %d: invalid area — skipped", id)
		return
	}

	c.collected.Add(id)
	c.listings = append(c.listings, models.Listing{
		ID:       id,
		Category: cat.Code,
		Price:    price,
		Area:     area,
	})
}

// normalizePrice converts a parsed price to GEL based on the currency
// symbol found in the price text. No recognized symbol means the price
// is already in GEL.
func (c *Collector) normalizePrice(value float64, priceText string) float64 {
	for _, cs := range currencySymbols {
		if strings.Contains(priceText, cs.Symbol) {
			return round2(value / c.rates[cs.Code])
		}
	}
	return round2(value)
}

// parseListingID extracts the integer id from the trailing path segment
// of a card link, e.g. "/en/real-estate/flat/4127345".
func parseListingID(href string) (int64, error) {
	if i := strings.IndexByte(href, '?'); i >= 0 {
		href = href[:i]
	}
	href = strings.TrimRight(href, "/")
	seg := href
	if i := strings.LastIndexByte(href, '/'); i >= 0 {
		seg = href[i+1:]
	}
	return strconv.ParseInt(seg, 10, 64)
}

// parseNumber reads the leading numeric token of a string; 0 when none.
func parseNumber(s string) float64 {
	match := numberRegexp.FindString(s)
	if match == "" {
		return 0
	}
	val, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0
	}
	return val
}

// parseArea reads the area from the third comma-separated field of the
// info blob, e.g. "3 rooms, 4/9 floor, 72 m²".
func parseArea(info string) float64 {
	fields := strings.Split(info, ",")
	if len(fields) < 3 {
		return 0
	}
	return parseNumber(fields[2])
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"property-analytics/models"
	"property-analytics/utils"
)

var (
	// priceRegexp captures the first numeric amount once commas are removed
	priceRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)
	// sqFtRegexp captures "1,250 sq ft", "980 sq. ft." and similar
	sqFtRegexp = regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?\s*sq\.?\s*ft`)
	// countRegexp accepts a bare non-negative integer
	countRegexp = regexp.MustCompile(`^\d+$`)
)

// Cleaner transforms RawListings into clean, validated Listings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean processes raw listings and returns cleaned records. Listings without
// a URL are dropped and repeated URLs are kept once.
func (c *Cleaner) Clean(raw []*models.RawListing) []models.Listing {
	seen := make(map[string]struct{})
	result := make([]models.Listing, 0, len(raw))

	for _, r := range raw {
		url := strings.TrimSpace(r.URL)
		if url == "" {
			c.logger.Warn("[cleaner] Dropping listing with empty URL: %s", r.Address)
			continue
		}

		if _, dup := seen[url]; dup {
			c.logger.Debug("[cleaner] Duplicate URL skipped: %s", url)
			continue
		}
		seen[url] = struct{}{}

		address := normaliseText(r.Address)
		bedrooms := parseCount(r.RawBedrooms)
		bathrooms := parseCount(r.RawBathrooms)

		scrapedAt := r.ScrapedAt
		if scrapedAt.IsZero() {
			scrapedAt = time.Now().UTC()
		}

		result = append(result, models.Listing{
			Title:        buildTitle(address, bedrooms, bathrooms),
			Address:      address,
			Price:        c.parsePrice(r.RawPrice),
			Bedrooms:     bedrooms,
			Bathrooms:    bathrooms,
			Area:         c.parseSqFt(r.SizeText),
			AddedOn:      normaliseText(r.AddedOn),
			URL:          url,
			SearchOrigin: strings.TrimSpace(r.SearchOrigin),
			ScrapedAt:    scrapedAt,
		})
	}

	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// parsePrice extracts the asking price. Examples:
//
//	"£450,000" → 450000
//	"Offers in Excess of £1,250,000" → 1250000
//	"POA" → nil
func (c *Cleaner) parsePrice(raw string) *float64 {
	cleaned := strings.ReplaceAll(raw, ",", "")
	match := priceRegexp.FindString(cleaned)
	if match == "" {
		return nil
	}

	price, err := strconv.ParseFloat(match, 64)
	if err != nil {
		c.logger.Debug("[cleaner] Unparsable price %q: %v", raw, err)
		return nil
	}
	return &price
}

// parseSqFt extracts the first square-footage figure from detail page text.
func (c *Cleaner) parseSqFt(text string) *float64 {
	m := sqFtRegexp.FindStringSubmatch(text)
	if len(m) < 2 {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseCount reads a bedroom or bathroom count; anything but digits is absent.
func parseCount(raw string) *int {
	raw = strings.TrimSpace(raw)
	if !countRegexp.MatchString(raw) {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func buildTitle(address string, bedrooms, bathrooms *int) string {
	if address == "" {
		address = "N/A"
	}
	return fmt.Sprintf("%s, %s bedrooms, %s bathrooms", address, countText(bedrooms), countText(bathrooms))
}

func countText(n *int) string {
	if n == nil {
		return "N/A"
	}
	return strconv.Itoa(*n)
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

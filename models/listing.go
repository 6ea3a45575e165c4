package models

import "time"

// RawListing holds unprocessed scraped data directly from the browser.
// This is written to CSV before any cleaning or transformation.
type RawListing struct {
	Address      string
	RawPrice     string
	RawBedrooms  string
	RawBathrooms string
	SizeText     string
	AddedOn      string
	URL          string
	SearchOrigin string
	ScrapedAt    time.Time
}

// Listing is one cleaned property record. Nil fields were not present on
// the source page.
type Listing struct {
	ID           int64     `json:"-"`
	Title        string    `json:"title"`
	Address      string    `json:"address,omitempty"`
	Price        *float64  `json:"price"`
	Bedrooms     *int      `json:"bedrooms"`
	Bathrooms    *int      `json:"bathrooms"`
	Area         *float64  `json:"sqFt"`
	AddedOn      string    `json:"date,omitempty"`
	URL          string    `json:"property_url"`
	SearchOrigin string    `json:"-"`
	ScrapedAt    time.Time `json:"-"`
}

// DerivedListing is a Listing plus the per-unit metrics computed from it.
type DerivedListing struct {
	Listing
	PricePerArea    *float64 `json:"pricePerSqFt"`
	PricePerBedroom *float64 `json:"pricePerBedroom"`
}

// Bin is one occupied histogram bucket.
type Bin struct {
	Bin   float64 `json:"bin"`
	Count int     `json:"count"`
}

// Summary holds the pre-aggregated numbers returned next to a listing set.
type Summary struct {
	AveragePrice     float64 `json:"averagePrice"`
	AvgSquareFootage float64 `json:"avgSquareFootage"`
	PricePerSqFt     float64 `json:"pricePerSqFt"`
	SqFtDistribution string  `json:"sqFtDistribution"`
}

// PropertiesResponse is the listing source payload for one search origin.
type PropertiesResponse struct {
	Properties []Listing `json:"properties"`
	Summary
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

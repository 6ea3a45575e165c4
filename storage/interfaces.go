package storage

import (
	"context"

	"property-analytics/models"
)

// ListingStore is the interface any storage backend for cleaned listings must satisfy.
type ListingStore interface {
	FetchBySearchOrigin(ctx context.Context, origin string, limit int) ([]models.Listing, error)
	Write(ctx context.Context, listings []models.Listing) error
	Prune(ctx context.Context, maxEntries, dropOrigins int) (int64, error)
	Close() error
}

// RawListingWriter is the interface for persisting unprocessed scraped data.
type RawListingWriter interface {
	WriteRaw(listings []*models.RawListing) error
	Close() error
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"property-analytics/models"
	"property-analytics/storage"
	"property-analytics/utils"
)

var (
	ErrMissingOrigin = errors.New("search_url_origin is required")
	ErrNoProperties  = errors.New("no properties found for search")
	ErrScrapeFailed  = errors.New("scrape failed")
)

// Scraper fetches raw listings for a search URL.
type Scraper interface {
	Scrape(ctx context.Context, searchURL string) ([]*models.RawListing, error)
}

// PropertyOptions bounds what the service reads and keeps.
type PropertyOptions struct {
	QueryLimit       int
	MaxStoredEntries int
	PruneOrigins     int
}

// PropertyService serves listings for a search origin, scraping on a cache miss.
type PropertyService struct {
	store    storage.ListingStore
	scraper  Scraper
	cleaner  *Cleaner
	insights *InsightService
	logger   *utils.Logger
	opts     PropertyOptions
	group    singleflight.Group
}

func NewPropertyService(store storage.ListingStore, scraper Scraper, logger *utils.Logger, opts PropertyOptions) *PropertyService {
	if opts.QueryLimit <= 0 {
		opts.QueryLimit = 37
	}
	if opts.MaxStoredEntries <= 0 {
		opts.MaxStoredEntries = 1000
	}
	return &PropertyService{
		store:    store,
		scraper:  scraper,
		cleaner:  NewCleaner(logger),
		insights: NewInsightService(logger),
		logger:   logger,
		opts:     opts,
	}
}

// Get returns the stored listings for origin with their summary. When none
// are stored yet the search is scraped once, even under concurrent callers.
func (s *PropertyService) Get(ctx context.Context, origin string) (*models.PropertiesResponse, error) {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return nil, ErrMissingOrigin
	}

	listings, err := s.store.FetchBySearchOrigin(ctx, origin, s.opts.QueryLimit)
	if err != nil {
		return nil, err
	}

	if len(listings) == 0 {
		// The shared scrape must outlive any single caller's request.
		shared := context.WithoutCancel(ctx)
		v, err, joined := s.group.Do(origin, func() (any, error) {
			return s.scrapeAndStore(shared, origin)
		})
		if joined {
			s.logger.Debug("[properties] Joined in-flight scrape for %s", origin)
		}
		if err != nil {
			return nil, err
		}
		listings = v.([]models.Listing)
	}

	if len(listings) == 0 {
		return nil, ErrNoProperties
	}

	return &models.PropertiesResponse{
		Properties: listings,
		Summary:    s.insights.Summarize(listings),
	}, nil
}

func (s *PropertyService) scrapeAndStore(ctx context.Context, origin string) ([]models.Listing, error) {
	s.logger.Info("[properties] No stored listings for %s, scraping", origin)

	raw, err := s.scraper.Scrape(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScrapeFailed, err)
	}
	for _, r := range raw {
		r.SearchOrigin = origin
	}

	cleaned := s.cleaner.Clean(raw)
	if len(cleaned) == 0 {
		return nil, nil
	}

	if err := s.store.Write(ctx, cleaned); err != nil {
		return nil, err
	}

	removed, err := s.store.Prune(ctx, s.opts.MaxStoredEntries, s.opts.PruneOrigins)
	if err != nil {
		s.logger.Warn("[properties] Prune failed: %v", err)
	} else if removed > 0 {
		s.logger.Info("[properties] Pruned %d rows from oldest searches", removed)
	}

	return s.store.FetchBySearchOrigin(ctx, origin, s.opts.QueryLimit)
}

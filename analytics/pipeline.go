package analytics

import (
	"fmt"

	"property-analytics/models"
)

// Reference view settings.
const (
	DefaultPriceBinSize = 500000
	DefaultAreaBinSize  = 500
	DefaultTopN         = 5
)

// ViewParams is everything the presentation layer chooses. It is passed by
// value into Run; nothing is remembered between runs.
type ViewParams struct {
	Ranges        Ranges   `json:"ranges" yaml:"ranges"`
	Sort          SortSpec `json:"sort" yaml:"sort"`
	PriceBinSize  float64  `json:"priceBinSize" yaml:"price_bin_size"`
	AreaBinSize   float64  `json:"sqFtBinSize" yaml:"area_bin_size"`
	TopN          int      `json:"topN" yaml:"top_n"`
	BedroomGroups []int    `json:"bedroomGroups" yaml:"bedroom_groups"`
}

// DefaultViewParams returns the wide-open ranges and settings the dashboard
// starts with.
func DefaultViewParams() ViewParams {
	return ViewParams{
		Ranges: Ranges{
			Price:     Range{Min: 0, Max: 100000000},
			Bedrooms:  Range{Min: 0, Max: 100},
			Bathrooms: Range{Min: 0, Max: 100},
			Area:      Range{Min: 0, Max: 100000},
		},
		Sort:          SortSpec{Key: SortByPrice, Direction: Asc},
		PriceBinSize:  DefaultPriceBinSize,
		AreaBinSize:   DefaultAreaBinSize,
		TopN:          DefaultTopN,
		BedroomGroups: []int{0, 1, 2, 3},
	}
}

// Validate checks every parameter up front so Run fails before doing any work.
func (p ViewParams) Validate() error {
	if err := p.Ranges.Validate(); err != nil {
		return err
	}
	if err := p.Sort.Validate(); err != nil {
		return err
	}
	if err := validateBinSize(p.PriceBinSize); err != nil {
		return fmt.Errorf("price histogram: %w", err)
	}
	if err := validateBinSize(p.AreaBinSize); err != nil {
		return fmt.Errorf("area histogram: %w", err)
	}
	if p.TopN <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, p.TopN)
	}
	return nil
}

// Report is the full set of derived views for one run.
type Report struct {
	Total                  int                     `json:"totalProperties"`
	Displayed              int                     `json:"displayedProperties"`
	View                   []models.DerivedListing `json:"properties"`
	PriceHistogram         []models.Bin            `json:"priceHistogram"`
	AreaHistogram          []models.Bin            `json:"sqFtHistogram"`
	TopByPricePerArea      []models.DerivedListing `json:"topByPricePerSqFt"`
	TopByPricePerBedroom   []models.DerivedListing `json:"topByPricePerBedroom"`
	AveragePriceByBedrooms GroupMeans              `json:"averagePricesByBedrooms"`
}

// Run recomputes every view from scratch. Histograms cover the filtered
// view; rankings and bedroom averages cover all listings.
func Run(listings []models.Listing, p ViewParams) (*Report, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	derived := Derive(listings)

	filtered, err := Filter(derived, p.Ranges)
	if err != nil {
		return nil, err
	}
	view, err := Sort(filtered, p.Sort.Key, p.Sort.Direction)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Total:     len(derived),
		Displayed: len(view),
		View:      view,
	}

	if r.PriceHistogram, err = Histogram(view, AttrPrice, p.PriceBinSize); err != nil {
		return nil, err
	}
	if r.AreaHistogram, err = Histogram(view, AttrArea, p.AreaBinSize); err != nil {
		return nil, err
	}
	if r.TopByPricePerArea, err = TopN(derived, AttrPricePerArea, p.TopN); err != nil {
		return nil, err
	}
	if r.TopByPricePerBedroom, err = TopN(derived, AttrPricePerBedroom, p.TopN); err != nil {
		return nil, err
	}

	groups := make([]float64, len(p.BedroomGroups))
	for i, b := range p.BedroomGroups {
		groups[i] = float64(b)
	}
	if r.AveragePriceByBedrooms, err = GroupAverage(derived, AttrBedrooms, groups, AttrPrice); err != nil {
		return nil, err
	}
	return r, nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"property-analytics/analytics"
)

// viewFile mirrors the YAML layout of a view defaults file:
//
//	ranges:
//	  price: {min: 0, max: 2000000}
//	sort: sqft_desc
//	price_bin_size: 250000
//	area_bin_size: 500
//	top_n: 5
//	bedroom_groups: [0, 1, 2, 3]
//
// Omitted keys keep the built-in defaults.
type viewFile struct {
	Ranges struct {
		Price     *analytics.Range `yaml:"price"`
		Bedrooms  *analytics.Range `yaml:"bedrooms"`
		Bathrooms *analytics.Range `yaml:"bathrooms"`
		Area      *analytics.Range `yaml:"area"`
	} `yaml:"ranges"`
	Sort          string  `yaml:"sort"`
	PriceBinSize  float64 `yaml:"price_bin_size"`
	AreaBinSize   float64 `yaml:"area_bin_size"`
	TopN          int     `yaml:"top_n"`
	BedroomGroups []int   `yaml:"bedroom_groups"`
}

// LoadView returns the dashboard view defaults. An empty path yields
// analytics.DefaultViewParams; otherwise the YAML file overrides them.
func LoadView(path string) (analytics.ViewParams, error) {
	p := analytics.DefaultViewParams()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return p, fmt.Errorf("config: read view file %s: %w", path, err)
	}

	var vf viewFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return p, fmt.Errorf("config: parse view file: %w", err)
	}

	if vf.Ranges.Price != nil {
		p.Ranges.Price = *vf.Ranges.Price
	}
	if vf.Ranges.Bedrooms != nil {
		p.Ranges.Bedrooms = *vf.Ranges.Bedrooms
	}
	if vf.Ranges.Bathrooms != nil {
		p.Ranges.Bathrooms = *vf.Ranges.Bathrooms
	}
	if vf.Ranges.Area != nil {
		p.Ranges.Area = *vf.Ranges.Area
	}
	if vf.Sort != "" {
		spec, err := analytics.ParseSortOption(vf.Sort)
		if err != nil {
			return p, fmt.Errorf("config: view sort: %w", err)
		}
		p.Sort = spec
	}
	if vf.PriceBinSize != 0 {
		p.PriceBinSize = vf.PriceBinSize
	}
	if vf.AreaBinSize != 0 {
		p.AreaBinSize = vf.AreaBinSize
	}
	if vf.TopN != 0 {
		p.TopN = vf.TopN
	}
	if len(vf.BedroomGroups) > 0 {
		p.BedroomGroups = vf.BedroomGroups
	}

	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("config: invalid view: %w", err)
	}
	return p, nil
}

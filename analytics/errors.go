package analytics

import "errors"

var (
	// ErrInvalidBinSize signals a histogram bucket width that is not a positive finite number.
	ErrInvalidBinSize = errors.New("bin size must be a positive finite number")
	// ErrInvalidRange signals a range bound that is not a number.
	ErrInvalidRange = errors.New("invalid range")
	// ErrInvalidSortKey signals an unknown sort key.
	ErrInvalidSortKey = errors.New("invalid sort key")
	// ErrInvalidDirection signals an unknown sort direction.
	ErrInvalidDirection = errors.New("invalid sort direction")
	// ErrInvalidMetric signals a ranking metric other than a derived per-unit price.
	ErrInvalidMetric = errors.New("invalid ranking metric")
	// ErrInvalidLimit signals a non-positive ranking size.
	ErrInvalidLimit = errors.New("ranking size must be positive")
	// ErrInvalidAttribute signals an unknown listing attribute.
	ErrInvalidAttribute = errors.New("invalid attribute")
)

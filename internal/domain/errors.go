package domain

import "errors"

var (
	// ErrAnimalTypeNotFound is returned when no known animal type can be identified in a product
	ErrAnimalTypeNotFound = errors.New("no animal type identified in product")

	// ErrProductNotFound is returned when the product provider has no product for a barcode
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrProviderFailure is returned when the product provider request fails
	ErrProviderFailure = errors.New("product provider request failed")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrPatternTable is returned when a keyword table cannot be compiled
	ErrPatternTable = errors.New("invalid pattern table")
)

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrEmptyQuery is returned when a chatbot query is missing or blank
	ErrEmptyQuery = fmt.Errorf("%w: query is required", ErrInvalidRequest)

	// ErrOutletNotFound is returned when no outlet has the requested id
	ErrOutletNotFound = errors.New("outlet not found")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrGeneratorUnconfigured is returned when the text generation service has no credentials
	ErrGeneratorUnconfigured = errors.New("text generation service not configured")

	// ErrGeneratorFailure is returned when a text generation request fails
	ErrGeneratorFailure = errors.New("text generation request failed")

	// ErrAddressNotFound is returned when the geocoder has no result for an address
	ErrAddressNotFound = errors.New("address not found by geocoder")

	// ErrGeocoderFailure is returned when a geocoding request fails
	ErrGeocoderFailure = errors.New("geocoding request failed")
)

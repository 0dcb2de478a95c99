package domain

import "errors"

var (
	// ErrProductNotFound is returned when no product matches the requested id
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrFeedUnavailable is returned when the catalog feed cannot be fetched
	ErrFeedUnavailable = errors.New("catalog feed request failed")

	// ErrFeedMalformed is returned when the feed document cannot be parsed
	ErrFeedMalformed = errors.New("catalog feed document is malformed")

	// ErrRefreshInFlight is returned when a catalog refresh is already running
	ErrRefreshInFlight = errors.New("catalog refresh already in progress")
)

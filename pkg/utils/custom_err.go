package utils

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrSearchUnavailable    = errors.New("search unavailable")
	ErrGenerationFailed     = errors.New("generation failed")
	ErrUnparseableItinerary = errors.New("unparseable itinerary")
	ErrPlanNotFound         = errors.New("plan not found")
)

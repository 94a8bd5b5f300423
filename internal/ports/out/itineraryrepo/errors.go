package itineraryrepo

import "errors"

var (
	ErrNotFound = errors.New("itinerary not found")

	// ErrOwnerMismatch indicates the id is already stored for another owner.
	ErrOwnerMismatch = errors.New("itinerary belongs to another owner")

	// ErrInvalid indicates an unknown budget or status value.
	ErrInvalid = errors.New("invalid itinerary")
)

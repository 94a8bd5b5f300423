package domain

// ItineraryID identifies an itinerary record.
// Clients mint a uuid when the server has not assigned one yet.
type ItineraryID string

// UserID is the identity provider's opaque user identifier (e.g. a Firebase uid).
type UserID string

package generator

import (
	"context"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
)

// Generated is a successful generation response. The trip fields are echoed by the service.
type Generated struct {
	Destination string
	Days        int
	Budget      domain.Budget
	Content     string
	ImageURL    *string
}

// Generator calls the remote itinerary generation endpoint.
type Generator interface {
	Generate(ctx context.Context, prefs domain.Preferences) (Generated, error)
}

// Answerer calls the remote travel question endpoint.
type Answerer interface {
	Ask(ctx context.Context, question, destination string) (string, error)
}

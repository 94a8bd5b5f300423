package domain

import "time"

// MaxRecentItineraries bounds the in-memory itinerary list kept for a session.
const MaxRecentItineraries = 20

type Budget string

const (
	BudgetBudget   Budget = "budget"
	BudgetModerate Budget = "moderate"
	BudgetLuxury   Budget = "luxury"
)

func (b Budget) Valid() bool {
	switch b {
	case BudgetBudget, BudgetModerate, BudgetLuxury:
		return true
	default:
		return false
	}
}

type ItineraryStatus string

const (
	ItineraryStatusDraft   ItineraryStatus = "draft"
	ItineraryStatusPlanned ItineraryStatus = "planned"
)

func (s ItineraryStatus) Valid() bool {
	return s == ItineraryStatusDraft || s == ItineraryStatusPlanned
}

// Itinerary is a generated, ownable, persistable travel plan.
// It is only ever replaced as a whole; there are no partial-field patches.
type Itinerary struct {
	ID          ItineraryID
	OwnerEmail  string
	Destination string
	Days        int
	Budget      Budget
	Content     string
	ImageURL    *string
	Interests   []string
	CreatedAt   time.Time
	Status      ItineraryStatus
}

// Clone returns a deep copy so callers can never alias slices held by the session.
func (it Itinerary) Clone() Itinerary {
	cp := it
	if it.ImageURL != nil {
		v := *it.ImageURL
		cp.ImageURL = &v
	}
	if it.Interests != nil {
		cp.Interests = append([]string(nil), it.Interests...)
	}
	return cp
}

// CloneItineraries deep-copies a list, preserving nil.
func CloneItineraries(in []Itinerary) []Itinerary {
	if in == nil {
		return nil
	}
	out := make([]Itinerary, len(in))
	for i, it := range in {
		out[i] = it.Clone()
	}
	return out
}

package domain

import "strings"

const (
	MinTripDays = 1
	MaxTripDays = 30
)

// Preferences is the trip form submitted for generation.
type Preferences struct {
	Destination     string   `json:"destination" validate:"required"`
	Days            int      `json:"days" validate:"min=1,max=30"`
	Budget          Budget   `json:"budget" validate:"required,oneof=budget moderate luxury"`
	Interests       []string `json:"interests"`
	AdditionalNotes string   `json:"additionalNotes"`
}

// Normalized returns a copy with whitespace trimmed and interests reduced to a set.
// The notes are kept verbatim apart from surrounding whitespace.
func (p Preferences) Normalized() Preferences {
	return Preferences{
		Destination:     NormalizeHumanName(p.Destination),
		Days:            p.Days,
		Budget:          Budget(strings.ToLower(strings.TrimSpace(string(p.Budget)))),
		Interests:       NormalizeInterests(p.Interests),
		AdditionalNotes: strings.TrimSpace(p.AdditionalNotes),
	}
}

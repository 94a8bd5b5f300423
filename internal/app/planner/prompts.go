package planner

import (
	"fmt"
	"strings"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
)

// SystemPrompt frames every completion request.
const SystemPrompt = "You are an expert travel assistant with deep knowledge of destinations worldwide."

// BuildItineraryPrompt renders the generation prompt for normalized preferences.
func BuildItineraryPrompt(p domain.Preferences) string {
	interests := "General sightseeing"
	if len(p.Interests) > 0 {
		interests = strings.Join(p.Interests, ", ")
	}
	notes := "None"
	if p.AdditionalNotes != "" {
		notes = p.AdditionalNotes
	}

	return fmt.Sprintf(`Create a detailed travel itinerary for a %d-day trip to %s.

Budget Level: %s
Interests: %s
Additional Requirements: %s

Please provide:
1. Day-by-day itinerary with morning, afternoon, and evening activities
2. Recommended accommodations (with approximate prices)
3. Transportation suggestions
4. Estimated daily budget breakdown
5. Must-visit attractions and hidden gems
6. Local food recommendations
7. Practical tips and cultural considerations
8. Best time to visit each attraction

Format the response in a clear, structured way with proper headings and bullet points.`,
		p.Days, p.Destination, p.Budget, interests, notes)
}

// BuildQuestionPrompt renders a free-form travel question. An empty
// destination asks about travel in general.
func BuildQuestionPrompt(question, destination string) string {
	if destination == "" {
		destination = "travel"
	}
	return fmt.Sprintf(`Answer this travel-related question about %s:

Question: %s

Provide a detailed, helpful answer based on current information.`, destination, question)
}

package planner

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	apperrors "github.com/Overland-East-Bay/itinerary-planner/internal/errors"
	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/metrics"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/textgen"
)

// Generated is the outcome of a generation call. ImageURL is nil when no
// image source is configured.
type Generated struct {
	Destination string
	Days        int
	Budget      domain.Budget
	Content     string
	ImageURL    *string
}

// Generate fills defaults (3 days, moderate budget), validates the preferences
// and asks the completer for an itinerary.
func (s *Service) Generate(ctx context.Context, prefs domain.Preferences) (Generated, error) {
	p := prefs.Normalized()
	if p.Destination == "" {
		return Generated{}, badRequest("Destination is required")
	}
	if p.Days == 0 {
		p.Days = DefaultDays
	}
	if p.Budget == "" {
		p.Budget = DefaultBudget
	}
	if err := s.validate.Validate(p); err != nil {
		return Generated{}, badRequest(apperrors.MessageOf(err))
	}

	text, err := s.complete(ctx, BuildItineraryPrompt(p))
	if err != nil {
		s.log.Error("generate itinerary failed",
			slog.String("destination", p.Destination),
			slog.String("error", err.Error()),
		)
		return Generated{}, &Error{
			Status:  http.StatusInternalServerError,
			Code:    CodeUpstream,
			Message: "Failed to generate itinerary",
			Details: err.Error(),
		}
	}
	return Generated{
		Destination: p.Destination,
		Days:        p.Days,
		Budget:      p.Budget,
		Content:     text,
		ImageURL:    s.imageURL(p.Destination),
	}, nil
}

// Ask answers a free-form question. Answers are cached per destination and
// question, compared case-insensitively.
func (s *Service) Ask(ctx context.Context, question, destination string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", badRequest("Question is required")
	}
	destination = domain.NormalizeHumanName(destination)

	key := strings.ToLower(destination) + "\x00" + strings.ToLower(question)
	if v, ok := s.answers.Get(key); ok {
		s.metrics.RecordAnswerCache(true)
		return v.(string), nil
	}
	s.metrics.RecordAnswerCache(false)

	answer, err := s.complete(ctx, BuildQuestionPrompt(question, destination))
	if err != nil {
		s.log.Error("answer question failed", slog.String("error", err.Error()))
		return "", &Error{
			Status:  http.StatusInternalServerError,
			Code:    CodeUpstream,
			Message: "Failed to answer question",
			Details: err.Error(),
		}
	}
	s.answers.SetDefault(key, answer)
	return answer, nil
}

func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	if s.completer == nil {
		return "", textgen.ErrNotConfigured
	}
	start := time.Now()
	text, err := s.completer.Complete(ctx, SystemPrompt, prompt)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	s.metrics.RecordGeneration(outcome, time.Since(start))
	return text, err
}

func (s *Service) imageURL(destination string) *string {
	if s.imageTemplate == "" {
		return nil
	}
	u := strings.ReplaceAll(s.imageTemplate, "{destination}", url.QueryEscape(destination))
	return &u
}

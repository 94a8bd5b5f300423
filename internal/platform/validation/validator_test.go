package validation

import (
	"testing"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	apperrors "github.com/Overland-East-Bay/itinerary-planner/internal/errors"
)

func TestValidate_Preferences(t *testing.T) {
	t.Parallel()

	v := New()
	tests := []struct {
		name      string
		prefs     domain.Preferences
		wantField string
		wantMsg   string
	}{
		{name: "ok", prefs: domain.Preferences{Destination: "Kyoto", Days: 5, Budget: domain.BudgetModerate}},
		{name: "missing destination", prefs: domain.Preferences{Days: 5, Budget: domain.BudgetModerate}, wantField: "destination", wantMsg: "is required"},
		{name: "zero days", prefs: domain.Preferences{Destination: "Kyoto", Days: 0, Budget: domain.BudgetModerate}, wantField: "days", wantMsg: "must be at least 1"},
		{name: "too many days", prefs: domain.Preferences{Destination: "Kyoto", Days: 31, Budget: domain.BudgetLuxury}, wantField: "days", wantMsg: "must be at most 30"},
		{name: "bad budget", prefs: domain.Preferences{Destination: "Kyoto", Days: 3, Budget: "cheap"}, wantField: "budget", wantMsg: "must be one of: budget moderate luxury"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := v.Validate(tt.prefs)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			var e *apperrors.Error
			if !apperrors.As(err, &e) || e.Kind != apperrors.KindValidation {
				t.Fatalf("err=%v, want validation error", err)
			}
			if got := e.Details[tt.wantField]; got != tt.wantMsg {
				t.Fatalf("details[%s]=%q, want %q", tt.wantField, got, tt.wantMsg)
			}
		})
	}
}

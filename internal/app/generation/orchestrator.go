package generation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	apperrors "github.com/Overland-East-Bay/itinerary-planner/internal/errors"
	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/logger"
	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/validation"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/clock"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/generator"
)

type State int

const (
	StateIdle State = iota
	StateRequesting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is a successful generation. Saved is false when the auto-save failed;
// the itinerary content is kept either way.
type Result struct {
	Itinerary domain.Itinerary
	Saved     bool
	SaveErr   error
}

// Status is a snapshot of the orchestrator. Preferences holds the last submitted
// form so a failed request can be retried without re-entering it.
type Status struct {
	State       State
	Preferences domain.Preferences
	Result      *Result
	Err         error
}

// Persister saves a freshly generated itinerary.
type Persister interface {
	SaveItinerary(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)
}

type Options struct {
	Validator *validation.Validator
	Logger    *slog.Logger
	// NewID mints itinerary ids; defaults to uuid v4.
	NewID func() string
	// OnChange is called after every state transition, outside the orchestrator lock.
	OnChange func(Status)
}

// Orchestrator runs one generate-then-persist request at a time.
type Orchestrator struct {
	gen      generator.Generator
	clock    clock.Clock
	validate *validation.Validator
	log      *slog.Logger
	newID    func() string
	onChange func(Status)

	mu     sync.Mutex
	status Status
}

func New(gen generator.Generator, clk clock.Clock, opts Options) *Orchestrator {
	o := &Orchestrator{
		gen:      gen,
		clock:    clk,
		validate: opts.Validator,
		log:      logger.OrDefault(opts.Logger),
		newID:    opts.NewID,
		onChange: opts.OnChange,
	}
	if o.validate == nil {
		o.validate = validation.New()
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}
	return o
}

// Submit validates prefs, calls the generator and auto-saves the result through persist.
//
// It returns Busy while another request is in flight and Validation for invalid
// preferences; neither touches the network or the current status. A generation
// failure is returned as an error and recorded as StateFailed. A save failure is
// not an error: it is reported in Result.SaveErr.
func (o *Orchestrator) Submit(ctx context.Context, prefs domain.Preferences, persist Persister) (Result, error) {
	prefs = prefs.Normalized()

	o.mu.Lock()
	if o.status.State == StateRequesting {
		o.mu.Unlock()
		return Result{}, apperrors.Busy()
	}
	if err := o.validate.Validate(prefs); err != nil {
		o.mu.Unlock()
		return Result{}, err
	}
	o.status = Status{State: StateRequesting, Preferences: prefs}
	o.mu.Unlock()
	o.changed()

	g, err := o.gen.Generate(ctx, prefs)
	if err != nil {
		err = classify(err)
		o.finish(Status{State: StateFailed, Preferences: prefs, Err: err})
		return Result{}, err
	}

	res := Result{Itinerary: o.build(prefs, g)}
	if persist != nil {
		saved, serr := persist.SaveItinerary(ctx, res.Itinerary)
		if serr != nil {
			res.SaveErr = serr
			o.log.Warn("generated itinerary not saved",
				slog.String("itinerary_id", string(res.Itinerary.ID)),
				slog.String("error", serr.Error()),
			)
		} else {
			res.Itinerary = saved
			res.Saved = true
		}
	}

	out := res
	o.finish(Status{State: StateSucceeded, Preferences: prefs, Result: &out})
	return res, nil
}

// Acknowledge returns a finished request to StateIdle. The last preferences are kept.
func (o *Orchestrator) Acknowledge() {
	o.mu.Lock()
	if o.status.State != StateSucceeded && o.status.State != StateFailed {
		o.mu.Unlock()
		return
	}
	o.status = Status{State: StateIdle, Preferences: o.status.Preferences}
	o.mu.Unlock()
	o.changed()
}

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return copyStatus(o.status)
}

func (o *Orchestrator) InFlight() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status.State == StateRequesting
}

func (o *Orchestrator) build(prefs domain.Preferences, g generator.Generated) domain.Itinerary {
	it := domain.Itinerary{
		ID:          domain.ItineraryID(o.newID()),
		Destination: g.Destination,
		Days:        g.Days,
		Budget:      g.Budget,
		Content:     g.Content,
		Interests:   append([]string(nil), prefs.Interests...),
		CreatedAt:   o.clock.Now().UTC(),
		Status:      domain.ItineraryStatusPlanned,
	}
	if g.ImageURL != nil {
		v := *g.ImageURL
		it.ImageURL = &v
	}
	// The service echoes the trip; fall back to the request when it does not.
	if it.Destination == "" {
		it.Destination = prefs.Destination
	}
	if it.Days <= 0 {
		it.Days = prefs.Days
	}
	if !it.Budget.Valid() {
		it.Budget = prefs.Budget
	}
	return it
}

func (o *Orchestrator) finish(st Status) {
	o.mu.Lock()
	o.status = st
	o.mu.Unlock()
	o.changed()
}

func (o *Orchestrator) changed() {
	if o.onChange == nil {
		return
	}
	o.onChange(o.Status())
}

func copyStatus(s Status) Status {
	out := s
	out.Preferences.Interests = append([]string(nil), s.Preferences.Interests...)
	if s.Result != nil {
		r := *s.Result
		r.Itinerary = s.Result.Itinerary.Clone()
		out.Result = &r
	}
	return out
}

func classify(err error) error {
	var e *apperrors.Error
	if apperrors.As(err, &e) {
		return err
	}
	return apperrors.Transport(err)
}

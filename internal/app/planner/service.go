package planner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/logger"
	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/metrics"
	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/validation"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/avatarstore"
	clockport "github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/clock"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/itineraryrepo"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/profilerepo"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/textgen"
)

const (
	DefaultDays      = 3
	DefaultBudget    = domain.BudgetModerate
	DefaultAnswerTTL = 30 * time.Minute

	MaxAvatarBytes = 2 << 20
)

type Options struct {
	Avatars   avatarstore.Store
	Completer textgen.Completer
	Logger    *slog.Logger
	Metrics   metrics.Recorder
	Validator *validation.Validator

	// ImageURLTemplate has {destination} replaced by the query-escaped destination.
	ImageURLTemplate string
	AnswerTTL        time.Duration
	AvatarMaxBytes   int64
}

// Service implements the backend use-cases behind the planner HTTP API.
type Service struct {
	itineraries itineraryrepo.Repository
	profiles    profilerepo.Repository
	avatars     avatarstore.Store
	completer   textgen.Completer
	clk         clockport.Clock
	log         *slog.Logger
	metrics     metrics.Recorder
	validate    *validation.Validator
	answers     *gocache.Cache

	newID         func() string
	imageTemplate string

	// ListLimit bounds listing size.
	ListLimit      int
	AvatarMaxBytes int64
}

func NewService(itineraries itineraryrepo.Repository, profiles profilerepo.Repository, clk clockport.Clock, opts Options) *Service {
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}
	if opts.Validator == nil {
		opts.Validator = validation.New()
	}
	if opts.AnswerTTL <= 0 {
		opts.AnswerTTL = DefaultAnswerTTL
	}
	if opts.AvatarMaxBytes <= 0 {
		opts.AvatarMaxBytes = MaxAvatarBytes
	}
	return &Service{
		itineraries:    itineraries,
		profiles:       profiles,
		avatars:        opts.Avatars,
		completer:      opts.Completer,
		clk:            clk,
		log:            logger.OrDefault(opts.Logger),
		metrics:        opts.Metrics,
		validate:       opts.Validator,
		answers:        gocache.New(opts.AnswerTTL, 2*opts.AnswerTTL),
		newID:          uuid.NewString,
		imageTemplate:  opts.ImageURLTemplate,
		ListLimit:      domain.MaxRecentItineraries,
		AvatarMaxBytes: opts.AvatarMaxBytes,
	}
}

func (s *Service) SetNewIDForTest(fn func() string) { s.newID = fn }

func (s *Service) ListItineraries(ctx context.Context, email string) ([]domain.Itinerary, error) {
	owner := domain.NormalizeEmail(email)
	if owner == "" {
		return nil, badRequest("Email is required")
	}
	rows, err := s.itineraries.ListByOwner(ctx, owner, s.ListLimit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Itinerary, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Itinerary)
	}
	return out, nil
}

// SaveItinerary stores a whole record, replacing any earlier version with the same id.
// A blank id is minted; ids that parse as UUIDs are stored in canonical form.
func (s *Service) SaveItinerary(ctx context.Context, in domain.Itinerary) (domain.Itinerary, error) {
	it := in.Clone()
	it.OwnerEmail = domain.NormalizeEmail(it.OwnerEmail)
	if it.OwnerEmail == "" {
		return domain.Itinerary{}, badRequest("Email is required")
	}
	it.Destination = domain.NormalizeHumanName(it.Destination)
	if it.Destination == "" {
		return domain.Itinerary{}, badRequest("Destination is required")
	}
	it.ID = normalizeID(it.ID, s.newID)
	if it.Budget == "" {
		it.Budget = DefaultBudget
	}
	if it.Status == "" {
		it.Status = domain.ItineraryStatusPlanned
	}
	if !it.Budget.Valid() {
		return domain.Itinerary{}, badRequest("Invalid budget")
	}
	if !it.Status.Valid() {
		return domain.Itinerary{}, badRequest("Invalid status")
	}
	it.Interests = domain.NormalizeInterests(it.Interests)

	now := s.clk.Now().UTC()
	if it.CreatedAt.IsZero() {
		it.CreatedAt = now
	}

	err := s.itineraries.Save(ctx, itineraryrepo.Itinerary{Itinerary: it, SavedAt: now})
	switch {
	case errors.Is(err, itineraryrepo.ErrOwnerMismatch):
		return domain.Itinerary{}, &Error{Status: http.StatusForbidden, Code: CodeForbidden, Message: "Itinerary belongs to another user"}
	case errors.Is(err, itineraryrepo.ErrInvalid):
		return domain.Itinerary{}, badRequest("Invalid itinerary")
	case err != nil:
		return domain.Itinerary{}, err
	}
	return it, nil
}

// DeleteItinerary removes the owner's itinerary. Deleting an id that is not
// stored for the owner succeeds without effect.
func (s *Service) DeleteItinerary(ctx context.Context, email string, id domain.ItineraryID) error {
	owner := domain.NormalizeEmail(email)
	if owner == "" {
		return badRequest("Email is required")
	}
	if strings.TrimSpace(string(id)) == "" {
		return badRequest("Itinerary id is required")
	}
	removed, err := s.itineraries.Delete(ctx, owner, normalizeID(id, nil))
	if err != nil {
		return err
	}
	if !removed {
		s.log.Debug("delete of absent itinerary", slog.String("itinerary_id", string(id)))
	}
	return nil
}

func (s *Service) UpdateProfile(ctx context.Context, email, name string) error {
	owner := domain.NormalizeEmail(email)
	if owner == "" {
		return badRequest("Email is required")
	}
	name = domain.NormalizeHumanName(name)
	if name == "" {
		return badRequest("Name cannot be empty")
	}
	return s.profiles.SetName(ctx, owner, name, s.clk.Now())
}

// UploadAvatar stores the image and records its URL on the profile.
// size is the declared upload size; the body is read up to AvatarMaxBytes regardless.
func (s *Service) UploadAvatar(ctx context.Context, email, filename string, size int64, r io.Reader) (string, error) {
	owner := domain.NormalizeEmail(email)
	if owner == "" {
		return "", badRequest("Email is required")
	}
	if s.avatars == nil {
		return "", &Error{Status: http.StatusServiceUnavailable, Code: CodeUpstream, Message: "Avatar uploads are not available"}
	}
	if size > s.AvatarMaxBytes {
		return "", tooLarge()
	}

	data, err := io.ReadAll(io.LimitReader(r, s.AvatarMaxBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > s.AvatarMaxBytes {
		return "", tooLarge()
	}
	if len(data) == 0 {
		return "", badRequest("No file uploaded")
	}

	url, err := s.avatars.Put(ctx, filepath.Ext(filename), bytes.NewReader(data))
	if errors.Is(err, avatarstore.ErrUnsupportedType) {
		return "", &Error{Status: http.StatusUnsupportedMediaType, Code: CodeUnsupported, Message: "Unsupported image type"}
	}
	if err != nil {
		return "", err
	}
	if err := s.profiles.SetAvatarURL(ctx, owner, url, s.clk.Now()); err != nil {
		return "", err
	}
	return url, nil
}

func tooLarge() *Error {
	return &Error{
		Status:  http.StatusRequestEntityTooLarge,
		Code:    CodeTooLarge,
		Message: "Image is too large. Please choose an image under 2MB.",
	}
}

// normalizeID canonicalizes UUID ids and mints one when blank and mint is set.
func normalizeID(id domain.ItineraryID, mint func() string) domain.ItineraryID {
	raw := strings.TrimSpace(string(id))
	if raw == "" && mint != nil {
		return domain.ItineraryID(mint())
	}
	if u, err := uuid.Parse(raw); err == nil {
		return domain.ItineraryID(u.String())
	}
	return domain.ItineraryID(raw)
}

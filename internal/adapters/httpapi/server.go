package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Overland-East-Bay/itinerary-planner/internal/app/planner"
	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/logger"
	"github.com/Overland-East-Bay/itinerary-planner/internal/wire"
)

const (
	maxJSONBody = 1 << 20
	// multipartOverhead covers form fields and part headers around the avatar.
	multipartOverhead = 64 << 10
)

// Server adapts planner.Service to the JSON endpoints.
type Server struct {
	Planner *planner.Service
	log     *slog.Logger
}

func NewServer(svc *planner.Service, log *slog.Logger) *Server {
	return &Server{Planner: svc, log: logger.OrDefault(log)}
}

func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, wire.HealthResponse{
		Status:  "healthy",
		Message: "Travel Itinerary Builder API is running",
	})
}

func (s *Server) ListItineraries(w http.ResponseWriter, r *http.Request) {
	its, err := s.Planner.ListItineraries(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]wire.Itinerary, 0, len(its))
	for _, it := range its {
		out = append(out, wire.ItineraryFromDomain(it))
	}
	writeJSON(w, http.StatusOK, wire.ListItinerariesResponse{Envelope: wire.OK(), Itineraries: out})
}

func (s *Server) SaveItinerary(w http.ResponseWriter, r *http.Request) {
	var req wire.SaveItineraryRequest
	if !s.decode(w, r, &req) {
		return
	}
	saved, err := s.Planner.SaveItinerary(r.Context(), req.ToDomain())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := wire.ItineraryFromDomain(saved)
	writeJSON(w, http.StatusOK, wire.SaveItineraryResponse{Envelope: wire.OK(), Itinerary: &out})
}

func (s *Server) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	var req wire.DeleteItineraryRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.Planner.DeleteItinerary(r.Context(), string(req.Email), domain.ItineraryID(req.ItineraryID)); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.OK())
}

func (s *Server) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	var req wire.GenerateRequest
	if !s.decode(w, r, &req) {
		return
	}
	g, err := s.Planner.Generate(r.Context(), domain.Preferences{
		Destination:     req.Destination,
		Days:            req.Days,
		Budget:          domain.Budget(req.Budget),
		Interests:       req.Interests,
		AdditionalNotes: req.AdditionalNotes,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.GenerateResponse{
		Envelope:    wire.OK(),
		Destination: g.Destination,
		Days:        g.Days,
		Budget:      string(g.Budget),
		Itinerary:   g.Content,
		ImageURL:    wire.NullableString(g.ImageURL),
	})
}

func (s *Server) AskQuestion(w http.ResponseWriter, r *http.Request) {
	var req wire.AskQuestionRequest
	if !s.decode(w, r, &req) {
		return
	}
	answer, err := s.Planner.Ask(r.Context(), req.Question, req.Destination)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.AskQuestionResponse{Envelope: wire.OK(), Answer: answer})
}

func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req wire.UpdateProfileRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.Planner.UpdateProfile(r.Context(), string(req.Email), req.Name); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.OK())
}

func (s *Server) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.Planner.AvatarMaxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(s.Planner.AvatarMaxBytes + multipartOverhead); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, "Image is too large. Please choose an image under 2MB.", "")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid upload", err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(wire.AvatarFileField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded", "")
		return
	}
	defer file.Close()

	url, err := s.Planner.UploadAvatar(r.Context(), r.FormValue(wire.AvatarEmailField), header.Filename, header.Size, file)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.UploadAvatarResponse{Envelope: wire.OK(), AvatarURL: url})
}

// decode reads a JSON body into dst and writes a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	err := dec.Decode(dst)
	switch {
	case err == nil:
		return true
	case errors.Is(err, io.EOF):
		writeError(w, http.StatusBadRequest, "Request body is required", "")
	case errors.Is(err, openapi_types.ErrValidationEmail):
		writeError(w, http.StatusBadRequest, "Invalid email address", "")
	default:
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
	}
	return false
}

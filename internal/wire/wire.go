// Package wire holds the JSON shapes exchanged with the planner backend.
// Both the client adapter and the reference server encode and decode these types.
package wire

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
)

// Route paths of the planner backend.
const (
	PathItineraries     = "/api/user/itineraries"
	PathSaveItinerary   = "/api/user/save-itinerary"
	PathDeleteItinerary = "/api/user/delete-itinerary"
	PathGenerate        = "/api/generate-itinerary"
	PathUpdateProfile   = "/api/user/update-profile"
	PathUploadAvatar    = "/api/user/upload-avatar"
	PathAskQuestion     = "/api/ask-question"
	PathHealth          = "/health"
)

// Envelope is embedded in every response. Error is set only when Success is false.
type Envelope struct {
	Success bool                      `json:"success"`
	Error   string                    `json:"error,omitempty"`
	Details nullable.Nullable[string] `json:"details,omitempty"`
}

func OK() Envelope { return Envelope{Success: true} }

func Fail(msg string) Envelope { return Envelope{Success: false, Error: msg} }

// FailWithDetails attaches a diagnostic detail string to a failure.
func FailWithDetails(msg, details string) Envelope {
	return Envelope{Success: false, Error: msg, Details: nullable.NewNullableWithValue(details)}
}

// Itinerary is the full persisted record. Email is the owner.
type Itinerary struct {
	ID          string                    `json:"id"`
	Email       openapi_types.Email       `json:"email"`
	Destination string                    `json:"destination"`
	Days        int                       `json:"days"`
	Budget      string                    `json:"budget"`
	Content     string                    `json:"content"`
	ImageURL    nullable.Nullable[string] `json:"imageUrl"`
	Interests   []string                  `json:"interests"`
	CreatedAt   time.Time                 `json:"createdAt"`
	Status      string                    `json:"status"`
}

type ListItinerariesResponse struct {
	Envelope
	Itineraries []Itinerary `json:"itineraries"`
}

// SaveItineraryRequest is the flat itinerary record plus the owner's email.
type SaveItineraryRequest struct {
	Itinerary
}

type SaveItineraryResponse struct {
	Envelope
	Itinerary *Itinerary `json:"itinerary,omitempty"`
}

type DeleteItineraryRequest struct {
	Email       openapi_types.Email `json:"email"`
	ItineraryID string              `json:"itineraryId"`
}

type GenerateRequest struct {
	Destination     string   `json:"destination"`
	Days            int      `json:"days,omitempty"`
	Budget          string   `json:"budget,omitempty"`
	Interests       []string `json:"interests"`
	AdditionalNotes string   `json:"additionalNotes,omitempty"`
}

type GenerateResponse struct {
	Envelope
	Destination string                    `json:"destination"`
	Days        int                       `json:"days"`
	Budget      string                    `json:"budget"`
	Itinerary   string                    `json:"itinerary"`
	ImageURL    nullable.Nullable[string] `json:"imageUrl"`
}

type UpdateProfileRequest struct {
	Email openapi_types.Email `json:"email"`
	Name  string              `json:"name"`
}

type UploadAvatarResponse struct {
	Envelope
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Multipart field names of the avatar upload.
const (
	AvatarFileField  = "avatar"
	AvatarEmailField = "email"
)

type AskQuestionRequest struct {
	Question    string `json:"question"`
	Destination string `json:"destination,omitempty"`
}

type AskQuestionResponse struct {
	Envelope
	Answer string `json:"answer,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// User is the serialized form of the session user kept in the local cache.
type User struct {
	ID         string             `json:"id"`
	Email      string             `json:"email"`
	Name       string             `json:"name"`
	AvatarURL  string             `json:"avatarUrl"`
	JoinedDate openapi_types.Date `json:"joinedDate"`
}

func UserFromDomain(u domain.User) User {
	return User{
		ID:         string(u.ID),
		Email:      u.Email,
		Name:       u.Name,
		AvatarURL:  u.AvatarURL,
		JoinedDate: openapi_types.Date{Time: domain.DateOnly(u.JoinedDate)},
	}
}

func (u User) ToDomain() domain.User {
	return domain.User{
		ID:         domain.UserID(u.ID),
		Email:      u.Email,
		Name:       u.Name,
		AvatarURL:  u.AvatarURL,
		JoinedDate: u.JoinedDate.Time.UTC(),
	}
}

func ItineraryFromDomain(it domain.Itinerary) Itinerary {
	return Itinerary{
		ID:          string(it.ID),
		Email:       openapi_types.Email(it.OwnerEmail),
		Destination: it.Destination,
		Days:        it.Days,
		Budget:      string(it.Budget),
		Content:     it.Content,
		ImageURL:    NullableString(it.ImageURL),
		Interests:   nonNilStrings(it.Interests),
		CreatedAt:   it.CreatedAt.UTC(),
		Status:      string(it.Status),
	}
}

func (it Itinerary) ToDomain() domain.Itinerary {
	var interests []string
	if len(it.Interests) > 0 {
		interests = append([]string(nil), it.Interests...)
	}
	return domain.Itinerary{
		ID:          domain.ItineraryID(it.ID),
		OwnerEmail:  string(it.Email),
		Destination: it.Destination,
		Days:        it.Days,
		Budget:      domain.Budget(it.Budget),
		Content:     it.Content,
		ImageURL:    StringPtr(it.ImageURL),
		Interests:   interests,
		CreatedAt:   it.CreatedAt.UTC(),
		Status:      domain.ItineraryStatus(it.Status),
	}
}

// NullableString maps nil to an explicit JSON null.
func NullableString(p *string) nullable.Nullable[string] {
	if p == nil {
		return nullable.NewNullNullable[string]()
	}
	return nullable.NewNullableWithValue(*p)
}

// StringPtr maps null and unspecified to nil.
func StringPtr(n nullable.Nullable[string]) *string {
	if !n.IsSpecified() || n.IsNull() {
		return nil
	}
	v, err := n.Get()
	if err != nil {
		return nil
	}
	return &v
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string(nil), in...)
}

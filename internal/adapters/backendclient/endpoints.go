package backendclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	apperrors "github.com/Overland-East-Bay/itinerary-planner/internal/errors"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/generator"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/itineraryapi"
	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/profileapi"
	"github.com/Overland-East-Bay/itinerary-planner/internal/wire"
)

var (
	_ itineraryapi.API    = (*Client)(nil)
	_ generator.Generator = (*Client)(nil)
	_ generator.Answerer  = (*Client)(nil)
	_ profileapi.API      = (*Client)(nil)
)

func (c *Client) List(ctx context.Context, ownerEmail string) ([]domain.Itinerary, error) {
	var resp wire.ListItinerariesResponse
	if err := c.getJSON(ctx, wire.PathItineraries, url.Values{"email": {ownerEmail}}, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Itinerary, 0, len(resp.Itineraries))
	for _, it := range resp.Itineraries {
		out = append(out, it.ToDomain())
	}
	return out, nil
}

func (c *Client) Save(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	var resp wire.SaveItineraryResponse
	req := wire.SaveItineraryRequest{Itinerary: wire.ItineraryFromDomain(it)}
	if err := c.postJSON(ctx, wire.PathSaveItinerary, req, &resp); err != nil {
		return domain.Itinerary{}, err
	}
	if resp.Itinerary == nil {
		return it.Clone(), nil
	}
	return resp.Itinerary.ToDomain(), nil
}

func (c *Client) Delete(ctx context.Context, ownerEmail string, id domain.ItineraryID) error {
	req := wire.DeleteItineraryRequest{Email: openapi_types.Email(ownerEmail), ItineraryID: string(id)}
	return c.postJSON(ctx, wire.PathDeleteItinerary, req, nil)
}

func (c *Client) Generate(ctx context.Context, prefs domain.Preferences) (generator.Generated, error) {
	req := wire.GenerateRequest{
		Destination:     prefs.Destination,
		Days:            prefs.Days,
		Budget:          string(prefs.Budget),
		Interests:       append([]string{}, prefs.Interests...),
		AdditionalNotes: prefs.AdditionalNotes,
	}
	var resp wire.GenerateResponse
	if err := c.postJSON(ctx, wire.PathGenerate, req, &resp); err != nil {
		return generator.Generated{}, err
	}
	return generator.Generated{
		Destination: resp.Destination,
		Days:        resp.Days,
		Budget:      domain.Budget(resp.Budget),
		Content:     resp.Itinerary,
		ImageURL:    wire.StringPtr(resp.ImageURL),
	}, nil
}

func (c *Client) Ask(ctx context.Context, question, destination string) (string, error) {
	var resp wire.AskQuestionResponse
	if err := c.postJSON(ctx, wire.PathAskQuestion, wire.AskQuestionRequest{Question: question, Destination: destination}, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

func (c *Client) UpdateProfile(ctx context.Context, email, name string) error {
	return c.postJSON(ctx, wire.PathUpdateProfile, wire.UpdateProfileRequest{Email: openapi_types.Email(email), Name: name}, nil)
}

func (c *Client) UploadAvatar(ctx context.Context, email, filename string, r io.Reader) (string, error) {
	var resp wire.UploadAvatarResponse
	fields := map[string]string{wire.AvatarEmailField: email}
	if err := c.postMultipart(ctx, wire.PathUploadAvatar, fields, wire.AvatarFileField, filename, r, &resp); err != nil {
		return "", err
	}
	if resp.AvatarURL == "" {
		return "", apperrors.Transport(errors.New("upload response has no avatar_url"))
	}
	return resp.AvatarURL, nil
}

// Health reports whether the backend answers its health check.
func (c *Client) Health(ctx context.Context) (wire.HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(wire.PathHealth, nil), nil)
	if err != nil {
		return wire.HealthResponse{}, apperrors.Internal(err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return wire.HealthResponse{}, apperrors.Transport(err)
	}
	defer resp.Body.Close()
	var out wire.HealthResponse
	if resp.StatusCode != http.StatusOK {
		return out, apperrors.Transport(fmt.Errorf("GET %s: unexpected status %d", wire.PathHealth, resp.StatusCode))
	}
	if err := decodeLimited(resp.Body, &out); err != nil {
		return out, apperrors.Transport(fmt.Errorf("decode response: %w", err))
	}
	return out, nil
}

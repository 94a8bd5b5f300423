package session

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/Overland-East-Bay/itinerary-planner/internal/domain"
	apperrors "github.com/Overland-East-Bay/itinerary-planner/internal/errors"
)

// MaxAvatarBytes is the largest avatar image accepted for upload.
const MaxAvatarBytes = 2 << 20

const (
	msgNameRequired     = "Name cannot be empty"
	msgAvatarTooLarge   = "Image is too large. Please choose an image under 2MB."
	msgQuestionRequired = "Question is required"
)

// UpdateProfile changes the display name on the backend, then in the session and cache.
func (s *Store) UpdateProfile(ctx context.Context, name string) error {
	name = domain.NormalizeHumanName(name)
	if name == "" {
		return apperrors.ValidationWithDetails(msgNameRequired, map[string]string{"name": "is required"})
	}
	email, epoch, err := s.beginProfile()
	if err != nil {
		return err
	}

	err = s.profiles.UpdateProfile(ctx, email, name)
	if err != nil {
		err = classify(err)
	}
	s.endProfile(ctx, epoch, err, func(u *domain.User) { u.Name = name })
	return err
}

// UploadAvatar uploads the image read from r and stores the returned URL on the user.
func (s *Store) UploadAvatar(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxAvatarBytes+1))
	if err != nil {
		return "", apperrors.Internal(err)
	}
	if len(data) > MaxAvatarBytes {
		return "", apperrors.Validation(msgAvatarTooLarge)
	}
	if len(data) == 0 {
		return "", apperrors.Validation("Please choose an image to upload.")
	}
	email, epoch, err := s.beginProfile()
	if err != nil {
		return "", err
	}

	url, err := s.profiles.UploadAvatar(ctx, email, filename, bytes.NewReader(data))
	if err != nil {
		err = classify(err)
	}
	s.endProfile(ctx, epoch, err, func(u *domain.User) { u.AvatarURL = url })
	if err != nil {
		return "", err
	}
	return url, nil
}

// Ask sends a free-form travel question to the backend.
func (s *Store) Ask(ctx context.Context, question, destination string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", apperrors.Validation(msgQuestionRequired)
	}
	if s.answerer == nil {
		return "", apperrors.Internal(nil)
	}
	answer, err := s.answerer.Ask(ctx, question, strings.TrimSpace(destination))
	if err != nil {
		return "", classify(err)
	}
	return answer, nil
}

func (s *Store) beginProfile() (email string, epoch uint64, err error) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return "", 0, apperrors.NotAuthenticated()
	}
	email, epoch = s.user.Email, s.epoch
	s.pending.Profile++
	s.mu.Unlock()
	s.notify()
	return email, epoch, nil
}

// endProfile applies mutate to the session user and writes it through to the cache
// when the call succeeded and the owner is unchanged.
func (s *Store) endProfile(ctx context.Context, epoch uint64, err error, mutate func(*domain.User)) {
	s.mu.Lock()
	s.pending.Profile--
	var warn error
	if err == nil && epoch == s.epoch && s.user != nil {
		mutate(s.user)
		warn = s.commitUserLocked(ctx)
	}
	s.mu.Unlock()

	s.notify()
	if warn != nil {
		s.warn("write cached user failed", warn)
	}
}

func classify(err error) error {
	var e *apperrors.Error
	if apperrors.As(err, &e) {
		return err
	}
	return apperrors.Transport(err)
}

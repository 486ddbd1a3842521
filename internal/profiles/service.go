package profiles

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"jobassist-backend/internal/shared/apperr"
	"jobassist-backend/internal/shared/telemetry"
)

const maxFieldLength = 200

type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

// Get returns the stored profile, or a blank one carrying fallbackEmail when
// the user never saved theirs.
func (s *Service) Get(ctx context.Context, userID, fallbackEmail string) (Profile, error) {
	const op = "profiles.Get"
	if strings.TrimSpace(userID) == "" {
		return Profile{}, apperr.Validation(op, "user id is required")
	}
	p, err := s.Repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Profile{UserID: userID, Email: fallbackEmail}, nil
	}
	if err != nil {
		return Profile{}, apperr.RemoteStore(op, "failed to load profile", err)
	}
	return p, nil
}

// Save validates u and replaces the user's profile with it.
func (s *Service) Save(ctx context.Context, userID string, u Update) (Profile, error) {
	const op = "profiles.Save"
	if strings.TrimSpace(userID) == "" {
		return Profile{}, apperr.Validation(op, "user id is required")
	}
	p := Profile{
		UserID:    userID,
		Email:     strings.TrimSpace(u.Email),
		FirstName: strings.TrimSpace(u.FirstName),
		LastName:  strings.TrimSpace(u.LastName),
		Phone:     strings.TrimSpace(u.Phone),
		Location:  strings.TrimSpace(u.Location),
		UpdatedAt: s.Now().UTC(),
	}
	if err := validate(p); err != nil {
		return Profile{}, apperr.Validation(op, err.Error())
	}
	if err := s.Repo.Upsert(ctx, p); err != nil {
		return Profile{}, apperr.RemoteStore(op, "failed to save profile", err)
	}
	telemetry.Info("profile.saved", map[string]any{"user_id": userID})
	return p, nil
}

func validate(p Profile) error {
	if p.Email != "" {
		addr, err := mail.ParseAddress(p.Email)
		if err != nil || addr.Address != p.Email {
			return fmt.Errorf("email %q is not a valid address", p.Email)
		}
	}
	fields := []struct {
		name  string
		value string
	}{
		{"firstName", p.FirstName},
		{"lastName", p.LastName},
		{"phone", p.Phone},
		{"location", p.Location},
	}
	for _, f := range fields {
		if utf8.RuneCountInString(f.value) > maxFieldLength {
			return fmt.Errorf("%s must be at most %d characters", f.name, maxFieldLength)
		}
	}
	for _, r := range p.Phone {
		if !strings.ContainsRune("0123456789+-() .", r) {
			return fmt.Errorf("phone may only contain digits, spaces and +-()")
		}
	}
	return nil
}

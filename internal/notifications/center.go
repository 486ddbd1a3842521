package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobassist-backend/internal/shared/apperr"
	"jobassist-backend/internal/shared/metrics"
	"jobassist-backend/internal/shared/telemetry"
)

var welcomeMessages = []struct {
	message string
	typ     Type
	age     time.Duration
}{
	{
		message: "Great news! Your resume has been shortlisted for an opportunity at Amazon. Our recruitment team will contact you soon with the next steps. Stay tuned and prepare for the exciting journey ahead.",
		typ:     TypeInfo,
		age:     24 * time.Hour,
	},
	{
		message: "Congratulations! Your resume has been shortlisted for Google. Our team will reach out to you soon with further details. Stay tuned for the next steps!",
		typ:     TypeSuccess,
		age:     time.Hour,
	},
}

// Center is the per-user notification log. The unread count is always
// derived from the log itself.
type Center struct {
	Repo        Repo
	SeedEnabled bool
	Now         func() time.Time
}

// NewCenter constructs a Center.
func NewCenter(repo Repo, seedWelcome bool) *Center {
	return &Center{Repo: repo, SeedEnabled: seedWelcome, Now: time.Now}
}

func requireUser(op, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperr.Validation(op, "user id is required")
	}
	return nil
}

// List returns the user's notifications newest first.
func (c *Center) List(ctx context.Context, userID string) ([]Notification, error) {
	const op = "notifications.List"
	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	items, err := c.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.RemoteStore(op, "failed to load notifications", err)
	}
	if items == nil {
		items = []Notification{}
	}
	return items, nil
}

// Add appends an unread notification.
func (c *Center) Add(ctx context.Context, userID, message string, typ Type) (Notification, error) {
	const op = "notifications.Add"
	if err := requireUser(op, userID); err != nil {
		return Notification{}, err
	}
	if strings.TrimSpace(message) == "" {
		return Notification{}, apperr.Validation(op, "message is required")
	}
	if !typ.Valid() {
		return Notification{}, apperr.Validation(op, fmt.Sprintf("unknown notification type %q", typ))
	}
	return c.insert(ctx, op, Notification{
		ID:      uuid.NewString(),
		UserID:  userID,
		Message: message,
		Type:    typ,
		Date:    c.Now().UTC(),
	})
}

func (c *Center) insert(ctx context.Context, op string, n Notification) (Notification, error) {
	stored, err := c.Repo.Insert(ctx, n)
	if err != nil {
		return Notification{}, apperr.RemoteStore(op, "failed to save notification", err)
	}
	metrics.IncNotificationAdded()
	return stored, nil
}

// Notify adapts Add to the sink interface used by the other components.
func (c *Center) Notify(ctx context.Context, userID, level, message string) error {
	_, err := c.Add(ctx, userID, message, Type(level))
	return err
}

// MarkRead marks one notification read. Marking twice is a no-op.
func (c *Center) MarkRead(ctx context.Context, userID, id string) error {
	const op = "notifications.MarkRead"
	if err := requireUser(op, userID); err != nil {
		return err
	}
	if err := c.Repo.MarkRead(ctx, userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound(op, "notification not found")
		}
		return apperr.RemoteStore(op, "failed to update notification", err)
	}
	return nil
}

// MarkAllRead marks every notification of the user read.
func (c *Center) MarkAllRead(ctx context.Context, userID string) error {
	const op = "notifications.MarkAllRead"
	if err := requireUser(op, userID); err != nil {
		return err
	}
	if err := c.Repo.MarkAllRead(ctx, userID); err != nil {
		return apperr.RemoteStore(op, "failed to update notifications", err)
	}
	return nil
}

// UnreadCount counts unread entries of the current log.
func (c *Center) UnreadCount(ctx context.Context, userID string) (int, error) {
	items, err := c.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range items {
		if !it.Read {
			n++
		}
	}
	return n, nil
}

// SeedWelcome adds the demo notifications when seeding is enabled and the
// user's log is empty. It reports whether anything was added.
func (c *Center) SeedWelcome(ctx context.Context, userID string) (bool, error) {
	const op = "notifications.SeedWelcome"
	if !c.SeedEnabled {
		return false, nil
	}
	items, err := c.List(ctx, userID)
	if err != nil {
		return false, err
	}
	if len(items) > 0 {
		return false, nil
	}
	now := c.Now().UTC()
	for _, w := range welcomeMessages {
		_, err := c.insert(ctx, op, Notification{
			ID:      uuid.NewString(),
			UserID:  userID,
			Message: w.message,
			Type:    w.typ,
			Date:    now.Add(-w.age),
		})
		if err != nil {
			return false, err
		}
	}
	telemetry.Info("notifications.seeded", map[string]any{"user_id": userID, "count": len(welcomeMessages)})
	return true, nil
}

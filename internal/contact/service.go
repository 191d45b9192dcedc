package contact

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Notifier interface {
	SendContactNotification(ctx context.Context, msg Message) (string, error)
	SendContactAcknowledgement(ctx context.Context, msg Message) (string, error)
}

// Service is the message-send collaborator: a delivery stores the message, then
// notifies the team inbox, and fails if either step fails.
type Service struct {
	repo       Repository
	notifier   Notifier
	location   *time.Location
	ackEnabled bool
	log        *slog.Logger
}

// NewService builds a Service. notifier may be nil, in which case messages are only stored.
func NewService(repo Repository, notifier Notifier, location *time.Location, ackEnabled bool, log *slog.Logger) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		repo:       repo,
		notifier:   notifier,
		location:   location,
		ackEnabled: ackEnabled,
		log:        log,
	}
}

// Deliver stores a new message and then notifies the inbox. Nothing is mailed when the
// store fails. When only the notification fails, the stored message is returned with
// the error so the caller can retry it with Notify instead of storing it again.
func (s *Service) Deliver(ctx context.Context, sessionID string, fields Fields) (Message, error) {
	fields = fields.Normalize()
	msg := Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Name:      fields.Name,
		Email:     fields.Email,
		Subject:   fields.Subject,
		Message:   fields.Message,
		CreatedAt: time.Now().In(s.location),
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return Message{}, fmt.Errorf("contact: store message: %w", err)
	}
	return s.Notify(ctx, msg)
}

// Notify mails the inbox about a stored message, records the notification on it, and
// sends the visitor acknowledgement.
func (s *Service) Notify(ctx context.Context, msg Message) (Message, error) {
	if s.notifier == nil {
		return msg, nil
	}

	id, err := s.notifier.SendContactNotification(ctx, msg)
	if err != nil {
		s.log.Warn("contact deliver: inbox notification failed, message kept unnotified",
			slog.String("contact_id", msg.ID),
			slog.String("error", err.Error()),
		)
		return msg, fmt.Errorf("contact: notify inbox: %w", err)
	}
	msg.Notified = true
	msg.NotificationID = id
	// the mail went out; a failed flag update only leaves the row looking unnotified
	if err := s.repo.MarkNotified(ctx, msg.ID, id); err != nil {
		s.log.Warn("contact deliver: mark notified failed",
			slog.String("contact_id", msg.ID),
			slog.String("error", err.Error()),
		)
	}
	s.log.Info("contact deliver: inbox notified", slog.String("contact_id", msg.ID), slog.String("notification_id", id))

	if s.ackEnabled {
		// acknowledgement is courtesy mail; its failure does not fail the delivery
		if _, err := s.notifier.SendContactAcknowledgement(ctx, msg); err != nil {
			s.log.Warn("contact deliver: acknowledgement failed",
				slog.String("contact_id", msg.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	return msg, nil
}

// SendFor binds delivery to a session, for use as a Lifecycle's SendFunc. A retry of
// the same form after a failed notification reuses the stored message.
func (s *Service) SendFor(sessionID string) SendFunc {
	var (
		mu      sync.Mutex
		pending *Message
	)
	return func(ctx context.Context, fields Fields) error {
		mu.Lock()
		defer mu.Unlock()

		if pending != nil && pending.Fields() == fields.Normalize() {
			if _, err := s.Notify(ctx, *pending); err != nil {
				return err
			}
			pending = nil
			return nil
		}

		pending = nil
		msg, err := s.Deliver(ctx, sessionID, fields)
		if err != nil {
			if msg.ID != "" {
				pending = &msg
			}
			return err
		}
		return nil
	}
}

func (s *Service) ListInbox(ctx context.Context, limit, offset int64) ([]Message, int64, error) {
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ValidSessionID reports whether id looks like a session id issued by this service.
func ValidSessionID(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

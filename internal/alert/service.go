package alert

import (
	"context"
	"encoding/base64"
	"fmt"
	"slices"
	"time"

	"github.com/venuemarket/moderation/internal/logger"
	"github.com/venuemarket/moderation/internal/metrics"
	"github.com/venuemarket/moderation/internal/moderation"
)

// contentHashLen is the length an original-content fingerprint is cut to.
const contentHashLen = 64

// Write steps, used as log fields and metric labels.
const (
	stepAlert                = "alert"
	stepReceiverNotification = "receiver_notification"
	stepListUsers            = "list_users"
	stepAdminNotification    = "admin_notification"
)

// Flagged identifies the message an alert is raised for.
type Flagged struct {
	MessageID  int64
	SenderID   int64
	ReceiverID int64
	LocationID int64
}

// Service fans a moderation result out to the alert table and notifications.
type Service struct {
	store Store
	log   *logger.Logger
	now   func() time.Time
}

// NewService creates a fan-out service writing through store.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		log:   logger.Named("alert"),
		now:   time.Now,
	}
}

// ContentHash returns the opaque fingerprint stored with an alert: the
// base64 of the raw content cut to 64 characters. It is reversible for short
// messages and is not an integrity check.
func ContentHash(content string) string {
	enc := base64.StdEncoding.EncodeToString([]byte(content))
	if len(enc) > contentHashLen {
		return enc[:contentHashLen]
	}
	return enc
}

// CreateModerationAlert writes one alert row, one notification for the
// receiver and one per administrator, in that order. Each write is
// independent; a failure is logged with the message id and does not stop the
// remaining writes. Nothing is returned to the caller.
func (s *Service) CreateModerationAlert(ctx context.Context, msg Flagged, res moderation.Result) {
	a := &Alert{
		MessageID:           msg.MessageID,
		SenderID:            msg.SenderID,
		ReceiverID:          msg.ReceiverID,
		LocationID:          msg.LocationID,
		ViolationType:       res.ViolationType,
		DetectedPatterns:    res.DetectedPatterns,
		Confidence:          res.Confidence,
		OriginalContentHash: ContentHash(res.OriginalContent),
		Resolved:            false,
	}
	s.write(msg, stepAlert, 0, func() error {
		return s.store.CreateContentModerationAlert(ctx, a)
	})

	meta := s.metadata(msg, res)

	receiver := &Notification{
		UserID:      msg.ReceiverID,
		Type:        TypeContentModerationAlert,
		Title:       "Private Information Detected in Message",
		Message:     fmt.Sprintf("A message from User #%d was flagged for containing %s information.", msg.SenderID, res.ViolationType),
		RelatedID:   msg.MessageID,
		RelatedType: "message",
		ActionURL:   ConversationsURL,
		Metadata:    meta,
	}
	s.write(msg, stepReceiverNotification, msg.ReceiverID, func() error {
		return s.store.CreateNotification(ctx, receiver)
	})

	users, err := s.store.GetAllUsers(ctx)
	if err != nil {
		s.fail(msg, stepListUsers, 0, err)
		return
	}
	for _, u := range users {
		if !slices.Contains(u.Roles, RoleAdmin) {
			continue
		}
		n := &Notification{
			UserID:      u.ID,
			Type:        TypeAdminModerationAlert,
			Title:       "Content Moderation Alert",
			Message:     fmt.Sprintf("Private information detected in conversation between User #%d and User #%d", msg.SenderID, msg.ReceiverID),
			RelatedID:   msg.MessageID,
			RelatedType: "message",
			ActionURL:   ConversationsURL,
			Metadata:    meta,
		}
		s.write(msg, stepAdminNotification, u.ID, func() error {
			return s.store.CreateNotification(ctx, n)
		})
	}

	s.log.Info().Int64("message_id", msg.MessageID).Msg("moderation alert created")
}

func (s *Service) metadata(msg Flagged, res moderation.Result) map[string]any {
	return map[string]any{
		"message_id":        msg.MessageID,
		"sender_id":         msg.SenderID,
		"receiver_id":       msg.ReceiverID,
		"location_id":       msg.LocationID,
		"violation_type":    string(res.ViolationType),
		"detected_patterns": res.DetectedPatterns,
		"confidence":        res.Confidence,
		"timestamp":         s.now().UTC().Format(time.RFC3339Nano),
	}
}

func (s *Service) write(msg Flagged, step string, recipient int64, fn func() error) {
	if err := fn(); err != nil {
		s.fail(msg, step, recipient, err)
		return
	}
	metrics.AlertWritesTotal.WithLabelValues(step, "ok").Inc()
}

func (s *Service) fail(msg Flagged, step string, recipient int64, err error) {
	metrics.AlertWritesTotal.WithLabelValues(step, "error").Inc()
	ev := s.log.Error().Err(err).Int64("message_id", msg.MessageID).Str("step", step)
	if recipient != 0 {
		ev = ev.Int64("recipient_id", recipient)
	}
	ev.Msg("moderation alert write failed")
}

package review

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/venuemarket/moderation/internal/alert"
	"github.com/venuemarket/moderation/internal/logger"
	"github.com/venuemarket/moderation/internal/metrics"
	"github.com/venuemarket/moderation/internal/moderation"
)

// Alerter records a flagged message. It must not fail the review.
type Alerter interface {
	CreateModerationAlert(ctx context.Context, msg alert.Flagged, res moderation.Result)
}

// StrikeCounter records a violation for a sender and returns the new count.
type StrikeCounter interface {
	Record(ctx context.Context, senderID int64) (int, error)
}

// EventPublisher publishes an encoded AlertEvent.
type EventPublisher interface {
	PublishModerationAlert(data []byte) error
}

// Service reviews messages. Strikes and events are optional; a nil
// StrikeCounter counts nothing and a nil EventPublisher publishes nothing.
type Service struct {
	alerts  Alerter
	strikes StrikeCounter
	events  EventPublisher
	policy  Policy
	log     *logger.Logger
	now     func() time.Time
}

// NewService creates a review service.
func NewService(alerts Alerter, strikes StrikeCounter, events EventPublisher, policy Policy) *Service {
	return &Service{
		alerts:  alerts,
		strikes: strikes,
		events:  events,
		policy:  policy,
		log:     logger.Named("review"),
		now:     time.Now,
	}
}

// Check runs the detection engine on content and records metrics. It has no
// other side effects.
func (s *Service) Check(content string) moderation.Result {
	start := time.Now()
	res := moderation.ModerateContent(content)
	metrics.CheckLatency.Observe(time.Since(start).Seconds())

	if !res.IsViolation {
		metrics.ChecksTotal.WithLabelValues("clean").Inc()
		return res
	}
	metrics.ChecksTotal.WithLabelValues("violation").Inc()
	metrics.ViolationsTotal.WithLabelValues(string(res.ViolationType)).Inc()
	metrics.Confidence.Observe(float64(res.Confidence))
	return res
}

// Review moderates m and decides its action. A clean message is delivered
// unchanged with no side effects. A flagged message adds a strike for the
// sender, raises an alert and publishes an AlertEvent, then is either
// sanitized or blocked depending on the policy.
func (s *Service) Review(ctx context.Context, m Message) Outcome {
	if m.RequestID == "" {
		m.RequestID = uuid.NewString()
	}

	res := s.Check(m.Content)
	out := Outcome{
		RequestID: m.RequestID,
		MessageID: m.MessageID,
		Result:    res,
	}

	if !res.IsViolation {
		out.Action = ActionDeliver
		out.Content = m.Content
		metrics.ActionsTotal.WithLabelValues(string(out.Action)).Inc()
		return out
	}

	out.Strikes = s.recordStrike(ctx, m)
	out.Action = s.policy.decide(out.Strikes)
	if out.Action == ActionSanitize {
		out.Content = res.SanitizedContent
	}
	metrics.ActionsTotal.WithLabelValues(string(out.Action)).Inc()

	s.log.Info().
		Str("request_id", m.RequestID).
		Int64("message_id", m.MessageID).
		Int64("sender_id", m.SenderID).
		Str("violation_type", string(res.ViolationType)).
		Int("confidence", res.Confidence).
		Int("strikes", out.Strikes).
		Str("action", string(out.Action)).
		Msg("message flagged")

	s.alerts.CreateModerationAlert(ctx, alert.Flagged{
		MessageID:  m.MessageID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		LocationID: m.LocationID,
	}, res)

	s.publish(m, out)
	return out
}

// recordStrike fails open: a counter error yields zero strikes.
func (s *Service) recordStrike(ctx context.Context, m Message) int {
	if s.strikes == nil {
		return 0
	}
	n, err := s.strikes.Record(ctx, m.SenderID)
	if err != nil {
		s.log.Error().Err(err).
			Str("request_id", m.RequestID).
			Int64("sender_id", m.SenderID).
			Msg("record strike")
		return 0
	}
	return n
}

func (s *Service) publish(m Message, out Outcome) {
	if s.events == nil {
		return
	}
	ev := AlertEvent{
		ID:               uuid.NewString(),
		RequestID:        m.RequestID,
		MessageID:        m.MessageID,
		SenderID:         m.SenderID,
		ReceiverID:       m.ReceiverID,
		LocationID:       m.LocationID,
		ViolationType:    out.Result.ViolationType,
		DetectedPatterns: out.Result.DetectedPatterns,
		Confidence:       out.Result.Confidence,
		Strikes:          out.Strikes,
		Action:           out.Action,
		CreatedAt:        s.now().UTC(),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		s.log.Error().Err(err).Str("request_id", m.RequestID).Msg("marshal alert event")
		return
	}
	if err := s.events.PublishModerationAlert(data); err != nil {
		s.log.Error().Err(err).Str("request_id", m.RequestID).Msg("publish alert event")
	}
}

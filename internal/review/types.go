// Package review decides what happens to a message between two users: it
// runs the detection engine, counts the sender's strikes, raises alerts and
// picks an action. Both the NATS worker and the HTTP API go through it.
package review

import (
	"time"

	"github.com/venuemarket/moderation/internal/moderation"
)

// Action is the decision returned for a reviewed message.
type Action string

const (
	ActionDeliver  Action = "deliver"  // clean, deliver as written
	ActionSanitize Action = "sanitize" // deliver the sanitized content
	ActionBlock    Action = "block"    // do not deliver
)

// Content limits for a single message.
const (
	MaxContentBytes = 16384
	MaxContentChars = 8000
)

// Message is a message submitted for review.
type Message struct {
	RequestID  string `json:"request_id,omitempty" validate:"omitempty,max=64"`
	MessageID  int64  `json:"message_id" validate:"required,gt=0"`
	SenderID   int64  `json:"sender_id" validate:"required,gt=0"`
	ReceiverID int64  `json:"receiver_id" validate:"required,gt=0,nefield=SenderID"`
	LocationID int64  `json:"location_id" validate:"required,gt=0"`
	Content    string `json:"content" validate:"required"`
}

// Outcome is the decision for one Message.
type Outcome struct {
	RequestID string            `json:"request_id"`
	MessageID int64             `json:"message_id"`
	Action    Action            `json:"action"`
	Content   string            `json:"content"`
	Strikes   int               `json:"strikes"`
	Result    moderation.Result `json:"result"`
}

// AlertEvent is published on moderation.alert for every flagged message.
// It carries no message content.
type AlertEvent struct {
	ID               string                   `json:"id"`
	RequestID        string                   `json:"request_id"`
	MessageID        int64                    `json:"message_id"`
	SenderID         int64                    `json:"sender_id"`
	ReceiverID       int64                    `json:"receiver_id"`
	LocationID       int64                    `json:"location_id"`
	ViolationType    moderation.ViolationType `json:"violation_type"`
	DetectedPatterns []string                 `json:"detected_patterns"`
	Confidence       int                      `json:"confidence"`
	Strikes          int                      `json:"strikes"`
	Action           Action                   `json:"action"`
	CreatedAt        time.Time                `json:"created_at"`
}

// Policy holds the action thresholds.
type Policy struct {
	// BlockAfter blocks a flagged message once the sender has this many
	// strikes in the current window. Zero never blocks.
	BlockAfter int
}

func (p Policy) decide(strikes int) Action {
	if p.BlockAfter > 0 && strikes >= p.BlockAfter {
		return ActionBlock
	}
	return ActionSanitize
}

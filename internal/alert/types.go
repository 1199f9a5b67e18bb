// Package alert records flagged messages and notifies the receiver and every
// administrator. Writes are best effort: failures are logged, never returned.
package alert

import (
	"context"
	"time"

	"github.com/venuemarket/moderation/internal/moderation"
)

// Notification types.
const (
	TypeContentModerationAlert = "content_moderation_alert"
	TypeAdminModerationAlert   = "admin_moderation_alert"
)

// RoleAdmin is the role whose holders receive admin alerts.
const RoleAdmin = "admin"

// ConversationsURL is the admin view linked from every notification.
const ConversationsURL = "/admin/dashboard?tab=conversations"

// Alert is one persisted record of a flagged message.
type Alert struct {
	ID                  int64                    `json:"id"`
	MessageID           int64                    `json:"message_id"`
	SenderID            int64                    `json:"sender_id"`
	ReceiverID          int64                    `json:"receiver_id"`
	LocationID          int64                    `json:"location_id"`
	ViolationType       moderation.ViolationType `json:"violation_type"`
	DetectedPatterns    []string                 `json:"detected_patterns"`
	Confidence          int                      `json:"confidence"`
	OriginalContentHash string                   `json:"original_content_hash"`
	Resolved            bool                     `json:"resolved"`
	ResolvedBy          *int64                   `json:"resolved_by"`
	ResolvedAt          *time.Time               `json:"resolved_at"`
	CreatedAt           time.Time                `json:"created_at"`
}

// Notification is addressed to a single user.
type Notification struct {
	ID          int64
	UserID      int64
	Type        string
	Title       string
	Message     string
	RelatedID   int64
	RelatedType string
	ActionURL   string
	Metadata    map[string]any
	Read        bool
	CreatedAt   time.Time
}

// User is the subset of a user row needed to find administrators.
type User struct {
	ID       int64
	Username string
	Roles    []string
}

// Store is the persistence boundary used by the fan-out.
type Store interface {
	CreateContentModerationAlert(ctx context.Context, a *Alert) error
	CreateNotification(ctx context.Context, n *Notification) error
	GetAllUsers(ctx context.Context) ([]User, error)
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/venuemarket/moderation/internal/alert"
)

// CreateNotification inserts n, filling in its ID and CreatedAt. Metadata is
// stored as JSONB; zero RelatedID and empty strings become NULL.
func (p *Postgres) CreateNotification(ctx context.Context, n *alert.Notification) error {
	var metadata []byte
	if len(n.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(n.Metadata)
		if err != nil {
			return fmt.Errorf("store: marshal metadata: %w", err)
		}
	}

	const query = `
		INSERT INTO notifications
			(user_id, type, title, message, related_id, related_type, action_url, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := p.db.QueryRowContext(ctx, query,
		n.UserID,
		n.Type,
		n.Title,
		n.Message,
		sql.NullInt64{Int64: n.RelatedID, Valid: n.RelatedID != 0},
		sql.NullString{String: n.RelatedType, Valid: n.RelatedType != ""},
		sql.NullString{String: n.ActionURL, Valid: n.ActionURL != ""},
		metadata,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: insert notification: %w", err)
	}
	return nil
}

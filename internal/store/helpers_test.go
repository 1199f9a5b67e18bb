package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/venuemarket/moderation/internal/alert"
)

// insertUser adds a user row and returns its id.
func insertUser(ctx context.Context, p *Postgres, username string, roles []string) (int64, error) {
	if roles == nil {
		roles = []string{}
	}
	const query = `INSERT INTO users (username, roles) VALUES ($1, $2) RETURNING id`

	var id int64
	if err := p.db.QueryRowContext(ctx, query, username, pq.Array(roles)).Scan(&id); err != nil {
		return 0, fmt.Errorf("store: insert user: %w", err)
	}
	return id, nil
}

// notificationsFor reads back the notifications addressed to userID, newest first.
func notificationsFor(ctx context.Context, p *Postgres, userID int64) ([]alert.Notification, error) {
	const query = `
		SELECT id, user_id, type, title, message, read, related_id, related_type, action_url, metadata, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := p.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("store: list notifications: %w", err)
	}
	defer rows.Close()

	var out []alert.Notification
	for rows.Next() {
		var (
			n           alert.Notification
			relatedID   sql.NullInt64
			relatedType sql.NullString
			actionURL   sql.NullString
			metadata    []byte
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read,
			&relatedID, &relatedType, &actionURL, &metadata, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan notification: %w", err)
		}
		n.RelatedID = relatedID.Int64
		n.RelatedType = relatedType.String
		n.ActionURL = actionURL.String
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
				return nil, fmt.Errorf("store: unmarshal metadata: %w", err)
			}
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list notifications: %w", err)
	}
	return out, nil
}

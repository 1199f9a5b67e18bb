package store

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/venuemarket/moderation/internal/alert"
)

// GetAllUsers returns every user with their roles.
func (p *Postgres) GetAllUsers(ctx context.Context) ([]alert.User, error) {
	const query = `SELECT id, username, roles FROM users ORDER BY id`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	defer rows.Close()

	var users []alert.User
	for rows.Next() {
		var u alert.User
		if err := rows.Scan(&u.ID, &u.Username, pq.Array(&u.Roles)); err != nil {
			return nil, fmt.Errorf("store: scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	return users, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/venuemarket/moderation/internal/alert"
	"github.com/venuemarket/moderation/internal/moderation"
)

// AlertFilter narrows ListAlerts. Zero fields match everything.
type AlertFilter struct {
	Resolved      *bool
	ViolationType moderation.ViolationType
	LocationID    int64
	Limit         int
}

// defaultAlertLimit caps an unbounded listing.
const defaultAlertLimit = 100

// CreateContentModerationAlert inserts a, filling in its ID and CreatedAt.
func (p *Postgres) CreateContentModerationAlert(ctx context.Context, a *alert.Alert) error {
	const query = `
		INSERT INTO content_moderation_alerts
			(message_id, sender_id, receiver_id, location_id, violation_type,
			 detected_patterns, confidence, original_content_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	patterns := a.DetectedPatterns
	if patterns == nil {
		patterns = []string{}
	}
	err := p.db.QueryRowContext(ctx, query,
		a.MessageID,
		a.SenderID,
		a.ReceiverID,
		a.LocationID,
		string(a.ViolationType),
		pq.Array(patterns),
		a.Confidence,
		a.OriginalContentHash,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: insert alert: %w", err)
	}
	return nil
}

// ListAlerts returns alerts matching f, newest first.
func (p *Postgres) ListAlerts(ctx context.Context, f AlertFilter) ([]alert.Alert, error) {
	var (
		where []string
		args  []any
	)
	if f.Resolved != nil {
		args = append(args, *f.Resolved)
		where = append(where, fmt.Sprintf("resolved = $%d", len(args)))
	}
	if f.ViolationType != "" {
		args = append(args, string(f.ViolationType))
		where = append(where, fmt.Sprintf("violation_type = $%d", len(args)))
	}
	if f.LocationID != 0 {
		args = append(args, f.LocationID)
		where = append(where, fmt.Sprintf("location_id = $%d", len(args)))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultAlertLimit
	}
	args = append(args, limit)

	var b strings.Builder
	b.WriteString(`
		SELECT id, message_id, sender_id, receiver_id, location_id, violation_type,
		       detected_patterns, confidence, original_content_hash,
		       resolved, resolved_by, resolved_at, created_at
		FROM content_moderation_alerts`)
	if len(where) > 0 {
		b.WriteString("\n\t\tWHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	fmt.Fprintf(&b, "\n\t\tORDER BY created_at DESC, id DESC\n\t\tLIMIT $%d", len(args))

	rows, err := p.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("store: list alerts: %w", err)
	}
	defer rows.Close()

	var out []alert.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan alert: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list alerts: %w", err)
	}
	return out, nil
}

// ResolveAlert marks an alert resolved by adminID and returns the updated row.
// Resolving an already resolved alert overwrites the resolver and timestamp.
func (p *Postgres) ResolveAlert(ctx context.Context, alertID, adminID int64) (alert.Alert, error) {
	const query = `
		UPDATE content_moderation_alerts
		SET resolved = TRUE, resolved_by = $2, resolved_at = NOW()
		WHERE id = $1
		RETURNING id, message_id, sender_id, receiver_id, location_id, violation_type,
		          detected_patterns, confidence, original_content_hash,
		          resolved, resolved_by, resolved_at, created_at`

	a, err := scanAlert(p.db.QueryRowContext(ctx, query, alertID, adminID))
	if errors.Is(err, sql.ErrNoRows) {
		return alert.Alert{}, ErrNotFound
	}
	if err != nil {
		return alert.Alert{}, fmt.Errorf("store: resolve alert: %w", err)
	}
	return a, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAlert(s scanner) (alert.Alert, error) {
	var (
		a          alert.Alert
		violation  string
		resolvedBy sql.NullInt64
		resolvedAt sql.NullTime
	)
	err := s.Scan(
		&a.ID, &a.MessageID, &a.SenderID, &a.ReceiverID, &a.LocationID, &violation,
		pq.Array(&a.DetectedPatterns), &a.Confidence, &a.OriginalContentHash,
		&a.Resolved, &resolvedBy, &resolvedAt, &a.CreatedAt,
	)
	if err != nil {
		return alert.Alert{}, err
	}
	a.ViolationType = moderation.ViolationType(violation)
	if resolvedBy.Valid {
		id := resolvedBy.Int64
		a.ResolvedBy = &id
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		a.ResolvedAt = &t
	}
	return a, nil
}

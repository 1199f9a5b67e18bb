package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/venuemarket/moderation/internal/alert"
	"github.com/venuemarket/moderation/internal/moderation"
)

// Test rows use a location id real venues never reach.
const testLocation = int64(9_000_000_001)

// newTestStore requires a PostgreSQL reachable at MODERATION_TEST_DATABASE_URL.
func newTestStore(t *testing.T) *Postgres {
	t.Helper()
	dsn := os.Getenv("MODERATION_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("MODERATION_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := Open(ctx, dsn)
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	cleanup := func() {
		_, _ = db.ExecContext(ctx, `DELETE FROM content_moderation_alerts WHERE location_id = $1`, testLocation)
		_, _ = db.ExecContext(ctx, `DELETE FROM notifications WHERE related_type = 'store_test'`)
	}
	cleanup()
	t.Cleanup(func() {
		cleanup()
		db.Close()
	})
	return New(db)
}

func newAlert(messageID int64, v moderation.ViolationType) *alert.Alert {
	return &alert.Alert{
		MessageID:           messageID,
		SenderID:            1,
		ReceiverID:          2,
		LocationID:          testLocation,
		ViolationType:       v,
		DetectedPatterns:    []string{"555-123-4567"},
		Confidence:          90,
		OriginalContentHash: alert.ContentHash("call 555-123-4567"),
	}
}

func TestCreateContentModerationAlert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := newAlert(1, moderation.ViolationPhone)
	if err := s.CreateContentModerationAlert(ctx, a); err != nil {
		t.Fatalf("CreateContentModerationAlert() error: %v", err)
	}
	if a.ID == 0 {
		t.Error("ID not populated")
	}
	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}

	got, err := s.ListAlerts(ctx, AlertFilter{LocationID: testLocation})
	if err != nil {
		t.Fatalf("ListAlerts() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ListAlerts() returned %d alerts, want 1", len(got))
	}
	if got[0].Resolved {
		t.Error("new alert is resolved")
	}
	if got[0].ViolationType != moderation.ViolationPhone {
		t.Errorf("ViolationType = %q, want phone", got[0].ViolationType)
	}
	if len(got[0].DetectedPatterns) != 1 || got[0].DetectedPatterns[0] != "555-123-4567" {
		t.Errorf("DetectedPatterns = %v", got[0].DetectedPatterns)
	}
}

func TestListAlerts_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, v := range []moderation.ViolationType{
		moderation.ViolationPhone, moderation.ViolationEmail, moderation.ViolationBoth,
	} {
		if err := s.CreateContentModerationAlert(ctx, newAlert(int64(i+1), v)); err != nil {
			t.Fatalf("CreateContentModerationAlert() error: %v", err)
		}
	}

	all, err := s.ListAlerts(ctx, AlertFilter{LocationID: testLocation})
	if err != nil {
		t.Fatalf("ListAlerts() error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListAlerts() returned %d, want 3", len(all))
	}
	if all[0].MessageID != 3 {
		t.Errorf("first alert message_id = %d, want 3 (newest first)", all[0].MessageID)
	}

	emails, err := s.ListAlerts(ctx, AlertFilter{LocationID: testLocation, ViolationType: moderation.ViolationEmail})
	if err != nil {
		t.Fatalf("ListAlerts() error: %v", err)
	}
	if len(emails) != 1 || emails[0].ViolationType != moderation.ViolationEmail {
		t.Errorf("email filter returned %+v", emails)
	}

	if _, err := s.ResolveAlert(ctx, all[1].ID, 42); err != nil {
		t.Fatalf("ResolveAlert() error: %v", err)
	}
	resolved := true
	done, err := s.ListAlerts(ctx, AlertFilter{LocationID: testLocation, Resolved: &resolved})
	if err != nil {
		t.Fatalf("ListAlerts() error: %v", err)
	}
	if len(done) != 1 || done[0].ID != all[1].ID {
		t.Errorf("resolved filter returned %+v", done)
	}
	resolved = false
	open, err := s.ListAlerts(ctx, AlertFilter{LocationID: testLocation, Resolved: &resolved})
	if err != nil {
		t.Fatalf("ListAlerts() error: %v", err)
	}
	if len(open) != 2 {
		t.Errorf("unresolved filter returned %d, want 2", len(open))
	}
}

func TestResolveAlert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := newAlert(1, moderation.ViolationEmail)
	if err := s.CreateContentModerationAlert(ctx, a); err != nil {
		t.Fatalf("CreateContentModerationAlert() error: %v", err)
	}

	got, err := s.ResolveAlert(ctx, a.ID, 42)
	if err != nil {
		t.Fatalf("ResolveAlert() error: %v", err)
	}
	if !got.Resolved {
		t.Error("Resolved = false")
	}
	if got.ResolvedBy == nil || *got.ResolvedBy != 42 {
		t.Errorf("ResolvedBy = %v, want 42", got.ResolvedBy)
	}
	if got.ResolvedAt == nil {
		t.Error("ResolvedAt = nil")
	}
}

func TestResolveAlert_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ResolveAlert(context.Background(), -1, 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ResolveAlert() error = %v, want ErrNotFound", err)
	}
}

func TestCreateNotification_Metadata(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n := &alert.Notification{
		UserID:      testLocation,
		Type:        alert.TypeContentModerationAlert,
		Title:       "title",
		Message:     "message",
		RelatedID:   7,
		RelatedType: "store_test",
		ActionURL:   alert.ConversationsURL,
		Metadata:    map[string]any{"message_id": 7, "violation_type": "phone"},
	}
	if err := s.CreateNotification(ctx, n); err != nil {
		t.Fatalf("CreateNotification() error: %v", err)
	}
	if n.ID == 0 {
		t.Error("ID not populated")
	}

	got, err := notificationsFor(ctx, s, testLocation)
	if err != nil {
		t.Fatalf("notificationsFor() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("notificationsFor() returned %d, want 1", len(got))
	}
	if got[0].Read {
		t.Error("new notification is read")
	}
	if got[0].Metadata["violation_type"] != "phone" {
		t.Errorf("metadata violation_type = %v", got[0].Metadata["violation_type"])
	}
	// JSON numbers decode as float64.
	if got[0].Metadata["message_id"] != float64(7) {
		t.Errorf("metadata message_id = %v", got[0].Metadata["message_id"])
	}
}

func TestGetAllUsers_Roles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := insertUser(ctx, s, "store-test-admin", []string{alert.RoleAdmin, "host"})
	if err != nil {
		t.Fatalf("insertUser() error: %v", err)
	}
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	})

	users, err := s.GetAllUsers(ctx)
	if err != nil {
		t.Fatalf("GetAllUsers() error: %v", err)
	}
	for _, u := range users {
		if u.ID != id {
			continue
		}
		if len(u.Roles) != 2 || u.Roles[0] != alert.RoleAdmin {
			t.Errorf("Roles = %v", u.Roles)
		}
		return
	}
	t.Errorf("user %d not returned", id)
}

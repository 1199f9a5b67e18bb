package messaging

import (
	"bytes"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
)

// newTestClient requires a running NATS server on localhost:4222.
func newTestClient(t *testing.T) *NATSClient {
	t.Helper()
	cfg := DefaultNATSConfig()
	cfg.Name = "moderation-test"
	cfg.MaxReconnects = 0
	c, err := NewNATSClient(cfg)
	if err != nil {
		t.Skipf("nats not available: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestServeModerationCheck_Replies(t *testing.T) {
	c := newTestClient(t)

	err := c.ServeModerationCheck(func(data []byte) []byte {
		return bytes.ToUpper(data)
	})
	if err != nil {
		t.Fatalf("ServeModerationCheck() error: %v", err)
	}

	msg, err := c.conn.Request(SubjectModerationCheck, []byte("hello"), 2*time.Second)
	if err != nil {
		t.Fatalf("Request() error: %v", err)
	}
	if string(msg.Data) != "HELLO" {
		t.Errorf("reply = %q, want HELLO", msg.Data)
	}
}

func TestPublishModerationAlert(t *testing.T) {
	c := newTestClient(t)

	got := make(chan []byte, 1)
	sub, err := c.conn.Subscribe(SubjectModerationAlert, func(m *nats.Msg) {
		got <- m.Data
	})
	if err != nil {
		t.Fatalf("Subscribe() error: %v", err)
	}
	defer sub.Unsubscribe()
	if err := c.conn.Flush(); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}

	if err := c.PublishModerationAlert([]byte(`{"id":"a"}`)); err != nil {
		t.Fatalf("PublishModerationAlert() error: %v", err)
	}

	select {
	case data := <-got:
		if string(data) != `{"id":"a"}` {
			t.Errorf("event = %q", data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("alert event not received")
	}
}

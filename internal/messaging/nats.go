// Package messaging provides a NATS client wrapper for the moderation
// worker. It owns the connection lifecycle, the queue subscription that
// serves check requests and the publisher for alert events.
package messaging

import (
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/venuemarket/moderation/internal/logger"
)

// NATS subjects used by the moderation service.
const (
	SubjectModerationCheck = "moderation.check" // request/reply
	SubjectModerationAlert = "moderation.alert" // fire-and-forget events
	QueueModerators        = "moderators"
)

// Handler turns a request payload into a reply payload.
type Handler func(data []byte) []byte

// NATSClient wraps the NATS connection with helper methods for pub/sub.
type NATSClient struct {
	conn *nats.Conn
	log  *logger.Logger
	mu   sync.Mutex
	subs map[string]*nats.Subscription
}

// NATSConfig holds NATS connection settings.
type NATSConfig struct {
	URL           string        // nats://localhost:4222
	Name          string        // client name for identification
	ReconnectWait time.Duration // time between reconnect attempts
	MaxReconnects int           // max reconnect attempts (-1 for infinite)
}

// DefaultNATSConfig returns sensible defaults.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		Name:          "venue-moderator",
		ReconnectWait: 2 * time.Second,
		MaxReconnects: -1,
	}
}

// NewNATSClient connects to NATS with the given config and returns a ready client.
// It returns an error if the initial connection fails.
func NewNATSClient(config NATSConfig) (*NATSClient, error) {
	log := logger.Named("nats")
	opts := []nats.Option{
		nats.Name(config.Name),
		nats.ReconnectWait(config.ReconnectWait),
		nats.MaxReconnects(config.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("disconnected")
			} else {
				log.Warn().Msg("disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Info().Msg("connection closed")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	log.Info().Str("url", nc.ConnectedUrl()).Msg("connected")

	return &NATSClient{
		conn: nc,
		log:  log,
		subs: make(map[string]*nats.Subscription),
	}, nil
}

// Publish sends data to the given NATS subject.
func (c *NATSClient) Publish(subject string, data []byte) error {
	return c.conn.Publish(subject, data)
}

// ServeModerationCheck joins the moderators queue group on moderation.check.
// Each request is handled by exactly one member of the group and the handler's
// result is sent to the request's reply subject, if it has one.
func (c *NATSClient) ServeModerationCheck(handler Handler) error {
	sub, err := c.conn.QueueSubscribe(SubjectModerationCheck, QueueModerators, func(msg *nats.Msg) {
		reply := handler(msg.Data)
		if msg.Reply == "" {
			return
		}
		if err := msg.Respond(reply); err != nil {
			c.log.Error().Err(err).Str("subject", msg.Subject).Msg("respond")
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", SubjectModerationCheck, err)
	}

	c.mu.Lock()
	c.subs[SubjectModerationCheck] = sub
	c.mu.Unlock()
	return nil
}

// PublishModerationAlert publishes an alert event on moderation.alert.
func (c *NATSClient) PublishModerationAlert(data []byte) error {
	return c.Publish(SubjectModerationAlert, data)
}

// Close drains all active subscriptions and closes the NATS connection.
func (c *NATSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for subject, sub := range c.subs {
		if err := sub.Drain(); err != nil {
			c.log.Warn().Err(err).Str("subject", subject).Msg("drain")
		}
	}
	c.subs = make(map[string]*nats.Subscription)

	if err := c.conn.Drain(); err != nil {
		c.log.Warn().Err(err).Msg("connection drain")
	}

	c.log.Info().Msg("client closed")
}

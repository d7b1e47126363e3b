package events

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// SubjectPrefix is prepended to the event type to form the NATS subject
const SubjectPrefix = "mew.events."

// MessagePublisher is the part of a NATS connection the bridge needs
type MessagePublisher interface {
	Publish(subject string, data []byte) error
}

// Envelope wraps an event payload on the wire
type Envelope struct {
	EventID   string          `json:"event_id"`
	EventType EventType       `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
	Payload   json.RawMessage `json:"payload"`
}

// NATSBridge forwards bus events to NATS so other services can follow what
// Mew observes without sharing its database
type NATSBridge struct {
	publisher MessagePublisher
	source    string
}

// ConnectNATS opens a NATS connection with reconnect handling
func ConnectNATS(servers string) (*nats.Conn, error) {
	nc, err := nats.Connect(servers,
		nats.Name("mew"),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Error("NATS disconnected with error")
			} else {
				log.Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.WithField("servers", servers).Info("Connected to NATS")
	return nc, nil
}

// NewNATSBridge creates a bridge publishing through publisher
func NewNATSBridge(publisher MessagePublisher) *NATSBridge {
	return &NATSBridge{publisher: publisher, source: "mew"}
}

// Attach subscribes the bridge to every event type on bus
func (b *NATSBridge) Attach(bus *Bus) {
	for _, eventType := range EventTypes {
		bus.Subscribe(eventType, func(ctx context.Context, event Event) {
			if err := b.Forward(ctx, event); err != nil {
				log.WithError(err).WithField("eventType", event.Type()).Warn("Failed to forward event to NATS")
			}
		})
	}
}

// Forward publishes a single event
func (b *NATSBridge) Forward(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := Envelope{
		EventID:   uuid.New().String(),
		EventType: event.Type(),
		Timestamp: time.Now().UTC(),
		Source:    b.source,
		Payload:   payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := Subject(event.Type())
	if err := b.publisher.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Published event to NATS")
	return nil
}

// Subject returns the NATS subject for an event type
func Subject(eventType EventType) string {
	return SubjectPrefix + string(eventType)
}

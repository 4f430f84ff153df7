package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/doorkeep/doorkeep/ports"
)

const (
	// TopicRegistered carries account creation notifications.
	TopicRegistered = "auth.registered"

	// TopicLogout carries session revocation notifications so other
	// instances can react (cache eviction, audit, push disconnect).
	TopicLogout = "auth.logout"
)

// RegisteredEvent is published after a successful registration.
type RegisteredEvent struct {
	AccountID string `json:"account_id"`
}

// LogoutEvent is published after a session version advance.
type LogoutEvent struct {
	AccountID string `json:"account_id"`
	Version   int64  `json:"version"`
}

// WatermillPublisher implements the EventPublisher interface on top of a
// Watermill publisher.
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher wraps publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishRegistered publishes a RegisteredEvent.
func (p *WatermillPublisher) PublishRegistered(ctx context.Context, accountID string) error {
	return p.publish(TopicRegistered, RegisteredEvent{AccountID: accountID})
}

// PublishLogout publishes a LogoutEvent.
func (p *WatermillPublisher) PublishLogout(ctx context.Context, accountID string, version int64) error {
	return p.publish(TopicLogout, LogoutEvent{AccountID: accountID, Version: version})
}

func (p *WatermillPublisher) publish(topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

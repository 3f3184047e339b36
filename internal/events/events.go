// Package events carries translation notifications over a
// broker-agnostic bus. The API server publishes an event after each
// successful translation for users who opted into notifications; the
// notifier command subscribes on the other end.
package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/traduz/apiserver/config"
)

// TranslationsChannel is the channel translation events are published to.
const TranslationsChannel = "translations"

// TranslationEvent is the payload published after a successful
// translation.
type TranslationEvent struct {
	UserID         int       `json:"user_id"`
	TranslationID  int       `json:"translation_id"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	CreatedAt      time.Time `json:"created_at"`
}

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// Bus wraps a backend with a stable API.
type Bus struct {
	backend Backend
}

// New constructs a Bus for the provided backend.
func New(backend Backend) *Bus {
	return &Bus{backend: backend}
}

// NewBusFromConfig builds a Bus for the configured backend. It returns
// (nil, nil) when no backend is configured, which disables publishing.
func NewBusFromConfig(ctx context.Context, cfg config.EventsConfig) (*Bus, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "":
		return nil, nil
	case "rabbitmq":
		backend, err := NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return New(backend), nil
	case "pubsub":
		backend, err := NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return New(backend), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}

// Publish sends a message to the named channel.
func (b *Bus) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return b.backend.Publish(ctx, channel, data, attrs)
}

// Subscribe consumes messages from the named channel.
func (b *Bus) Subscribe(ctx context.Context, channel string, handler Handler) error {
	return b.backend.Subscribe(ctx, channel, handler)
}

// Close closes the underlying backend.
func (b *Bus) Close() error {
	return b.backend.Close()
}

var errChannelRequired = errors.New("events channel is required")

package broker

import (
	"context"
	"errors"
	"sync"
)

// Event is an encoded websocket message addressed to a set of users.
type Event struct {
	UserIDs []string `json:"user_ids"`
	Payload []byte   `json:"payload"`
}

type Handler func(event *Event)

// Broker fans events out to every subscribed server instance.
type Broker interface {
	Publish(ctx context.Context, event *Event) error
	Subscribe(ctx context.Context, handler Handler) error
	Close() error
}

var ErrClosed = errors.New("broker closed")

// LocalBroker delivers events to subscribers in the same process.
type LocalBroker struct {
	mu       sync.RWMutex
	handlers []Handler
	closed   bool
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{}
}

func (b *LocalBroker) Publish(ctx context.Context, event *Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}

	for _, h := range b.handlers {
		h(event)
	}
	return nil
}

func (b *LocalBroker) Subscribe(ctx context.Context, handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	b.handlers = append(b.handlers, handler)
	return nil
}

func (b *LocalBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.handlers = nil
	return nil
}

// Package publisher decouples event emission from event storage. In sync
// mode Emit writes straight to the store; with an async buffer events are
// queued and flushed by a background goroutine so request latency never
// depends on the audit store.
package publisher

import (
	"context"
	"log/slog"
	"sync"

	audit "pfaportal/pkg/platform/audit"
)

type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	buffer chan audit.Event
	wg     sync.WaitGroup
	once   sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to async mode with the given queue
// size. A full queue drops the event rather than blocking the request.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.buffer = make(chan audit.Event, size)
	}
}

// WithLogger sets the logger used for drop/store failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records an event. Failures are logged, never returned to the caller's
// request path.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if p.buffer == nil {
		if err := p.store.Append(ctx, event); err != nil {
			p.logger.WarnContext(ctx, "audit append failed", "action", event.Action, "error", err)
		}
		return nil
	}

	select {
	case p.buffer <- event:
	default:
		p.logger.WarnContext(ctx, "audit buffer full, dropping event", "action", event.Action)
	}
	return nil
}

// List exposes the recent trail for operator inspection.
func (p *Publisher) List(ctx context.Context, limit int) ([]audit.Event, error) {
	return p.store.ListRecent(ctx, limit)
}

// Close stops the async drain goroutine after flushing queued events.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.buffer != nil {
			close(p.buffer)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.buffer {
		// Detached context: the originating request may be long gone.
		if err := p.store.Append(context.Background(), event); err != nil {
			p.logger.Warn("audit append failed", "action", event.Action, "error", err)
		}
	}
}

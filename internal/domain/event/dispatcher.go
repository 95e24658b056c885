package event

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Handler processes one event
type Handler func(ctx context.Context, evt *Event) error

// Dispatcher fans events out to subscribed handlers. Async dispatch is
// fire-and-forget: handler errors are logged, never returned to the producer.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Type][]namedHandler
	logger   *zap.Logger

	wg     sync.WaitGroup
	closed atomic.Bool
}

type namedHandler struct {
	name    string
	handler Handler
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[Type][]namedHandler),
		logger:   logger,
	}
}

// Subscribe registers a named handler for an event type
func (d *Dispatcher) Subscribe(eventType Type, name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[eventType] = append(d.handlers[eventType], namedHandler{name: name, handler: handler})
	d.logger.Debug("Event handler registered",
		zap.String("event_type", eventType.String()),
		zap.String("handler", name))
}

// Dispatch sends the event to all handlers synchronously, stopping at the
// first error
func (d *Dispatcher) Dispatch(ctx context.Context, evt *Event) error {
	if d.closed.Load() {
		return fmt.Errorf("dispatcher is closed")
	}

	d.mu.RLock()
	handlers := d.handlers[evt.Type]
	d.mu.RUnlock()

	for _, h := range handlers {
		if err := d.safeExecute(ctx, evt, h); err != nil {
			return fmt.Errorf("handler %s failed: %w", h.name, err)
		}
	}
	return nil
}

// DispatchAsync sends the event to all handlers without waiting. Used for the
// post-commit notification fan-out, where delivery failures must never fail
// the originating request.
func (d *Dispatcher) DispatchAsync(ctx context.Context, evt *Event) {
	if d.closed.Load() {
		d.logger.Warn("Dropping event, dispatcher is closed",
			zap.String("event_type", evt.Type.String()),
			zap.String("event_id", evt.ID))
		return
	}

	d.mu.RLock()
	handlers := d.handlers[evt.Type]
	d.mu.RUnlock()

	for _, h := range handlers {
		d.wg.Add(1)
		go func(h namedHandler) {
			defer d.wg.Done()
			if err := d.safeExecute(ctx, evt, h); err != nil {
				d.logger.Error("Async event handler failed",
					zap.String("event_type", evt.Type.String()),
					zap.String("event_id", evt.ID),
					zap.String("handler", h.name),
					zap.Error(err))
			}
		}(h)
	}
}

// Close stops accepting events and waits for in-flight async handlers
func (d *Dispatcher) Close() error {
	d.closed.Store(true)
	d.wg.Wait()
	return nil
}

func (d *Dispatcher) safeExecute(ctx context.Context, evt *Event, h namedHandler) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("handler %s panicked: %v", h.name, p)
		}
	}()
	return h.handler(ctx, evt)
}

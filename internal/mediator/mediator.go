// Package mediator routes command and query values from the HTTP layer to
// their registered handlers.
package mediator

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
)

// Request is a command or query value. Name identifies the handler to route to.
type Request interface {
	Name() string
}

// Handler executes one command or query
type Handler func(ctx context.Context, req Request) (any, error)

// Mediator is an in-process command/query router. One handler per request
// name; duplicate registration panics at wiring time.
type Mediator struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   *zap.Logger
}

// New creates an empty mediator
func New(logger *zap.Logger) *Mediator {
	return &Mediator{
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

// Register binds a handler to a request name
func (m *Mediator) Register(name string, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.handlers[name]; exists {
		panic(fmt.Sprintf("mediator: duplicate handler for %q", name))
	}
	m.handlers[name] = handler

	m.logger.Debug("Handler registered", zap.String("request", name))
}

// Send routes the request to its handler. Handler panics are recovered and
// surfaced as errors so one bad request cannot take the server down.
func (m *Mediator) Send(ctx context.Context, req Request) (result any, err error) {
	m.mu.RLock()
	handler, ok := m.handlers[req.Name()]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("mediator: no handler for %q", req.Name())
	}

	defer func() {
		if p := recover(); p != nil {
			m.logger.Error("Handler panicked",
				zap.String("request", req.Name()),
				zap.Any("panic", p),
				zap.ByteString("stack", debug.Stack()))
			result = nil
			err = fmt.Errorf("handler %q panicked: %v", req.Name(), p)
		}
	}()

	return handler(ctx, req)
}

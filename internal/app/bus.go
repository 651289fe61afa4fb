package app

import (
	"context"

	"github.com/neomorfeo/promotiq/internal/domain"
)

// Compile-time check: SyncBus implements domain.CommandBus.
var _ domain.CommandBus = (*SyncBus)(nil)

// HandlerFunc handles one message kind synchronously.
type HandlerFunc func(ctx context.Context, msg domain.Message) error

// SyncBus is an in-process command bus with an explicit handler registry
// built at startup. Dispatch runs the handler on the calling goroutine and
// returns its error, which doubles as the "was this handled"
// acknowledgment: a message with no registered handler is a wiring defect
// and yields an UnhandledCommandError.
type SyncBus struct {
	handlers map[string]HandlerFunc
}

// NewSyncBus creates an empty bus.
func NewSyncBus() *SyncBus {
	return &SyncBus{handlers: make(map[string]HandlerFunc)}
}

// Register binds a handler to a message name. Later registrations for the
// same name replace earlier ones.
func (b *SyncBus) Register(name string, handler HandlerFunc) {
	b.handlers[name] = handler
}

// Dispatch routes the message to its registered handler and waits for it to
// complete.
func (b *SyncBus) Dispatch(ctx context.Context, msg domain.Message) error {
	handler, ok := b.handlers[msg.MessageName()]
	if !ok {
		return &domain.UnhandledCommandError{Name: msg.MessageName()}
	}
	return handler(ctx, msg)
}

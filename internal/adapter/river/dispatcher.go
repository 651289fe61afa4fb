package river

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/promotiq/internal/domain"
)

// Compile-time check: Dispatcher implements domain.MessageDispatcher.
var _ domain.MessageDispatcher = (*Dispatcher)(nil)

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Dispatcher implements domain.MessageDispatcher by enqueuing River jobs.
// Delayed dispatch stamps a ScheduledAt onto the job, so the delay is
// carried by the message and honored by the queue, not by application code.
//
// The dispatcher starts unbound: the workers consuming its jobs share the
// application handlers that dispatch through it, so the client can only be
// built after those handlers exist. Bind closes the loop at startup.
type Dispatcher struct {
	client *Client
}

// NewDispatcher creates an unbound dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Bind attaches the River client the dispatcher enqueues into.
func (d *Dispatcher) Bind(client *Client) {
	d.client = client
}

// Dispatch enqueues a message for immediate delivery.
func (d *Dispatcher) Dispatch(ctx context.Context, msg domain.Message) error {
	return d.insert(ctx, msg, nil)
}

// DispatchAfter enqueues a message deferred by at least the given delay.
// A zero delay collapses to immediate delivery.
func (d *Dispatcher) DispatchAfter(ctx context.Context, msg domain.Message, delay time.Duration) error {
	if delay <= 0 {
		return d.insert(ctx, msg, nil)
	}
	return d.insert(ctx, msg, &river.InsertOpts{ScheduledAt: time.Now().UTC().Add(delay)})
}

func (d *Dispatcher) insert(ctx context.Context, msg domain.Message, opts *river.InsertOpts) error {
	if d.client == nil {
		return fmt.Errorf("dispatching %q: dispatcher not bound to a queue client", msg.MessageName())
	}

	args, err := toJobArgs(msg)
	if err != nil {
		return err
	}
	if _, err := d.client.Insert(ctx, args, opts); err != nil {
		return fmt.Errorf("enqueuing %q job: %w", msg.MessageName(), err)
	}
	return nil
}

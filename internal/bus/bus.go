// Package bus carries inbound transport events to the routing goroutine.
// One buffered channel is enough: the design assumes a single coordinating
// process, and the router serializes state transitions itself.
package bus

import (
	"context"
	"log/slog"

	"github.com/nextlevelbuilder/deskrelay/internal/desk"
)

const inboundBuffer = 256

// Bus is the in-process event conduit between channels and the router.
type Bus struct {
	inbound chan desk.Event
}

// New creates a Bus with a bounded inbound buffer.
func New() *Bus {
	return &Bus{inbound: make(chan desk.Event, inboundBuffer)}
}

// PublishInbound enqueues an event for the router. Drops (with a warning)
// when the buffer is full rather than blocking the transport's poll loop.
func (b *Bus) PublishInbound(ev desk.Event) {
	select {
	case b.inbound <- ev:
	default:
		slog.Warn("inbound bus full, dropping event",
			"kind", ev.Kind.String(),
			"user_id", ev.UserID,
		)
	}
}

// ConsumeInbound blocks until an event is available or ctx is done.
// The second return is false on shutdown.
func (b *Bus) ConsumeInbound(ctx context.Context) (desk.Event, bool) {
	select {
	case <-ctx.Done():
		return desk.Event{}, false
	case ev := <-b.inbound:
		return ev, true
	}
}

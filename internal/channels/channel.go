// Package channels provides the transport abstraction layer. A channel
// connects an external chat platform to the routing core via the event bus
// and implements the desk.Gateway surface for outbound sends.
package channels

import (
	"context"

	"github.com/nextlevelbuilder/deskrelay/internal/bus"
)

// Channel is the lifecycle interface all transport implementations satisfy.
type Channel interface {
	// Name returns the channel identifier (e.g. "telegram").
	Name() string

	// Start begins listening for events. Non-blocking after setup.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the channel.
	Stop(ctx context.Context) error

	// IsRunning reports whether the channel is actively processing updates.
	IsRunning() bool
}

// BaseChannel provides shared functionality for channel implementations,
// which embed it.
type BaseChannel struct {
	name    string
	bus     *bus.Bus
	running bool
}

// NewBaseChannel creates a BaseChannel bound to the event bus.
func NewBaseChannel(name string, msgBus *bus.Bus) *BaseChannel {
	return &BaseChannel{name: name, bus: msgBus}
}

// Name returns the channel name.
func (c *BaseChannel) Name() string { return c.name }

// IsRunning returns whether the channel is running.
func (c *BaseChannel) IsRunning() bool { return c.running }

// SetRunning updates the running state.
func (c *BaseChannel) SetRunning(running bool) { c.running = running }

// Bus returns the event bus reference.
func (c *BaseChannel) Bus() *bus.Bus { return c.bus }

// Truncate shortens a string to maxLen, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

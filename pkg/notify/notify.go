// Package notify delivers notification messages through the channel a
// watch entry was registered with.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/sharktamer/gtsnotifier/pkg/watch"
)

// ErrUnknownChannel is returned when no dispatcher is registered for a
// channel kind.
var ErrUnknownChannel = errors.New("unknown notification channel")

// Dispatcher sends messages over one channel kind and validates candidate
// destinations at registration time.
type Dispatcher interface {
	// Channel returns the channel kind this dispatcher serves.
	Channel() watch.Channel
	// Send delivers a single message to the destination. Failures are
	// reported as *DispatchError.
	Send(ctx context.Context, destination, message string) error
	// Validate checks that a destination is acceptable before a watch
	// entry is admitted. Implementations may skip the check when
	// destination validation is disabled in configuration.
	Validate(ctx context.Context, destination string) error
}

// DispatchError wraps a failed notification send. The reconciliation
// engine uses it to hold back the watermark so the event is retried.
type DispatchError struct {
	Channel     watch.Channel
	Destination string
	Err         error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch via %s to %s: %v", e.Channel, e.Destination, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Registry resolves the dispatcher for a channel kind.
type Registry struct {
	dispatchers map[watch.Channel]Dispatcher
}

// NewRegistry builds a registry from the given dispatchers.
func NewRegistry(dispatchers ...Dispatcher) *Registry {
	r := &Registry{dispatchers: make(map[watch.Channel]Dispatcher, len(dispatchers))}
	for _, d := range dispatchers {
		r.dispatchers[d.Channel()] = d
	}
	return r
}

// Get returns the dispatcher for the channel, or ErrUnknownChannel.
func (r *Registry) Get(channel watch.Channel) (Dispatcher, error) {
	d, ok := r.dispatchers[channel]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, channel)
	}
	return d, nil
}

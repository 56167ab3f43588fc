// Package host is the in-process event registry the plugin listens on. It
// stands in for the beets listener mechanism: commands fire album_imported
// for freshly imported albums and cli_exit once all work is done.
package host

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"extrafiles/internal/logging"
	"extrafiles/internal/relocate"
	"extrafiles/internal/services"
)

// Event names a host lifecycle event.
type Event string

const (
	// EventAlbumImported fires with the albums a single import added.
	EventAlbumImported Event = "album_imported"
	// EventCLIExit fires after the command finished with every album in the
	// library.
	EventCLIExit Event = "cli_exit"
)

// ParseEvent validates an event name.
func ParseEvent(name string) (Event, error) {
	switch Event(strings.ToLower(strings.TrimSpace(name))) {
	case EventAlbumImported:
		return EventAlbumImported, nil
	case EventCLIExit:
		return EventCLIExit, nil
	default:
		return "", services.Wrap(services.ErrConfiguration, "host", "parse event", fmt.Sprintf("unknown event %q", name), nil)
	}
}

// Handler reacts to an event. The payload is the set of affected albums.
type Handler func(ctx context.Context, albums []relocate.Album)

// Dispatcher keeps listeners per event and runs them synchronously in
// registration order.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[Event][]Handler
	logger    *slog.Logger
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		listeners: make(map[Event][]Handler),
		logger:    logging.NewComponentLogger(logger, "host"),
	}
}

// Register adds handler for event.
func (d *Dispatcher) Register(event Event, handler Handler) {
	if handler == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[event] = append(d.listeners[event], handler)
}

// Listeners returns the number of handlers registered for event.
func (d *Dispatcher) Listeners(event Event) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners[event])
}

// Fire runs every handler registered for event and returns how many ran.
// Handlers run to completion even if ctx is cancelled meanwhile.
func (d *Dispatcher) Fire(ctx context.Context, event Event, albums []relocate.Album) int {
	d.mu.RLock()
	handlers := append([]Handler(nil), d.listeners[event]...)
	d.mu.RUnlock()

	ctx = services.WithEvent(ctx, string(event))
	logger := logging.WithContext(ctx, d.logger)
	if len(handlers) == 0 {
		logger.Debug("no listeners for event", logging.Int("albums", len(albums)))
		return 0
	}
	logger.Debug("firing event", logging.Int("listeners", len(handlers)), logging.Int("albums", len(albums)))
	for _, handler := range handlers {
		handler(context.WithoutCancel(ctx), albums)
	}
	return len(handlers)
}

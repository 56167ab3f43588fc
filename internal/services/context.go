package services

import "context"

type contextKey string

const (
	runIDKey contextKey = "run_id"
	eventKey contextKey = "event"
	albumKey contextKey = "album"
)

// WithRunID annotates context with the relocation run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithEvent annotates context with the host event being dispatched.
func WithEvent(ctx context.Context, event string) context.Context {
	if event == "" {
		return ctx
	}
	return context.WithValue(ctx, eventKey, event)
}

// EventFromContext returns the host event name if present.
func EventFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(eventKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithAlbum annotates context with a human label for the album being processed.
func WithAlbum(ctx context.Context, label string) context.Context {
	if label == "" {
		return ctx
	}
	return context.WithValue(ctx, albumKey, label)
}

// AlbumFromContext returns the album label if present.
func AlbumFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(albumKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

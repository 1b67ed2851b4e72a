package store

import (
	"context"
	"errors"
)

// ErrInvalidRoute reports a route that cannot be mapped onto a file below
// the store root, such as "" or "/".
var ErrInvalidRoute = errors.New("store: invalid route")

// Store persists compiled bundle content addressed by request route.
// Implementations must be safe for concurrent use.
type Store interface {
	// Put writes content for route, replacing any previous version, and
	// returns the absolute path of the file written.
	Put(ctx context.Context, route string, content []byte) (string, error)
}

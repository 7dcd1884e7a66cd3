package weather

import (
	"context"
)

// Provider abstracts the current-weather endpoint.
// Errors wrap ErrTransport or ErrDecode.
type Provider interface {
	Name() string
	Current(ctx context.Context) (Reading, error)
}

// Link reports whether the network interface is usable.
type Link interface {
	Connected() bool
}

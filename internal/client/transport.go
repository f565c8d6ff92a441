// Package client talks to a running controller over HTTP and keeps a local,
// optimistically updated view of its state in sync.
package client

import (
	"context"
	"fmt"

	"github.com/smazurov/lichtwerk/internal/api/models"
	"github.com/smazurov/lichtwerk/internal/device"
)

// Transport is the network side of an Agent. Mutations return the full
// state the server committed.
type Transport interface {
	Status(ctx context.Context) (models.StatusData, error)
	SetPower(ctx context.Context, on bool) (models.StatusData, error)
	SetColor(ctx context.Context, c device.Color) (models.StatusData, error)
	SetBrightness(ctx context.Context, level int) (models.StatusData, error)
	SetSpeed(ctx context.Context, speed int) (models.StatusData, error)
	SetEffect(ctx context.Context, effectID string) (models.StatusData, error)
	SetEffectOption(ctx context.Context, effectID, key string, value any) (models.StatusData, error)
}

// TransportError is a failed call as seen by the client: the request never
// completed (Err set) or the server answered with a non-2xx status.
type TransportError struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Detail)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Rejected reports whether the server refused the request as invalid, as
// opposed to being unreachable or failing internally.
func (e *TransportError) Rejected() bool {
	return e.Status >= 400 && e.Status < 500
}

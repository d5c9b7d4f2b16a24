package terrain

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrInvalidInput is returned by New when the raw observation is malformed.
	ErrInvalidInput = errors.New("invalid terrain input")

	// ErrUnknownObstacle is returned by destruction events naming a handle
	// the map never saw, or a handle of another kind.
	ErrUnknownObstacle = errors.New("unknown obstacle")

	ErrStackMismatch   = errors.New("stacked obstacles do not match")
	ErrObstacleRemoved = errors.New("obstacle already removed")
	ErrTopology        = errors.New("graph topology corrupted")
)

// InternalError reports a state the engine itself must never produce.
// Callers can match the cause with errors.Is on the wrapped sentinel.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("terrain: internal error in %s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

// internal builds, logs and returns an InternalError. With strict invariants
// it panics instead.
func (m *Map) internal(op string, err error) error {
	ie := &InternalError{Op: op, Err: err}
	slog.Error("terrain invariant violated", "op", op, "error", err)
	if m.opts.StrictInvariants {
		panic(ie)
	}
	return ie
}

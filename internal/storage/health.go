package storage

import "sync/atomic"

// ConnState is a connection lifecycle state of a persistence backend.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateReady
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	default:
		return "disconnected"
	}
}

// Health tracks the connection state of a store. The store that owns the
// connection is the only writer; the rest of the system sees it as a
// readiness query.
type Health struct {
	state atomic.Int32
}

// NewHealth returns a Health in the disconnected state.
func NewHealth() *Health {
	return &Health{}
}

// Transition moves the health object to the given state.
func (h *Health) Transition(s ConnState) {
	h.state.Store(int32(s))
}

// State returns the current connection state.
func (h *Health) State() ConnState {
	return ConnState(h.state.Load())
}

// Ready reports whether the backend is usable.
func (h *Health) Ready() bool {
	return h.State() == StateReady
}

package network

import "sync/atomic"

// ConnectionState is the protocol phase of spec §3's state machine:
// Handshake -> (Status | Login -> Play), monotonic, never cyclic.
type ConnectionState int32

const (
	StateHandshake ConnectionState = iota
	StateStatus
	StateLogin
	StatePlay
)

func (s ConnectionState) String() string {
	switch s {
	case StateHandshake:
		return "Handshake"
	case StateStatus:
		return "Status"
	case StateLogin:
		return "Login"
	case StatePlay:
		return "Play"
	default:
		return "Unknown"
	}
}

// connState is the single-writer/multi-reader cell spec §5 calls for,
// realized as an atomic.Int32 rather than a mutex — the reader is the
// sole writer (on Handshake and LoginStart), the writer only reads it at
// shutdown to decide whether to emit a Play-Disconnect (spec §4.4).
type connState struct {
	v atomic.Int32
}

func (c *connState) load() ConnectionState {
	return ConnectionState(c.v.Load())
}

func (c *connState) store(s ConnectionState) {
	c.v.Store(int32(s))
}

package network

import "sync"

// shutdownLatch is the Go realization of spec §4.4/§9's broadcast
// shutdown channel: a close-once `chan struct{}`, closed at most one time
// via sync.Once, carrying the reason that triggered it. Every subscriber
// (reader, writer, the manager's disconnect-watcher) selects on done()
// and wakes simultaneously when it closes — Go's broadcast-by-close idiom
// subsumes the fixed-capacity tokio::broadcast channel the original
// needed, since close has no "lagged receiver" failure mode to size
// around. This is the REDESIGN spec §9 explicitly invites.
type shutdownLatch struct {
	once   sync.Once
	ch     chan struct{}
	mu     sync.Mutex
	reason string
}

func newShutdownLatch() *shutdownLatch {
	return &shutdownLatch{ch: make(chan struct{})}
}

// trigger closes the latch, recording reason if this is the first call.
// Subsequent calls are idempotent no-ops, matching "the first send wins"
// (spec §4.4).
func (s *shutdownLatch) trigger(reason string) {
	s.once.Do(func() {
		s.mu.Lock()
		s.reason = reason
		s.mu.Unlock()
		close(s.ch)
	})
}

func (s *shutdownLatch) done() <-chan struct{} { return s.ch }

func (s *shutdownLatch) isTriggered() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

func (s *shutdownLatch) Reason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShutdownLatchTriggersOnce(t *testing.T) {
	s := newShutdownLatch()
	assert.False(t, s.isTriggered())

	s.trigger("first")
	s.trigger("second") // idempotent: first reason wins

	assert.True(t, s.isTriggered())
	assert.Equal(t, "first", s.Reason())

	select {
	case <-s.done():
	default:
		t.Fatal("done channel should be closed after trigger")
	}
}

func TestShutdownLatchBroadcastsToAllSubscribers(t *testing.T) {
	s := newShutdownLatch()
	results := make(chan int, 3)

	for i := 0; i < 3; i++ {
		i := i
		go func() {
			<-s.done()
			results <- i
		}()
	}

	s.trigger("broadcast")

	seen := map[int]bool{}
	for i := 0; i < 3; i++ {
		seen[<-results] = true
	}
	assert.Len(t, seen, 3)
}

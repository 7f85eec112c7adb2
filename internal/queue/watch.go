package queue

import (
	"context"
	"sync"
)

// watchHub fans committed states out to in-process subscribers. Each
// subscriber channel holds only the latest state: a slow consumer skips
// intermediate snapshots but never observes an older one after a newer one.
type watchHub struct {
	mu   sync.Mutex
	subs map[chan State]bool
}

func newWatchHub() *watchHub {
	return &watchHub{subs: make(map[chan State]bool)}
}

// subscribe seeds the channel with initial before registering it, so the
// first receive always precedes any notify delivery.
func (h *watchHub) subscribe(initial State) chan State {
	ch := make(chan State, 1)
	ch <- initial
	h.mu.Lock()
	h.subs[ch] = true
	h.mu.Unlock()
	return ch
}

func (h *watchHub) unsubscribe(ch chan State) {
	h.mu.Lock()
	if h.subs[ch] {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *watchHub) notify(st State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		// Replace a pending stale state instead of blocking.
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}

// Watch subscribes to committed states. The current state is delivered
// immediately, then a fresh one after every committed mutation, until ctx is
// cancelled. The initial read happens under notifyMu so the seeded state is
// current as of registration.
func (s *Server) Watch(ctx context.Context) (<-chan State, error) {
	s.notifyMu.Lock()
	st, err := s.CurrentState(ctx)
	if err != nil {
		s.notifyMu.Unlock()
		return nil, err
	}
	ch := s.watchers.subscribe(st)
	s.notifyMu.Unlock()

	go func() {
		<-ctx.Done()
		s.watchers.unsubscribe(ch)
	}()

	return ch, nil
}

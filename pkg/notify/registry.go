package notify

import (
	"context"
	"sync"
)

const channelBuffer = 16

// Registry is the in-process connection registry: userID to the set of
// live channels of that user's open streams. One process only; see Bus
// for the cross-instance variant.
type Registry struct {
	mu    sync.RWMutex
	chans map[int64]map[chan Event]struct{}
}

func NewRegistry() *Registry {
	return &Registry{chans: make(map[int64]map[chan Event]struct{})}
}

func (r *Registry) Register(userID int64) chan Event {
	ch := make(chan Event, channelBuffer)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.chans[userID] == nil {
		r.chans[userID] = make(map[chan Event]struct{})
	}
	r.chans[userID][ch] = struct{}{}
	return ch
}

func (r *Registry) Unregister(userID int64, ch chan Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.chans[userID]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	if len(set) == 0 {
		delete(r.chans, userID)
	}
	close(ch)
}

func (r *Registry) Publish(_ context.Context, ev Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for ch := range r.chans[ev.UserID] {
		select {
		case ch <- ev:
		default:
			// slow consumer, drop
		}
	}
}

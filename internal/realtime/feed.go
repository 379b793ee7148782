package realtime

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// ChangeKind classifies a change event.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// ChangeEvent describes one mutation to a resource collection.
// ID may be empty for bulk operations.
type ChangeEvent struct {
	Resource string     `json:"resource"`
	Kind     ChangeKind `json:"kind"`
	ID       string     `json:"id,omitempty"`
}

// Feed is an in-process change feed. Subscribers register interest in one
// resource name (or all resources with ResourceAll) and receive every
// matching ChangeEvent until they cancel.
type Feed struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*subscriber
}

// ResourceAll subscribes to every collection.
const ResourceAll = "*"

type subscriber struct {
	resource string
	ch       chan ChangeEvent
}

// subscriber buffer; events beyond it are dropped rather than
// blocking the publishing mutation.
const subBuffer = 16

func NewFeed() *Feed {
	return &Feed{subs: make(map[int]*subscriber)}
}

// Subscribe registers interest in changes to the named resource.
// The returned cancel func unregisters and closes the channel.
func (f *Feed) Subscribe(resource string) (<-chan ChangeEvent, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++

	sub := &subscriber{
		resource: resource,
		ch:       make(chan ChangeEvent, subBuffer),
	}
	f.subs[id] = sub

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if s, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(s.ch)
		}
	}

	return sub.ch, cancel
}

// Publish fans an event out to all matching subscribers. Delivery is
// non-blocking: a subscriber whose buffer is full misses the event.
func (f *Feed) Publish(ev ChangeEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, sub := range f.subs {
		if sub.resource != ResourceAll && sub.resource != ev.Resource {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			log.Warn().
				Str("resource", ev.Resource).
				Str("kind", string(ev.Kind)).
				Msg("change feed subscriber lagging, event dropped")
		}
	}
}

// SubscriberCount reports the current number of subscribers.
func (f *Feed) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

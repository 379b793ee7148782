package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"festival/internal/realtime"
)

// SingletonCollection is the store contract for settings-style collections
// holding at most one record. Get returns ErrNotFound before the first save.
type SingletonCollection[T any] interface {
	Get(ctx context.Context) (T, error)
	Insert(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, record T) error
}

// SingletonBinding is the Binding variant for {0,1}-cardinality collections.
// Save inserts while no record id is known and updates once one is, so
// repeated saves never create a second record.
type SingletonBinding[T any] struct {
	coll     SingletonCollection[T]
	desc     Descriptor[T]
	notifier Notifier
	feed     *realtime.Feed

	mu      sync.RWMutex
	value   T
	present bool

	cancel func()
}

func NewSingletonBinding[T any](coll SingletonCollection[T], desc Descriptor[T], notifier Notifier, feed *realtime.Feed) *SingletonBinding[T] {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &SingletonBinding[T]{coll: coll, desc: desc, notifier: notifier, feed: feed}
}

// Load fetches the single record. Absence is a valid state, not an error.
func (b *SingletonBinding[T]) Load(ctx context.Context) error {
	value, err := b.coll.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			b.mu.Lock()
			var zero T
			b.value = zero
			b.present = false
			b.mu.Unlock()
			return nil
		}
		b.notifier.Error(fmt.Sprintf("failed to load %s", b.desc.Resource))
		return err
	}

	b.mu.Lock()
	b.value = value
	b.present = true
	b.mu.Unlock()
	return nil
}

// Subscribe reloads on every change feed event until Close.
func (b *SingletonBinding[T]) Subscribe(ctx context.Context) {
	if b.feed == nil || b.cancel != nil {
		return
	}

	events, cancel := b.feed.Subscribe(b.desc.Resource)
	b.cancel = cancel

	go func() {
		for range events {
			b.Load(ctx)
		}
	}()
}

func (b *SingletonBinding[T]) Close() {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

// Value returns the current record and whether one exists.
func (b *SingletonBinding[T]) Value() (T, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.value, b.present
}

// Save validates and persists the record, branching on whether an id is
// already known locally: insert when not, update when it is.
func (b *SingletonBinding[T]) Save(ctx context.Context, value T) error {
	if b.desc.Validate != nil {
		if err := b.desc.Validate(value); err != nil {
			b.notifier.Error(err.Error())
			return err
		}
	}

	b.mu.RLock()
	knownID := ""
	if b.present {
		knownID = b.desc.ID(b.value)
	}
	b.mu.RUnlock()

	if knownID == "" {
		created, err := b.coll.Insert(ctx, value)
		if err != nil {
			b.notifier.Error(fmt.Sprintf("failed to save %s", b.desc.Resource))
			return err
		}
		b.mu.Lock()
		b.value = created
		b.present = true
		b.mu.Unlock()
		b.notifier.Success(fmt.Sprintf("%s saved", b.desc.Resource))
		return nil
	}

	// Carry the known id into the update regardless of what the caller's
	// draft holds; editor copies may predate the first insert.
	if err := b.coll.Update(ctx, b.withID(value, knownID)); err != nil {
		b.notifier.Error(fmt.Sprintf("failed to save %s", b.desc.Resource))
		return err
	}

	b.mu.Lock()
	b.value = b.withID(value, knownID)
	b.mu.Unlock()
	b.notifier.Success(fmt.Sprintf("%s saved", b.desc.Resource))
	return nil
}

func (b *SingletonBinding[T]) withID(value T, id string) T {
	if b.desc.SetID != nil {
		b.desc.SetID(&value, id)
	}
	return value
}

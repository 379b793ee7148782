// Package resource implements the synchronized collection binding used by
// every content type: load a collection wholesale, refetch on change feed
// events, and funnel mutations through validated entry points. Local state is
// a cache of the store's authoritative rows, invalidated coarsely (any change
// triggers a full reload) rather than patched in place.
package resource

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"festival/internal/realtime"
)

// ErrNotFound is returned by collections when no record matches.
var ErrNotFound = errors.New("record not found")

// Direction moves a record one position in display order.
type Direction string

const (
	MoveUp   Direction = "up"
	MoveDown Direction = "down"
)

// Collection is the minimum store contract a binding needs.
type Collection[T any] interface {
	Select(ctx context.Context) ([]T, error)
	Insert(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, record T) error
	Delete(ctx context.Context, id string) error
}

// OrderSwapper is implemented by collections that can exchange two records'
// order numbers atomically. Bindings prefer it over two sequential updates,
// which can leave the order inconsistent if the second write fails.
type OrderSwapper interface {
	SwapOrder(ctx context.Context, idA, idB string) error
}

// Descriptor supplies the per-type accessors a binding needs. Order and
// SetOrder are nil for unordered collections, SetActive for collections
// without a visibility flag, Validate when no field is required.
type Descriptor[T any] struct {
	Resource  string
	ID        func(T) string
	SetID     func(*T, string)
	Order     func(T) int
	SetOrder  func(*T, int)
	SetActive func(*T, bool)
	Validate  func(T) error
}

// Binding owns the local copy of one collection and keeps it synchronized
// with the store through the change feed.
type Binding[T any] struct {
	coll     Collection[T]
	desc     Descriptor[T]
	notifier Notifier
	feed     *realtime.Feed

	// confirm gates Delete; a nil func means deletes proceed unprompted.
	confirm func(id string) bool

	mu     sync.RWMutex
	items  []T
	loaded bool

	cancel func()
}

// Option configures a Binding.
type Option[T any] func(*Binding[T])

// WithConfirm installs the destructive-action guard consulted before every
// delete.
func WithConfirm[T any](confirm func(id string) bool) Option[T] {
	return func(b *Binding[T]) { b.confirm = confirm }
}

// NewBinding creates a binding over coll. feed may be nil when no realtime
// synchronization is wanted (tests, one-shot scripts).
func NewBinding[T any](coll Collection[T], desc Descriptor[T], notifier Notifier, feed *realtime.Feed, opts ...Option[T]) *Binding[T] {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	b := &Binding[T]{coll: coll, desc: desc, notifier: notifier, feed: feed}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load replaces the local collection wholesale with the store's rows. On
// failure the previous local state is left intact; an empty result on first
// load is a valid state, not an error.
func (b *Binding[T]) Load(ctx context.Context) error {
	items, err := b.coll.Select(ctx)
	if err != nil {
		b.notifier.Error(fmt.Sprintf("failed to load %s", b.desc.Resource))
		return err
	}

	b.mu.Lock()
	b.items = items
	b.loaded = true
	b.mu.Unlock()
	return nil
}

// Subscribe registers on the change feed and reloads on every event until
// Close is called. Any change kind, from any session, triggers a full
// refetch.
func (b *Binding[T]) Subscribe(ctx context.Context) {
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

// Close unregisters the change feed subscription. In-flight loads are not
// aborted; their results still land in the binding.
func (b *Binding[T]) Close() {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

// Items returns a copy of the local collection in display order.
func (b *Binding[T]) Items() []T {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]T, len(b.items))
	copy(out, b.items)
	if b.desc.Order != nil {
		sort.SliceStable(out, func(i, j int) bool {
			return b.desc.Order(out[i]) < b.desc.Order(out[j])
		})
	}
	return out
}

// Loaded reports whether an initial Load has succeeded.
func (b *Binding[T]) Loaded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loaded
}

// Create validates the draft, derives the next order number where the
// collection is ordered, and inserts. Validation failures surface exactly one
// notification and never reach the store. The local collection is refreshed
// by the change feed, not patched optimistically.
func (b *Binding[T]) Create(ctx context.Context, draft T) error {
	if b.desc.Validate != nil {
		if err := b.desc.Validate(draft); err != nil {
			b.notifier.Error(err.Error())
			return err
		}
	}

	if b.desc.Order != nil && b.desc.SetOrder != nil {
		b.desc.SetOrder(&draft, b.nextOrder())
	}

	if _, err := b.coll.Insert(ctx, draft); err != nil {
		b.notifier.Error(fmt.Sprintf("failed to create %s", b.desc.Resource))
		return err
	}

	b.notifier.Success(fmt.Sprintf("%s created", b.desc.Resource))
	return nil
}

// Update writes the record back by id.
func (b *Binding[T]) Update(ctx context.Context, record T) error {
	if b.desc.Validate != nil {
		if err := b.desc.Validate(record); err != nil {
			b.notifier.Error(err.Error())
			return err
		}
	}

	if err := b.coll.Update(ctx, record); err != nil {
		b.notifier.Error(fmt.Sprintf("failed to update %s", b.desc.Resource))
		return err
	}

	b.notifier.Success(fmt.Sprintf("%s updated", b.desc.Resource))
	return nil
}

// Delete removes a record after the confirmation guard passes. Without
// confirmation no store call is issued.
func (b *Binding[T]) Delete(ctx context.Context, id string) error {
	if b.confirm != nil && !b.confirm(id) {
		return nil
	}

	if err := b.coll.Delete(ctx, id); err != nil {
		b.notifier.Error(fmt.Sprintf("failed to delete %s", b.desc.Resource))
		return err
	}

	b.notifier.Success(fmt.Sprintf("%s deleted", b.desc.Resource))
	return nil
}

// Reorder moves the record one position up or down by exchanging order
// numbers with its neighbor. At the first or last position it is a no-op and
// no store call is issued.
func (b *Binding[T]) Reorder(ctx context.Context, id string, dir Direction) error {
	if b.desc.Order == nil || b.desc.SetOrder == nil {
		return fmt.Errorf("%s has no display order", b.desc.Resource)
	}

	items := b.Items()
	idx := -1
	for i, item := range items {
		if b.desc.ID(item) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	var other int
	switch dir {
	case MoveUp:
		if idx == 0 {
			return nil
		}
		other = idx - 1
	case MoveDown:
		if idx == len(items)-1 {
			return nil
		}
		other = idx + 1
	default:
		return fmt.Errorf("unknown direction %q", dir)
	}

	if err := b.swap(ctx, items[idx], items[other]); err != nil {
		b.notifier.Error(fmt.Sprintf("failed to reorder %s", b.desc.Resource))
		return err
	}

	b.notifier.Success(fmt.Sprintf("%s reordered", b.desc.Resource))
	return nil
}

func (b *Binding[T]) swap(ctx context.Context, a, c T) error {
	if swapper, ok := b.coll.(OrderSwapper); ok {
		return swapper.SwapOrder(ctx, b.desc.ID(a), b.desc.ID(c))
	}

	// Two sequential updates; a failure between them leaves the order
	// inconsistent until the next reload reveals it.
	orderA, orderC := b.desc.Order(a), b.desc.Order(c)
	b.desc.SetOrder(&a, orderC)
	b.desc.SetOrder(&c, orderA)
	if err := b.coll.Update(ctx, a); err != nil {
		return err
	}
	return b.coll.Update(ctx, c)
}

// ToggleActive flips the record's visibility flag.
func (b *Binding[T]) ToggleActive(ctx context.Context, id string, value bool) error {
	if b.desc.SetActive == nil {
		return fmt.Errorf("%s has no visibility flag", b.desc.Resource)
	}

	b.mu.RLock()
	var record T
	found := false
	for _, item := range b.items {
		if b.desc.ID(item) == id {
			record = item
			found = true
			break
		}
	}
	b.mu.RUnlock()

	if !found {
		return ErrNotFound
	}

	b.desc.SetActive(&record, value)
	if err := b.coll.Update(ctx, record); err != nil {
		b.notifier.Error(fmt.Sprintf("failed to update %s", b.desc.Resource))
		return err
	}

	b.notifier.Success(fmt.Sprintf("%s updated", b.desc.Resource))
	return nil
}

// nextOrder derives the next order number from the cached collection:
// max+1, or 0 when empty.
func (b *Binding[T]) nextOrder() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	next := 0
	for _, item := range b.items {
		if n := b.desc.Order(item) + 1; n > next {
			next = n
		}
	}
	return next
}

package watch

import "sync"

// Feed broadcasts full snapshots of a dataset to any number of
// subscribers: each new subscriber immediately receives the current
// snapshot, then every subsequent one. Slow subscribers skip intermediate
// snapshots rather than blocking the publisher.
type Feed[T any] struct {
	mu      sync.Mutex
	current []T
	seeded  bool
	subs    map[int]chan []T
	nextID  int
}

func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{subs: make(map[int]chan []T)}
}

// Publish replaces the current snapshot and notifies all subscribers.
func (f *Feed[T]) Publish(snapshot []T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = snapshot
	f.seeded = true
	for _, ch := range f.subs {
		// Replace a pending snapshot instead of queueing behind it.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// Subscribe registers a consumer. The returned channel is seeded with the
// current snapshot when one exists. Cancel must be called to release the
// subscription.
func (f *Feed[T]) Subscribe() (<-chan []T, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	ch := make(chan []T, 1)
	if f.seeded {
		ch <- f.current
	}
	f.subs[id] = ch

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Current returns the latest published snapshot.
func (f *Feed[T]) Current() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

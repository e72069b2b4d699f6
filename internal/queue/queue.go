// Package queue implements the deduplicating work queues that connect the
// pipeline stages.
package queue

import (
	"context"
	"fmt"
	"sync"
)

// Item is any unit of work with a stable dedup key.
type Item interface {
	Key() string
}

// Queue is an unbounded set of unique pending items. Enqueue is idempotent:
// an item whose key is already pending is dropped, which is the pipeline's
// defense against redundant external calls within one run. Drain order is
// FIFO-ish but not guaranteed; uniqueness is the contract.
//
// A dequeued item is counted as leased until the consumer calls Done, so a
// convergence check can tell an idle queue from one whose single item is
// mid-flight.
//
// The wakeup signal assumes a single consumer goroutine, which is how the
// driver runs each stage.
type Queue[T Item] struct {
	name string

	mu      sync.Mutex
	pending map[string]struct{}
	order   []T
	leased  int
	notify  chan struct{}
}

// New constructs a named queue.
func New[T Item](name string) *Queue[T] {
	return &Queue[T]{
		name:    name,
		pending: make(map[string]struct{}),
		notify:  make(chan struct{}, 1),
	}
}

// Name returns the queue's stage label.
func (q *Queue[T]) Name() string { return q.name }

// Enqueue inserts item unless its key is already pending.
func (q *Queue[T]) Enqueue(item T) {
	key := item.Key()
	if key == "" {
		return
	}
	q.mu.Lock()
	if _, dup := q.pending[key]; dup {
		q.mu.Unlock()
		return
	}
	q.pending[key] = struct{}{}
	q.order = append(q.order, item)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Dequeue removes and returns a pending item, blocking until one is
// available or the context ends. The returned item stays leased until Done.
func (q *Queue[T]) Dequeue(ctx context.Context) (T, error) {
	var zero T
	for {
		q.mu.Lock()
		if len(q.order) > 0 {
			item := q.order[0]
			q.order = q.order[1:]
			delete(q.pending, item.Key())
			q.leased++
			q.mu.Unlock()
			return item, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("dequeue %s: %w", q.name, ctx.Err())
		case <-q.notify:
		}
	}
}

// Done releases one lease. Consumers call it after fan-out so downstream
// queues are populated before this queue can report itself idle.
func (q *Queue[T]) Done() {
	q.mu.Lock()
	if q.leased > 0 {
		q.leased--
	}
	q.mu.Unlock()
}

// Len returns the pending count.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}

// Busy returns the number of leased items.
func (q *Queue[T]) Busy() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.leased
}

// Stats is the read-only view a queue exposes for diagnostics and the
// convergence check, independent of its item type.
type Stats interface {
	Name() string
	Len() int
	Busy() int
}

// Fabric groups the stage queues for depth reporting and convergence.
type Fabric struct {
	queues []Stats
}

// NewFabric registers the given queues.
func NewFabric(queues ...Stats) *Fabric {
	return &Fabric{queues: queues}
}

// Depths returns pending counts keyed by queue name.
func (f *Fabric) Depths() map[string]int {
	depths := make(map[string]int, len(f.queues))
	for _, q := range f.queues {
		depths[q.Name()] = q.Len()
	}
	return depths
}

// Idle reports whether every queue is simultaneously empty with no leased
// item. A false reading only delays convergence; it never produces wrong
// results.
func (f *Fabric) Idle() bool {
	for _, q := range f.queues {
		if q.Len() > 0 || q.Busy() > 0 {
			return false
		}
	}
	return true
}

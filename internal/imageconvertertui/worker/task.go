package worker

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

// Task is one unit of background work. Its events arrive in emit order and
// the channel is closed when the job returns.
type Task[E any] struct {
	ID     uuid.UUID
	events chan E
	done   chan struct{}
}

// Submit starts job on a fresh single-slot pool. buffer should cover every
// event the job can emit so the job never waits on a slow reader. The pool is
// released as soon as the job returns.
func Submit[E any](buffer int, job func(emit func(E))) (*Task[E], error) {
	pool, err := ants.NewPool(1, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	t := &Task[E]{
		ID:     uuid.New(),
		events: make(chan E, buffer),
		done:   make(chan struct{}),
	}

	err = pool.Submit(func() {
		defer close(t.done)
		defer close(t.events)
		job(func(e E) { t.events <- e })
	})
	if err != nil {
		pool.Release()
		return nil, fmt.Errorf("failed to submit task: %w", err)
	}

	go func() {
		<-t.done
		pool.Release()
	}()

	return t, nil
}

// Events delivers what the job emits.
func (t *Task[E]) Events() <-chan E {
	return t.events
}

// Done is closed once the job has returned.
func (t *Task[E]) Done() <-chan struct{} {
	return t.done
}

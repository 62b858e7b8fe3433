package utils

import (
	"context"
	"sync"
)

// WorkerPool manages a fixed set of workers for concurrent operations.
// The catalog refresh uses it to fan batch fetches out across a bounded
// number of goroutines so a slow provider cannot spawn unbounded work.
type WorkerPool struct {
	workers   int
	workQueue chan func()
	stopCh    chan struct{}
	wg        sync.WaitGroup
	running   bool
	mu        sync.RWMutex
}

// NewWorkerPool creates a new worker pool with the specified number of
// workers. The work queue is buffered at 2x the worker count.
func NewWorkerPool(workers int) *WorkerPool {
	return &WorkerPool{
		workers:   workers,
		workQueue: make(chan func(), workers*2),
		stopCh:    make(chan struct{}),
	}
}

// Start begins processing work items. Idempotent.
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.running {
		return
	}
	wp.running = true

	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Stop stops the worker pool and waits for all workers to finish their
// current work item.
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if !wp.running {
		return
	}
	wp.running = false
	close(wp.stopCh)
	wp.wg.Wait()
}

// Submit adds a work item without blocking. Returns false when the
// queue is full or the pool is not running.
func (wp *WorkerPool) Submit(work func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if !wp.running {
		return false
	}

	select {
	case wp.workQueue <- work:
		return true
	default:
		return false
	}
}

// SubmitWait queues a work item, blocking until there is queue space,
// the pool stops, or the context is done.
func (wp *WorkerPool) SubmitWait(ctx context.Context, work func()) bool {
	wp.mu.RLock()
	if !wp.running {
		wp.mu.RUnlock()
		return false
	}
	wp.mu.RUnlock()

	select {
	case wp.workQueue <- work:
		return true
	case <-wp.stopCh:
		return false
	case <-ctx.Done():
		return false
	}
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case work := <-wp.workQueue:
			if work != nil {
				work()
			}
		case <-wp.stopCh:
			return
		}
	}
}

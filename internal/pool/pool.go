package pool

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

var (
	// ErrPoolClosed is returned when submitting to a closed pool.
	ErrPoolClosed = errors.New("pool: closed")
	// ErrInvalidSize is returned for a pool of fewer than one worker.
	ErrInvalidSize = errors.New("pool: size must be at least 1")
)

// Pool is a fixed set of long-lived worker goroutines consuming a shared task
// queue. Workers start in New, so start-up cost is paid before any task runs.
type Pool struct {
	size  int
	tasks chan func()
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed atomic.Bool
}

// New starts a pool of size workers.
func New(size int) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	p := &Pool{size: size, tasks: make(chan func(), size)}
	p.wg.Add(size)
	for range size {
		go p.worker()
	}
	return p, nil
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Submit queues task for execution by the next free worker. It blocks while
// every worker is busy and the queue is full.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed.Load() {
		return ErrPoolClosed
	}
	p.tasks <- task
	return nil
}

// Close stops accepting tasks, lets queued tasks finish and waits for every
// worker to exit. It is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed.CompareAndSwap(false, true) {
		close(p.tasks)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Future is the pending result of a task submitted with Go.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Wait blocks until the task has finished and returns its result.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.val, f.err
}

// Go submits fn to p and returns a future for its result. A panic inside fn
// is converted into an error carrying the stack, so it fails the task instead
// of crashing the worker.
func Go[T any](p *Pool, fn func() (T, error)) (*Future[T], error) {
	f := &Future[T]{done: make(chan struct{})}
	err := p.Submit(func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("pool: task panicked: %v\n%s", r, debug.Stack())
			}
		}()
		f.val, f.err = fn()
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

package outbox

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrPoolClosed = errors.New("worker pool closed")

type WorkerPoolI interface {
	AddTask(ctx context.Context, task Task) error
	Close()
}

type Task func() error

type WorkerPool struct {
	pool    chan Task
	done    chan struct{}
	once    sync.Once
	workers sync.WaitGroup
}

func NewWorkerPool(size int) *WorkerPool {
	wp := &WorkerPool{
		pool: make(chan Task, size),
		done: make(chan struct{}),
	}

	wp.workers.Add(size)
	for i := 0; i < size; i++ {
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.workers.Done()
	for {
		select {
		case <-wp.done:
			return
		case task := <-wp.pool:
			if err := task(); err != nil {
				zap.L().Error("Task execution failed", zap.Error(err))
			}
		}
	}
}

func (wp *WorkerPool) AddTask(ctx context.Context, task Task) error {
	select {
	case <-wp.done:
		return ErrPoolClosed
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-wp.done:
		return ErrPoolClosed
	case wp.pool <- task:
		return nil
	}
}

// Close stops the workers and waits for running tasks. Queued tasks that
// have not started are dropped; their events stay unsent and are picked up
// on the next run.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		close(wp.done)
	})
	wp.workers.Wait()
}

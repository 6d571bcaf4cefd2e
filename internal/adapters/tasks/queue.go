// Package tasks runs fire-and-forget work on in-process workers. Handlers
// are registered by task name before Start; Enqueue never blocks the caller
// and handler failures are logged, not returned.
package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"conferencecentral/internal/domain"
)

const handlerTimeout = 30 * time.Second

type task struct {
	name   string
	params map[string]string
}

// Queue is an in-process TaskQueue with a fixed worker pool.
type Queue struct {
	logger   *slog.Logger
	handlers map[string]domain.TaskHandler
	ch       chan task
	wg       sync.WaitGroup
	once     sync.Once
}

// NewQueue creates a Queue buffering up to size tasks.
func NewQueue(logger *slog.Logger, size int) *Queue {
	return &Queue{
		logger:   logger,
		handlers: make(map[string]domain.TaskHandler),
		ch:       make(chan task, size),
	}
}

// Register binds a handler to a task name. Must be called before Start.
func (q *Queue) Register(taskName string, handler domain.TaskHandler) {
	q.handlers[taskName] = handler
}

// Start launches the worker goroutines.
func (q *Queue) Start(workers int) {
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
}

// Stop closes the queue and waits for in-flight tasks to finish. Enqueue
// must not be called after Stop.
func (q *Queue) Stop() {
	q.once.Do(func() { close(q.ch) })
	q.wg.Wait()
}

// Enqueue accepts the task without blocking. A full buffer drops the task
// with an error; callers treat enqueue as best-effort.
func (q *Queue) Enqueue(ctx context.Context, taskName string, params map[string]string) error {
	select {
	case q.ch <- task{name: taskName, params: params}:
		return nil
	default:
		q.logger.Warn("task queue full, dropping task", "task", taskName)
		return fmt.Errorf("task queue full")
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for t := range q.ch {
		q.run(t)
	}
}

func (q *Queue) run(t task) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("task handler panicked", "task", t.name, "panic", r)
		}
	}()

	handler, ok := q.handlers[t.name]
	if !ok {
		q.logger.Error("no handler registered for task", "task", t.name)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if err := handler(ctx, t.params); err != nil {
		q.logger.Error("task handler failed", "task", t.name, "error", err)
	}
}

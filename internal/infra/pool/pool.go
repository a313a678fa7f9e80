package pool

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yanqian/digestly/internal/domain/summary"
)

type outcome struct {
	value string
	err   error
}

type task struct {
	ctx  context.Context
	call func(context.Context) (string, error)
	done chan outcome
}

// Pool executes blocking model calls on a fixed set of workers pulling from
// a bounded FIFO queue. It caps system-wide concurrent model invocations;
// submissions beyond queue capacity block in arrival order.
type Pool struct {
	tasks       chan *task
	callTimeout time.Duration
	logger      *slog.Logger
	wg          sync.WaitGroup
	closeOnce   sync.Once
}

// New starts the worker set. callTimeout bounds each individual call so a
// stalled model cannot hold a worker forever; zero disables the deadline.
func New(workers, queueSize int, callTimeout time.Duration, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = workers * 4
	}
	p := &Pool{
		tasks:       make(chan *task, queueSize),
		callTimeout: callTimeout,
		logger:      logger.With("component", "pool"),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	p.logger.Info("worker pool started", "workers", workers, "queue_size", queueSize, "call_timeout", callTimeout)
	return p
}

// Submit enqueues one call and blocks until its result is available or the
// caller's context ends. Must not be called after Close.
func (p *Pool) Submit(ctx context.Context, call func(context.Context) (string, error)) (string, error) {
	t := &task{ctx: ctx, call: call, done: make(chan outcome, 1)}

	select {
	case p.tasks <- t:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case out := <-t.done:
		return out.value, out.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close stops accepting work and waits for in-flight calls to finish.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.tasks)
	})
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for t := range p.tasks {
		if err := t.ctx.Err(); err != nil {
			t.done <- outcome{err: err}
			continue
		}
		callCtx := t.ctx
		cancel := func() {}
		if p.callTimeout > 0 {
			callCtx, cancel = context.WithTimeout(t.ctx, p.callTimeout)
		}
		value, err := t.call(callCtx)
		cancel()
		t.done <- outcome{value: value, err: err}
	}
}

var _ summary.Offload = (*Pool)(nil)

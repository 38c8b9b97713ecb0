// Package dispatch runs commands on a bounded worker pool.
//
// Every command from the command surface becomes an independent task. At most
// Size tasks run at once; the rest wait for a slot and may be abandoned by
// their caller while queued. Once started, a mutating task runs to completion
// even if its caller goes away; read-only tasks see the caller's context and
// stop cooperatively.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/id"
)

var ErrPoolClosed = errors.New("dispatch pool is closed")

type taskIDKey struct{}

// TaskIDFrom returns the id of the task running with ctx
func TaskIDFrom(ctx context.Context) (id.TaskID, bool) {
	taskID, ok := ctx.Value(taskIDKey{}).(id.TaskID)
	return taskID, ok
}

// Task is a unit of work
type Task func(ctx context.Context) (interface{}, error)

// Outcome is the result of a finished task
type Outcome struct {
	TaskID id.TaskID
	Value  interface{}
	Err    error
}

// Pool bounds concurrently running tasks
type Pool struct {
	sem     *semaphore.Weighted
	size    int
	metrics *monitoring.Metrics
	logger  *logging.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewPool creates a pool running at most size tasks at once
func NewPool(size int, metrics *monitoring.Metrics, logger *logging.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		sem:     semaphore.NewWeighted(int64(size)),
		size:    size,
		metrics: metrics,
		logger:  logger.Component("dispatch"),
	}
}

// Size returns the pool capacity
func (p *Pool) Size() int { return p.size }

// Submit queues a task and returns a channel receiving its single outcome.
// detach marks mutating work: once a slot is acquired the task no longer
// observes cancellation of ctx.
func (p *Pool) Submit(ctx context.Context, detach bool, task Task) <-chan Outcome {
	out := make(chan Outcome, 1)
	taskID := id.NewTaskID()

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		out <- Outcome{TaskID: taskID, Err: ErrPoolClosed}
		return out
	}
	p.wg.Add(1)
	p.mu.RUnlock()

	go func() {
		defer p.wg.Done()

		if err := p.sem.Acquire(ctx, 1); err != nil {
			out <- Outcome{TaskID: taskID, Err: fmt.Errorf("task abandoned while queued: %w", err)}
			return
		}
		defer p.sem.Release(1)

		if p.metrics != nil {
			p.metrics.PoolInFlight.Inc()
			defer p.metrics.PoolInFlight.Dec()
		}

		runCtx := ctx
		if detach {
			runCtx = context.WithoutCancel(ctx)
		}

		value, err := p.run(runCtx, taskID, task)
		out <- Outcome{TaskID: taskID, Value: value, Err: err}
	}()

	return out
}

// Do submits a task and waits for its outcome
func (p *Pool) Do(ctx context.Context, detach bool, task Task) (interface{}, error) {
	outcome := <-p.Submit(ctx, detach, task)
	return outcome.Value, outcome.Err
}

func (p *Pool) run(ctx context.Context, taskID id.TaskID, task Task) (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked", zap.String("task_id", taskID.String()), zap.Any("panic", r))
			err = fmt.Errorf("task %s panicked: %v", taskID, r)
		}
	}()
	return task(context.WithValue(ctx, taskIDKey{}, taskID))
}

// Close stops accepting tasks and waits for queued and running ones
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()
}

// Package jobs defines background tasks such as automated code reviews and
// the dispatcher that executes them outside the HTTP request path.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sevigo/review-warden/internal/config"
	"github.com/sevigo/review-warden/internal/core"
)

// dispatcher implements core.TaskDispatcher and manages a pool of worker
// goroutines for processing webhook events as review tasks.
type dispatcher struct {
	job        core.Job              // Job implementation executed by each worker.
	taskQueue  chan *core.ReviewTask // Queue of accepted review tasks.
	maxWorkers int                   // Number of concurrent workers.
	rejectFull bool                  // Reject instead of block when the queue is full.
	wg         sync.WaitGroup        // Tracks active workers for graceful shutdown.
	logger     *slog.Logger
}

// NewDispatcher initializes a dispatcher with a worker pool. The overflow
// policy decides what happens when the queue is full: "queue" (the default)
// blocks the enqueue until a worker frees a slot, "reject" returns an error
// to the caller. If maxWorkers or queueSize is 0 or negative, it defaults to 1.
func NewDispatcher(job core.Job, maxWorkers, queueSize int, policy string, logger *slog.Logger) core.TaskDispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	d := &dispatcher{
		job:        job,
		maxWorkers: maxWorkers,
		taskQueue:  make(chan *core.ReviewTask, queueSize),
		rejectFull: policy == config.QueuePolicyReject,
		logger:     logger,
	}
	d.startWorkers()
	return d
}

// startWorkers launches maxWorkers goroutines to process tasks from the queue.
func (d *dispatcher) startWorkers() {
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

// startWorker processes tasks from the queue until it's closed.
func (d *dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Info("starting review worker", "id", workerID)

	for task := range d.taskQueue {
		d.processTask(workerID, task)
	}

	d.logger.Info("shutting down review worker", "id", workerID)
}

// processTask runs one review task. Failures, including panics inside the
// job, stop at this boundary: they are logged with enough context to
// diagnose and never reach other tasks or the HTTP layer.
func (d *dispatcher) processTask(workerID int, task *core.ReviewTask) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("review task panicked",
				"worker_id", workerID,
				"vendor", task.Event.Vendor,
				"kind", task.Event.Kind,
				"instance", task.Creds.URLSlug,
				"panic", r,
			)
		}
	}()

	d.logger.Info("worker processing task",
		"worker_id", workerID,
		"vendor", task.Event.Vendor,
		"kind", task.Event.Kind,
	)

	if err := d.job.Run(context.Background(), task); err != nil {
		d.logger.Error("review task failed",
			"worker_id", workerID,
			"vendor", task.Event.Vendor,
			"kind", task.Event.Kind,
			"instance", task.Creds.URLSlug,
			"error", err,
		)
	}
}

// Dispatch queues a review task for processing by a worker. It performs no
// I/O and returns before the task executes.
func (d *dispatcher) Dispatch(ctx context.Context, task *core.ReviewTask) error {
	d.logger.Info("queuing review task", "vendor", task.Event.Vendor, "kind", task.Event.Kind)

	if d.rejectFull {
		select {
		case d.taskQueue <- task:
			return nil
		default:
			return fmt.Errorf("task queue is full, cannot accept new review task")
		}
	}

	select {
	case d.taskQueue <- task:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("enqueue cancelled: %w", ctx.Err())
	}
}

// Stop gracefully shuts down the dispatcher, waiting for all workers to finish.
func (d *dispatcher) Stop() {
	d.logger.Info("stopping dispatcher and waiting for tasks to finish")
	close(d.taskQueue)
	d.wg.Wait()
	d.logger.Info("all review tasks have finished")
}

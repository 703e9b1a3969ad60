package core

import (
	"context"
)

// TaskDispatcher defines the contract for a system that can accept and queue
// background tasks for asynchronous processing. This interface decouples the
// event source (the webhook handler) from the task execution mechanism.
type TaskDispatcher interface {
	// Dispatch accepts a ReviewTask and queues it for processing. It must
	// return before the task executes. An error means the task was never
	// queued, for example when the queue is full and the overflow policy
	// rejects new work.
	Dispatch(ctx context.Context, task *ReviewTask) error

	// Stop closes the queue and waits for in-flight tasks to finish.
	Stop()
}

// Job represents a single, executable unit of work processed by the
// dispatcher's workers. Each job is triggered by a ReviewTask.
type Job interface {
	// Run executes the job's logic. It returns an error if the job fails;
	// the dispatcher logs the error and never propagates it further.
	Run(ctx context.Context, task *ReviewTask) error
}

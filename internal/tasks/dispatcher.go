package tasks

import (
	"context"
	"log/slog"
	"sync"
)

type Job func(ctx context.Context)

// Queue is the hand-off surface request handlers see: fire-and-forget,
// at-most-once. A false return means the job was dropped.
type Queue interface {
	Enqueue(name string, job Job) bool
}

// Dispatcher runs queued jobs on a fixed worker pool, detached from any
// request lifetime. Job failures are the job's problem to log; a panicking
// job never takes a worker down.
type Dispatcher struct {
	jobs    chan queued
	workers int
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

type queued struct {
	name string
	job  Job
}

func NewDispatcher(queueSize, workers int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 128
	}
	if workers <= 0 {
		workers = 4
	}
	return &Dispatcher{
		jobs:    make(chan queued, queueSize),
		workers: workers,
	}
}

// Run starts the workers and blocks until ctx is cancelled and the queue
// drains.
func (d *Dispatcher) Run(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx)
	}
	<-ctx.Done()
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) worker(_ context.Context) {
	defer d.wg.Done()
	for q := range d.jobs {
		// Jobs run on a fresh context: their lifetime is detached from
		// the request that queued them and from server shutdown signals,
		// so an in-flight job finishes its writes during drain.
		d.runOne(context.Background(), q)
	}
}

func (d *Dispatcher) runOne(ctx context.Context, q queued) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("background task panicked", "task", q.name, "panic", r)
		}
	}()
	q.job(ctx)
}

// Enqueue never blocks the caller; when the queue is full or already
// drained for shutdown the job is dropped with a warning, matching the
// at-most-once contract. Handlers still finishing during graceful
// shutdown may call this after Run has closed the queue.
func (d *Dispatcher) Enqueue(name string, job Job) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		slog.Warn("task queue closed, dropping job", "task", name)
		return false
	}
	select {
	case d.jobs <- queued{name: name, job: job}:
		return true
	default:
		slog.Warn("task queue full, dropping job", "task", name)
		return false
	}
}

package renderer

import (
	"errors"
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// WorkersEnvVar overrides the default worker count when set to a positive integer
const WorkersEnvVar = "RAYTRACER_WORKERS"

// ErrPoolClosed is the panic value for using a pool after Shutdown
var ErrPoolClosed = errors.New("renderer: worker pool is shut down")

// Job is a unit of work run to completion by one worker
type Job func()

// WorkerPool runs jobs on a fixed set of goroutines fed by one FIFO queue
type WorkerPool struct {
	mu            sync.Mutex
	workAvailable *sync.Cond // Signalled when a job is queued or the pool closes
	allDone       *sync.Cond // Broadcast when completed catches up with submitted
	queue         []Job
	submitted     int
	completed     int
	closed        bool

	numWorkers int
	wg         sync.WaitGroup
	logger     core.Logger
}

// DefaultWorkerCount returns the worker count from RAYTRACER_WORKERS, or the CPU count
func DefaultWorkerCount() int {
	if env := os.Getenv(WorkersEnvVar); env != "" {
		if n, err := strconv.Atoi(env); err == nil && n > 0 {
			return n
		}
	}
	return max(runtime.NumCPU(), 1)
}

// NewWorkerPool creates a worker pool and starts its workers.
// numWorkers <= 0 uses DefaultWorkerCount.
func NewWorkerPool(numWorkers int, logger core.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount()
	}
	if logger == nil {
		logger = core.NopLogger()
	}

	wp := &WorkerPool{
		numWorkers: numWorkers,
		logger:     logger,
	}
	wp.workAvailable = sync.NewCond(&wp.mu)
	wp.allDone = sync.NewCond(&wp.mu)

	wp.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go wp.run()
	}

	logger.Printf("Created worker pool with %d workers\n", numWorkers)
	return wp
}

// Submit queues a job. It panics with ErrPoolClosed after Shutdown.
func (wp *WorkerPool) Submit(job Job) {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.closed {
		panic(ErrPoolClosed)
	}
	wp.queue = append(wp.queue, job)
	wp.submitted++
	wp.workAvailable.Signal()
}

// WaitUntilDone blocks until every job submitted so far has completed.
// It must not be called from inside a job.
func (wp *WorkerPool) WaitUntilDone() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	for wp.completed != wp.submitted {
		wp.allDone.Wait()
	}
}

// Shutdown lets the workers finish any queued jobs, then joins them.
// Calling it twice panics with ErrPoolClosed.
func (wp *WorkerPool) Shutdown() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		panic(ErrPoolClosed)
	}
	wp.closed = true
	wp.workAvailable.Broadcast()
	wp.mu.Unlock()

	wp.wg.Wait()
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Submitted returns the number of jobs submitted over the pool's lifetime
func (wp *WorkerPool) Submitted() int {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.submitted
}

// Completed returns the number of jobs that have finished running
func (wp *WorkerPool) Completed() int {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.completed
}

// run is the main worker loop
func (wp *WorkerPool) run() {
	defer wp.wg.Done()

	for {
		job, ok := wp.next()
		if !ok {
			return
		}

		job()

		wp.mu.Lock()
		wp.completed++
		if wp.completed == wp.submitted {
			wp.allDone.Broadcast()
		}
		wp.mu.Unlock()
	}
}

// next pops the oldest job, blocking while the queue is empty.
// It reports false once the pool is closed and drained.
func (wp *WorkerPool) next() (Job, bool) {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	for len(wp.queue) == 0 && !wp.closed {
		wp.workAvailable.Wait()
	}
	if len(wp.queue) == 0 {
		return nil, false
	}

	job := wp.queue[0]
	wp.queue[0] = nil
	wp.queue = wp.queue[1:]
	if len(wp.queue) == 0 {
		wp.queue = nil
	}
	return job, true
}

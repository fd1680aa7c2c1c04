package tracer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/aezaqiel/Silmaril/log"
)

var ErrJobSystemStopped = errors.New("jobsystem: not running")

// Arguments passed to each unit of a dispatched job.
type JobDispatchArgs struct {
	// Index of the unit within the dispatch.
	JobIndex int

	// Index of the group that is processing the unit.
	GroupIndex int
}

// JobSystem is a fixed size pool of worker goroutines consuming jobs from a
// FIFO queue. A job that returns an error or panics does not take its worker
// down; the failure is reported by the next call to Sync.
type JobSystem struct {
	logger log.Logger

	mu    sync.Mutex
	wake  *sync.Cond
	idle  *sync.Cond
	queue []func() error
	errs  []error

	running    bool
	numWorkers int
	inFlight   atomic.Int64
	workers    sync.WaitGroup
}

// Create a job system. Init must be called before submitting jobs.
func NewJobSystem() *JobSystem {
	js := &JobSystem{
		logger: log.New("jobsystem"),
	}
	js.wake = sync.NewCond(&js.mu)
	js.idle = sync.NewCond(&js.mu)
	return js
}

// Get the number of workers used when Init is called with workers <= 0.
func DefaultWorkerCount() int {
	if n := runtime.NumCPU() - 1; n > 1 {
		return n
	}
	return 1
}

// Start the worker pool. Calling Init on a running job system has no effect.
func (js *JobSystem) Init(workers int) {
	js.mu.Lock()
	defer js.mu.Unlock()

	if js.running {
		return
	}
	if workers <= 0 {
		workers = DefaultWorkerCount()
	}

	js.running = true
	js.numWorkers = workers
	js.logger.Infof("starting %d workers", workers)
	for id := 0; id < workers; id++ {
		js.workers.Add(1)
		go js.workerLoop(id)
	}
}

// Get the number of running workers.
func (js *JobSystem) Workers() int {
	js.mu.Lock()
	defer js.mu.Unlock()
	return js.numWorkers
}

// Returns true if the job system accepts new jobs.
func (js *JobSystem) Running() bool {
	js.mu.Lock()
	defer js.mu.Unlock()
	return js.running
}

// Stop accepting jobs, wait for the workers to drain the queue and exit.
// The job system may be started again with Init.
func (js *JobSystem) Shutdown() {
	js.mu.Lock()
	if !js.running {
		js.mu.Unlock()
		return
	}
	js.running = false
	js.wake.Broadcast()
	js.mu.Unlock()

	js.workers.Wait()

	js.mu.Lock()
	js.numWorkers = 0
	js.mu.Unlock()
	js.logger.Debug("all workers stopped")
}

// Enqueue a job.
func (js *JobSystem) Execute(job func() error) error {
	js.mu.Lock()
	if !js.running {
		js.mu.Unlock()
		return ErrJobSystemStopped
	}

	// Count the job before it becomes visible to the workers so that Sync
	// can never observe an empty system while it is queued
	js.inFlight.Add(1)
	js.queue = append(js.queue, job)
	js.mu.Unlock()

	js.wake.Signal()
	return nil
}

// Split unitCount units of work into groups of groupSize and enqueue one job
// per group. Each job invokes fn sequentially for the units in its group.
func (js *JobSystem) Dispatch(unitCount, groupSize int, fn func(JobDispatchArgs) error) error {
	if unitCount <= 0 || groupSize <= 0 {
		return nil
	}

	groupCount := (unitCount + groupSize - 1) / groupSize
	for groupIndex := 0; groupIndex < groupCount; groupIndex++ {
		groupIndex := groupIndex
		err := js.Execute(func() error {
			start := groupIndex * groupSize
			end := min(start+groupSize, unitCount)

			var errs []error
			for unit := start; unit < end; unit++ {
				if err := fn(JobDispatchArgs{JobIndex: unit, GroupIndex: groupIndex}); err != nil {
					errs = append(errs, fmt.Errorf("unit %d: %w", unit, err))
				}
			}
			return errors.Join(errs...)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Block until all submitted jobs have completed. Returns the errors of all
// jobs that failed since the previous call to Sync.
func (js *JobSystem) Sync() error {
	js.mu.Lock()
	defer js.mu.Unlock()

	for js.inFlight.Load() != 0 {
		js.idle.Wait()
	}

	errs := js.errs
	js.errs = nil
	return errors.Join(errs...)
}

func (js *JobSystem) workerLoop(id int) {
	defer js.workers.Done()
	js.logger.Debugf("worker %d: started", id)

	for {
		js.mu.Lock()
		for len(js.queue) == 0 && js.running {
			js.wake.Wait()
		}

		// Queue drained after shutdown
		if len(js.queue) == 0 {
			js.mu.Unlock()
			js.logger.Debugf("worker %d: stopped", id)
			return
		}

		job := js.queue[0]
		js.queue[0] = nil
		js.queue = js.queue[1:]
		js.mu.Unlock()

		err := runJob(job)

		js.mu.Lock()
		if err != nil {
			js.errs = append(js.errs, err)
		}
		if js.inFlight.Add(-1) == 0 {
			js.idle.Broadcast()
		}
		js.mu.Unlock()
	}
}

// Run job converting panics into errors.
func runJob(job func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("jobsystem: job panicked: %v", r)
		}
	}()
	return job()
}

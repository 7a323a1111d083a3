package voxelizer

import (
	"runtime"
	"sync"

	"github.com/colon-crab-colon/voxelizer/pkg/voxel"
)

// RowTask represents one scan row for the worker pool
type RowTask struct {
	Axis   Axis  // Scan direction of the pass
	Outer  int64 // Grid coordinate fixed for this row
	TaskID int
}

// RowResult contains the samples found along a scan row
type RowResult struct {
	TaskID  int
	Samples []voxel.Sample
	Stats   ScanStats
}

// WorkerPool manages parallel row scanning
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual row tasks
type Worker struct {
	ID          int
	scanner     *RowScanner
	taskQueue   chan RowTask
	resultQueue chan RowResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// Queues are sized for maxTasks so submitting never blocks.
func NewWorkerPool(scanner *RowScanner, maxTasks, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, maxTasks),
		resultQueue: make(chan RowResult, maxTasks),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			scanner:     scanner,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop waits for queued tasks to finish and shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed row result
func (wp *WorkerPool) GetResult() (RowResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop. Rows only read the mesh, so workers share
// one scanner.
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		samples, stats := w.scanner.scanRow(task.Axis, task.Outer)
		w.resultQueue <- RowResult{
			TaskID:  task.TaskID,
			Samples: samples,
			Stats:   stats,
		}
	}
}

package renderer

import (
	"runtime"
	"sync"

	"github.com/df07/go-orbit-raytracer/pkg/core"
)

// RowTask represents one output scanline to render
type RowTask struct {
	Row    int     // Output row, 0 = top of the image
	Camera *Camera // Camera for the frame being rendered
	Frame  *Frame  // Shared frame buffer to write to
	Seed   uint64  // Frame seed; each pixel reseeds its sampler from (Seed, pixel index)
}

// RowResult contains the result from rendering a row
type RowResult struct {
	Row   int
	Stats RenderStats
}

// WorkerPool manages parallel scanline rendering
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker renders rows with its own sampler, so no random state is shared
type Worker struct {
	ID          int
	raytracer   *Raytracer
	sampler     *core.PCGSampler
	taskQueue   chan RowTask
	resultQueue chan RowResult
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(raytracer *Raytracer, maxTasks int, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, maxTasks),   // Buffer for all rows
		resultQueue: make(chan RowResult, maxTasks), // Buffer for all results
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			raytracer:   raytracer,
			sampler:     core.NewPCGSampler(0, uint64(i)),
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
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

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
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

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		// Rows are disjoint slices of the frame buffer, so writes never overlap
		stats := w.raytracer.renderRow(task.Row, task.Camera, task.Frame, w.sampler, task.Seed)
		w.resultQueue <- RowResult{Row: task.Row, Stats: stats}
	}
}

package renderer

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/integrator"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile            *Tile
	PassNumber      int
	SamplesPerPixel int // Samples to add in this pass
	TaskID          int // Index of the tile, for deterministic bookkeeping
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID   int
	WorkerID int
	Samples  int
	Splats   int
	Duration time.Duration
	Error    error
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual tile rendering tasks. Each worker owns the
// vertex storage the integrator needs.
type Worker struct {
	ID           int
	tileRenderer *TileRenderer
	workspace    *integrator.Workspace
	film         *Film
	width        int
	height       int
	taskQueue    chan TileTask
	resultQueue  chan TileResult
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(bdpt *integrator.BDPTIntegrator, film *Film, strategies []integrator.Film, numTiles, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, numTiles),   // Buffer for all tiles of a pass
		resultQueue: make(chan TileResult, numTiles), // Buffer for all results of a pass
		numWorkers:  numWorkers,
	}

	bounds := film.Bounds()
	tileRenderer := NewTileRenderer(bdpt, strategies)
	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:           i,
			tileRenderer: tileRenderer,
			workspace:    integrator.NewWorkspace(bdpt.Config().MaxDepth),
			film:         film,
			width:        bounds.Dx(),
			height:       bounds.Dy(),
			taskQueue:    wp.taskQueue,
			resultQueue:  wp.resultQueue,
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

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
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
		w.resultQueue <- w.render(task)
	}
}

// render renders one tile. A panic in the integrator fails the tile
// instead of the process.
func (w *Worker) render(task TileTask) (result TileResult) {
	start := time.Now()
	result = TileResult{TaskID: task.TaskID, WorkerID: w.ID}
	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Errorf("tile %d: %v", task.TaskID, r)
		}
		result.Duration = time.Since(start)
	}()

	// Tiles render into private buffers, the film lock is only taken to merge
	filmTile := NewFilmTile(task.Tile.Bounds, w.width, w.height)
	sampler := core.NewRandomSampler(task.Tile.Random)
	result.Samples = w.tileRenderer.RenderTile(filmTile, w.workspace, sampler, task.SamplesPerPixel)
	result.Splats = filmTile.Splats.GetSplatCount()
	w.film.MergeTile(filmTile)
	return result
}

package renderer

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/df07/go-bdpt/pkg/integrator"
	"github.com/df07/go-bdpt/pkg/log"
)

var logger = log.New(log.Renderer)

// Config contains configuration for progressive rendering
type Config struct {
	TileSize        int   // Size of each tile in pixels
	SamplesPerPixel int   // Total samples per pixel after the last pass
	Passes          int   // Number of progressive passes
	NumWorkers      int   // Number of parallel workers (0 = use CPU count)
	Seed            int64 // Base seed for the per-tile random generators
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		TileSize:        32,
		SamplesPerPixel: 16,
		Passes:          4,
		NumWorkers:      0, // Auto-detect CPU count
		Seed:            42,
	}
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// StrategyImage is the debug image of one (s,t) strategy
type StrategyImage struct {
	Strategy integrator.Strategy
	Image    *image.RGBA
}

// Result is everything a finished render produced
type Result struct {
	Image      *image.RGBA
	Passes     []PassResult
	Workers    []WorkerStats
	Strategies []StrategyImage // Empty unless the integrator visualizes strategies
}

// Renderer drives the integrator over the image in tiles and passes
type Renderer struct {
	integrator    *integrator.BDPTIntegrator
	width, height int
	config        Config
	tiles         []*Tile
	film          *Film
	strategyFilms []*Film // Indexed by BufferIndex, nil for unused slots
	workerPool    *WorkerPool
	workerStats   []WorkerStats
	samplesDone   int // Samples per pixel accumulated so far
}

// NewRenderer creates a progressive renderer for an image of the given size
func NewRenderer(bdpt *integrator.BDPTIntegrator, width, height int, config Config) *Renderer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultConfig().TileSize
	}
	config.SamplesPerPixel = max(1, config.SamplesPerPixel)
	config.Passes = max(1, min(config.Passes, config.SamplesPerPixel))

	film := NewFilm(width, height)
	tiles := NewTileGrid(width, height, config.TileSize, config.Seed)

	r := &Renderer{
		integrator: bdpt,
		width:      width,
		height:     height,
		config:     config,
		tiles:      tiles,
		film:       film,
	}

	var strategies []integrator.Film
	ic := bdpt.Config()
	if ic.VisualizeStrategies || ic.VisualizeWeights {
		r.strategyFilms = make([]*Film, integrator.StrategyBufferCount(ic.MaxDepth))
		strategies = make([]integrator.Film, len(r.strategyFilms))
		for _, st := range integrator.Strategies(ic.MaxDepth) {
			index := integrator.BufferIndex(st.S, st.T)
			r.strategyFilms[index] = NewFilm(width, height)
			strategies[index] = r.strategyFilms[index]
		}
	}

	r.workerPool = NewWorkerPool(bdpt, film, strategies, len(tiles), config.NumWorkers)
	r.workerStats = make([]WorkerStats, r.workerPool.GetNumWorkers())
	for i := range r.workerStats {
		r.workerStats[i].ID = i
	}
	return r
}

// getSamplesForPass calculates the target total samples for a given pass
func (r *Renderer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if r.config.Passes == 1 {
		return r.config.SamplesPerPixel
	}

	// First pass is a one sample preview
	if passNumber == 1 {
		return 1
	}

	// Divide remaining samples evenly across remaining passes
	samplesPerPass := (r.config.SamplesPerPixel - 1) / (r.config.Passes - 1)
	targetSamples := 1 + (passNumber-1)*samplesPerPass

	// For the final pass, use all remaining samples
	if passNumber == r.config.Passes {
		targetSamples = r.config.SamplesPerPixel
	}
	return targetSamples
}

// RenderPass renders a single progressive pass. The context is checked
// before each tile is handed out; tiles already running complete.
func (r *Renderer) RenderPass(ctx context.Context, passNumber int) (PassResult, error) {
	start := time.Now()
	targetSamples := r.getSamplesForPass(passNumber)
	samples := targetSamples - r.samplesDone

	logger.Infof("pass %d: %d samples per pixel (total %d) using %d workers",
		passNumber, samples, targetSamples, r.workerPool.GetNumWorkers())

	submitted := 0
	var cancelErr error
	for i, tile := range r.tiles {
		if err := ctx.Err(); err != nil {
			cancelErr = err
			break
		}
		r.workerPool.SubmitTask(TileTask{
			Tile:            tile,
			PassNumber:      passNumber,
			SamplesPerPixel: samples,
			TaskID:          i,
		})
		submitted++
	}

	stats := RenderStats{TotalPixels: r.width * r.height}
	var tileErr error
	for i := 0; i < submitted; i++ {
		result, ok := r.workerPool.GetResult()
		if !ok {
			return PassResult{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil && tileErr == nil {
			tileErr = result.Error
		}
		r.tiles[result.TaskID].PassesCompleted++
		stats.TotalSamples += result.Samples
		stats.Splats += result.Splats

		ws := &r.workerStats[result.WorkerID]
		ws.Tiles++
		ws.Samples += result.Samples
		ws.Busy += result.Duration
	}
	if tileErr != nil {
		return PassResult{}, fmt.Errorf("pass %d: %w", passNumber, tileErr)
	}
	if cancelErr != nil {
		return PassResult{}, cancelErr
	}

	r.samplesDone = targetSamples
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	stats.Duration = time.Since(start)

	return PassResult{
		PassNumber: passNumber,
		Image:      r.film.Image(r.samplesDone),
		Stats:      stats,
		IsLast:     passNumber == r.config.Passes,
	}, nil
}

// Render runs every pass and calls onPass, which may be nil, after each
// one. Cancelling ctx stops the render between tiles. A Renderer renders
// once; its workers are shut down when Render returns.
func (r *Renderer) Render(ctx context.Context, onPass func(PassResult)) (*Result, error) {
	r.workerPool.Start()
	defer r.workerPool.Stop()

	logger.Noticef("rendering %dx%d in %d passes of %d tiles",
		r.width, r.height, r.config.Passes, len(r.tiles))

	result := &Result{}
	for pass := 1; pass <= r.config.Passes; pass++ {
		if err := ctx.Err(); err != nil {
			logger.Warningf("rendering cancelled before pass %d", pass)
			return nil, err
		}

		passResult, err := r.RenderPass(ctx, pass)
		if err != nil {
			return nil, err
		}
		logger.Infof("pass %d completed in %v (%.1f samples/pixel, %d splats)",
			pass, passResult.Stats.Duration, passResult.Stats.AverageSamples, passResult.Stats.Splats)

		result.Passes = append(result.Passes, passResult)
		result.Image = passResult.Image
		if onPass != nil {
			onPass(passResult)
		}
	}

	result.Workers = append([]WorkerStats(nil), r.workerStats...)
	for _, st := range integrator.Strategies(r.integrator.Config().MaxDepth) {
		film := r.strategyFilm(st)
		if film == nil {
			continue
		}
		result.Strategies = append(result.Strategies, StrategyImage{Strategy: st, Image: film.Image(r.samplesDone)})
	}
	return result, nil
}

func (r *Renderer) strategyFilm(st integrator.Strategy) *Film {
	if len(r.strategyFilms) == 0 {
		return nil
	}
	return r.strategyFilms[integrator.BufferIndex(st.S, st.T)]
}

// Film exposes the accumulated radiance
func (r *Renderer) Film() *Film {
	return r.film
}

// SamplesPerPixel returns the samples per pixel rendered so far
func (r *Renderer) SamplesPerPixel() int {
	return r.samplesDone
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
	Random          *rand.Rand      // Tile-specific random generator for deterministic results
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle, seed int64) *Tile {
	// Create deterministic random generator based on tile ID
	random := rand.New(rand.NewSource(seed + int64(id) + 42)) // +42 to avoid seed 0

	return &Tile{
		ID:              id,
		Bounds:          bounds,
		PassesCompleted: 0,
		Random:          random,
	}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			// Calculate tile bounds
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			bounds := image.Rect(x0, y0, x1, y1)
			tiles = append(tiles, NewTile(tileID, bounds, seed))
			tileID++
		}
	}

	return tiles
}

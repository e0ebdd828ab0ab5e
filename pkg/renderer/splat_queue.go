package renderer

import (
	"image"
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// SplatXY is a splat with its pixel coordinates resolved
type SplatXY struct {
	X, Y  int
	Color core.Vec3
}

// SplatQueue buffers the splats produced while rendering one tile. It is
// owned by a single worker and drained into the shared film when the tile
// completes.
type SplatQueue struct {
	bounds image.Rectangle // Image bounds, splats outside are dropped
	splats []SplatXY
}

// NewSplatQueue creates a queue for an image of the given size
func NewSplatQueue(width, height int) *SplatQueue {
	return &SplatQueue{
		bounds: image.Rect(0, 0, width, height),
		splats: make([]SplatXY, 0, 256),
	}
}

// AddSplat implements integrator.Film. Raster positions are truncated to
// pixels the same way camera samples are generated.
func (sq *SplatQueue) AddSplat(pFilm core.Vec2, v core.Vec3) {
	x, y := int(math.Floor(pFilm.X)), int(math.Floor(pFilm.Y))
	if !image.Pt(x, y).In(sq.bounds) {
		return
	}
	sq.splats = append(sq.splats, SplatXY{X: x, Y: y, Color: v})
}

// GetSplatCount returns the number of pending splats
func (sq *SplatQueue) GetSplatCount() int {
	return len(sq.splats)
}

// Drain returns the pending splats and empties the queue
func (sq *SplatQueue) Drain() []SplatXY {
	out := sq.splats
	sq.splats = make([]SplatXY, 0, cap(out))
	return out
}

// Clear removes all pending splats
func (sq *SplatQueue) Clear() {
	sq.splats = sq.splats[:0]
}

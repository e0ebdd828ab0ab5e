package renderer

import (
	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/integrator"
)

// TileRenderer renders the pixels of one tile with the integrator
type TileRenderer struct {
	integrator *integrator.BDPTIntegrator
	strategies []integrator.Film // Debug films indexed by BufferIndex, may be empty
}

// NewTileRenderer creates a new tile renderer. strategies holds the
// per-strategy debug films and may be nil.
func NewTileRenderer(bdpt *integrator.BDPTIntegrator, strategies []integrator.Film) *TileRenderer {
	return &TileRenderer{
		integrator: bdpt,
		strategies: strategies,
	}
}

// RenderTile takes samplesPerPixel samples in every pixel of the tile and
// returns the number of samples taken
func (tr *TileRenderer) RenderTile(tile *FilmTile, ws *integrator.Workspace, sampler core.Sampler, samplesPerPixel int) int {
	targets := integrator.Targets{Splats: tile, Strategies: tr.strategies}
	samples := 0
	bounds := tile.Bounds
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			for i := 0; i < samplesPerPixel; i++ {
				offset := sampler.Get2D()
				pFilm := core.NewVec2(float64(x)+offset.X, float64(y)+offset.Y)
				L := tr.integrator.RenderSample(sampler, ws, pFilm, targets)
				tile.AddSample(x, y, L)
				samples++
			}
		}
	}
	return samples
}

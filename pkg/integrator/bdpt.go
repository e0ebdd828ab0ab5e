package integrator

import (
	"fmt"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/lights"
	"github.com/df07/go-bdpt/pkg/log"
)

var logger = log.New(log.Integrator)

// Config controls path lengths and debug output of the integrator
type Config struct {
	MaxDepth            int  // Maximum number of scattering events per path
	VisualizeStrategies bool // Write each strategy's unweighted contribution to its own film
	VisualizeWeights    bool // Write each strategy's weighted contribution to its own film
	Verbose             bool // Trace every sample at debug level
}

// DefaultConfig returns the settings used by the CLI when no flags are given
func DefaultConfig() Config {
	return Config{
		MaxDepth: 5,
	}
}

// Film receives splatted radiance at raster positions
type Film interface {
	AddSplat(pFilm core.Vec2, v core.Vec3)
}

// Targets are the films RenderSample writes to besides the returned pixel value
type Targets struct {
	Splats     Film
	Strategies []Film // Indexed by BufferIndex; empty unless visualizing
}

// BDPTIntegrator implements bidirectional path tracing. It is safe for
// concurrent use as long as every goroutine has its own Workspace and sampler.
type BDPTIntegrator struct {
	config       Config
	scene        core.Scene
	camera       core.Camera
	lightSampler *lights.PowerLightSampler
	lightToIndex map[core.Light]int
}

// NewBDPTIntegrator prepares light selection for the scene. The scene's
// lights must be preprocessed already.
func NewBDPTIntegrator(scene core.Scene, camera core.Camera, config Config) *BDPTIntegrator {
	sceneLights := scene.Lights()
	lightToIndex := make(map[core.Light]int, len(sceneLights))
	for i, light := range sceneLights {
		lightToIndex[light] = i
	}
	if len(sceneLights) == 0 {
		logger.Warning("scene has no lights")
	}
	return &BDPTIntegrator{
		config:       config,
		scene:        scene,
		camera:       camera,
		lightSampler: lights.NewPowerLightSampler(sceneLights),
		lightToIndex: lightToIndex,
	}
}

// Config returns the integrator settings
func (b *BDPTIntegrator) Config() Config {
	return b.config
}

// Workspace holds the vertex arrays of one worker, reused across samples
type Workspace struct {
	CameraVertices []Vertex
	LightVertices  []Vertex
}

// NewWorkspace sizes the vertex arrays for paths of up to maxDepth bounces
func NewWorkspace(maxDepth int) *Workspace {
	return &Workspace{
		CameraVertices: make([]Vertex, maxDepth+2),
		LightVertices:  make([]Vertex, maxDepth+1),
	}
}

// RenderSample traces one camera subpath through pFilm and one light
// subpath, evaluates every connection strategy and returns the radiance
// for the pixel. Strategies with a single camera vertex land elsewhere on
// the film and go to targets.Splats instead.
func (b *BDPTIntegrator) RenderSample(sampler core.Sampler, ws *Workspace, pFilm core.Vec2, targets Targets) core.Vec3 {
	maxDepth := b.config.MaxDepth
	nCamera := b.GenerateCameraSubpath(sampler, maxDepth+2, pFilm, ws.CameraVertices)
	if nCamera == 0 {
		return core.Vec3{}
	}
	time := ws.CameraVertices[0].Time()
	nLight := b.GenerateLightSubpath(sampler, maxDepth+1, time, ws.LightVertices)

	visualize := len(targets.Strategies) > 0 && (b.config.VisualizeStrategies || b.config.VisualizeWeights)

	var L core.Vec3
	for t := 1; t <= nCamera; t++ {
		for s := 0; s <= nLight; s++ {
			depth := t + s - 2
			if (s == 1 && t == 1) || depth < 0 || depth > maxDepth {
				continue
			}

			c := b.ConnectBDPT(ws.LightVertices, ws.CameraVertices, s, t, pFilm, sampler)

			if visualize {
				value := c.L
				if b.config.VisualizeStrategies {
					value = c.Unweighted
				}
				if b.config.VisualizeWeights {
					value = c.L
				}
				if film := targets.Strategies[BufferIndex(s, t)]; film != nil {
					film.AddSplat(c.PFilm, value)
				}
			}

			if t != 1 {
				L = L.Add(c.L)
			} else if targets.Splats != nil && !c.L.IsBlack() {
				targets.Splats.AddSplat(c.PFilm, c.L)
			}
		}
	}
	return L
}

// BufferIndex maps strategy (s,t) to a dense index, grouping strategies by
// path depth s+t-2
func BufferIndex(s, t int) int {
	above := s + t - 2
	return s + above*(5+above)/2
}

// Strategy identifies one (s,t) connection strategy
type Strategy struct {
	S, T  int
	Depth int
}

// Name is the file stem used for the strategy's debug film
func (st Strategy) Name() string {
	return fmt.Sprintf("bdpt_d%02d_s%02d_t%02d", st.Depth, st.S, st.T)
}

// StrategyBufferCount is the number of BufferIndex slots for paths up to maxDepth
func StrategyBufferCount(maxDepth int) int {
	return (1 + maxDepth) * (6 + maxDepth) / 2
}

// Strategies lists every strategy RenderSample can evaluate for maxDepth
func Strategies(maxDepth int) []Strategy {
	var out []Strategy
	for depth := 0; depth <= maxDepth; depth++ {
		for s := 0; s <= depth+2; s++ {
			t := depth + 2 - s
			if t == 0 || (s == 1 && t == 1) {
				continue
			}
			out = append(out, Strategy{S: s, T: t, Depth: depth})
		}
	}
	return out
}

func (b *BDPTIntegrator) logf(format string, a ...interface{}) {
	if b.config.Verbose {
		logger.Debugf(format, a...)
	}
}

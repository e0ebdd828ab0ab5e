package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-bdpt/pkg/camera"
	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/geometry"
	"github.com/df07/go-bdpt/pkg/lights"
	"github.com/df07/go-bdpt/pkg/material"
	"github.com/df07/go-bdpt/pkg/medium"
	"github.com/df07/go-bdpt/pkg/scene"
)

// TestSampler provides predetermined values for testing
type TestSampler struct {
	values1D []float64
	index1D  int
}

func (s *TestSampler) Get1D() float64 {
	if s.index1D >= len(s.values1D) {
		panic("TestSampler ran out of 1D values")
	}
	v := s.values1D[s.index1D]
	s.index1D++
	return v
}

func (s *TestSampler) Get2D() core.Vec2 {
	return core.NewVec2(s.Get1D(), s.Get1D())
}

// recordingFilm keeps every splat it receives
type recordingFilm struct {
	positions []core.Vec2
	values    []core.Vec3
}

func (f *recordingFilm) AddSplat(pFilm core.Vec2, v core.Vec3) {
	f.positions = append(f.positions, pFilm)
	f.values = append(f.values, v)
}

const testResolution = 32

var testCameraCenter = core.NewVec3(0, 1, 3)

func createTestCamera() *camera.Perspective {
	return camera.NewPerspective(camera.Config{
		Center: testCameraCenter,
		LookAt: core.NewVec3(0, 0, 0),
		Up:     core.NewVec3(0, 1, 0),
		Width:  testResolution,
		Height: testResolution,
		VFov:   60,
	})
}

// createFloor returns a large matte quad at y=0 facing up
func createFloor() *geometry.Primitive {
	floor := geometry.NewQuad(core.NewVec3(-5, 0, -5), core.NewVec3(0, 0, 10), core.NewVec3(10, 0, 0))
	return geometry.NewPrimitive(floor, material.NewMatte(core.NewVec3(0.7, 0.7, 0.7)))
}

func finishScene(t *testing.T, s *scene.Scene) *scene.Scene {
	t.Helper()
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	return s
}

// createPointLightScene is a floor lit by a point light above the origin
func createPointLightScene(t *testing.T) (*scene.Scene, *lights.PointLight) {
	s := scene.New(createTestCamera(), scene.SamplingConfig{Width: testResolution, Height: testResolution, SamplesPerPixel: 1, MaxDepth: 5})
	s.AddPrimitive(createFloor())
	light := lights.NewPointLight(core.NewVec3(0, 2, 0), core.NewVec3(5, 5, 5))
	s.AddLight(light)
	return finishScene(t, s), light
}

// createAreaLightScene is a floor under a downward facing quad light
func createAreaLightScene(t *testing.T) (*scene.Scene, *lights.DiffuseAreaLight) {
	s := scene.New(createTestCamera(), scene.SamplingConfig{Width: testResolution, Height: testResolution, SamplesPerPixel: 1, MaxDepth: 5})
	s.AddPrimitive(createFloor())
	quad := geometry.NewQuad(core.NewVec3(-0.5, 2, -0.5), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1))
	light := s.AddAreaLight(quad, core.NewVec3(4, 4, 4), material.NewMatte(core.Vec3{}))
	return finishScene(t, s), light
}

// createBoxScene mixes diffuse and specular surfaces with an area light and a
// point light
func createBoxScene(t *testing.T) *scene.Scene {
	s := scene.New(createTestCamera(), scene.SamplingConfig{Width: testResolution, Height: testResolution, SamplesPerPixel: 1, MaxDepth: 5})
	s.AddPrimitive(createFloor())
	back := geometry.NewQuad(core.NewVec3(-5, 0, -2), core.NewVec3(10, 0, 0), core.NewVec3(0, 5, 0))
	s.AddPrimitive(geometry.NewPrimitive(back, material.NewMatte(core.NewVec3(0.6, 0.3, 0.3))))
	s.AddPrimitive(geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(-0.6, 0.4, 0), 0.4), material.NewMirror(core.NewVec3(0.9, 0.9, 0.9))))
	s.AddPrimitive(geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(0.6, 0.4, 0.3), 0.4), material.NewGlass(1.5)))
	s.AddPrimitive(geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(0, 0.3, 0.9), 0.3), material.NewCoated(core.NewVec3(0.2, 0.5, 0.2), core.NewVec3(1, 1, 1), 1.5)))
	quad := geometry.NewQuad(core.NewVec3(-0.5, 2, -0.5), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1))
	s.AddAreaLight(quad, core.NewVec3(4, 4, 4), material.NewMatte(core.Vec3{}))
	s.AddLight(lights.NewPointLight(core.NewVec3(1, 1.5, 1), core.NewVec3(2, 2, 2)))
	return finishScene(t, s)
}

func TestBufferIndex(t *testing.T) {
	tests := []struct {
		s, t int
		want int
	}{
		{0, 2, 0},
		{1, 1, 1},
		{2, 0, 2},
		{0, 3, 3},
		{1, 2, 4},
		{2, 1, 5},
		{3, 0, 6},
		{0, 4, 7},
	}
	for _, tt := range tests {
		if got := BufferIndex(tt.s, tt.t); got != tt.want {
			t.Errorf("BufferIndex(%d,%d) = %d, want %d", tt.s, tt.t, got, tt.want)
		}
	}
}

func TestStrategies(t *testing.T) {
	const maxDepth = 4
	count := StrategyBufferCount(maxDepth)
	seen := make(map[int]Strategy)

	for _, st := range Strategies(maxDepth) {
		if st.T == 0 || (st.S == 1 && st.T == 1) {
			t.Errorf("strategy %+v should not be listed", st)
		}
		if st.S+st.T-2 != st.Depth {
			t.Errorf("strategy %+v has inconsistent depth", st)
		}
		index := BufferIndex(st.S, st.T)
		if index < 0 || index >= count {
			t.Fatalf("strategy %+v index %d outside [0,%d)", st, index, count)
		}
		if prev, ok := seen[index]; ok {
			t.Errorf("strategies %+v and %+v share index %d", prev, st, index)
		}
		seen[index] = st
	}

	// Each depth d has d+3 strategies, minus t=0, minus (1,1) at depth 0
	want := 0
	for d := 0; d <= maxDepth; d++ {
		want += d + 2
	}
	want--
	if len(seen) != want {
		t.Errorf("got %d strategies, want %d", len(seen), want)
	}

	if name := (Strategy{S: 1, T: 2, Depth: 1}).Name(); name != "bdpt_d01_s01_t02" {
		t.Errorf("unexpected strategy name %q", name)
	}
}

func TestGenerateSubpaths_RespectLengthBounds(t *testing.T) {
	sc := createBoxScene(t)
	random := rand.New(rand.NewSource(7))
	sampler := core.NewRandomSampler(random)

	for _, maxDepth := range []int{0, 1, 3, 6} {
		bdpt := NewBDPTIntegrator(sc, sc.Camera, Config{MaxDepth: maxDepth})
		ws := NewWorkspace(maxDepth)
		for i := 0; i < 200; i++ {
			pFilm := core.NewVec2(random.Float64()*testResolution, random.Float64()*testResolution)
			nCamera := bdpt.GenerateCameraSubpath(sampler, maxDepth+2, pFilm, ws.CameraVertices)
			if nCamera < 1 || nCamera > maxDepth+2 {
				t.Fatalf("maxDepth %d: camera subpath has %d vertices", maxDepth, nCamera)
			}
			if ws.CameraVertices[0].Type != CameraVertex {
				t.Fatalf("camera subpath starts with %s", ws.CameraVertices[0].Type)
			}
			nLight := bdpt.GenerateLightSubpath(sampler, maxDepth+1, ws.CameraVertices[0].Time(), ws.LightVertices)
			if nLight > maxDepth+1 {
				t.Fatalf("maxDepth %d: light subpath has %d vertices", maxDepth, nLight)
			}
			if nLight > 0 && ws.LightVertices[0].Type != LightVertex {
				t.Fatalf("light subpath starts with %s", ws.LightVertices[0].Type)
			}
			for j := 1; j < nLight; j++ {
				if ws.LightVertices[j].Type == LightVertex {
					t.Fatalf("light subpath contains a light vertex at %d", j)
				}
			}
		}
	}
}

func TestGenerateSubpaths_ZeroBudget(t *testing.T) {
	sc, _ := createPointLightScene(t)
	bdpt := NewBDPTIntegrator(sc, sc.Camera, DefaultConfig())
	sampler := &TestSampler{}
	path := make([]Vertex, 4)

	if n := bdpt.GenerateCameraSubpath(sampler, 0, core.NewVec2(16, 16), path); n != 0 {
		t.Errorf("camera subpath with no budget wrote %d vertices", n)
	}
	if n := bdpt.GenerateLightSubpath(sampler, 0, 0, path); n != 0 {
		t.Errorf("light subpath with no budget wrote %d vertices", n)
	}
	// Short slices cap the budget
	if n := bdpt.GenerateCameraSubpath(&TestSampler{values1D: []float64{0.5}}, 10, core.NewVec2(16, 16), path[:2]); n != 2 {
		t.Errorf("camera subpath into 2 slots wrote %d vertices", n)
	}
}

func TestGenerateCameraSubpath_CenterPixel(t *testing.T) {
	sc, _ := createPointLightScene(t)
	bdpt := NewBDPTIntegrator(sc, sc.Camera, DefaultConfig())
	path := make([]Vertex, 2)

	n := bdpt.GenerateCameraSubpath(&TestSampler{values1D: []float64{0.25}}, 2, core.NewVec2(16, 16), path)
	if n != 2 {
		t.Fatalf("expected 2 vertices, got %d", n)
	}
	if path[0].Time() != 0.25 {
		t.Errorf("camera vertex time %v, want 0.25", path[0].Time())
	}
	hit := path[1]
	if hit.Type != SurfaceVertex {
		t.Fatalf("expected surface vertex, got %s", hit.Type)
	}
	if hit.Position().Length() > 1e-6 {
		t.Errorf("center ray should hit the origin, got %v", hit.Position())
	}

	// Forward density: camera direction density converted to area at the floor
	_, pdfDir := sc.Camera.PdfWe(core.NewRay(core.NewVec3(0, 1, 3), core.NewVec3(0, -1, -3).Normalize()))
	dist2 := 10.0
	cos := 1 / math.Sqrt(10)
	want := pdfDir * cos / dist2
	if math.Abs(hit.PdfFwd-want) > 1e-9 {
		t.Errorf("PdfFwd = %v, want %v", hit.PdfFwd, want)
	}
}

func TestRenderSample_SplatsAndStrategies(t *testing.T) {
	sc := createBoxScene(t)
	config := Config{MaxDepth: 4, VisualizeStrategies: true}
	bdpt := NewBDPTIntegrator(sc, sc.Camera, config)
	ws := NewWorkspace(config.MaxDepth)

	splats := &recordingFilm{}
	strategyFilms := make([]*recordingFilm, StrategyBufferCount(config.MaxDepth))
	targets := Targets{Splats: splats, Strategies: make([]Film, len(strategyFilms))}
	for _, st := range Strategies(config.MaxDepth) {
		index := BufferIndex(st.S, st.T)
		strategyFilms[index] = &recordingFilm{}
		targets.Strategies[index] = strategyFilms[index]
	}

	random := rand.New(rand.NewSource(3))
	sampler := core.NewRandomSampler(random)
	var total core.Vec3
	for i := 0; i < 500; i++ {
		pFilm := core.NewVec2(random.Float64()*testResolution, random.Float64()*testResolution)
		L := bdpt.RenderSample(sampler, ws, pFilm, targets)
		if L.HasNaN() || L.X < 0 || L.Y < 0 || L.Z < 0 {
			t.Fatalf("sample %d: invalid radiance %v", i, L)
		}
		total = total.Add(L)
	}
	if total.IsBlack() {
		t.Error("expected some radiance from a lit scene")
	}
	if len(splats.values) == 0 {
		t.Error("expected light tracing splats")
	}
	for _, v := range splats.values {
		if v.HasNaN() || v.IsBlack() {
			t.Fatalf("invalid splat %v", v)
		}
	}

	// The (1,1) slot is never written
	if strategyFilms[BufferIndex(1, 1)] != nil {
		t.Error("(1,1) should not have a strategy film")
	}
	if len(strategyFilms[BufferIndex(0, 2)].values) == 0 {
		t.Error("strategy (0,2) received no samples")
	}
}

func TestConnectBDPT_PointLightNeverHit(t *testing.T) {
	sc, _ := createPointLightScene(t)
	bdpt := NewBDPTIntegrator(sc, sc.Camera, Config{MaxDepth: 3})
	ws := NewWorkspace(3)
	random := rand.New(rand.NewSource(5))
	sampler := core.NewRandomSampler(random)

	for i := 0; i < 100; i++ {
		pFilm := core.NewVec2(random.Float64()*testResolution, random.Float64()*testResolution)
		nCamera := bdpt.GenerateCameraSubpath(sampler, 5, pFilm, ws.CameraVertices)
		for tt := 2; tt <= nCamera; tt++ {
			c := bdpt.ConnectBDPT(ws.LightVertices, ws.CameraVertices, 0, tt, pFilm, sampler)
			if !c.L.IsBlack() {
				t.Fatalf("(0,%d) found radiance %v from a point light", tt, c.L)
			}
		}
	}
}

// createFogScene puts a dense homogeneous sphere of fog on the floor
func createFogScene(t *testing.T) *scene.Scene {
	s, _ := createPointLightScene(t)
	fog := medium.NewHomogeneous(core.NewVec3(0.05, 0.05, 0.05), core.NewVec3(2, 2, 2), 0.3)
	boundary := &geometry.Primitive{
		Shape:           geometry.NewSphere(core.NewVec3(0, 0.5, 0), 0.5),
		MediumInterface: core.MediumInterface{Inside: fog},
	}
	s.AddPrimitive(boundary)
	return finishScene(t, s)
}

func TestRandomWalk_MediumVertices(t *testing.T) {
	sc := createFogScene(t)
	config := Config{MaxDepth: 4}
	bdpt := NewBDPTIntegrator(sc, sc.Camera, config)
	ws := NewWorkspace(config.MaxDepth)
	random := rand.New(rand.NewSource(17))
	sampler := core.NewRandomSampler(random)

	mediumVertices := 0
	var total core.Vec3
	for i := 0; i < 300; i++ {
		// Aim near the center of the image where the fog sphere sits
		pFilm := core.NewVec2(12+random.Float64()*8, 12+random.Float64()*8)
		nCamera := bdpt.GenerateCameraSubpath(sampler, config.MaxDepth+2, pFilm, ws.CameraVertices)
		for j := 1; j < nCamera; j++ {
			v := &ws.CameraVertices[j]
			if v.Type != MediumVertex {
				continue
			}
			mediumVertices++
			if v.IsOnSurface() {
				t.Fatal("medium vertex reports a surface normal")
			}
			if !v.IsConnectable() {
				t.Fatal("medium vertices are always connectable")
			}
			if v.PdfFwd <= 0 {
				t.Fatalf("medium vertex has forward density %v", v.PdfFwd)
			}
		}
		L := bdpt.RenderSample(sampler, ws, pFilm, Targets{})
		if L.HasNaN() {
			t.Fatalf("NaN radiance at sample %d", i)
		}
		total = total.Add(L)
	}
	if mediumVertices == 0 {
		t.Error("no camera path scattered inside the fog")
	}
	if total.IsBlack() {
		t.Error("fog scene rendered black")
	}
}

package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-bdpt/pkg/camera"
	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/geometry"
	"github.com/df07/go-bdpt/pkg/lights"
	"github.com/df07/go-bdpt/pkg/material"
	"github.com/df07/go-bdpt/pkg/medium"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name        string
	Description string
	build       func(width, height int) *Scene
}

var builtins = map[string]SceneInfo{
	"pointlight-sphere": {
		Name:        "pointlight-sphere",
		Description: "Diffuse sphere on a floor lit by a single point light",
		build:       newPointLightSphereScene,
	},
	"cornell": {
		Name:        "cornell",
		Description: "Cornell box with two diffuse blocks and a ceiling area light",
		build:       newCornellScene,
	},
	"cornell-glass": {
		Name:        "cornell-glass",
		Description: "Cornell box with a glass sphere, a mirror sphere and a disc light",
		build:       newCornellGlassScene,
	},
	"fog": {
		Name:        "fog",
		Description: "Spot light shining through a sphere of homogeneous fog under a night sky",
		build:       newFogScene,
	},
	"sky": {
		Name:        "sky",
		Description: "Coated and glass spheres under a gradient sky",
		build:       newSkyScene,
	},
}

// ListScenes returns the built-in scenes sorted by name
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtins))
	for _, info := range builtins {
		scenes = append(scenes, info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes
}

// Build creates the named scene at the given resolution and prepares it for
// rendering
func Build(name string, width, height int) (*Scene, error) {
	info, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q", name)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid resolution %dx%d", width, height)
	}
	s := info.build(width, height)
	if err := s.Preprocess(); err != nil {
		return nil, fmt.Errorf("preparing scene %q: %w", name, err)
	}
	return s, nil
}

func newPointLightSphereScene(width, height int) *Scene {
	cam := camera.NewPerspective(camera.Config{
		Center: core.NewVec3(0, 1.5, 4),
		LookAt: core.NewVec3(0, 0.5, 0),
		Up:     core.NewVec3(0, 1, 0),
		Width:  width,
		Height: height,
		VFov:   45,
	})
	s := New(cam, SamplingConfig{Width: width, Height: height, SamplesPerPixel: 64, MaxDepth: 5})

	floor := geometry.NewQuad(core.NewVec3(-10, 0, 10), core.NewVec3(20, 0, 0), core.NewVec3(0, 0, -20))
	s.AddPrimitive(geometry.NewPrimitive(floor, material.NewMatte(core.NewVec3(0.7, 0.7, 0.7))))
	s.AddPrimitive(geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(0, 0.5, 0), 0.5), material.NewMatte(core.NewVec3(0.7, 0.3, 0.2))))
	s.AddLight(lights.NewPointLight(core.NewVec3(1, 3, 1), core.NewVec3(15, 15, 15)))
	return s
}

// cornellBox adds the five walls of the standard 555 unit box
func cornellBox(width, height int) *Scene {
	cam := camera.NewPerspective(camera.Config{
		Center: core.NewVec3(278, 278, -800),
		LookAt: core.NewVec3(278, 278, 0),
		Up:     core.NewVec3(0, 1, 0),
		Width:  width,
		Height: height,
		VFov:   40,
	})
	s := New(cam, SamplingConfig{Width: width, Height: height, SamplesPerPixel: 128, MaxDepth: 8})

	white := material.NewMatte(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewMatte(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewMatte(core.NewVec3(0.12, 0.45, 0.15))

	const size = 555.0
	walls := []struct {
		corner, u, v core.Vec3
		mat          core.Material
	}{
		{core.NewVec3(0, 0, 0), core.NewVec3(0, 0, size), core.NewVec3(size, 0, 0), white},    // floor
		{core.NewVec3(0, size, 0), core.NewVec3(size, 0, 0), core.NewVec3(0, 0, size), white}, // ceiling
		{core.NewVec3(0, 0, size), core.NewVec3(0, size, 0), core.NewVec3(size, 0, 0), white}, // back
		{core.NewVec3(size, 0, 0), core.NewVec3(0, size, 0), core.NewVec3(0, 0, size), red},   // left
		{core.NewVec3(0, 0, 0), core.NewVec3(0, 0, size), core.NewVec3(0, size, 0), green},    // right
	}
	for _, w := range walls {
		s.AddPrimitive(geometry.NewPrimitive(geometry.NewQuad(w.corner, w.u, w.v), w.mat))
	}
	return s
}

func newCornellScene(width, height int) *Scene {
	s := cornellBox(width, height)

	// Slightly below the ceiling, facing down
	light := geometry.NewQuad(core.NewVec3(213, 554, 227), core.NewVec3(130, 0, 0), core.NewVec3(0, 0, 105))
	s.AddAreaLight(light, core.NewVec3(15, 15, 15), material.NewMatte(core.Vec3{}))

	white := material.NewMatte(core.NewVec3(0.73, 0.73, 0.73))
	shortBlock := geometry.NewBox(core.NewVec3(212.5, 82.5, 147.5), core.NewVec3(82.5, 82.5, 82.5), core.NewVec3(0, -18*math.Pi/180, 0))
	tallBlock := geometry.NewBox(core.NewVec3(347.5, 165, 377.5), core.NewVec3(82.5, 165, 82.5), core.NewVec3(0, 15*math.Pi/180, 0))
	s.AddPrimitive(geometry.NewPrimitive(shortBlock, white))
	s.AddPrimitive(geometry.NewPrimitive(tallBlock, white))
	return s
}

func newCornellGlassScene(width, height int) *Scene {
	s := cornellBox(width, height)

	light := geometry.NewDisc(core.NewVec3(278, 554, 278), core.NewVec3(0, -1, 0), 70)
	s.AddAreaLight(light, core.NewVec3(15, 15, 15), material.NewMatte(core.Vec3{}))

	s.AddPrimitive(geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(190, 90, 190), 90), material.NewGlass(1.5)))
	s.AddPrimitive(geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(370, 90, 370), 90), material.NewMirror(core.NewVec3(0.9, 0.9, 0.9))))
	return s
}

func newFogScene(width, height int) *Scene {
	cam := camera.NewPerspective(camera.Config{
		Center: core.NewVec3(0, 1.5, 5),
		LookAt: core.NewVec3(0, 1, 0),
		Up:     core.NewVec3(0, 1, 0),
		Width:  width,
		Height: height,
		VFov:   40,
	})
	s := New(cam, SamplingConfig{Width: width, Height: height, SamplesPerPixel: 64, MaxDepth: 6})

	floor := geometry.NewQuad(core.NewVec3(-10, 0, 10), core.NewVec3(20, 0, 0), core.NewVec3(0, 0, -20))
	s.AddPrimitive(geometry.NewPrimitive(floor, material.NewMatte(core.NewVec3(0.6, 0.6, 0.6))))

	fog := medium.NewHomogeneous(core.NewVec3(0.02, 0.02, 0.02), core.NewVec3(0.8, 0.8, 0.8), 0.4)
	s.AddPrimitive(&geometry.Primitive{
		Shape:           geometry.NewSphere(core.NewVec3(0, 1, 0), 1),
		MediumInterface: core.MediumInterface{Inside: fog},
	})

	s.AddLight(lights.NewSpotLight(core.NewVec3(0, 4, 0), core.NewVec3(0, 0, 0), core.NewVec3(40, 38, 34), 30, 20))
	s.AddLight(lights.NewPointLight(core.NewVec3(-2, 2, 2), core.NewVec3(1, 1, 1.5)))
	// Dim night sky so the fog's silhouette reads against the background
	s.AddLight(lights.NewUniformInfiniteLight(core.NewVec3(0.03, 0.03, 0.05)))
	return s
}

func newSkyScene(width, height int) *Scene {
	cam := camera.NewPerspective(camera.Config{
		Center: core.NewVec3(0, 1, 4),
		LookAt: core.NewVec3(0, 0.5, 0),
		Up:     core.NewVec3(0, 1, 0),
		Width:  width,
		Height: height,
		VFov:   45,
	})
	s := New(cam, SamplingConfig{Width: width, Height: height, SamplesPerPixel: 64, MaxDepth: 5})

	floor := geometry.NewQuad(core.NewVec3(-5, 0, 5), core.NewVec3(10, 0, 0), core.NewVec3(0, 0, -10))
	s.AddPrimitive(geometry.NewPrimitive(floor, material.NewMatte(core.NewVec3(0.5, 0.5, 0.5))))
	s.AddPrimitive(geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(-0.6, 0.5, 0), 0.5),
		material.NewCoated(core.NewVec3(0.1, 0.3, 0.7), core.NewVec3(1, 1, 1), 1.5)))
	s.AddPrimitive(geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(0.6, 0.5, 0), 0.5), material.NewGlass(1.5)))
	s.AddLight(lights.NewGradientInfiniteLight(core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(1.0, 1.0, 1.0)))
	return s
}

package scene

import (
	"fmt"

	"github.com/df07/go-bdpt/pkg/camera"
	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/geometry"
	"github.com/df07/go-bdpt/pkg/lights"
)

// hitEpsilon keeps rays from re-hitting the surface they leave
const hitEpsilon = 1e-4

// SamplingConfig contains the scene's preferred rendering settings
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of samples per pixel
	MaxDepth        int // Maximum path depth
}

// Scene contains all the elements needed for rendering and implements core.Scene
type Scene struct {
	Camera         *camera.Perspective
	Primitives     []*geometry.Primitive
	SamplingConfig SamplingConfig
	BVH            *geometry.BVH // Acceleration structure for ray-object intersection

	lights         []core.Light
	infiniteLights []core.Light
	bounds         core.AABB
}

// New creates an empty scene
func New(cam *camera.Perspective, sampling SamplingConfig) *Scene {
	return &Scene{Camera: cam, SamplingConfig: sampling}
}

// AddPrimitive adds geometry
func (s *Scene) AddPrimitive(p *geometry.Primitive) {
	s.Primitives = append(s.Primitives, p)
}

// AddLight registers a light that has no geometry
func (s *Scene) AddLight(light core.Light) {
	s.lights = append(s.lights, light)
	if light.Flags()&core.LightInfinite != 0 {
		s.infiniteLights = append(s.infiniteLights, light)
	}
}

// AddAreaLight creates an emitting primitive and registers its light
func (s *Scene) AddAreaLight(shape geometry.Shape, lemit core.Vec3, mat core.Material) *lights.DiffuseAreaLight {
	light := lights.NewDiffuseAreaLight(shape, lemit)
	s.AddPrimitive(&geometry.Primitive{Shape: shape, Material: mat, AreaLight: light})
	s.AddLight(light)
	return light
}

// Preprocess builds the BVH and hands the scene bounds to every light
func (s *Scene) Preprocess() error {
	if s.Camera == nil {
		return fmt.Errorf("scene has no camera")
	}
	s.BVH = geometry.NewBVH(s.Primitives)
	s.bounds = s.BVH.Bounds()

	center, radius := s.bounds.BoundingSphere()
	for _, light := range s.lights {
		light.Preprocess(center, radius)
	}
	return nil
}

// Intersect implements core.Scene
func (s *Scene) Intersect(ray core.Ray) (*core.SurfaceInteraction, bool) {
	return s.BVH.Hit(ray, hitEpsilon, ray.TMax)
}

// IntersectP implements core.Scene
func (s *Scene) IntersectP(ray core.Ray) bool {
	_, hit := s.BVH.Hit(ray, hitEpsilon, ray.TMax)
	return hit
}

// Lights implements core.Scene
func (s *Scene) Lights() []core.Light {
	return s.lights
}

// InfiniteLights implements core.Scene
func (s *Scene) InfiniteLights() []core.Light {
	return s.infiniteLights
}

// WorldBound implements core.Scene
func (s *Scene) WorldBound() core.AABB {
	return s.bounds
}

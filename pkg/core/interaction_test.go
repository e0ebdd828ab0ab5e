package core

import (
	"math"
	"testing"
)

// constMedium attenuates by exp(-sigma*t)
type constMedium struct{ sigma float64 }

func (m *constMedium) Tr(ray Ray, sampler Sampler) Vec3 {
	tr := math.Exp(-m.sigma * ray.TMax * ray.Direction.Length())
	return NewVec3(tr, tr, tr)
}

func (m *constMedium) Sample(ray Ray, sampler Sampler) (Vec3, *MediumInteraction) {
	return NewVec3(1, 1, 1), nil
}

type opaque struct{}

func (opaque) ComputeBSDF(si *SurfaceInteraction, mode TransportMode) BSDF { return nil }

// planeScene holds a single plane z=zPlane with the given material
type planeScene struct {
	zPlane   float64
	material Material
	media    MediumInterface
}

func (s *planeScene) Intersect(ray Ray) (*SurfaceInteraction, bool) {
	if ray.Direction.Z == 0 {
		return nil, false
	}
	t := (s.zPlane - ray.Origin.Z) / ray.Direction.Z
	if t <= 1e-6 || t >= ray.TMax {
		return nil, false
	}
	return &SurfaceInteraction{
		Interaction: Interaction{Point: ray.At(t), Normal: NewVec3(0, 0, 1), MediumInterface: s.media},
		T:           t,
		Material:    s.material,
	}, true
}

func (s *planeScene) IntersectP(ray Ray) bool {
	_, hit := s.Intersect(ray)
	return hit
}

func (s *planeScene) Lights() []Light         { return nil }
func (s *planeScene) InfiniteLights() []Light { return nil }
func (s *planeScene) WorldBound() AABB        { return AABB{} }

func TestInteraction_GetMedium(t *testing.T) {
	inside := &constMedium{sigma: 1}
	outside := &constMedium{sigma: 2}
	surface := Interaction{Normal: NewVec3(0, 0, 1), MediumInterface: MediumInterface{Inside: inside, Outside: outside}}

	if surface.GetMedium(NewVec3(0, 0, 1)) != outside {
		t.Error("direction along normal should enter outside medium")
	}
	if surface.GetMedium(NewVec3(0, 0, -1)) != inside {
		t.Error("direction against normal should enter inside medium")
	}

	volume := Interaction{MediumInterface: NewMediumInterface(inside)}
	if volume.GetMedium(NewVec3(1, 0, 0)) != inside {
		t.Error("point in a medium should return that medium")
	}
}

func TestInteraction_SpawnRayTo(t *testing.T) {
	it := Interaction{Point: NewVec3(0, 0, 0), Time: 0.5}
	ray := it.SpawnRayTo(NewVec3(0, 3, 4))
	if math.Abs(ray.Direction.Length()-1) > 1e-12 {
		t.Errorf("direction should be normalized, got %v", ray.Direction)
	}
	if ray.TMax >= 5 || ray.TMax < 5*(1-2*ShadowEpsilon) {
		t.Errorf("TMax should stop just short of the target, got %v", ray.TMax)
	}
	if ray.Time != 0.5 {
		t.Errorf("Expected time 0.5, got %v", ray.Time)
	}
}

func TestVisibilityTester_Tr(t *testing.T) {
	fog := &constMedium{sigma: 0.5}
	p0 := Interaction{Point: NewVec3(0, 0, 0), MediumInterface: NewMediumInterface(fog)}
	p1 := Interaction{Point: NewVec3(0, 0, 2), MediumInterface: NewMediumInterface(nil)}
	vis := VisibilityTester{P0: p0, P1: p1}

	tests := []struct {
		name  string
		scene *planeScene
		want  float64
	}{
		{
			name:  "medium boundary is crossed",
			scene: &planeScene{zPlane: 1, media: MediumInterface{Inside: fog, Outside: nil}},
			want:  math.Exp(-0.5),
		},
		{
			name:  "opaque surface blocks",
			scene: &planeScene{zPlane: 1, material: opaque{}},
			want:  0,
		},
		{
			name:  "no geometry",
			scene: &planeScene{zPlane: 10},
			want:  math.Exp(-0.5 * 2 * (1 - ShadowEpsilon)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := vis.Tr(tt.scene, nil)
			if math.Abs(tr.X-tt.want) > 1e-6 {
				t.Errorf("Expected %v, got %v", tt.want, tr.X)
			}
		})
	}

	if vis.Unoccluded(&planeScene{zPlane: 1, material: opaque{}}) {
		t.Error("opaque plane should occlude")
	}
}

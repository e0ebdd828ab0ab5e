package lights

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// PointLight emits uniformly in all directions from a single point
type PointLight struct {
	Position  core.Vec3
	Intensity core.Vec3
	Medium    core.Medium
}

// NewPointLight creates an isotropic point light
func NewPointLight(position, intensity core.Vec3) *PointLight {
	return &PointLight{Position: position, Intensity: intensity}
}

func (l *PointLight) Flags() core.LightFlags { return core.LightDeltaPosition }

// Power returns the total emitted flux
func (l *PointLight) Power() core.Vec3 {
	return l.Intensity.Multiply(4 * math.Pi)
}

func (l *PointLight) Preprocess(center core.Vec3, radius float64) {}

func (l *PointLight) interaction(time float64) core.Interaction {
	return core.Interaction{Point: l.Position, Time: time, MediumInterface: core.NewMediumInterface(l.Medium)}
}

// SampleLi returns the only direction that reaches ref, with unit pdf
func (l *PointLight) SampleLi(ref core.Interaction, u core.Vec2) core.LightSample {
	d := l.Position.Subtract(ref.Point)
	dist2 := d.LengthSquared()
	if dist2 == 0 {
		return core.LightSample{}
	}
	return core.LightSample{
		Li:  l.Intensity.Multiply(1 / dist2),
		Wi:  d.Normalize(),
		Pdf: 1,
		Vis: core.VisibilityTester{P0: ref, P1: l.interaction(ref.Time)},
	}
}

// PdfLi is zero since no direction can be hit by chance
func (l *PointLight) PdfLi(ref core.Interaction, wi core.Vec3) float64 { return 0 }

// SampleLe emits a ray in a uniformly sampled direction. The reported normal
// is the ray direction so that the emission cosine is one.
func (l *PointLight) SampleLe(u1, u2 core.Vec2, time float64) core.EmissionSample {
	ray := l.interaction(time).SpawnRay(core.SampleOnUnitSphere(u1))
	return core.EmissionSample{
		Le:     l.Intensity,
		Ray:    ray,
		Normal: ray.Direction,
		PdfPos: 1,
		PdfDir: core.Inv4Pi,
	}
}

// PdfLe returns (0, 1/4π): the position density is a delta
func (l *PointLight) PdfLe(ray core.Ray, n core.Vec3) (float64, float64) {
	return 0, core.Inv4Pi
}

func (l *PointLight) Le(ray core.Ray) core.Vec3 { return core.Vec3{} }

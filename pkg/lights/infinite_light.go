package lights

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// UniformInfiniteLight surrounds the scene with constant radiance
type UniformInfiniteLight struct {
	Lemit       core.Vec3
	worldCenter core.Vec3
	worldRadius float64
}

// NewUniformInfiniteLight creates an environment light. Preprocess must be
// called with the scene bounds before sampling emission.
func NewUniformInfiniteLight(lemit core.Vec3) *UniformInfiniteLight {
	return &UniformInfiniteLight{Lemit: lemit}
}

func (l *UniformInfiniteLight) Flags() core.LightFlags { return core.LightInfinite }

// Preprocess records the scene's bounding sphere
func (l *UniformInfiniteLight) Preprocess(center core.Vec3, radius float64) {
	l.worldCenter = center
	l.worldRadius = radius
}

// Power is the flux through the disk facing any direction
func (l *UniformInfiniteLight) Power() core.Vec3 {
	return l.Lemit.Multiply(math.Pi * l.worldRadius * l.worldRadius)
}

func (l *UniformInfiniteLight) SampleLi(ref core.Interaction, u core.Vec2) core.LightSample {
	wi := core.SampleOnUnitSphere(u)
	far := core.Interaction{
		Point: ref.Point.Add(wi.Multiply(2 * l.worldRadius)),
		Time:  ref.Time,
	}
	return core.LightSample{
		Li:  l.Lemit,
		Wi:  wi,
		Pdf: core.Inv4Pi,
		Vis: core.VisibilityTester{P0: ref, P1: far},
	}
}

func (l *UniformInfiniteLight) PdfLi(ref core.Interaction, wi core.Vec3) float64 {
	return core.Inv4Pi
}

// SampleLe picks a direction, then a point on the disk of the bounding
// sphere perpendicular to it, and starts the ray outside the sphere
func (l *UniformInfiniteLight) SampleLe(u1, u2 core.Vec2, time float64) core.EmissionSample {
	d := core.SampleOnUnitSphere(u1).Negate()
	return sceneDiskEmission(l.worldCenter, l.worldRadius, d, u2, time, l.Lemit)
}

// sceneDiskEmission starts a ray travelling along d from a uniform point on
// the disk of the scene's bounding sphere perpendicular to d
func sceneDiskEmission(center core.Vec3, radius float64, d core.Vec3, u core.Vec2, time float64, le core.Vec3) core.EmissionSample {
	v1, v2 := core.CoordinateSystem(d.Negate())
	cd := core.SamplePointInUnitDisk(u)
	pDisk := center.Add(v1.Multiply(cd.X * radius)).Add(v2.Multiply(cd.Y * radius))

	ray := core.NewRay(pDisk.Add(d.Multiply(-radius)), d)
	ray.Time = time
	return core.EmissionSample{
		Le:     le,
		Ray:    ray,
		Normal: d,
		PdfPos: 1 / (math.Pi * radius * radius),
		PdfDir: core.Inv4Pi,
	}
}

func (l *UniformInfiniteLight) PdfLe(ray core.Ray, n core.Vec3) (float64, float64) {
	return 1 / (math.Pi * l.worldRadius * l.worldRadius), core.Inv4Pi
}

// Le returns the environment radiance for an escaping ray
func (l *UniformInfiniteLight) Le(ray core.Ray) core.Vec3 {
	return l.Lemit
}

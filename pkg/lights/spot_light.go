package lights

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// SpotLight is a point light restricted to a cone with a smooth falloff
type SpotLight struct {
	Position        core.Vec3
	Direction       core.Vec3
	Intensity       core.Vec3
	Medium          core.Medium
	cosTotalWidth   float64
	cosFalloffStart float64
}

// NewSpotLight creates a spot light aimed from position at target. Angles are in degrees.
func NewSpotLight(position, target, intensity core.Vec3, totalWidth, falloffStart float64) *SpotLight {
	return &SpotLight{
		Position:        position,
		Direction:       target.Subtract(position).Normalize(),
		Intensity:       intensity,
		cosTotalWidth:   math.Cos(totalWidth * math.Pi / 180),
		cosFalloffStart: math.Cos(falloffStart * math.Pi / 180),
	}
}

func (l *SpotLight) Flags() core.LightFlags { return core.LightDeltaPosition }

// falloff scales intensity for a unit direction leaving the light
func (l *SpotLight) falloff(w core.Vec3) float64 {
	cosTheta := w.Dot(l.Direction)
	if cosTheta < l.cosTotalWidth {
		return 0
	}
	if cosTheta >= l.cosFalloffStart {
		return 1
	}
	delta := (cosTheta - l.cosTotalWidth) / (l.cosFalloffStart - l.cosTotalWidth)
	return (delta * delta) * (delta * delta)
}

// Power approximates the flux with the falloff averaged over the transition band
func (l *SpotLight) Power() core.Vec3 {
	return l.Intensity.Multiply(2 * math.Pi * (1 - 0.5*(l.cosFalloffStart+l.cosTotalWidth)))
}

func (l *SpotLight) Preprocess(center core.Vec3, radius float64) {}

func (l *SpotLight) interaction(time float64) core.Interaction {
	return core.Interaction{Point: l.Position, Time: time, MediumInterface: core.NewMediumInterface(l.Medium)}
}

func (l *SpotLight) SampleLi(ref core.Interaction, u core.Vec2) core.LightSample {
	d := l.Position.Subtract(ref.Point)
	dist2 := d.LengthSquared()
	if dist2 == 0 {
		return core.LightSample{}
	}
	wi := d.Normalize()
	return core.LightSample{
		Li:  l.Intensity.Multiply(l.falloff(wi.Negate()) / dist2),
		Wi:  wi,
		Pdf: 1,
		Vis: core.VisibilityTester{P0: ref, P1: l.interaction(ref.Time)},
	}
}

func (l *SpotLight) PdfLi(ref core.Interaction, wi core.Vec3) float64 { return 0 }

// SampleLe samples directions uniformly inside the cone
func (l *SpotLight) SampleLe(u1, u2 core.Vec2, time float64) core.EmissionSample {
	w := core.SampleCone(l.Direction, l.cosTotalWidth, u1)
	ray := l.interaction(time).SpawnRay(w)
	return core.EmissionSample{
		Le:     l.Intensity.Multiply(l.falloff(ray.Direction)),
		Ray:    ray,
		Normal: ray.Direction,
		PdfPos: 1,
		PdfDir: core.UniformConePDF(l.cosTotalWidth),
	}
}

func (l *SpotLight) PdfLe(ray core.Ray, n core.Vec3) (float64, float64) {
	if ray.Direction.Normalize().Dot(l.Direction) < l.cosTotalWidth {
		return 0, 0
	}
	return 0, core.UniformConePDF(l.cosTotalWidth)
}

func (l *SpotLight) Le(ray core.Ray) core.Vec3 { return core.Vec3{} }

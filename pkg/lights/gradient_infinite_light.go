package lights

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// GradientInfiniteLight is a sky that blends from BottomColor straight down
// to TopColor straight up
type GradientInfiniteLight struct {
	TopColor    core.Vec3
	BottomColor core.Vec3
	worldCenter core.Vec3
	worldRadius float64
}

// NewGradientInfiniteLight creates a gradient environment light. Preprocess
// must be called with the scene bounds before sampling emission.
func NewGradientInfiniteLight(topColor, bottomColor core.Vec3) *GradientInfiniteLight {
	return &GradientInfiniteLight{TopColor: topColor, BottomColor: bottomColor}
}

func (l *GradientInfiniteLight) Flags() core.LightFlags { return core.LightInfinite }

// Preprocess records the scene's bounding sphere
func (l *GradientInfiniteLight) Preprocess(center core.Vec3, radius float64) {
	l.worldCenter = center
	l.worldRadius = radius
}

// radiance arriving from direction w
func (l *GradientInfiniteLight) radiance(w core.Vec3) core.Vec3 {
	t := 0.5 * (w.Normalize().Y + 1)
	return l.BottomColor.Multiply(1 - t).Add(l.TopColor.Multiply(t))
}

// Power uses the mean radiance over the sphere, which is the midpoint of
// the two colors
func (l *GradientInfiniteLight) Power() core.Vec3 {
	mean := l.TopColor.Add(l.BottomColor).Multiply(0.5)
	return mean.Multiply(math.Pi * l.worldRadius * l.worldRadius)
}

func (l *GradientInfiniteLight) SampleLi(ref core.Interaction, u core.Vec2) core.LightSample {
	wi := core.SampleOnUnitSphere(u)
	far := core.Interaction{
		Point: ref.Point.Add(wi.Multiply(2 * l.worldRadius)),
		Time:  ref.Time,
	}
	return core.LightSample{
		Li:  l.radiance(wi),
		Wi:  wi,
		Pdf: core.Inv4Pi,
		Vis: core.VisibilityTester{P0: ref, P1: far},
	}
}

func (l *GradientInfiniteLight) PdfLi(ref core.Interaction, wi core.Vec3) float64 {
	return core.Inv4Pi
}

// SampleLe picks the direction the light arrives from, then starts the ray
// on the scene disk travelling the opposite way
func (l *GradientInfiniteLight) SampleLe(u1, u2 core.Vec2, time float64) core.EmissionSample {
	w := core.SampleOnUnitSphere(u1)
	return sceneDiskEmission(l.worldCenter, l.worldRadius, w.Negate(), u2, time, l.radiance(w))
}

func (l *GradientInfiniteLight) PdfLe(ray core.Ray, n core.Vec3) (float64, float64) {
	return 1 / (math.Pi * l.worldRadius * l.worldRadius), core.Inv4Pi
}

// Le returns the sky radiance seen by a ray escaping along its direction
func (l *GradientInfiniteLight) Le(ray core.Ray) core.Vec3 {
	return l.radiance(ray.Direction)
}

package medium

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// HenyeyGreenstein is the one-parameter phase function. G in (-1, 1)
// controls the mean cosine of scattering.
type HenyeyGreenstein struct {
	G float64
}

func phaseHG(cosTheta, g float64) float64 {
	denom := 1 + g*g + 2*g*cosTheta
	return core.Inv4Pi * (1 - g*g) / (denom * math.Sqrt(denom))
}

// P evaluates the phase function for the pair of directions
func (hg *HenyeyGreenstein) P(wo, wi core.Vec3) float64 {
	return phaseHG(wo.Dot(wi), hg.G)
}

// SampleP samples wi proportionally to P, so the returned value is also its density
func (hg *HenyeyGreenstein) SampleP(wo core.Vec3, u core.Vec2) (core.Vec3, float64) {
	g := hg.G
	var cosTheta float64
	if math.Abs(g) < 1e-3 {
		cosTheta = 1 - 2*u.X
	} else {
		sqrTerm := (1 - g*g) / (1 + g - 2*g*u.X)
		cosTheta = -(1 + g*g - sqrTerm*sqrTerm) / (2 * g)
	}

	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y
	v1, v2 := core.CoordinateSystem(wo)
	wi := core.SphericalDirection(sinTheta, cosTheta, phi, v1, v2, wo)
	return wi, phaseHG(cosTheta, g)
}

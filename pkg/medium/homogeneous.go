package medium

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// Homogeneous is a medium with constant absorption and scattering
type Homogeneous struct {
	SigmaA, SigmaS core.Vec3
	sigmaT         core.Vec3
	phase          *HenyeyGreenstein
}

// NewHomogeneous creates a medium from absorption and scattering coefficients
// and the Henyey-Greenstein asymmetry g
func NewHomogeneous(sigmaA, sigmaS core.Vec3, g float64) *Homogeneous {
	return &Homogeneous{
		SigmaA: sigmaA,
		SigmaS: sigmaS,
		sigmaT: sigmaA.Add(sigmaS),
		phase:  &HenyeyGreenstein{G: g},
	}
}

// transmittance for distance d, keeping zero coefficients finite over infinite rays
func (m *Homogeneous) transmittance(d float64) core.Vec3 {
	d = math.Min(d, math.MaxFloat64)
	return core.NewVec3(
		math.Exp(-m.sigmaT.X*d),
		math.Exp(-m.sigmaT.Y*d),
		math.Exp(-m.sigmaT.Z*d),
	)
}

// Tr implements core.Medium
func (m *Homogeneous) Tr(ray core.Ray, sampler core.Sampler) core.Vec3 {
	return m.transmittance(ray.TMax * ray.Direction.Length())
}

// Sample implements core.Medium. A single color channel drives the distance
// sample and the returned weight divides by the density averaged over channels.
func (m *Homogeneous) Sample(ray core.Ray, sampler core.Sampler) (core.Vec3, *core.MediumInteraction) {
	channel := min(int(sampler.Get1D()*3), 2)
	sigma := m.sigmaT.Component(channel)
	dist := math.Inf(1)
	if sigma > 0 {
		dist = -math.Log(1-sampler.Get1D()) / sigma
	} else {
		sampler.Get1D()
	}
	dirLen := ray.Direction.Length()
	t := math.Min(dist/dirLen, ray.TMax)
	sampled := t < ray.TMax

	tr := m.transmittance(t * dirLen)
	density := tr
	if sampled {
		density = m.sigmaT.MultiplyVec(tr)
	}
	pdf := (density.X + density.Y + density.Z) / 3
	if pdf == 0 {
		pdf = 1
	}

	if !sampled {
		return tr.Multiply(1 / pdf), nil
	}
	mi := &core.MediumInteraction{
		Interaction: core.Interaction{
			Point:           ray.At(t),
			Time:            ray.Time,
			MediumInterface: core.NewMediumInterface(m),
		},
		Wo:    ray.Direction.Negate(),
		Phase: m.phase,
	}
	return tr.MultiplyVec(m.SigmaS).Multiply(1 / pdf), mi
}

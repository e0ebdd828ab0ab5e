package lights

import "github.com/df07/go-bdpt/pkg/core"

// PowerLightSampler picks lights proportionally to the luminance of their power
type PowerLightSampler struct {
	lights       []core.Light
	distribution *core.Distribution1D
}

// NewPowerLightSampler builds the selection distribution. Lights must already
// be preprocessed so that infinite lights report a finite power.
func NewPowerLightSampler(lights []core.Light) *PowerLightSampler {
	weights := make([]float64, len(lights))
	for i, light := range lights {
		weights[i] = max(0, light.Power().Luminance())
	}
	return &PowerLightSampler{
		lights:       lights,
		distribution: core.NewDistribution1D(weights),
	}
}

// SampleLight selects a light and returns it with its probability and index
func (s *PowerLightSampler) SampleLight(u float64) (core.Light, float64, int) {
	idx, pdf := s.distribution.SampleDiscrete(u)
	if idx < 0 {
		return nil, 0, -1
	}
	return s.lights[idx], pdf, idx
}

// Probability returns the selection probability of the light at index i
func (s *PowerLightSampler) Probability(i int) float64 {
	return s.distribution.DiscretePDF(i)
}

// Distribution exposes the underlying discrete distribution
func (s *PowerLightSampler) Distribution() *core.Distribution1D {
	return s.distribution
}

// Lights returns the lights in selection order
func (s *PowerLightSampler) Lights() []core.Light {
	return s.lights
}

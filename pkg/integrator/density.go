package integrator

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// ConvertDensity turns a solid angle density of sampling next from v into
// an area density at next. Infinite lights keep the solid angle density.
func ConvertDensity(v *Vertex, pdf float64, next *Vertex) float64 {
	if next.IsInfiniteLight() {
		return pdf
	}
	w := next.Position().Subtract(v.Position())
	dist2 := w.LengthSquared()
	if dist2 == 0 {
		return 0
	}
	invDist2 := 1 / dist2
	if next.IsOnSurface() {
		pdf *= next.GeoNormal().AbsDot(w.Multiply(math.Sqrt(invDist2)))
	}
	return pdf * invDist2
}

// InfiniteLightDensity is the density that the infinite lights would have
// chosen direction w toward the scene, weighted by their selection
// probabilities. w is the emitted direction, pointing into the scene.
func InfiniteLightDensity(scene core.Scene, distr *core.Distribution1D, lightToIndex map[core.Light]int, w core.Vec3) float64 {
	if distr.FuncInt == 0 {
		return 0
	}
	var pdf float64
	ref := core.Interaction{}
	for _, light := range scene.InfiniteLights() {
		index, ok := lightToIndex[light]
		if !ok {
			logger.Errorf("infinite light %T missing from light index", light)
			continue
		}
		pdf += light.PdfLi(ref, w.Negate()) * distr.Func[index]
	}
	return pdf / (distr.FuncInt * float64(distr.Count()))
}

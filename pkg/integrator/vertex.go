package integrator

import (
	"fmt"
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// VertexType tags the payload a Vertex carries
type VertexType int

const (
	CameraVertex VertexType = iota
	LightVertex
	SurfaceVertex
	MediumVertex
)

func (t VertexType) String() string {
	switch t {
	case CameraVertex:
		return "Camera"
	case LightVertex:
		return "Light"
	case SurfaceVertex:
		return "Surface"
	case MediumVertex:
		return "Medium"
	}
	return fmt.Sprintf("VertexType(%d)", int(t))
}

// connectableFlags are the lobes a deterministic connection can evaluate
const connectableFlags = core.BSDFDiffuse | core.BSDFGlossy | core.BSDFReflection | core.BSDFTransmission

// Vertex is one point of a camera or light subpath. PdfFwd and PdfRev are
// area densities, except on infinite-light vertices where they are solid
// angle densities. Only the payload matching Type is set.
type Vertex struct {
	Type   VertexType
	Beta   core.Vec3
	PdfFwd float64
	PdfRev float64
	Delta  bool

	ei EndpointInteraction
	si *core.SurfaceInteraction
	mi *core.MediumInteraction
}

func newCameraVertex(ei EndpointInteraction, beta core.Vec3) Vertex {
	return Vertex{Type: CameraVertex, Beta: beta, ei: ei}
}

func newLightVertex(ei EndpointInteraction, beta core.Vec3, pdf float64) Vertex {
	return Vertex{Type: LightVertex, Beta: beta, PdfFwd: pdf, ei: ei}
}

func newSurfaceVertex(si *core.SurfaceInteraction, beta core.Vec3, pdf float64, prev *Vertex) Vertex {
	v := Vertex{Type: SurfaceVertex, Beta: beta, si: si}
	v.PdfFwd = ConvertDensity(prev, pdf, &v)
	return v
}

func newMediumVertex(mi *core.MediumInteraction, beta core.Vec3, pdf float64, prev *Vertex) Vertex {
	v := Vertex{Type: MediumVertex, Beta: beta, mi: mi}
	v.PdfFwd = ConvertDensity(prev, pdf, &v)
	return v
}

// Endpoint returns the endpoint payload of a camera or light vertex
func (v *Vertex) Endpoint() (EndpointInteraction, bool) {
	if v.Type != CameraVertex && v.Type != LightVertex {
		logger.Errorf("endpoint requested from %s vertex", v.Type)
		return EndpointInteraction{}, false
	}
	return v.ei, true
}

// Surface returns the surface payload, or nil for other vertex types
func (v *Vertex) Surface() *core.SurfaceInteraction {
	if v.Type != SurfaceVertex {
		logger.Errorf("surface interaction requested from %s vertex", v.Type)
		return nil
	}
	return v.si
}

// Interaction returns the shared interaction data of any vertex type
func (v *Vertex) Interaction() core.Interaction {
	switch v.Type {
	case SurfaceVertex:
		return v.si.Interaction
	case MediumVertex:
		return v.mi.Interaction
	default:
		return v.ei.Interaction
	}
}

// Position returns the vertex location
func (v *Vertex) Position() core.Vec3 {
	return v.Interaction().Point
}

// Time returns the time the vertex is sampled at
func (v *Vertex) Time() float64 {
	return v.Interaction().Time
}

// GeoNormal returns the geometric normal, zero off surfaces
func (v *Vertex) GeoNormal() core.Vec3 {
	return v.Interaction().Normal
}

// ShadingNormal returns the shading normal for surfaces and the geometric
// normal otherwise
func (v *Vertex) ShadingNormal() core.Vec3 {
	if v.Type == SurfaceVertex {
		return v.si.ShadingNormal
	}
	return v.GeoNormal()
}

// IsOnSurface reports whether the vertex has a geometric normal
func (v *Vertex) IsOnSurface() bool {
	return !v.GeoNormal().IsBlack()
}

// IsConnectable reports whether a deterministic connection can be made
// through this vertex
func (v *Vertex) IsConnectable() bool {
	switch v.Type {
	case MediumVertex, CameraVertex:
		return true
	case LightVertex:
		return v.ei.Light != nil && v.ei.Light.Flags()&core.LightDeltaDirection == 0
	case SurfaceVertex:
		return v.si.BSDF != nil && v.si.BSDF.NumComponents(connectableFlags) > 0
	}
	return false
}

// IsLight reports whether the vertex emits: a light endpoint or a surface
// carrying an area light
func (v *Vertex) IsLight() bool {
	return v.Type == LightVertex || (v.Type == SurfaceVertex && v.si.AreaLight != nil)
}

// IsDeltaLight reports whether the vertex is on a light with a delta distribution
func (v *Vertex) IsDeltaLight() bool {
	return v.Type == LightVertex && v.ei.Light != nil && core.IsDeltaLight(v.ei.Light.Flags())
}

// IsInfiniteLight reports whether the vertex stands for emission from
// infinitely far away
func (v *Vertex) IsInfiniteLight() bool {
	if v.Type != LightVertex {
		return false
	}
	if v.ei.Light == nil {
		return true
	}
	flags := v.ei.Light.Flags()
	return flags&core.LightInfinite != 0 || flags&core.LightDeltaDirection != 0
}

// light returns the light a Light or emitting Surface vertex belongs to
func (v *Vertex) light() core.Light {
	switch {
	case v.Type == LightVertex:
		return v.ei.Light
	case v.Type == SurfaceVertex && v.si.AreaLight != nil:
		return v.si.AreaLight
	}
	return nil
}

// correctShadingNormal compensates for the asymmetry shading normals
// introduce when importance is transported
func correctShadingNormal(si *core.SurfaceInteraction, wo, wi core.Vec3, mode core.TransportMode) float64 {
	if mode != core.Importance {
		return 1
	}
	num := wo.AbsDot(si.ShadingNormal) * wi.AbsDot(si.Normal)
	denom := wo.AbsDot(si.Normal) * wi.AbsDot(si.ShadingNormal)
	if denom == 0 {
		return 0
	}
	return num / denom
}

// F evaluates scattering at this vertex toward next
func (v *Vertex) F(next *Vertex, mode core.TransportMode) core.Vec3 {
	wi := next.Position().Subtract(v.Position())
	if wi.LengthSquared() == 0 {
		return core.Vec3{}
	}
	wi = wi.Normalize()

	switch v.Type {
	case SurfaceVertex:
		if v.si.BSDF == nil {
			return core.Vec3{}
		}
		return v.si.BSDF.F(v.si.Wo, wi).Multiply(correctShadingNormal(v.si, v.si.Wo, wi, mode))
	case MediumVertex:
		p := v.mi.Phase.P(v.mi.Wo, wi)
		return core.NewVec3(p, p, p)
	}
	logger.Errorf("F called on %s vertex", v.Type)
	return core.Vec3{}
}

// Pdf returns the area density of sampling next from this vertex, having
// arrived from prev. prev is nil only for camera vertices.
func (v *Vertex) Pdf(scene core.Scene, prev, next *Vertex) float64 {
	if v.Type == LightVertex {
		return v.PdfLight(scene, next)
	}

	wn := next.Position().Subtract(v.Position())
	if wn.LengthSquared() == 0 {
		return 0
	}
	wn = wn.Normalize()

	var wp core.Vec3
	if prev != nil {
		wp = prev.Position().Subtract(v.Position())
		if wp.LengthSquared() == 0 {
			return 0
		}
		wp = wp.Normalize()
	} else if v.Type != CameraVertex {
		logger.Errorf("Pdf without predecessor on %s vertex", v.Type)
		return 0
	}

	var pdf float64
	switch v.Type {
	case CameraVertex:
		_, pdf = v.ei.Camera.PdfWe(v.ei.SpawnRay(wn))
	case SurfaceVertex:
		if v.si.BSDF != nil {
			pdf = v.si.BSDF.Pdf(wp, wn)
		}
	case MediumVertex:
		pdf = v.mi.Phase.P(wp, wn)
	}
	return ConvertDensity(v, pdf, next)
}

// PdfLight returns the area density with which this light vertex emits toward next
func (v *Vertex) PdfLight(scene core.Scene, next *Vertex) float64 {
	w := next.Position().Subtract(v.Position())
	dist2 := w.LengthSquared()
	if dist2 == 0 {
		return 0
	}
	invDist2 := 1 / dist2
	w = w.Multiply(math.Sqrt(invDist2))

	var pdf float64
	if v.IsInfiniteLight() {
		// Planar density over the disk the infinite light emits through
		_, radius := scene.WorldBound().BoundingSphere()
		pdf = 1 / (math.Pi * radius * radius)
	} else {
		light := v.light()
		if light == nil {
			logger.Errorf("PdfLight called on non-emitting %s vertex", v.Type)
			return 0
		}
		ray := core.NewRay(v.Position(), w)
		ray.Time = v.Time()
		_, pdfDir := light.PdfLe(ray, v.GeoNormal())
		pdf = pdfDir * invDist2
	}
	if next.IsOnSurface() {
		pdf *= next.GeoNormal().AbsDot(w)
	}
	return pdf
}

// PdfLightOrigin returns the density of choosing this light point as the
// start of a light subpath, including the light selection probability
func (v *Vertex) PdfLightOrigin(scene core.Scene, next *Vertex, distr *core.Distribution1D, lightToIndex map[core.Light]int) float64 {
	w := next.Position().Subtract(v.Position())
	if w.LengthSquared() == 0 {
		return 0
	}
	w = w.Normalize()

	if v.IsInfiniteLight() {
		return InfiniteLightDensity(scene, distr, lightToIndex, w)
	}

	light := v.light()
	if light == nil {
		logger.Errorf("PdfLightOrigin called on non-emitting %s vertex", v.Type)
		return 0
	}
	index, ok := lightToIndex[light]
	if !ok {
		logger.Errorf("light %T missing from light index", light)
		return 0
	}
	ray := core.NewRay(v.Position(), w)
	ray.Time = v.Time()
	pdfPos, _ := light.PdfLe(ray, v.GeoNormal())
	return pdfPos * distr.DiscretePDF(index)
}

// Le returns the radiance this vertex emits toward next
func (v *Vertex) Le(scene core.Scene, next *Vertex) core.Vec3 {
	if !v.IsLight() {
		return core.Vec3{}
	}
	w := next.Position().Subtract(v.Position())
	if w.LengthSquared() == 0 {
		return core.Vec3{}
	}
	w = w.Normalize()

	if v.IsInfiniteLight() {
		le := core.Vec3{}
		ray := core.NewRay(v.Position(), w.Negate())
		for _, light := range scene.InfiniteLights() {
			le = le.Add(light.Le(ray))
		}
		return le
	}
	if v.Type != SurfaceVertex {
		// Light endpoints are only ever reached through sampling, never hit
		return core.Vec3{}
	}
	return v.si.AreaLight.L(v.si.Interaction, w)
}

func (v *Vertex) String() string {
	s := fmt.Sprintf("[ Vertex type: %s connectable: %t p: %v ng: %v pdfFwd: %g pdfRev: %g beta: %v",
		v.Type, v.IsConnectable(), v.Position(), v.GeoNormal(), v.PdfFwd, v.PdfRev, v.Beta)
	switch v.Type {
	case CameraVertex:
		s += " camera"
	case LightVertex:
		if v.ei.Light == nil {
			s += " light: infinite"
		} else {
			s += fmt.Sprintf(" light: %T", v.ei.Light)
		}
	case SurfaceVertex:
		s += fmt.Sprintf(" delta: %t", v.Delta)
	case MediumVertex:
		s += fmt.Sprintf(" phase: %T", v.mi.Phase)
	}
	return s + " ]"
}

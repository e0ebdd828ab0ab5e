package integrator

import (
	"github.com/df07/go-bdpt/pkg/core"
)

// Contribution is the result of connecting a light and a camera prefix
type Contribution struct {
	L          core.Vec3 // MIS weighted radiance
	Unweighted core.Vec3
	MISWeight  float64
	PFilm      core.Vec2 // Raster position, resampled when t == 1
}

// G returns the generalized geometry term between two vertices, including
// the transmittance of the segment
func G(scene core.Scene, sampler core.Sampler, v0, v1 *Vertex) core.Vec3 {
	d := v0.Position().Subtract(v1.Position())
	dist2 := d.LengthSquared()
	if dist2 == 0 {
		return core.Vec3{}
	}
	g := 1 / dist2
	d = d.Normalize()
	if v0.IsOnSurface() {
		g *= v0.ShadingNormal().AbsDot(d)
	}
	if v1.IsOnSurface() {
		g *= v1.ShadingNormal().AbsDot(d)
	}
	vis := core.VisibilityTester{P0: v0.Interaction(), P1: v1.Interaction()}
	return vis.Tr(scene, sampler).Multiply(g)
}

// ConnectBDPT joins the first s light vertices with the first t camera
// vertices and returns the weighted contribution. Strategies s=1 and t=1
// sample a fresh endpoint instead of using the stored one.
func (b *BDPTIntegrator) ConnectBDPT(lightVertices, cameraVertices []Vertex, s, t int, pFilm core.Vec2, sampler core.Sampler) Contribution {
	result := Contribution{PFilm: pFilm}

	// An escaped camera ray cannot be joined to anything
	if t > 1 && s != 0 && cameraVertices[t-1].Type == LightVertex {
		return result
	}

	var L core.Vec3
	var sampled Vertex
	switch {
	case s == 0:
		pt := &cameraVertices[t-1]
		if pt.IsLight() {
			L = pt.Le(b.scene, &cameraVertices[t-2]).MultiplyVec(pt.Beta)
		}

	case t == 1:
		qs := &lightVertices[s-1]
		if !qs.IsConnectable() {
			break
		}
		is, ok := b.camera.SampleWi(qs.Interaction(), sampler.Get2D())
		if !ok || is.Pdf == 0 || is.We.IsBlack() {
			break
		}
		result.PFilm = is.PRaster
		sampled = newCameraVertex(NewCameraEndpoint(is.Vis.P1, b.camera), is.We.Multiply(1/is.Pdf))
		L = qs.Beta.MultiplyVec(qs.F(&sampled, core.Importance)).MultiplyVec(sampled.Beta)
		if qs.IsOnSurface() {
			L = L.Multiply(is.Wi.AbsDot(qs.ShadingNormal()))
		}
		if !L.IsBlack() {
			L = L.MultiplyVec(is.Vis.Tr(b.scene, sampler))
		}

	case s == 1:
		pt := &cameraVertices[t-1]
		if !pt.IsConnectable() {
			break
		}
		light, lightPdf, _ := b.lightSampler.SampleLight(sampler.Get1D())
		if light == nil || lightPdf == 0 {
			logger.Errorf("light selection failed with pdf %g", lightPdf)
			break
		}
		ls := light.SampleLi(pt.Interaction(), sampler.Get2D())
		if ls.Pdf == 0 || ls.Li.IsBlack() {
			break
		}
		sampled = newLightVertex(NewLightEndpoint(ls.Vis.P1, light), ls.Li.Multiply(1/(ls.Pdf*lightPdf)), 0)
		sampled.PdfFwd = sampled.PdfLightOrigin(b.scene, pt, b.lightSampler.Distribution(), b.lightToIndex)
		L = pt.Beta.MultiplyVec(pt.F(&sampled, core.Radiance)).MultiplyVec(sampled.Beta)
		if pt.IsOnSurface() {
			L = L.Multiply(ls.Wi.AbsDot(pt.ShadingNormal()))
		}
		if !L.IsBlack() {
			L = L.MultiplyVec(ls.Vis.Tr(b.scene, sampler))
		}

	default:
		qs := &lightVertices[s-1]
		pt := &cameraVertices[t-1]
		if !qs.IsConnectable() || !pt.IsConnectable() {
			break
		}
		L = qs.Beta.MultiplyVec(qs.F(pt, core.Importance)).MultiplyVec(pt.F(qs, core.Radiance)).MultiplyVec(pt.Beta)
		if !L.IsBlack() {
			L = L.MultiplyVec(G(b.scene, sampler, qs, pt))
		}
	}

	if L.IsBlack() {
		return result
	}
	if L.HasNaN() {
		logger.Debugf("(s=%d,t=%d) dropping NaN contribution", s, t)
		return result
	}

	result.Unweighted = L
	result.MISWeight = b.MISWeight(lightVertices, cameraVertices, &sampled, s, t)
	result.L = L.Multiply(result.MISWeight)
	b.logf("(s=%d,t=%d) L=%v weight=%.3g", s, t, L, result.MISWeight)
	return result
}

func remap0(f float64) float64 {
	if f != 0 {
		return f
	}
	return 1
}

// MISWeight returns the balance heuristic weight of strategy (s,t). The
// endpoint, delta flags and reverse densities of the connection vertices are
// temporarily replaced by their values for this strategy and restored
// before returning.
func (b *BDPTIntegrator) MISWeight(lightVertices, cameraVertices []Vertex, sampled *Vertex, s, t int) float64 {
	if s+t == 2 {
		return 1
	}

	var qs, pt, qsMinus, ptMinus *Vertex
	if s > 0 {
		qs = &lightVertices[s-1]
	}
	if t > 0 {
		pt = &cameraVertices[t-1]
	}
	if s > 1 {
		qsMinus = &lightVertices[s-2]
	}
	if t > 1 {
		ptMinus = &cameraVertices[t-2]
	}

	// Fresh endpoints replace the stored ones
	if s == 1 {
		defer assign(qs, *sampled).restore()
	} else if t == 1 {
		defer assign(pt, *sampled).restore()
	}

	// The connection vertices are sampled deterministically here
	if pt != nil {
		defer assign(&pt.Delta, false).restore()
	}
	if qs != nil {
		defer assign(&qs.Delta, false).restore()
	}

	if pt != nil {
		var pdfRev float64
		if s > 0 {
			pdfRev = qs.Pdf(b.scene, qsMinus, pt)
		} else {
			pdfRev = pt.PdfLightOrigin(b.scene, ptMinus, b.lightSampler.Distribution(), b.lightToIndex)
		}
		defer assign(&pt.PdfRev, pdfRev).restore()
	}
	if ptMinus != nil {
		var pdfRev float64
		if s > 0 {
			pdfRev = pt.Pdf(b.scene, qs, ptMinus)
		} else {
			pdfRev = pt.PdfLight(b.scene, ptMinus)
		}
		defer assign(&ptMinus.PdfRev, pdfRev).restore()
	}
	if qs != nil {
		defer assign(&qs.PdfRev, pt.Pdf(b.scene, ptMinus, qs)).restore()
	}
	if qsMinus != nil {
		defer assign(&qsMinus.PdfRev, qs.Pdf(b.scene, pt, qsMinus)).restore()
	}

	sumRi := 0.0
	ri := 1.0
	for i := t - 1; i > 0; i-- {
		ri *= remap0(cameraVertices[i].PdfRev) / remap0(cameraVertices[i].PdfFwd)
		if !cameraVertices[i].Delta && !cameraVertices[i-1].Delta {
			sumRi += ri
		}
	}

	ri = 1
	for i := s - 1; i >= 0; i-- {
		ri *= remap0(lightVertices[i].PdfRev) / remap0(lightVertices[i].PdfFwd)
		deltaLightVertex := lightVertices[0].IsDeltaLight()
		if i > 0 {
			deltaLightVertex = lightVertices[i-1].Delta
		}
		if !deltaLightVertex && !lightVertices[i].Delta {
			sumRi += ri
		}
	}
	return 1 / (1 + sumRi)
}

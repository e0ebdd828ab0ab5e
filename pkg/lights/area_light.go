package lights

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/geometry"
)

// DiffuseAreaLight emits constant radiance from the surface of a shape.
// One-sided lights emit on the side the shape normal points to.
type DiffuseAreaLight struct {
	Lemit           core.Vec3
	Shape           geometry.Shape
	TwoSided        bool
	MediumInterface core.MediumInterface
}

// NewDiffuseAreaLight creates a one-sided area light
func NewDiffuseAreaLight(shape geometry.Shape, lemit core.Vec3) *DiffuseAreaLight {
	return &DiffuseAreaLight{Lemit: lemit, Shape: shape}
}

func (l *DiffuseAreaLight) Flags() core.LightFlags { return core.LightArea }

// Power returns the total emitted flux
func (l *DiffuseAreaLight) Power() core.Vec3 {
	sides := 1.0
	if l.TwoSided {
		sides = 2
	}
	return l.Lemit.Multiply(sides * l.Shape.Area() * math.Pi)
}

func (l *DiffuseAreaLight) Preprocess(center core.Vec3, radius float64) {}

// L returns emitted radiance at a point on the light toward w
func (l *DiffuseAreaLight) L(it core.Interaction, w core.Vec3) core.Vec3 {
	if !l.TwoSided && it.Normal.Dot(w) <= 0 {
		return core.Vec3{}
	}
	return l.Lemit
}

// solidAnglePdf converts the uniform area density to solid angle at ref
func (l *DiffuseAreaLight) solidAnglePdf(ref, p, n core.Vec3) float64 {
	d := p.Subtract(ref)
	dist2 := d.LengthSquared()
	if dist2 == 0 {
		return 0
	}
	cos := n.AbsDot(d.Normalize())
	if cos == 0 {
		return 0
	}
	return dist2 / (cos * l.Shape.Area())
}

func (l *DiffuseAreaLight) SampleLi(ref core.Interaction, u core.Vec2) core.LightSample {
	p, n := l.Shape.Sample(u)
	pdf := l.solidAnglePdf(ref.Point, p, n)
	if pdf == 0 || math.IsInf(pdf, 0) {
		return core.LightSample{}
	}
	wi := p.Subtract(ref.Point).Normalize()
	pLight := core.Interaction{Point: p, Time: ref.Time, Normal: n, MediumInterface: l.MediumInterface}
	return core.LightSample{
		Li:  l.L(pLight, wi.Negate()),
		Wi:  wi,
		Pdf: pdf,
		Vis: core.VisibilityTester{P0: ref, P1: pLight},
	}
}

// PdfLi traces toward the shape and returns the solid angle density of the hit
func (l *DiffuseAreaLight) PdfLi(ref core.Interaction, wi core.Vec3) float64 {
	ray := core.NewRay(ref.Point, wi.Normalize())
	hit, ok := l.Shape.Hit(ray, 1e-4, math.Inf(1))
	if !ok {
		return 0
	}
	pdf := l.solidAnglePdf(ref.Point, hit.Point, hit.Normal)
	if math.IsInf(pdf, 0) {
		return 0
	}
	return pdf
}

// SampleLe picks a point by area and a cosine-weighted direction
func (l *DiffuseAreaLight) SampleLe(u1, u2 core.Vec2, time float64) core.EmissionSample {
	p, n := l.Shape.Sample(u1)

	var w core.Vec3
	var pdfDir float64
	if l.TwoSided {
		// Split u2.X between the two hemispheres
		if u2.X < 0.5 {
			w = core.SampleCosineHemisphere(n, core.NewVec2(u2.X*2, u2.Y))
		} else {
			w = core.SampleCosineHemisphere(n.Negate(), core.NewVec2((u2.X-0.5)*2, u2.Y))
		}
		pdfDir = 0.5 * n.AbsDot(w) * core.InvPi
	} else {
		w = core.SampleCosineHemisphere(n, u2)
		pdfDir = core.CosineHemispherePDF(n.Dot(w))
	}

	pLight := core.Interaction{Point: p, Time: time, Normal: n, MediumInterface: l.MediumInterface}
	return core.EmissionSample{
		Le:     l.L(pLight, w),
		Ray:    pLight.SpawnRay(w),
		Normal: n,
		PdfPos: 1 / l.Shape.Area(),
		PdfDir: pdfDir,
	}
}

func (l *DiffuseAreaLight) PdfLe(ray core.Ray, n core.Vec3) (float64, float64) {
	cos := n.Dot(ray.Direction.Normalize())
	pdfDir := core.CosineHemispherePDF(cos)
	if l.TwoSided {
		pdfDir = 0.5 * math.Abs(cos) * core.InvPi
	}
	return 1 / l.Shape.Area(), pdfDir
}

func (l *DiffuseAreaLight) Le(ray core.Ray) core.Vec3 { return core.Vec3{} }

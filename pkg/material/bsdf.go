package material

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// BSDF aggregates BxDFs in the shading frame of a surface point
type BSDF struct {
	ns, ng core.Vec3
	ss, ts core.Vec3
	bxdfs  []BxDF
}

// NewBSDF creates an empty BSDF for the surface interaction
func NewBSDF(si *core.SurfaceInteraction) *BSDF {
	ns := si.ShadingNormal
	if ns.IsBlack() {
		ns = si.Normal
	}
	ss, ts := core.CoordinateSystem(ns)
	return &BSDF{ns: ns, ng: si.Normal, ss: ss, ts: ts}
}

// Add appends a lobe
func (b *BSDF) Add(bxdf BxDF) {
	b.bxdfs = append(b.bxdfs, bxdf)
}

func (b *BSDF) worldToLocal(v core.Vec3) core.Vec3 {
	return core.NewVec3(v.Dot(b.ss), v.Dot(b.ts), v.Dot(b.ns))
}

func (b *BSDF) localToWorld(v core.Vec3) core.Vec3 {
	return b.ss.Multiply(v.X).Add(b.ts.Multiply(v.Y)).Add(b.ns.Multiply(v.Z))
}

// NumComponents counts the lobes whose type is contained in flags
func (b *BSDF) NumComponents(flags core.BxDFType) int {
	n := 0
	for _, bxdf := range b.bxdfs {
		if matchesFlags(bxdf.Type(), flags) {
			n++
		}
	}
	return n
}

// F evaluates the non-specular lobes. Reflection and transmission are told
// apart with the geometric normal.
func (b *BSDF) F(woW, wiW core.Vec3) core.Vec3 {
	wo, wi := b.worldToLocal(woW), b.worldToLocal(wiW)
	if wo.Z == 0 {
		return core.Vec3{}
	}
	reflect := wiW.Dot(b.ng)*woW.Dot(b.ng) > 0

	f := core.Vec3{}
	for _, bxdf := range b.bxdfs {
		t := bxdf.Type()
		if (reflect && t&core.BSDFReflection != 0) || (!reflect && t&core.BSDFTransmission != 0) {
			f = f.Add(bxdf.F(wo, wi))
		}
	}
	return f
}

// SampleF picks a lobe uniformly, samples it and returns the value and
// density of the whole BSDF for non-specular samples.
func (b *BSDF) SampleF(woW core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, core.BxDFType) {
	n := len(b.bxdfs)
	if n == 0 {
		return core.Vec3{}, core.Vec3{}, 0, 0
	}
	comp := min(int(math.Floor(u.X*float64(n))), n-1)
	bxdf := b.bxdfs[comp]
	uRemapped := core.NewVec2(min(u.X*float64(n)-float64(comp), 1-1e-12), u.Y)

	wo := b.worldToLocal(woW)
	if wo.Z == 0 {
		return core.Vec3{}, core.Vec3{}, 0, 0
	}
	f, wi, pdf, sampled := bxdf.SampleF(wo, uRemapped)
	if pdf == 0 {
		return core.Vec3{}, core.Vec3{}, 0, 0
	}
	wiW := b.localToWorld(wi)

	if bxdf.Type()&core.BSDFSpecular == 0 && n > 1 {
		for i, other := range b.bxdfs {
			if i != comp {
				pdf += other.Pdf(wo, wi)
			}
		}
	}
	if n > 1 {
		pdf /= float64(n)
	}

	if bxdf.Type()&core.BSDFSpecular == 0 {
		f = b.F(woW, wiW)
	}
	return f, wiW, pdf, sampled
}

// Pdf returns the density SampleF would produce for wi
func (b *BSDF) Pdf(woW, wiW core.Vec3) float64 {
	if len(b.bxdfs) == 0 {
		return 0
	}
	wo, wi := b.worldToLocal(woW), b.worldToLocal(wiW)
	if wo.Z == 0 {
		return 0
	}
	pdf := 0.0
	for _, bxdf := range b.bxdfs {
		pdf += bxdf.Pdf(wo, wi)
	}
	return pdf / float64(len(b.bxdfs))
}

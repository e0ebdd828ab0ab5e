package material

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// BxDF is a single scattering lobe. Directions are in the local shading
// frame where the shading normal is +Z.
type BxDF interface {
	Type() core.BxDFType
	F(wo, wi core.Vec3) core.Vec3
	SampleF(wo core.Vec3, u core.Vec2) (f core.Vec3, wi core.Vec3, pdf float64, sampled core.BxDFType)
	Pdf(wo, wi core.Vec3) float64
}

func cosTheta(w core.Vec3) float64    { return w.Z }
func absCosTheta(w core.Vec3) float64 { return math.Abs(w.Z) }

func sameHemisphere(w, wp core.Vec3) bool {
	return w.Z*wp.Z > 0
}

// matchesFlags reports whether every bit of t is contained in flags
func matchesFlags(t, flags core.BxDFType) bool {
	return t&flags == t
}

// LambertianReflection scatters uniformly over the hemisphere
type LambertianReflection struct {
	R core.Vec3
}

func (l *LambertianReflection) Type() core.BxDFType {
	return core.BSDFReflection | core.BSDFDiffuse
}

func (l *LambertianReflection) F(wo, wi core.Vec3) core.Vec3 {
	if !sameHemisphere(wo, wi) {
		return core.Vec3{}
	}
	return l.R.Multiply(core.InvPi)
}

func (l *LambertianReflection) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, core.BxDFType) {
	wi := core.SampleCosineHemisphere(core.NewVec3(0, 0, 1), u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	return l.F(wo, wi), wi, l.Pdf(wo, wi), l.Type()
}

func (l *LambertianReflection) Pdf(wo, wi core.Vec3) float64 {
	if !sameHemisphere(wo, wi) {
		return 0
	}
	return absCosTheta(wi) * core.InvPi
}

// Fresnel computes the reflected fraction at a given incident cosine
type Fresnel interface {
	Evaluate(cosI float64) core.Vec3
}

// FresnelNoOp reflects everything
type FresnelNoOp struct{}

func (FresnelNoOp) Evaluate(float64) core.Vec3 { return core.NewVec3(1, 1, 1) }

// FresnelDielectric is the unpolarized Fresnel reflectance between two dielectrics
type FresnelDielectric struct {
	EtaI, EtaT float64
}

func (f FresnelDielectric) Evaluate(cosI float64) core.Vec3 {
	fr := FrDielectric(cosI, f.EtaI, f.EtaT)
	return core.NewVec3(fr, fr, fr)
}

// FrDielectric returns the Fresnel reflectance for light arriving at cosThetaI
// on the side with index etaI. Negative cosines mean the other side.
func FrDielectric(cosThetaI, etaI, etaT float64) float64 {
	cosThetaI = max(-1, min(1, cosThetaI))
	if cosThetaI <= 0 {
		etaI, etaT = etaT, etaI
		cosThetaI = -cosThetaI
	}

	sinThetaI := math.Sqrt(math.Max(0, 1-cosThetaI*cosThetaI))
	sinThetaT := etaI / etaT * sinThetaI
	if sinThetaT >= 1 {
		return 1
	}
	cosThetaT := math.Sqrt(math.Max(0, 1-sinThetaT*sinThetaT))

	rParl := (etaT*cosThetaI - etaI*cosThetaT) / (etaT*cosThetaI + etaI*cosThetaT)
	rPerp := (etaI*cosThetaI - etaT*cosThetaT) / (etaI*cosThetaI + etaT*cosThetaT)
	return (rParl*rParl + rPerp*rPerp) / 2
}

// refract bends wi around n with relative index eta = etaI/etaT.
// It fails on total internal reflection.
func refract(wi, n core.Vec3, eta float64) (core.Vec3, bool) {
	cosThetaI := n.Dot(wi)
	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := eta * eta * sin2ThetaI
	if sin2ThetaT >= 1 {
		return core.Vec3{}, false
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	return wi.Negate().Multiply(eta).Add(n.Multiply(eta*cosThetaI - cosThetaT)), true
}

// SpecularReflection is a perfect mirror lobe
type SpecularReflection struct {
	R       core.Vec3
	Fresnel Fresnel
}

func (s *SpecularReflection) Type() core.BxDFType {
	return core.BSDFReflection | core.BSDFSpecular
}

func (s *SpecularReflection) F(wo, wi core.Vec3) core.Vec3 { return core.Vec3{} }

func (s *SpecularReflection) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, core.BxDFType) {
	wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
	if absCosTheta(wi) == 0 {
		return core.Vec3{}, wi, 0, s.Type()
	}
	f := s.Fresnel.Evaluate(cosTheta(wi)).MultiplyVec(s.R).Multiply(1 / absCosTheta(wi))
	return f, wi, 1, s.Type()
}

func (s *SpecularReflection) Pdf(wo, wi core.Vec3) float64 { return 0 }

// FresnelSpecular chooses between specular reflection and transmission by
// the Fresnel reflectance. EtaA is the index outside (normal side), EtaB inside.
type FresnelSpecular struct {
	R, T       core.Vec3
	EtaA, EtaB float64
	Mode       core.TransportMode
}

func (s *FresnelSpecular) Type() core.BxDFType {
	return core.BSDFReflection | core.BSDFTransmission | core.BSDFSpecular
}

func (s *FresnelSpecular) F(wo, wi core.Vec3) core.Vec3 { return core.Vec3{} }

func (s *FresnelSpecular) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, core.BxDFType) {
	fr := FrDielectric(cosTheta(wo), s.EtaA, s.EtaB)
	if u.X < fr {
		wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
		if absCosTheta(wi) == 0 {
			return core.Vec3{}, wi, 0, core.BSDFSpecular | core.BSDFReflection
		}
		return s.R.Multiply(fr / absCosTheta(wi)), wi, fr, core.BSDFSpecular | core.BSDFReflection
	}

	entering := cosTheta(wo) > 0
	etaI, etaT := s.EtaA, s.EtaB
	if !entering {
		etaI, etaT = s.EtaB, s.EtaA
	}
	n := core.NewVec3(0, 0, 1).FaceForward(wo)
	wi, ok := refract(wo, n, etaI/etaT)
	if !ok || absCosTheta(wi) == 0 {
		return core.Vec3{}, wi, 0, core.BSDFSpecular | core.BSDFTransmission
	}
	ft := s.T.Multiply(1 - fr)
	// Radiance is compressed into a smaller solid angle on the dense side
	if s.Mode == core.Radiance {
		ft = ft.Multiply((etaI * etaI) / (etaT * etaT))
	}
	return ft.Multiply(1 / absCosTheta(wi)), wi, 1 - fr, core.BSDFSpecular | core.BSDFTransmission
}

func (s *FresnelSpecular) Pdf(wo, wi core.Vec3) float64 { return 0 }

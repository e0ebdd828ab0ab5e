package material

import (
	"github.com/df07/go-bdpt/pkg/core"
)

// Matte is an ideal diffuse surface
type Matte struct {
	Albedo core.Vec3
}

// NewMatte creates a diffuse material
func NewMatte(albedo core.Vec3) *Matte {
	return &Matte{Albedo: albedo}
}

// ComputeBSDF implements core.Material
func (m *Matte) ComputeBSDF(si *core.SurfaceInteraction, mode core.TransportMode) core.BSDF {
	bsdf := NewBSDF(si)
	if !m.Albedo.IsBlack() {
		bsdf.Add(&LambertianReflection{R: m.Albedo})
	}
	return bsdf
}

// Mirror is a perfect specular reflector
type Mirror struct {
	Reflectance core.Vec3
}

// NewMirror creates a mirror material
func NewMirror(reflectance core.Vec3) *Mirror {
	return &Mirror{Reflectance: reflectance}
}

// ComputeBSDF implements core.Material
func (m *Mirror) ComputeBSDF(si *core.SurfaceInteraction, mode core.TransportMode) core.BSDF {
	bsdf := NewBSDF(si)
	bsdf.Add(&SpecularReflection{R: m.Reflectance, Fresnel: FresnelNoOp{}})
	return bsdf
}

// Glass is a smooth dielectric that reflects and refracts
type Glass struct {
	Reflectance   core.Vec3
	Transmittance core.Vec3
	Eta           float64
}

// NewGlass creates clear glass with the given index of refraction
func NewGlass(eta float64) *Glass {
	white := core.NewVec3(1, 1, 1)
	return &Glass{Reflectance: white, Transmittance: white, Eta: eta}
}

// ComputeBSDF implements core.Material
func (g *Glass) ComputeBSDF(si *core.SurfaceInteraction, mode core.TransportMode) core.BSDF {
	bsdf := NewBSDF(si)
	bsdf.Add(&FresnelSpecular{R: g.Reflectance, T: g.Transmittance, EtaA: 1, EtaB: g.Eta, Mode: mode})
	return bsdf
}

// Coated is a diffuse base under a smooth dielectric coat
type Coated struct {
	Albedo   core.Vec3
	Specular core.Vec3
	Eta      float64
}

// NewCoated creates a coated diffuse material
func NewCoated(albedo, specular core.Vec3, eta float64) *Coated {
	return &Coated{Albedo: albedo, Specular: specular, Eta: eta}
}

// ComputeBSDF implements core.Material
func (c *Coated) ComputeBSDF(si *core.SurfaceInteraction, mode core.TransportMode) core.BSDF {
	bsdf := NewBSDF(si)
	if !c.Albedo.IsBlack() {
		bsdf.Add(&LambertianReflection{R: c.Albedo})
	}
	if !c.Specular.IsBlack() {
		bsdf.Add(&SpecularReflection{R: c.Specular, Fresnel: FresnelDielectric{EtaI: 1, EtaT: c.Eta}})
	}
	return bsdf
}

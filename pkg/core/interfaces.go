package core

// BxDFType classifies scattering lobes
type BxDFType int

const (
	BSDFReflection BxDFType = 1 << iota
	BSDFTransmission
	BSDFDiffuse
	BSDFGlossy
	BSDFSpecular
	BSDFAll = BSDFReflection | BSDFTransmission | BSDFDiffuse | BSDFGlossy | BSDFSpecular
)

// TransportMode tells a BSDF which quantity is carried along the path.
// Light subpaths carry importance, camera subpaths carry radiance.
type TransportMode int

const (
	Radiance TransportMode = iota
	Importance
)

// BSDF evaluates, samples and returns densities for scattering at a surface point.
// Directions are in world space and point away from the surface.
type BSDF interface {
	F(wo, wi Vec3) Vec3
	SampleF(wo Vec3, u Vec2) (f Vec3, wi Vec3, pdf float64, sampled BxDFType)
	Pdf(wo, wi Vec3) float64
	NumComponents(flags BxDFType) int
}

// Material builds the BSDF for a surface interaction
type Material interface {
	ComputeBSDF(si *SurfaceInteraction, mode TransportMode) BSDF
}

// PhaseFunction is the medium analogue of a BSDF
type PhaseFunction interface {
	P(wo, wi Vec3) float64
	SampleP(wo Vec3, u Vec2) (wi Vec3, p float64)
}

// Medium is a participating medium
type Medium interface {
	// Tr returns the transmittance along the ray up to ray.TMax
	Tr(ray Ray, sampler Sampler) Vec3
	// Sample attempts to sample a scattering event before ray.TMax. It returns
	// the throughput weight and, when scattering occurred, the medium interaction.
	Sample(ray Ray, sampler Sampler) (Vec3, *MediumInteraction)
}

// LightFlags describes the kind of emitter
type LightFlags int

const (
	LightDeltaPosition LightFlags = 1 << iota
	LightDeltaDirection
	LightArea
	LightInfinite
)

// IsDeltaLight reports whether the light is described by a delta distribution
func IsDeltaLight(flags LightFlags) bool {
	return flags&LightDeltaPosition != 0 || flags&LightDeltaDirection != 0
}

// LightSample is the result of sampling incident illumination at a reference point
type LightSample struct {
	Li  Vec3
	Wi  Vec3
	Pdf float64 // solid angle density, 1 for delta lights
	Vis VisibilityTester
}

// EmissionSample is a ray leaving a light
type EmissionSample struct {
	Le     Vec3
	Ray    Ray
	Normal Vec3 // zero for point-like lights
	PdfPos float64
	PdfDir float64
}

// Light is an emitter. Implementations must be comparable (pointer types)
// because integrators index them in maps.
type Light interface {
	Flags() LightFlags
	Power() Vec3
	// Preprocess is called once with the scene's bounding sphere
	Preprocess(center Vec3, radius float64)
	SampleLi(ref Interaction, u Vec2) LightSample
	PdfLi(ref Interaction, wi Vec3) float64
	SampleLe(u1, u2 Vec2, time float64) EmissionSample
	PdfLe(ray Ray, n Vec3) (pdfPos, pdfDir float64)
	// Le is the radiance carried by a ray escaping the scene
	Le(ray Ray) Vec3
}

// AreaLight is a light attached to geometry
type AreaLight interface {
	Light
	L(it Interaction, w Vec3) Vec3
}

// CameraSample locates a primary ray on the film
type CameraSample struct {
	PFilm Vec2
	Time  float64
}

// ImportanceSample is the camera analogue of LightSample
type ImportanceSample struct {
	We      Vec3
	Wi      Vec3
	Pdf     float64
	PRaster Vec2
	Vis     VisibilityTester // P1 is the point on the lens
}

// Camera generates rays and evaluates importance
type Camera interface {
	GenerateRay(sample CameraSample) (Ray, float64)
	// We returns the importance of a ray leaving the lens and its raster position
	We(ray Ray) (Vec3, Vec2)
	PdfWe(ray Ray) (pdfPos, pdfDir float64)
	SampleWi(ref Interaction, u Vec2) (ImportanceSample, bool)
}

// Scene answers visibility queries and exposes the light registry
type Scene interface {
	// Intersect finds the closest hit in (0, ray.TMax)
	Intersect(ray Ray) (*SurfaceInteraction, bool)
	IntersectP(ray Ray) bool
	Lights() []Light
	InfiniteLights() []Light
	WorldBound() AABB
}

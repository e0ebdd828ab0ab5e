package core

// MediumInterface records the media on either side of a surface.
// Outside is the side the geometric normal points into.
type MediumInterface struct {
	Inside  Medium
	Outside Medium
}

// NewMediumInterface returns an interface with the same medium on both sides
func NewMediumInterface(m Medium) MediumInterface {
	return MediumInterface{Inside: m, Outside: m}
}

// IsTransition reports whether the two sides differ
func (mi MediumInterface) IsTransition() bool {
	return mi.Inside != mi.Outside
}

// Interaction is a point where light transport happens. Normal is zero for
// points that do not lie on a surface.
type Interaction struct {
	Point           Vec3
	Time            float64
	Normal          Vec3
	MediumInterface MediumInterface
}

// IsSurface reports whether the point lies on a surface
func (it Interaction) IsSurface() bool {
	return !it.Normal.IsBlack()
}

// GetMedium returns the medium a ray leaving in direction w travels through
func (it Interaction) GetMedium(w Vec3) Medium {
	if !it.IsSurface() || w.Dot(it.Normal) > 0 {
		return it.MediumInterface.Outside
	}
	return it.MediumInterface.Inside
}

// SpawnRay creates a ray leaving the interaction in direction d
func (it Interaction) SpawnRay(d Vec3) Ray {
	ray := NewRay(it.Point, d.Normalize())
	ray.Time = it.Time
	ray.Medium = it.GetMedium(d)
	return ray
}

// SpawnRayTo creates a unit-direction ray that stops just short of p
func (it Interaction) SpawnRayTo(p Vec3) Ray {
	d := p.Subtract(it.Point)
	dist := d.Length()
	ray := it.SpawnRay(d)
	ray.TMax = dist * (1 - ShadowEpsilon)
	return ray
}

// SurfaceInteraction is a ray hit on scene geometry. A nil Material marks
// an invisible boundary between two media.
type SurfaceInteraction struct {
	Interaction
	T             float64
	Wo            Vec3
	ShadingNormal Vec3
	Material      Material
	AreaLight     AreaLight
	BSDF          BSDF
}

// ComputeScatteringFunctions fills in the BSDF for the given transport mode
func (si *SurfaceInteraction) ComputeScatteringFunctions(mode TransportMode) {
	if si.Material != nil {
		si.BSDF = si.Material.ComputeBSDF(si, mode)
	}
}

// Le returns emitted radiance leaving the surface in direction w
func (si *SurfaceInteraction) Le(w Vec3) Vec3 {
	if si.AreaLight == nil {
		return Vec3{}
	}
	return si.AreaLight.L(si.Interaction, w)
}

// MediumInteraction is a scattering event inside a participating medium
type MediumInteraction struct {
	Interaction
	Wo    Vec3
	Phase PhaseFunction
}

// VisibilityTester checks the segment between two interactions
type VisibilityTester struct {
	P0, P1 Interaction
}

// Unoccluded reports whether nothing blocks the segment
func (v VisibilityTester) Unoccluded(scene Scene) bool {
	return !scene.IntersectP(v.P0.SpawnRayTo(v.P1.Point))
}

// Tr returns the transmittance along the segment. Opaque surfaces yield zero,
// medium boundaries are crossed and each medium's transmittance is accumulated.
func (v VisibilityTester) Tr(scene Scene, sampler Sampler) Vec3 {
	ray := v.P0.SpawnRayTo(v.P1.Point)
	tr := NewVec3(1, 1, 1)
	for {
		si, hit := scene.Intersect(ray)
		if hit && si.Material != nil {
			return Vec3{}
		}
		if ray.Medium != nil {
			segment := ray
			if hit {
				segment.TMax = si.T
			}
			tr = tr.MultiplyVec(ray.Medium.Tr(segment, sampler))
		}
		if !hit {
			break
		}
		ray = si.SpawnRayTo(v.P1.Point)
	}
	return tr
}

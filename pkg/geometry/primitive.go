package geometry

import "github.com/df07/go-bdpt/pkg/core"

// Primitive binds a shape to its material, emission and surrounding media.
// A nil Material makes the primitive an invisible medium boundary.
type Primitive struct {
	Shape           Shape
	Material        core.Material
	AreaLight       core.AreaLight
	MediumInterface core.MediumInterface
}

// NewPrimitive creates a primitive in vacuum
func NewPrimitive(shape Shape, material core.Material) *Primitive {
	return &Primitive{Shape: shape, Material: material}
}

// Intersect returns the surface interaction for the closest hit in (tMin, tMax)
func (p *Primitive) Intersect(ray core.Ray, tMin, tMax float64) (*core.SurfaceInteraction, bool) {
	hit, ok := p.Shape.Hit(ray, tMin, tMax)
	if !ok {
		return nil, false
	}

	mi := p.MediumInterface
	if !mi.IsTransition() {
		mi = core.NewMediumInterface(ray.Medium)
	}

	return &core.SurfaceInteraction{
		Interaction: core.Interaction{
			Point:           hit.Point,
			Time:            ray.Time,
			Normal:          hit.Normal,
			MediumInterface: mi,
		},
		T:             hit.T,
		Wo:            ray.Direction.Negate().Normalize(),
		ShadingNormal: hit.Normal,
		Material:      p.Material,
		AreaLight:     p.AreaLight,
	}, true
}

// BoundingBox returns the shape's bounds
func (p *Primitive) BoundingBox() core.AABB {
	return p.Shape.BoundingBox()
}

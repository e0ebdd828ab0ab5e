package geometry

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// Quad represents a parallelogram defined by a corner and two edge vectors.
// The normal is U × V normalized.
type Quad struct {
	Corner core.Vec3
	U      core.Vec3
	V      core.Vec3
	Normal core.Vec3
	D      float64   // Plane equation constant: n·p = d
	W      core.Vec3 // Cached vector for planar coordinates
	area   float64
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()

	return &Quad{
		Corner: corner,
		U:      u,
		V:      v,
		Normal: normal,
		D:      normal.Dot(corner),
		W:      cross.Multiply(1.0 / cross.Dot(cross)),
		area:   cross.Length(),
	}
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	denominator := ray.Direction.Dot(q.Normal)
	if math.Abs(denominator) < 1e-12 {
		return Hit{}, false
	}

	t := (q.D - ray.Origin.Dot(q.Normal)) / denominator
	if t <= tMin || t >= tMax {
		return Hit{}, false
	}

	hitPoint := ray.At(t)
	hitVector := hitPoint.Subtract(q.Corner)
	alpha := q.W.Dot(hitVector.Cross(q.V))
	beta := q.W.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return Hit{}, false
	}

	return Hit{T: t, Point: hitPoint, Normal: q.Normal}, true
}

// BoundingBox returns the axis-aligned bounding box for this quad
func (q *Quad) BoundingBox() core.AABB {
	box := core.NewAABBFromPoints(
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	)
	// Flat boxes need some thickness for the slab test
	pad := core.NewVec3(1e-4, 1e-4, 1e-4)
	return core.NewAABB(box.Min.Subtract(pad), box.Max.Add(pad))
}

// Area returns the surface area
func (q *Quad) Area() float64 {
	return q.area
}

// Sample picks a uniformly distributed point on the quad
func (q *Quad) Sample(u core.Vec2) (core.Vec3, core.Vec3) {
	return q.Corner.Add(q.U.Multiply(u.X)).Add(q.V.Multiply(u.Y)), q.Normal
}

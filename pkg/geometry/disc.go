package geometry

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// Disc represents a circular disc in 3D space
type Disc struct {
	Center core.Vec3 // Center of the disc
	Normal core.Vec3 // Normal vector, the emitting side for area lights
	Radius float64
	Right  core.Vec3 // In-plane basis perpendicular to Normal
	Up     core.Vec3
}

// NewDisc creates a new disc
func NewDisc(center, normal core.Vec3, radius float64) *Disc {
	n := normal.Normalize()
	right, up := core.CoordinateSystem(n)
	return &Disc{
		Center: center,
		Normal: n,
		Radius: radius,
		Right:  right,
		Up:     up,
	}
}

// Hit intersects the disc's plane and checks the radius
func (d *Disc) Hit(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	denom := d.Normal.Dot(ray.Direction)
	if math.Abs(denom) < 1e-12 {
		return Hit{}, false
	}

	t := d.Normal.Dot(d.Center.Subtract(ray.Origin)) / denom
	if t <= tMin || t >= tMax {
		return Hit{}, false
	}

	hitPoint := ray.At(t)
	if hitPoint.Subtract(d.Center).LengthSquared() > d.Radius*d.Radius {
		return Hit{}, false
	}
	return Hit{T: t, Point: hitPoint, Normal: d.Normal}, true
}

// BoundingBox returns the box around the disc's rim
func (d *Disc) BoundingBox() core.AABB {
	// Extent of the rim along each axis is r·sqrt(1 - n_i²)
	extent := core.NewVec3(
		d.Radius*math.Sqrt(math.Max(0, 1-d.Normal.X*d.Normal.X)),
		d.Radius*math.Sqrt(math.Max(0, 1-d.Normal.Y*d.Normal.Y)),
		d.Radius*math.Sqrt(math.Max(0, 1-d.Normal.Z*d.Normal.Z)),
	)
	pad := core.NewVec3(1e-4, 1e-4, 1e-4)
	extent = extent.Add(pad)
	return core.NewAABB(d.Center.Subtract(extent), d.Center.Add(extent))
}

// Area returns the surface area
func (d *Disc) Area() float64 {
	return math.Pi * d.Radius * d.Radius
}

// Sample picks a uniformly distributed point on the disc
func (d *Disc) Sample(u core.Vec2) (core.Vec3, core.Vec3) {
	p := core.SamplePointInUnitDisk(u)
	point := d.Center.
		Add(d.Right.Multiply(p.X * d.Radius)).
		Add(d.Up.Multiply(p.Y * d.Radius))
	return point, d.Normal
}

package geometry

import (
	"github.com/df07/go-bdpt/pkg/core"
)

// Box represents a rectangular box made up of 6 outward-facing quads with
// optional rotation about its center
type Box struct {
	Center   core.Vec3 // Center point of the box
	Size     core.Vec3 // Half-extents along each axis
	Rotation core.Vec3 // Rotation angles in radians (X, Y, Z)
	faces    [6]*Quad
	bbox     core.AABB
	area     float64
}

// NewBox creates a box. Size holds half-extents, so a size of (1,1,1)
// creates a 2x2x2 box. Rotation is applied about X, Y, then Z.
func NewBox(center, size, rotation core.Vec3) *Box {
	box := &Box{
		Center:   center,
		Size:     size,
		Rotation: rotation,
	}
	box.generateFaces()
	return box
}

// NewAxisAlignedBox creates a box spanning the two corners
func NewAxisAlignedBox(lo, hi core.Vec3) *Box {
	return NewBox(lo.Add(hi).Multiply(0.5), hi.Subtract(lo).Multiply(0.5), core.Vec3{})
}

func (b *Box) generateFaces() {
	corners := [8]core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}
	for i := range corners {
		scaled := core.NewVec3(corners[i].X*b.Size.X, corners[i].Y*b.Size.Y, corners[i].Z*b.Size.Z)
		corners[i] = scaled.Rotate(b.Rotation).Add(b.Center)
	}

	// corner, u, v with u × v pointing out of the box
	faces := [6][3]int{
		{4, 5, 7}, // +z
		{1, 0, 2}, // -z
		{5, 1, 6}, // +x
		{0, 4, 3}, // -x
		{3, 7, 2}, // +y
		{4, 0, 5}, // -y
	}
	b.area = 0
	for i, f := range faces {
		origin := corners[f[0]]
		b.faces[i] = NewQuad(origin, corners[f[1]].Subtract(origin), corners[f[2]].Subtract(origin))
		b.area += b.faces[i].Area()
	}

	b.bbox = core.NewAABBFromPoints(corners[:]...)
}

// Hit returns the closest face hit
func (b *Box) Hit(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	var closest Hit
	found := false
	for _, face := range b.faces {
		if hit, ok := face.Hit(ray, tMin, tMax); ok {
			tMax = hit.T
			closest = hit
			found = true
		}
	}
	return closest, found
}

// BoundingBox returns the axis-aligned bounding box of the rotated corners
func (b *Box) BoundingBox() core.AABB {
	return b.bbox
}

// Area returns the total surface area of the six faces
func (b *Box) Area() float64 {
	return b.area
}

// Sample picks a face in proportion to its area, then a uniform point on it
func (b *Box) Sample(u core.Vec2) (core.Vec3, core.Vec3) {
	target := u.X * b.area
	for i, face := range b.faces {
		a := face.Area()
		if target < a || i == len(b.faces)-1 {
			// Reuse the leftover fraction of u.X on the chosen face
			return face.Sample(core.NewVec2(min(target/a, 1), u.Y))
		}
		target -= a
	}
	return core.Vec3{}, core.Vec3{}
}

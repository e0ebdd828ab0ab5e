package geometry

import "github.com/df07/go-bdpt/pkg/core"

// Hit is a ray-shape intersection. Normal is the outward geometric normal,
// it is never flipped toward the ray.
type Hit struct {
	T      float64
	Point  core.Vec3
	Normal core.Vec3
}

// Shape interface for objects that can be hit by rays and sampled by area
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (Hit, bool)
	BoundingBox() core.AABB
	Area() float64
	// Sample picks a point uniformly by area
	Sample(u core.Vec2) (point, normal core.Vec3)
}

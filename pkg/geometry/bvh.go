package geometry

import (
	"sort"

	"github.com/df07/go-bdpt/pkg/core"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Primitives  []*Primitive // Leaf contents (nil for internal nodes)
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection
type BVH struct {
	Root *BVHNode
}

// NewBVH constructs a BVH from a slice of primitives
func NewBVH(primitives []*Primitive) *BVH {
	if len(primitives) == 0 {
		return &BVH{Root: nil}
	}

	// Sorting happens in place, keep the caller's slice intact
	primitivesCopy := make([]*Primitive, len(primitives))
	copy(primitivesCopy, primitives)

	return &BVH{Root: buildBVH(primitivesCopy)}
}

// Leaf threshold: if we have this many or fewer primitives, store them in a leaf node
const leafThreshold = 8

// buildBVH recursively builds the BVH with a median split along the longest axis
func buildBVH(primitives []*Primitive) *BVHNode {
	boundingBox := primitives[0].BoundingBox()
	for _, p := range primitives[1:] {
		boundingBox = boundingBox.Union(p.BoundingBox())
	}

	if len(primitives) <= leafThreshold {
		return &BVHNode{BoundingBox: boundingBox, Primitives: primitives}
	}

	axis := boundingBox.LongestAxis()
	sort.Slice(primitives, func(i, j int) bool {
		return primitives[i].BoundingBox().Center().Component(axis) <
			primitives[j].BoundingBox().Center().Component(axis)
	})

	mid := len(primitives) / 2
	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(primitives[:mid]),
		Right:       buildBVH(primitives[mid:]),
	}
}

// Bounds returns the bounds of everything in the hierarchy
func (bvh *BVH) Bounds() core.AABB {
	if bvh.Root == nil {
		return core.AABB{}
	}
	return bvh.Root.BoundingBox
}

// Hit finds the closest primitive hit in (tMin, tMax)
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (*core.SurfaceInteraction, bool) {
	if bvh.Root == nil {
		return nil, false
	}
	return bvh.hitNode(bvh.Root, ray, tMin, tMax)
}

// hitNode recursively tests ray intersection with BVH nodes
func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64) (*core.SurfaceInteraction, bool) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil, false
	}

	var closestHit *core.SurfaceInteraction
	hitAnything := false
	closestSoFar := tMax

	if node.Primitives != nil {
		for _, p := range node.Primitives {
			if hit, isHit := p.Intersect(ray, tMin, closestSoFar); isHit {
				hitAnything = true
				closestSoFar = hit.T
				closestHit = hit
			}
		}
		return closestHit, hitAnything
	}

	for _, child := range []*BVHNode{node.Left, node.Right} {
		if child == nil {
			continue
		}
		if hit, isHit := bvh.hitNode(child, ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}

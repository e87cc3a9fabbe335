package common

import "github.com/chewxy/math32"

// Bounds is an axis-aligned bounding box in world space.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// NewBounds creates Bounds from a center point and half-extents.
//
// Parameters:
//   - center: the world-space center of the box
//   - halfExtents: half of the box size along each axis
//
// Returns:
//   - Bounds: the resulting box
func NewBounds(center, halfExtents [3]float32) Bounds {
	return Bounds{
		Min: [3]float32{center[0] - halfExtents[0], center[1] - halfExtents[1], center[2] - halfExtents[2]},
		Max: [3]float32{center[0] + halfExtents[0], center[1] + halfExtents[1], center[2] + halfExtents[2]},
	}
}

// Size returns the extent of the box along each axis.
//
// Returns:
//   - [3]float32: Max - Min per axis
func (b Bounds) Size() [3]float32 {
	return [3]float32{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// IntersectsSphere reports whether a sphere touches the box.
//
// Parameters:
//   - center: sphere center
//   - radius: sphere radius
//
// Returns:
//   - bool: true if the squared distance from the center to the box is within radius²
func (b Bounds) IntersectsSphere(center [3]float32, radius float32) bool {
	var distSq float32
	for i := range 3 {
		v := math32.Max(b.Min[i], math32.Min(center[i], b.Max[i]))
		d := center[i] - v
		distSq += d * d
	}
	return distSq <= radius*radius
}

// Clip returns the intersection of b with other. An empty intersection yields a
// box whose Min exceeds its Max on at least one axis.
//
// Parameters:
//   - other: the box to intersect with
//
// Returns:
//   - Bounds: the overlapping region
func (b Bounds) Clip(other Bounds) Bounds {
	var out Bounds
	for i := range 3 {
		out.Min[i] = math32.Max(b.Min[i], other.Min[i])
		out.Max[i] = math32.Min(b.Max[i], other.Max[i])
	}
	return out
}

// Empty reports whether the box has no volume on some axis.
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

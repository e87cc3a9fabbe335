// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// Rect is a normalized viewport or scissor rectangle. X and Y are the lower-left
// corner, Z and W the width and height, all in the 0..1 range of the render target.
type Rect struct {
	X, Y, Z, W float32
}

// FullRect covers the whole render target and is the default camera viewport.
var FullRect = Rect{X: 0, Y: 0, Z: 1, W: 1}

// Equals reports whether two rectangles are component-wise identical.
// Camera stacking treats any difference, however small, as a new stack.
//
// Parameters:
//   - other: the rectangle to compare against
//
// Returns:
//   - bool: true if all four components match exactly
func (r Rect) Equals(other Rect) bool {
	return r.X == other.X && r.Y == other.Y && r.Z == other.Z && r.W == other.W
}

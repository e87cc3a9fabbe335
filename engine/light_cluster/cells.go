package light_cluster

import (
	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/chewxy/math32"
)

// DefaultCellsX, DefaultCellsY and DefaultCellsZ are the default grid resolution.
// The vertical axis gets fewer cells since scenes are usually wider than tall.
const (
	DefaultCellsX = 10
	DefaultCellsY = 3
	DefaultCellsZ = 10
)

// DefaultMaxCellLightCount is the maximum number of light indices stored per cell.
// If more lights overlap a cell, excess lights are silently dropped.
const DefaultMaxCellLightCount = 16

// cellRange computes the inclusive range of cells overlapped by a light sphere,
// clamped to the grid.
//
// Parameters:
//   - pos: sphere center
//   - radius: sphere radius
//   - cellSize: world-space size of a cell per axis
//
// Returns:
//   - lo: lowest overlapped cell per axis
//   - hi: highest overlapped cell per axis
func (c *worldClusters) cellRange(pos [3]float32, radius float32, cellSize [3]float32) (lo, hi [3]int) {
	for i := range 3 {
		lo[i] = clampCell(int(math32.Floor((pos[i]-radius-c.bounds.Min[i])/cellSize[i])), c.cells[i])
		hi[i] = clampCell(int(math32.Floor((pos[i]+radius-c.bounds.Min[i])/cellSize[i])), c.cells[i])
	}
	return
}

// cellBounds returns the world-space box of the cell at (x, y, z).
func (c *worldClusters) cellBounds(x, y, z int, cellSize [3]float32) common.Bounds {
	cell := [3]int{x, y, z}
	var b common.Bounds
	for i := range 3 {
		b.Min[i] = c.bounds.Min[i] + float32(cell[i])*cellSize[i]
		b.Max[i] = b.Min[i] + cellSize[i]
	}
	return b
}

// clampCell clamps a cell coordinate into [0, n-1].
func clampCell(v, n int) int {
	return max(0, min(v, n-1))
}

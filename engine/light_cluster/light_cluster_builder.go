package light_cluster

import "github.com/Carmen-Shannon/oxy-compose/common"

// WorldClustersBuilderOption is a functional option applied to WorldClusters during construction.
type WorldClustersBuilderOption func(*worldClusters)

// WithName sets the debug name used for GPU buffer labels.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - WorldClustersBuilderOption: a function that applies the name option
func WithName(name string) WorldClustersBuilderOption {
	return func(c *worldClusters) {
		c.name = name
	}
}

// WithCells sets the grid resolution. Values below 1 are raised to 1.
//
// Parameters:
//   - x, y, z: number of cells per axis
//
// Returns:
//   - WorldClustersBuilderOption: a function that applies the cells option
func WithCells(x, y, z int) WorldClustersBuilderOption {
	return func(c *worldClusters) {
		c.cells = [3]int{max(x, 1), max(y, 1), max(z, 1)}
	}
}

// WithMaxCellLightCount sets how many light indices each cell stores.
//
// Parameters:
//   - n: lights per cell (minimum 1)
//
// Returns:
//   - WorldClustersBuilderOption: a function that applies the per-cell cap
func WithMaxCellLightCount(n int) WorldClustersBuilderOption {
	return func(c *worldClusters) {
		c.maxCellLightCount = max(n, 1)
	}
}

// WithBounds clips the grid to fixed world-space bounds instead of following
// the lights alone.
//
// Parameters:
//   - b: the bounds
//
// Returns:
//   - WorldClustersBuilderOption: a function that applies the bounds option
func WithBounds(b common.Bounds) WorldClustersBuilderOption {
	return func(c *worldClusters) {
		c.fixedBounds = &b
	}
}

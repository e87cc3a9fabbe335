package composition

import "strings"

// UpdateFlags is the bitmask returned by UpdateComposition. Each bit reports that
// the matching aggregate was rebuilt, so downstream caches keyed on it can be
// invalidated.
type UpdateFlags uint32

const (
	// UpdatedBatches is set when the global batch list was rebuilt.
	UpdatedBatches UpdateFlags = 1 << iota
	// UpdatedBlend is set when at least one layer repartitioned its batches by blend state.
	UpdatedBlend
	// UpdatedLights is set when the global light list was rebuilt.
	UpdatedLights
	// UpdatedCameras is set when the camera list and render actions were rebuilt.
	UpdatedCameras
)

var flagNames = [...]struct {
	flag UpdateFlags
	name string
}{
	{UpdatedBatches, "batches"},
	{UpdatedBlend, "blend"},
	{UpdatedLights, "lights"},
	{UpdatedCameras, "cameras"},
}

// Has reports whether every bit of flag is set.
//
// Parameters:
//   - flag: the bits to test
//
// Returns:
//   - bool: true if all bits are set
func (f UpdateFlags) Has(flag UpdateFlags) bool {
	return f&flag == flag
}

// String returns the set bits joined by "|", or "none".
func (f UpdateFlags) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	for _, n := range flagNames {
		if f.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// dirtyState holds the composition-level staleness of each derived aggregate.
// Layer flags are folded into it at the start of every update and each rebuild
// clears its own field.
type dirtyState struct {
	batches bool
	lights  bool
	cameras bool
}

// markAll flags every aggregate stale. Structural mutations call it.
func (d *dirtyState) markAll() {
	d.batches = true
	d.lights = true
	d.cameras = true
}

// any reports whether some aggregate is stale.
func (d dirtyState) any() bool {
	return d.batches || d.lights || d.cameras
}

package composition

import (
	"runtime"
	"slices"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/layer"
	"github.com/Carmen-Shannon/oxy-compose/engine/light"
	"github.com/Carmen-Shannon/oxy-compose/engine/light_cluster"
	"github.com/Carmen-Shannon/oxy-compose/engine/profiler"
	"github.com/cogentcore/webgpu/wgpu"
)

// compositionImpl is the implementation of the Composition interface.
type compositionImpl struct {
	name         string
	depthLayerID int

	layerList        []layer.Layer
	subLayerList     []bool
	subLayerEnabled  []bool
	opaqueOrder      map[int]int
	transparentOrder map[int]int

	dirty dirtyState

	batches  []layer.Batch
	batchSet map[layer.Batch]struct{}

	lights               []light.Light
	lightsMap            map[light.Light]int
	lightCompositionData []*LightCompositionData
	splitLights          [light.LightTypeCount][]light.Light
	layerLights          map[layer.Layer]*layerLightData

	cameras             []camera.Camera
	cameraLayersScratch []layer.Layer

	renderActions     []*RenderAction
	renderActionCount int

	clusterFactory     light_cluster.Factory
	worldClusters      []light_cluster.WorldClusters
	clusterOwners      []layer.Layer
	emptyWorldClusters light_cluster.WorldClusters
	clusterWorkers     int
	clusterPool        worker.DynamicWorkerPool

	observers []Observer
	profiler  *profiler.Profiler
}

// Composition orders render layers and derives, once per frame, the sequence of
// render actions a renderer executes.
//
// Every layer contributes up to two sub-layers, one opaque and one transparent,
// to an ordered list. Structural edits go through the mutation methods and mark
// the composition dirty. UpdateComposition folds in the dirty flags of the
// layers, rebuilds only the stale aggregates (batches, lights, shadow casters,
// cameras, render actions, light clusters) and reports what changed.
//
// A Composition is not safe for concurrent use. Mutations must happen between
// frames, never during UpdateComposition.
type Composition interface {
	// Name returns the composition's name.
	Name() string

	// PushLayer appends both sub-layers of l, opaque then transparent.
	// Logs a warning and does nothing if any sub-layer of l is already present.
	//
	// Parameters:
	//   - l: the layer to add
	PushLayer(l layer.Layer)

	// InsertLayer inserts both sub-layers of l at index, opaque then transparent.
	// The index is clamped to the list bounds. Logs a warning and does nothing if
	// any sub-layer of l is already present.
	//
	// Parameters:
	//   - l: the layer to add
	//   - index: the position of the opaque sub-layer
	InsertLayer(l layer.Layer, index int)

	// RemoveLayer removes every sub-layer of l.
	// Logs a warning and does nothing if l is not present.
	//
	// Parameters:
	//   - l: the layer to remove
	RemoveLayer(l layer.Layer)

	// PushOpaque appends the opaque sub-layer of l.
	//
	// Parameters:
	//   - l: the layer
	PushOpaque(l layer.Layer)

	// InsertOpaque inserts the opaque sub-layer of l at index.
	//
	// Parameters:
	//   - l: the layer
	//   - index: the position, clamped to the list bounds
	InsertOpaque(l layer.Layer, index int)

	// RemoveOpaque removes the opaque sub-layer of l.
	//
	// Parameters:
	//   - l: the layer
	RemoveOpaque(l layer.Layer)

	// PushTransparent appends the transparent sub-layer of l.
	//
	// Parameters:
	//   - l: the layer
	PushTransparent(l layer.Layer)

	// InsertTransparent inserts the transparent sub-layer of l at index.
	//
	// Parameters:
	//   - l: the layer
	//   - index: the position, clamped to the list bounds
	InsertTransparent(l layer.Layer, index int)

	// RemoveTransparent removes the transparent sub-layer of l.
	//
	// Parameters:
	//   - l: the layer
	RemoveTransparent(l layer.Layer)

	// GetOpaqueIndex returns the position of l's opaque sub-layer.
	//
	// Parameters:
	//   - l: the layer
	//
	// Returns:
	//   - int: the index, or -1 if absent
	GetOpaqueIndex(l layer.Layer) int

	// GetTransparentIndex returns the position of l's transparent sub-layer.
	//
	// Parameters:
	//   - l: the layer
	//
	// Returns:
	//   - int: the index, or -1 if absent
	GetTransparentIndex(l layer.Layer) int

	// SortOpaqueLayers compares two groups of layer ids by the highest opaque
	// position present in each. A group with no id in the composition sorts after
	// one with any.
	//
	// Parameters:
	//   - idsA: the first group
	//   - idsB: the second group
	//
	// Returns:
	//   - int: negative if A draws after B, positive if B draws after A, 0 if tied
	SortOpaqueLayers(idsA, idsB []int) int

	// SortTransparentLayers is SortOpaqueLayers for transparent positions.
	//
	// Parameters:
	//   - idsA: the first group
	//   - idsB: the second group
	//
	// Returns:
	//   - int: negative if A draws after B, positive if B draws after A, 0 if tied
	SortTransparentLayers(idsA, idsB []int) int

	// SetSubLayerEnabled enables or disables the sub-layer at index independently
	// of its layer's own enabled flag.
	//
	// Parameters:
	//   - index: the sub-layer position
	//   - enabled: true to enable
	SetSubLayerEnabled(index int, enabled bool)

	// SubLayerEnabled returns the enabled entry of the sub-layer at index, or
	// false when out of range.
	SubLayerEnabled(index int) bool

	// GetLayerByID returns the first layer with the given id, or nil.
	GetLayerByID(id int) layer.Layer

	// GetLayerByName returns the first layer with the given name, or nil.
	GetLayerByName(name string) layer.Layer

	// LayerList returns a copy of the ordered sub-layer list. Each layer appears
	// once per sub-layer.
	LayerList() []layer.Layer

	// SubLayerList returns a copy of the transparency tags, parallel to LayerList.
	SubLayerList() []bool

	// SubLayerEnabledList returns a copy of the enabled entries, parallel to LayerList.
	SubLayerEnabledList() []bool

	// Batches returns the deduplicated batches of every non pass-through layer,
	// as of the last update.
	Batches() []layer.Batch

	// Lights returns the deduplicated lights, in index order, as of the last update.
	Lights() []light.Light

	// LightIndex returns the index of lt in Lights, or -1.
	LightIndex(lt light.Light) int

	// SplitLights returns the enabled lights of one type, in index order.
	SplitLights(lightType light.LightType) []light.Light

	// LightCompositionData returns the per-light record at index, or nil.
	LightCompositionData(index int) *LightCompositionData

	// Cameras returns the enabled cameras in render order, as of the last update.
	Cameras() []camera.Camera

	// RenderActions returns the live render actions, as of the last update.
	RenderActions() []*RenderAction

	// WorldClusters returns the live light clusters, excluding the empty one.
	WorldClusters() []light_cluster.WorldClusters

	// ClusterOwner returns the layer whose lights the live cluster at index bins.
	ClusterOwner(index int) layer.Layer

	// EmptyWorldClusters returns the shared empty cluster, or nil before it is needed.
	EmptyWorldClusters() light_cluster.WorldClusters

	// UpdateComposition rebuilds every stale aggregate and returns which ones
	// changed. Calling it again without mutations returns 0 and leaves the
	// render actions untouched.
	//
	// Parameters:
	//   - device: the device handed to the light cluster factory, may be nil
	//   - clusteredLightingEnabled: whether light clusters are allocated
	//
	// Returns:
	//   - UpdateFlags: the rebuilt aggregates
	//   - error: wrapped light cluster construction error
	UpdateComposition(device *wgpu.Device, clusteredLightingEnabled bool) (UpdateFlags, error)

	// PrepareClusters bins the lights of every live cluster on the worker pool,
	// then uploads the clusters serially on the calling goroutine.
	//
	// Returns:
	//   - error: joined cluster update errors
	PrepareClusters() error

	// LogRenderActions logs one debug record per live render action.
	LogRenderActions()

	// AddObserver registers an observer.
	AddObserver(o Observer)

	// RemoveObserver unregisters an observer. Observers are compared with ==, so
	// o must be comparable.
	RemoveObserver(o Observer)

	// DestroyComposition destroys the light clusters, the empty cluster and the
	// render actions, and stops the worker pool.
	DestroyComposition()
}

var _ Composition = &compositionImpl{}

// NewComposition creates an empty Composition.
//
// Parameters:
//   - options: functional options to configure the composition
//
// Returns:
//   - Composition: the new composition
func NewComposition(options ...CompositionBuilderOption) Composition {
	c := &compositionImpl{
		name:             "Composition",
		depthLayerID:     common.LayerIDDepth,
		opaqueOrder:      make(map[int]int),
		transparentOrder: make(map[int]int),
		batchSet:         make(map[layer.Batch]struct{}),
		lightsMap:        make(map[light.Light]int),
		layerLights:      make(map[layer.Layer]*layerLightData),
		clusterFactory:   light_cluster.DefaultFactory(),
		clusterWorkers:   max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *compositionImpl) Name() string {
	return c.name
}

func (c *compositionImpl) GetLayerByID(id int) layer.Layer {
	for _, l := range c.layerList {
		if l.ID() == id {
			return l
		}
	}
	return nil
}

func (c *compositionImpl) GetLayerByName(name string) layer.Layer {
	for _, l := range c.layerList {
		if l.Name() == name {
			return l
		}
	}
	return nil
}

func (c *compositionImpl) LayerList() []layer.Layer {
	return slices.Clone(c.layerList)
}

func (c *compositionImpl) SubLayerList() []bool {
	return slices.Clone(c.subLayerList)
}

func (c *compositionImpl) SubLayerEnabledList() []bool {
	return slices.Clone(c.subLayerEnabled)
}

func (c *compositionImpl) Batches() []layer.Batch {
	return c.batches
}

// rebuildBatches collects the batches of every non pass-through layer, opaque
// then transparent, deduplicated in layer order.
func (c *compositionImpl) rebuildBatches() {
	clear(c.batches)
	c.batches = c.batches[:0]
	clear(c.batchSet)
	for _, l := range c.layerList {
		if !l.PassThrough() {
			c.addUniqueBatches(l.OpaqueBatches())
			c.addUniqueBatches(l.TransparentBatches())
		}
		l.ClearDirty()
	}
}

func (c *compositionImpl) addUniqueBatches(batches []layer.Batch) {
	for _, b := range batches {
		if _, ok := c.batchSet[b]; ok {
			continue
		}
		c.batchSet[b] = struct{}{}
		c.batches = append(c.batches, b)
	}
}

func (c *compositionImpl) DestroyComposition() {
	for _, wc := range c.worldClusters {
		wc.Destroy()
	}
	c.worldClusters = nil
	c.clusterOwners = nil

	if c.emptyWorldClusters != nil {
		c.emptyWorldClusters.Destroy()
		c.emptyWorldClusters = nil
	}

	for _, ra := range c.renderActions {
		ra.Destroy()
	}
	c.renderActions = nil
	c.renderActionCount = 0

	if c.clusterPool != nil {
		c.clusterPool.Stop()
		c.clusterPool = nil
	}
	c.dirty.markAll()
}

package composition

import (
	"github.com/Carmen-Shannon/oxy-compose/engine/light_cluster"
	"github.com/Carmen-Shannon/oxy-compose/engine/profiler"
)

// CompositionBuilderOption is a functional option applied to a Composition during construction.
type CompositionBuilderOption func(*compositionImpl)

// WithName sets the composition's name used in diagnostics.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - CompositionBuilderOption: a function that applies the name option
func WithName(name string) CompositionBuilderOption {
	return func(c *compositionImpl) {
		c.name = name
	}
}

// WithDepthLayerID sets the id of the depth layer. Actions of the depth layer
// keep the layer's own render target and are skipped when camera render targets
// are propagated backward. Defaults to common.LayerIDDepth.
//
// Parameters:
//   - id: the depth layer id
//
// Returns:
//   - CompositionBuilderOption: a function that applies the depth layer option
func WithDepthLayerID(id int) CompositionBuilderOption {
	return func(c *compositionImpl) {
		c.depthLayerID = id
	}
}

// WithClusterFactory sets the factory used to build light clusters.
// Defaults to light_cluster.DefaultFactory().
//
// Parameters:
//   - factory: the cluster factory
//
// Returns:
//   - CompositionBuilderOption: a function that applies the factory option
func WithClusterFactory(factory light_cluster.Factory) CompositionBuilderOption {
	return func(c *compositionImpl) {
		if factory != nil {
			c.clusterFactory = factory
		}
	}
}

// WithClusterWorkers sets how many workers PrepareClusters bins clusters on.
// Defaults to runtime.NumCPU()-1, minimum 1.
//
// Parameters:
//   - n: worker count
//
// Returns:
//   - CompositionBuilderOption: a function that applies the worker count option
func WithClusterWorkers(n int) CompositionBuilderOption {
	return func(c *compositionImpl) {
		c.clusterWorkers = max(n, 1)
	}
}

// WithObserver registers an observer at construction.
//
// Parameters:
//   - o: the observer
//
// Returns:
//   - CompositionBuilderOption: a function that applies the observer option
func WithObserver(o Observer) CompositionBuilderOption {
	return func(c *compositionImpl) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithProfiler attaches a profiler that records every UpdateComposition call.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - CompositionBuilderOption: a function that applies the profiler option
func WithProfiler(p *profiler.Profiler) CompositionBuilderOption {
	return func(c *compositionImpl) {
		c.profiler = p
	}
}

package composition

import "github.com/Carmen-Shannon/oxy-compose/engine/layer"

// Observer is notified when a layer enters or leaves a composition. OnLayerAdded
// fires when the first sub-layer of a layer is added and OnLayerRemoved when the
// last one is removed.
type Observer interface {
	OnLayerAdded(l layer.Layer)
	OnLayerRemoved(l layer.Layer)
}

// ObserverFuncs adapts a pair of functions to Observer. Nil fields are skipped.
// Register it by pointer so RemoveObserver can find it.
type ObserverFuncs struct {
	Added   func(l layer.Layer)
	Removed func(l layer.Layer)
}

var _ Observer = &ObserverFuncs{}

func (o *ObserverFuncs) OnLayerAdded(l layer.Layer) {
	if o.Added != nil {
		o.Added(l)
	}
}

func (o *ObserverFuncs) OnLayerRemoved(l layer.Layer) {
	if o.Removed != nil {
		o.Removed(l)
	}
}

func (c *compositionImpl) AddObserver(o Observer) {
	if o == nil {
		return
	}
	c.observers = append(c.observers, o)
}

func (c *compositionImpl) RemoveObserver(o Observer) {
	for i, existing := range c.observers {
		if existing == o {
			c.observers = append(c.observers[:i], c.observers[i+1:]...)
			return
		}
	}
}

func (c *compositionImpl) notifyAdded(l layer.Layer) {
	for _, o := range c.observers {
		o.OnLayerAdded(l)
	}
}

func (c *compositionImpl) notifyRemoved(l layer.Layer) {
	for _, o := range c.observers {
		o.OnLayerRemoved(l)
	}
}

package composition

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/layer"
)

func (c *compositionImpl) PushLayer(l layer.Layer) {
	if slices.Contains(c.layerList, l) {
		common.Logger().Warn("composition: PushLayer ignored, layer already added", "layer", l.Name(), "id", l.ID())
		return
	}
	c.layerList = append(c.layerList, l, l)
	c.subLayerList = append(c.subLayerList, false, true)
	c.subLayerEnabled = append(c.subLayerEnabled, true, true)
	c.updateOrder(len(c.layerList)-2, len(c.layerList)-1)
	c.dirty.markAll()
	c.notifyAdded(l)
}

func (c *compositionImpl) InsertLayer(l layer.Layer, index int) {
	if slices.Contains(c.layerList, l) {
		common.Logger().Warn("composition: InsertLayer ignored, layer already added", "layer", l.Name(), "id", l.ID())
		return
	}
	index = clampIndex(index, len(c.layerList))
	c.layerList = slices.Insert(c.layerList, index, l, l)
	c.subLayerList = slices.Insert(c.subLayerList, index, false, true)
	c.subLayerEnabled = slices.Insert(c.subLayerEnabled, index, true, true)
	c.updateOrder(index, len(c.layerList)-1)
	c.dirty.markAll()
	c.notifyAdded(l)
}

func (c *compositionImpl) RemoveLayer(l layer.Layer) {
	if !slices.Contains(c.layerList, l) {
		common.Logger().Warn("composition: RemoveLayer ignored, layer not present", "layer", l.Name(), "id", l.ID())
		return
	}
	for i := len(c.layerList) - 1; i >= 0; i-- {
		if c.layerList[i] == l {
			c.deleteEntry(i)
		}
	}
	delete(c.opaqueOrder, l.ID())
	delete(c.transparentOrder, l.ID())
	c.updateOrder(0, len(c.layerList)-1)
	c.dirty.markAll()
	c.notifyRemoved(l)
}

func (c *compositionImpl) PushOpaque(l layer.Layer) {
	c.pushSubLayer(l, false)
}

func (c *compositionImpl) PushTransparent(l layer.Layer) {
	c.pushSubLayer(l, true)
}

func (c *compositionImpl) InsertOpaque(l layer.Layer, index int) {
	c.insertSubLayer(l, false, index)
}

func (c *compositionImpl) InsertTransparent(l layer.Layer, index int) {
	c.insertSubLayer(l, true, index)
}

func (c *compositionImpl) RemoveOpaque(l layer.Layer) {
	c.removeSubLayer(l, false)
}

func (c *compositionImpl) RemoveTransparent(l layer.Layer) {
	c.removeSubLayer(l, true)
}

func (c *compositionImpl) pushSubLayer(l layer.Layer, transparent bool) {
	c.insertSubLayer(l, transparent, len(c.layerList))
}

func (c *compositionImpl) insertSubLayer(l layer.Layer, transparent bool, index int) {
	if c.subLayerIndex(l, transparent) >= 0 {
		common.Logger().Warn("composition: sub-layer already added", "layer", l.Name(), "id", l.ID(), "transparent", transparent)
		return
	}
	isNew := !slices.Contains(c.layerList, l)
	index = clampIndex(index, len(c.layerList))
	c.layerList = slices.Insert(c.layerList, index, l)
	c.subLayerList = slices.Insert(c.subLayerList, index, transparent)
	c.subLayerEnabled = slices.Insert(c.subLayerEnabled, index, true)
	c.updateOrder(index, len(c.layerList)-1)
	c.dirty.markAll()
	if isNew {
		c.notifyAdded(l)
	}
}

func (c *compositionImpl) removeSubLayer(l layer.Layer, transparent bool) {
	i := c.subLayerIndex(l, transparent)
	if i < 0 {
		common.Logger().Warn("composition: sub-layer not present", "layer", l.Name(), "id", l.ID(), "transparent", transparent)
		return
	}
	c.deleteEntry(i)
	if transparent {
		delete(c.transparentOrder, l.ID())
	} else {
		delete(c.opaqueOrder, l.ID())
	}
	c.updateOrder(i, len(c.layerList)-1)
	c.dirty.markAll()
	if !slices.Contains(c.layerList, l) {
		c.notifyRemoved(l)
	}
}

// deleteEntry removes position i from the three parallel sequences.
func (c *compositionImpl) deleteEntry(i int) {
	c.layerList = slices.Delete(c.layerList, i, i+1)
	c.subLayerList = slices.Delete(c.subLayerList, i, i+1)
	c.subLayerEnabled = slices.Delete(c.subLayerEnabled, i, i+1)
}

func (c *compositionImpl) SetSubLayerEnabled(index int, enabled bool) {
	if index < 0 || index >= len(c.subLayerEnabled) {
		common.Logger().Warn("composition: SetSubLayerEnabled index out of range", "index", index, "len", len(c.subLayerEnabled))
		return
	}
	if c.subLayerEnabled[index] == enabled {
		return
	}
	c.subLayerEnabled[index] = enabled
	c.dirty.cameras = true
}

func (c *compositionImpl) SubLayerEnabled(index int) bool {
	if index < 0 || index >= len(c.subLayerEnabled) {
		return false
	}
	return c.subLayerEnabled[index]
}

// clampIndex clamps index into [0, n].
func clampIndex(index, n int) int {
	return max(0, min(index, n))
}

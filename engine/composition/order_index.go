package composition

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-compose/engine/layer"
)

// updateOrder refreshes both order maps for the entries in [start, end].
func (c *compositionImpl) updateOrder(start, end int) {
	end = min(end, len(c.layerList)-1)
	for i := max(start, 0); i <= end; i++ {
		if c.subLayerList[i] {
			c.transparentOrder[c.layerList[i].ID()] = i
		} else {
			c.opaqueOrder[c.layerList[i].ID()] = i
		}
	}
}

// subLayerIndex returns the position of l's sub-layer with the given tag. A layer
// appears at most twice, so the search continues past the first match when its
// tag differs.
func (c *compositionImpl) subLayerIndex(l layer.Layer, transparent bool) int {
	i := slices.Index(c.layerList, l)
	if i < 0 {
		return -1
	}
	if c.subLayerList[i] == transparent {
		return i
	}
	j := slices.Index(c.layerList[i+1:], l)
	if j < 0 {
		return -1
	}
	i += j + 1
	if c.subLayerList[i] == transparent {
		return i
	}
	return -1
}

func (c *compositionImpl) GetOpaqueIndex(l layer.Layer) int {
	return c.subLayerIndex(l, false)
}

func (c *compositionImpl) GetTransparentIndex(l layer.Layer) int {
	return c.subLayerIndex(l, true)
}

func (c *compositionImpl) SortOpaqueLayers(idsA, idsB []int) int {
	return sortLayers(c.opaqueOrder, idsA, idsB)
}

func (c *compositionImpl) SortTransparentLayers(idsA, idsB []int) int {
	return sortLayers(c.transparentOrder, idsA, idsB)
}

// sortLayers compares two id lists by the highest order index present in each.
// A list with no id in order sorts after one that has any. The result is
// positive when B is drawn later than A.
func sortLayers(order map[int]int, idsA, idsB []int) int {
	topA := topOrder(order, idsA)
	topB := topOrder(order, idsB)
	switch {
	case topA == -1 && topB != -1:
		return 1
	case topB == -1 && topA != -1:
		return -1
	}
	return topB - topA
}

// topOrder returns the highest order index of ids, or -1 when none is present.
func topOrder(order map[int]int, ids []int) int {
	top := -1
	for _, id := range ids {
		if i, ok := order[id]; ok && i > top {
			top = i
		}
	}
	return top
}

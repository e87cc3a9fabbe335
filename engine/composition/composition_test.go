package composition

import (
	"bytes"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/layer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	idA = common.LayerIDUser + iota
	idB
	idC
	idD
	idE
	idMissing = 9999
)

func newBatches(name string) []layer.Batch {
	return []layer.Batch{
		layer.NewBatch(name+"-opaque", false, false),
		layer.NewBatch(name+"-transparent", true, false),
	}
}

func newTestLayer(id int, name string, options ...layer.LayerBuilderOption) layer.Layer {
	opts := append([]layer.LayerBuilderOption{layer.WithBatches(newBatches(name)...)}, options...)
	return layer.NewLayer(id, name, opts...)
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	common.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { common.SetLogger(nil) })
	return &buf
}

// assertStructure checks the parallel sequences and both order maps against
// the current layer list.
func assertStructure(t *testing.T, comp Composition) {
	t.Helper()
	c := comp.(*compositionImpl)
	require.Len(t, c.subLayerList, len(c.layerList))
	require.Len(t, c.subLayerEnabled, len(c.layerList))

	type key struct {
		l           layer.Layer
		transparent bool
	}
	seen := make(map[key]struct{})
	opaque, transparent := 0, 0
	for i, l := range c.layerList {
		k := key{l, c.subLayerList[i]}
		_, dup := seen[k]
		require.False(t, dup, "sub-layer %s/%v present twice", l.Name(), c.subLayerList[i])
		seen[k] = struct{}{}

		if c.subLayerList[i] {
			transparent++
			assert.Equal(t, i, c.transparentOrder[l.ID()])
			assert.Equal(t, i, comp.GetTransparentIndex(l))
		} else {
			opaque++
			assert.Equal(t, i, c.opaqueOrder[l.ID()])
			assert.Equal(t, i, comp.GetOpaqueIndex(l))
		}
	}
	assert.Len(t, c.opaqueOrder, opaque)
	assert.Len(t, c.transparentOrder, transparent)
}

func TestPushLayerBasicComposition(t *testing.T) {
	a := newTestLayer(idA, "A")
	b := newTestLayer(idB, "B")
	c := NewComposition()
	c.PushLayer(a)
	c.PushLayer(b)

	assert.Equal(t, []layer.Layer{a, a, b, b}, c.LayerList())
	assert.Equal(t, []bool{false, true, false, true}, c.SubLayerList())
	assert.Equal(t, []bool{true, true, true, true}, c.SubLayerEnabledList())
	assert.Equal(t, 0, c.GetOpaqueIndex(a))
	assert.Equal(t, 1, c.GetTransparentIndex(a))
	assert.Equal(t, 2, c.GetOpaqueIndex(b))
	assert.Equal(t, 3, c.GetTransparentIndex(b))
	assertStructure(t, c)
}

func TestDuplicateAddAndAbsentRemoveAreNoOps(t *testing.T) {
	logs := captureLogs(t)
	a := newTestLayer(idA, "A")
	b := newTestLayer(idB, "B")
	c := NewComposition()
	c.PushLayer(a)

	c.PushLayer(a)
	c.InsertLayer(a, 0)
	c.PushOpaque(a)
	c.InsertTransparent(a, 0)
	assert.Equal(t, []layer.Layer{a, a}, c.LayerList())
	assert.Contains(t, logs.String(), "already added")

	logs.Reset()
	c.RemoveLayer(b)
	c.RemoveOpaque(b)
	c.RemoveTransparent(b)
	assert.Equal(t, []layer.Layer{a, a}, c.LayerList())
	assert.Contains(t, logs.String(), "not present")
	assert.Contains(t, logs.String(), "layer=B")
	assertStructure(t, c)
}

func TestInsertLayerClampsAndRenumbers(t *testing.T) {
	a := newTestLayer(idA, "A")
	b := newTestLayer(idB, "B")
	x := newTestLayer(idC, "C")
	d := newTestLayer(idD, "D")
	e := newTestLayer(idE, "E")
	c := NewComposition()
	c.PushLayer(a)
	c.PushLayer(b)

	c.InsertLayer(x, 2)
	assert.Equal(t, []layer.Layer{a, a, x, x, b, b}, c.LayerList())
	assert.Equal(t, 4, c.GetOpaqueIndex(b))
	assert.Equal(t, 5, c.GetTransparentIndex(b))

	c.InsertLayer(d, 100)
	assert.Equal(t, 6, c.GetOpaqueIndex(d))

	c.InsertLayer(e, -5)
	assert.Equal(t, 0, c.GetOpaqueIndex(e))
	assert.Equal(t, 1, c.GetTransparentIndex(e))
	assert.Equal(t, 2, c.GetOpaqueIndex(a))
	assertStructure(t, c)
}

func TestRemoveLayerRenumbersOrderMaps(t *testing.T) {
	a := newTestLayer(idA, "A")
	b := newTestLayer(idB, "B")
	x := newTestLayer(idC, "C")
	c := NewComposition()
	c.PushLayer(a)
	c.PushLayer(b)
	c.PushLayer(x)

	c.RemoveLayer(a)
	assert.Equal(t, 0, c.GetOpaqueIndex(b))
	assert.Equal(t, 2, c.GetOpaqueIndex(x))
	assert.Equal(t, -1, c.GetOpaqueIndex(a))
	assert.Equal(t, -1, c.GetTransparentIndex(a))

	impl := c.(*compositionImpl)
	assert.NotContains(t, impl.opaqueOrder, idA)
	assert.NotContains(t, impl.transparentOrder, idA)
	assertStructure(t, c)
}

func TestSubLayerOperations(t *testing.T) {
	a := newTestLayer(idA, "A")
	b := newTestLayer(idB, "B")
	c := NewComposition()

	c.PushOpaque(a)
	c.PushTransparent(b)
	c.PushTransparent(a)
	assert.Equal(t, []layer.Layer{a, b, a}, c.LayerList())
	assert.Equal(t, []bool{false, true, true}, c.SubLayerList())
	assert.Equal(t, 2, c.GetTransparentIndex(a))
	assert.Equal(t, -1, c.GetOpaqueIndex(b))
	assertStructure(t, c)

	c.InsertOpaque(b, 0)
	assert.Equal(t, []layer.Layer{b, a, b, a}, c.LayerList())
	assert.Equal(t, []bool{false, false, true, true}, c.SubLayerList())
	assertStructure(t, c)

	c.RemoveTransparent(b)
	assert.Equal(t, []layer.Layer{b, a, a}, c.LayerList())
	assert.Equal(t, -1, c.GetTransparentIndex(b))
	assert.Equal(t, 0, c.GetOpaqueIndex(b))
	assertStructure(t, c)

	c.RemoveOpaque(a)
	assert.Equal(t, []layer.Layer{b, a}, c.LayerList())
	assert.Equal(t, 1, c.GetTransparentIndex(a))
	assertStructure(t, c)
}

func TestObserversNotifiedOnFirstAddAndLastRemove(t *testing.T) {
	var added, removed []string
	obs := &ObserverFuncs{
		Added:   func(l layer.Layer) { added = append(added, l.Name()) },
		Removed: func(l layer.Layer) { removed = append(removed, l.Name()) },
	}
	a := newTestLayer(idA, "A")
	b := newTestLayer(idB, "B")
	c := NewComposition(WithObserver(obs))

	c.PushOpaque(a)
	c.PushTransparent(a)
	assert.Equal(t, []string{"A"}, added)

	c.RemoveOpaque(a)
	assert.Empty(t, removed)
	c.RemoveTransparent(a)
	assert.Equal(t, []string{"A"}, removed)

	c.PushLayer(b)
	c.RemoveLayer(b)
	assert.Equal(t, []string{"A", "B"}, added)
	assert.Equal(t, []string{"A", "B"}, removed)

	c.PushLayer(a)
	assert.Len(t, added, 3)

	c.RemoveObserver(obs)
	c.RemoveLayer(a)
	assert.Len(t, removed, 2)
}

func TestSortLayers(t *testing.T) {
	a := newTestLayer(idA, "A")
	b := newTestLayer(idB, "B")
	c := NewComposition()
	c.PushLayer(a)
	c.PushLayer(b)

	tests := []struct {
		name        string
		idsA, idsB  []int
		opaque      int
		transparent int
	}{
		{"b after a", []int{idA}, []int{idB}, 2, 2},
		{"a after b", []int{idB}, []int{idA}, -2, -2},
		{"a absent", []int{idMissing}, []int{idA}, 1, 1},
		{"b absent", []int{idA}, []int{idMissing}, -1, -1},
		{"both absent", []int{idMissing}, nil, 0, 0},
		{"highest wins", []int{idA, idB}, []int{idB}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.opaque, c.SortOpaqueLayers(tt.idsA, tt.idsB))
			assert.Equal(t, tt.transparent, c.SortTransparentLayers(tt.idsA, tt.idsB))
		})
	}

	c.RemoveTransparent(b)
	assert.Equal(t, -1, c.SortTransparentLayers([]int{idA}, []int{idB}))
	assert.Equal(t, 2, c.SortOpaqueLayers([]int{idA}, []int{idB}))
}

func TestStructuralInvariantUnderRandomMutations(t *testing.T) {
	layers := []layer.Layer{
		newTestLayer(idA, "A"),
		newTestLayer(idB, "B"),
		newTestLayer(idC, "C"),
		newTestLayer(idD, "D"),
	}
	c := NewComposition()
	rng := rand.New(rand.NewPCG(7, 11))

	for step := range 500 {
		l := layers[rng.IntN(len(layers))]
		index := rng.IntN(len(c.LayerList())+3) - 1
		switch rng.IntN(9) {
		case 0:
			c.PushLayer(l)
		case 1:
			c.InsertLayer(l, index)
		case 2:
			c.RemoveLayer(l)
		case 3:
			c.PushOpaque(l)
		case 4:
			c.PushTransparent(l)
		case 5:
			c.InsertOpaque(l, index)
		case 6:
			c.InsertTransparent(l, index)
		case 7:
			c.RemoveOpaque(l)
		case 8:
			c.RemoveTransparent(l)
		}
		assertStructure(t, c)
		if t.Failed() {
			t.Fatalf("structure broken after step %d", step)
		}
	}
}

func TestSetSubLayerEnabled(t *testing.T) {
	a := newTestLayer(idA, "A")
	c := NewComposition()
	c.PushLayer(a)
	impl := c.(*compositionImpl)
	impl.dirty = dirtyState{}

	c.SetSubLayerEnabled(1, false)
	assert.False(t, c.SubLayerEnabled(1))
	assert.True(t, c.SubLayerEnabled(0))
	assert.True(t, impl.dirty.cameras)
	assert.False(t, impl.dirty.batches)

	impl.dirty = dirtyState{}
	c.SetSubLayerEnabled(1, false)
	assert.False(t, impl.dirty.any())

	c.SetSubLayerEnabled(5, true)
	c.SetSubLayerEnabled(-1, true)
	assert.False(t, c.SubLayerEnabled(5))
	assert.Equal(t, []bool{true, false}, c.SubLayerEnabledList())
}

func TestLookupsAndViews(t *testing.T) {
	a := newTestLayer(idA, "A")
	b := newTestLayer(idB, "B")
	c := NewComposition(WithName("main"))
	c.PushLayer(a)
	c.PushLayer(b)

	assert.Equal(t, "main", c.Name())
	assert.Equal(t, b, c.GetLayerByID(idB))
	assert.Equal(t, a, c.GetLayerByName("A"))
	assert.Nil(t, c.GetLayerByID(idMissing))
	assert.Nil(t, c.GetLayerByName("missing"))

	list := c.LayerList()
	list[0] = b
	subs := c.SubLayerList()
	subs[0] = true
	assert.Equal(t, a, c.LayerList()[0])
	assert.False(t, c.SubLayerList()[0])
}

func TestUpdateFlagsString(t *testing.T) {
	assert.Equal(t, "none", UpdateFlags(0).String())
	assert.Equal(t, "batches|cameras", (UpdatedBatches | UpdatedCameras).String())
	f := UpdatedLights | UpdatedBlend
	assert.True(t, f.Has(UpdatedLights))
	assert.False(t, f.Has(UpdatedLights|UpdatedCameras))
}

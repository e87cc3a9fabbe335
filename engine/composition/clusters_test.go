package composition

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/layer"
	"github.com/Carmen-Shannon/oxy-compose/engine/light"
	"github.com/Carmen-Shannon/oxy-compose/engine/light_cluster"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingClusters counts Destroy calls on CPU-only clusters.
type countingClusters struct {
	light_cluster.WorldClusters
	destroyed *int
}

func (c *countingClusters) Destroy() {
	*c.destroyed++
	c.WorldClusters.Destroy()
}

type clusterFactory struct {
	created   int
	destroyed int
	err       error
}

func (f *clusterFactory) build(device *wgpu.Device) (light_cluster.WorldClusters, error) {
	if f.err != nil {
		return nil, f.err
	}
	wc, err := light_cluster.NewWorldClusters(device, light_cluster.WithCells(2, 1, 2))
	if err != nil {
		return nil, err
	}
	f.created++
	return &countingClusters{WorldClusters: wc, destroyed: &f.destroyed}, nil
}

// clusterScene builds five layers rendered by one camera:
//   - A and B hold the same two omni lights in different order
//   - C holds a third light and E holds it too, with opaque batches only
//   - D holds only a directional light
type clusterScene struct {
	comp          Composition
	factory       *clusterFactory
	a, b, c, d, e layer.Layer
}

func newClusterScene(t *testing.T) *clusterScene {
	t.Helper()
	l1 := light.NewLight(light.LightTypeOmni, light.WithPosition(-2, 0, 0))
	l2 := light.NewLight(light.LightTypeSpot, light.WithPosition(2, 0, 0))
	l3 := light.NewLight(light.LightTypeOmni)
	sun := light.NewLight(light.LightTypeDirectional)
	cam := camera.NewCamera("main", camera.WithLayers(idA, idB, idC, idD, idE))

	s := &clusterScene{factory: &clusterFactory{}}
	s.a = newTestLayer(idA, "A", layer.WithCameras(cam), layer.WithLights(l1, l2))
	s.b = newTestLayer(idB, "B", layer.WithCameras(cam), layer.WithLights(l2, l1))
	s.c = newTestLayer(idC, "C", layer.WithCameras(cam), layer.WithLights(l3))
	s.d = newTestLayer(idD, "D", layer.WithCameras(cam), layer.WithLights(sun))
	s.e = layer.NewLayer(idE, "E",
		layer.WithBatches(layer.NewBatch("E-opaque", false, false)),
		layer.WithCameras(cam),
		layer.WithLights(l3),
	)

	s.comp = NewComposition(WithClusterFactory(s.factory.build), WithClusterWorkers(2))
	for _, l := range []layer.Layer{s.a, s.b, s.c, s.d, s.e} {
		s.comp.PushLayer(l)
	}
	flags, err := s.comp.UpdateComposition(nil, true)
	require.NoError(t, err)
	require.True(t, flags.Has(UpdatedCameras))
	return s
}

func TestClusterAssignment(t *testing.T) {
	s := newClusterScene(t)
	c := s.comp
	actions := c.RenderActions()
	require.Len(t, actions, 10)

	pool := c.WorldClusters()
	require.Len(t, pool, 2)
	empty := c.EmptyWorldClusters()
	require.NotNil(t, empty)
	assert.Equal(t, "ClusterEmpty", empty.Name())
	assert.Equal(t, "Cluster-0", pool[0].Name())
	assert.Equal(t, "Cluster-1", pool[1].Name())
	assert.Equal(t, s.a, c.ClusterOwner(0))
	assert.Equal(t, s.c, c.ClusterOwner(1))
	assert.Nil(t, c.ClusterOwner(2))

	want := []light_cluster.WorldClusters{
		pool[0], pool[0], // A
		pool[0], pool[0], // B shares A's light set
		pool[1], pool[1], // C
		empty, empty, // D has no clustered lights
		pool[1], empty, // E shares C's set, its transparent bucket is empty
	}
	for i, ra := range actions {
		assert.Same(t, want[i], ra.LightClusters, "cluster at %d", i)
	}
	assert.Equal(t, 3, s.factory.created)
	assert.Equal(t, 0, s.factory.destroyed)
}

func TestClusterPoolReuse(t *testing.T) {
	s := newClusterScene(t)
	c := s.comp
	before := append([]light_cluster.WorldClusters(nil), c.WorldClusters()...)

	flags, err := c.UpdateComposition(nil, true)
	require.NoError(t, err)
	assert.Zero(t, flags)

	c.SetSubLayerEnabled(0, false)
	c.SetSubLayerEnabled(0, true)
	flags, err = c.UpdateComposition(nil, true)
	require.NoError(t, err)
	assert.Equal(t, UpdatedCameras, flags)
	assert.ElementsMatch(t, before, c.WorldClusters())
	assert.Equal(t, 3, s.factory.created)
	assert.Equal(t, 0, s.factory.destroyed)

	c.RemoveLayer(s.c)
	c.RemoveLayer(s.e)
	_, err = c.UpdateComposition(nil, true)
	require.NoError(t, err)
	assert.Len(t, c.WorldClusters(), 1)
	assert.Equal(t, "Cluster-0", c.WorldClusters()[0].Name())
	assert.Equal(t, 3, s.factory.created)
	assert.Equal(t, 1, s.factory.destroyed)
}

func TestClustersSkippedWhenDisabled(t *testing.T) {
	f := &clusterFactory{}
	cam := camera.NewCamera("main", camera.WithLayers(idA))
	a := newTestLayer(idA, "A", layer.WithCameras(cam), layer.WithLights(light.NewLight(light.LightTypeOmni)))
	c := NewComposition(WithClusterFactory(f.build))
	c.PushLayer(a)
	update(t, c)

	for _, ra := range c.RenderActions() {
		assert.Nil(t, ra.LightClusters)
	}
	assert.Zero(t, f.created)
	assert.Nil(t, c.EmptyWorldClusters())
}

func TestReusedSlotsDropClustersWhenClusteringOff(t *testing.T) {
	f := &clusterFactory{}
	cam := camera.NewCamera("main", camera.WithLayers(idA, idB))
	a := newTestLayer(idA, "A", layer.WithCameras(cam), layer.WithLights(light.NewLight(light.LightTypeOmni)))
	b := newTestLayer(idB, "B", layer.WithCameras(cam))
	c := NewComposition(WithClusterFactory(f.build))
	c.PushLayer(a)
	c.PushLayer(b)
	_, err := c.UpdateComposition(nil, true)
	require.NoError(t, err)
	require.Equal(t, "Cluster-0", c.RenderActions()[0].LightClusters.Name())

	c.RemoveLayer(a)
	update(t, c)

	actions := c.RenderActions()
	require.Len(t, actions, 2)
	for i, ra := range actions {
		assert.Nil(t, ra.LightClusters, "clusters at %d", i)
	}
}

func TestPrepareClustersBinsOwnerLights(t *testing.T) {
	s := newClusterScene(t)
	c := s.comp
	require.NoError(t, c.PrepareClusters())

	pool := c.WorldClusters()
	require.Len(t, pool, 2)
	assert.Equal(t, 2, pool[0].LightCount())
	assert.Equal(t, 1, pool[1].LightCount())
	assert.Equal(t, 0, c.EmptyWorldClusters().LightCount())

	require.NoError(t, c.PrepareClusters())
	assert.Equal(t, 2, pool[0].LightCount())
}

func TestPrepareClustersReportsErrors(t *testing.T) {
	s := newClusterScene(t)
	c := s.comp
	c.WorldClusters()[1].Destroy()

	err := c.PrepareClusters()
	require.Error(t, err)
	assert.ErrorIs(t, err, light_cluster.ErrDestroyed)
	assert.Contains(t, err.Error(), "Cluster-1")
}

func TestDestroyComposition(t *testing.T) {
	s := newClusterScene(t)
	c := s.comp
	require.NoError(t, c.PrepareClusters())
	actions := c.RenderActions()
	first := actions[0]

	c.DestroyComposition()
	assert.Equal(t, 3, s.factory.destroyed)
	assert.Empty(t, c.RenderActions())
	assert.Empty(t, c.WorldClusters())
	assert.Nil(t, c.EmptyWorldClusters())
	assert.Nil(t, first.Camera)
	assert.Nil(t, first.LightClusters)

	flags, err := c.UpdateComposition(nil, true)
	require.NoError(t, err)
	assert.True(t, flags.Has(UpdatedCameras))
	assert.Len(t, c.RenderActions(), 10)
	assert.Equal(t, 6, s.factory.created)
}

func TestSameLightSet(t *testing.T) {
	l1 := light.NewLight(light.LightTypeOmni)
	l2 := light.NewLight(light.LightTypeOmni)
	l3 := light.NewLight(light.LightTypeOmni)

	assert.True(t, sameLightSet(nil, nil))
	assert.True(t, sameLightSet([]light.Light{l1, l2}, []light.Light{l2, l1}))
	assert.False(t, sameLightSet([]light.Light{l1, l2}, []light.Light{l1, l3}))
	assert.False(t, sameLightSet([]light.Light{l1}, []light.Light{l1, l2}))
}

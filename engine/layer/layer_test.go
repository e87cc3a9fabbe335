package layer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/light"
	"github.com/Carmen-Shannon/oxy-compose/engine/render_target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clean(l Layer) {
	l.ClearDirty()
	l.ClearDirtyLights()
	l.ClearDirtyCameras()
	l.ClearDirtyBlend()
}

func TestNewLayerStartsDirty(t *testing.T) {
	l := NewLayer(10, "world")
	assert.Equal(t, 10, l.ID())
	assert.Equal(t, "world", l.Name())
	assert.True(t, l.Enabled())
	assert.True(t, l.Dirty())
	assert.True(t, l.DirtyLights())
	assert.True(t, l.DirtyCameras())
	assert.False(t, l.DirtyBlend())
}

func TestAddBatchesSortsByMaterial(t *testing.T) {
	opaque := NewBatch("rock", false, true)
	glass := NewBatch("glass", true, false)
	l := NewLayer(1, "l")
	clean(l)

	l.AddBatches(opaque, glass, opaque)
	assert.Equal(t, []Batch{opaque}, l.OpaqueBatches())
	assert.Equal(t, []Batch{glass}, l.TransparentBatches())
	assert.Equal(t, []Batch{opaque}, l.ShadowCasters())
	assert.Equal(t, []Batch{glass}, l.Batches(true))
	assert.True(t, l.Dirty())

	clean(l)
	l.RemoveBatches(opaque)
	assert.Empty(t, l.OpaqueBatches())
	assert.Empty(t, l.ShadowCasters())
	assert.True(t, l.Dirty())

	clean(l)
	l.RemoveBatches(opaque)
	assert.False(t, l.Dirty())
}

func TestShadowCasters(t *testing.T) {
	b := NewBatch("b", false, false)
	l := NewLayer(1, "l", WithShadowCasters(b, b))
	assert.Equal(t, []Batch{b}, l.ShadowCasters())
	assert.Empty(t, l.OpaqueBatches())

	clean(l)
	l.RemoveShadowCasters(b)
	assert.Empty(t, l.ShadowCasters())
	assert.True(t, l.Dirty())
}

func TestLightsAndClusteredLights(t *testing.T) {
	sun := light.NewLight(light.LightTypeDirectional)
	bulb := light.NewLight(light.LightTypeOmni)
	spot := light.NewLight(light.LightTypeSpot)
	l := NewLayer(1, "l", WithLights(sun, bulb, spot, bulb))

	assert.Equal(t, []light.Light{sun, bulb, spot}, l.Lights())
	assert.Equal(t, []light.Light{bulb, spot}, l.ClusteredLights())
	assert.True(t, l.HasClusteredLights())

	clean(l)
	l.RemoveLight(bulb)
	assert.Equal(t, []light.Light{spot}, l.ClusteredLights())
	assert.True(t, l.DirtyLights())

	clean(l)
	l.RemoveLight(bulb)
	assert.False(t, l.DirtyLights())

	l.ClearLights()
	assert.Empty(t, l.Lights())
	assert.False(t, l.HasClusteredLights())
	assert.True(t, l.DirtyLights())
}

func TestCameras(t *testing.T) {
	a := camera.NewCamera("a")
	b := camera.NewCamera("b")
	l := NewLayer(1, "l", WithCameras(a, b, a))
	require.Len(t, l.Cameras(), 2)
	assert.Equal(t, 1, l.CameraIndex(b))

	clean(l)
	l.RemoveCamera(a)
	assert.Equal(t, -1, l.CameraIndex(a))
	assert.Equal(t, 0, l.CameraIndex(b))
	assert.True(t, l.DirtyCameras())
}

func TestSettersMarkDirty(t *testing.T) {
	l := NewLayer(1, "l")
	clean(l)

	l.SetEnabled(true)
	assert.False(t, l.DirtyCameras())
	l.SetEnabled(false)
	assert.True(t, l.DirtyCameras())

	clean(l)
	l.SetClearFlags(true, false, true)
	assert.True(t, l.ClearColorBuffer())
	assert.False(t, l.ClearDepthBuffer())
	assert.True(t, l.ClearStencilBuffer())
	assert.True(t, l.DirtyCameras())

	clean(l)
	rt := render_target.NewRenderTarget("rt")
	l.SetRenderTarget(rt)
	assert.Equal(t, rt, l.RenderTarget())
	assert.True(t, l.DirtyCameras())

	clean(l)
	l.SetPassThrough(true)
	assert.True(t, l.PassThrough())
	assert.True(t, l.Dirty())
}

func TestMarkDirty(t *testing.T) {
	l := NewLayer(1, "l")
	clean(l)

	l.MarkCamerasDirty()
	assert.True(t, l.DirtyCameras())
	assert.False(t, l.DirtyLights())
	assert.False(t, l.Dirty())

	clean(l)
	l.MarkLightsDirty()
	assert.True(t, l.DirtyLights())
	assert.False(t, l.DirtyCameras())
	assert.False(t, l.DirtyBlend())
}

func TestRepartitionBlend(t *testing.T) {
	a := NewBatch("a", false, false)
	b := NewBatch("b", false, false)
	c := NewBatch("c", true, false)
	l := NewLayer(1, "l", WithBatches(a, b, c))
	clean(l)

	assert.Equal(t, 0, l.RepartitionBlend())
	assert.False(t, l.Dirty())

	a.SetTransparent(true)
	c.SetTransparent(false)
	l.MarkBlendDirty()
	assert.True(t, l.DirtyBlend())

	assert.Equal(t, 2, l.RepartitionBlend())
	assert.Equal(t, []Batch{b, c}, l.OpaqueBatches())
	assert.Equal(t, []Batch{a}, l.TransparentBatches())
	assert.True(t, l.Dirty())
}

package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/render_target"
	"github.com/stretchr/testify/assert"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera("main")
	assert.Equal(t, "main", c.Name())
	assert.True(t, c.Enabled())
	assert.True(t, c.ClearColorBuffer())
	assert.True(t, c.ClearDepthBuffer())
	assert.True(t, c.ClearStencilBuffer())
	assert.False(t, c.PostEffectsEnabled())
	assert.Equal(t, common.LayerIDUI, c.DisablePostEffectsLayer())
	assert.True(t, c.RendersLayer(common.LayerIDWorld))
	assert.Nil(t, c.RenderTarget())
	assert.True(t, c.Rect().Equals(common.FullRect))
}

func TestCameraOptions(t *testing.T) {
	rt := render_target.NewRenderTarget("rt")
	r := common.Rect{X: 0, Y: 0, Z: 0.5, W: 1}
	c := NewCamera("side",
		WithPriority(3),
		WithLayers(7, 9),
		WithRenderTarget(rt),
		WithClearFlags(false, true, false),
		WithPostEffects(true),
		WithDisablePostEffectsLayer(common.LayerIDNone),
		WithRect(r),
		WithScissorRect(r),
		WithEnabled(false),
	)
	assert.Equal(t, float32(3), c.Priority())
	assert.Equal(t, []int{7, 9}, c.Layers())
	assert.False(t, c.RendersLayer(common.LayerIDWorld))
	assert.True(t, c.RendersLayer(9))
	assert.Equal(t, rt, c.RenderTarget())
	assert.False(t, c.ClearColorBuffer())
	assert.True(t, c.ClearDepthBuffer())
	assert.True(t, c.PostEffectsEnabled())
	assert.Equal(t, common.LayerIDNone, c.DisablePostEffectsLayer())
	assert.Equal(t, r, c.Rect())
	assert.Equal(t, r, c.ScissorRect())
	assert.False(t, c.Enabled())
}

func TestLayersIsCopy(t *testing.T) {
	c := NewCamera("c", WithLayers(1, 2))
	ids := c.Layers()
	ids[0] = 99
	assert.Equal(t, []int{1, 2}, c.Layers())

	src := []int{5}
	c.SetLayers(src)
	src[0] = 6
	assert.True(t, c.RendersLayer(5))
}

func TestCameraSetters(t *testing.T) {
	c := NewCamera("c")
	c.SetPriority(-1)
	c.SetClearFlags(false, false, true)
	c.SetPostEffectsEnabled(true)
	c.SetDisablePostEffectsLayer(12)
	c.SetEnabled(false)
	assert.Equal(t, float32(-1), c.Priority())
	assert.False(t, c.ClearColorBuffer())
	assert.True(t, c.ClearStencilBuffer())
	assert.True(t, c.PostEffectsEnabled())
	assert.Equal(t, 12, c.DisablePostEffectsLayer())
	assert.False(t, c.Enabled())
}

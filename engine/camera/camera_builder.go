package camera

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/render_target"
)

type CameraBuilderOption func(*cameraImpl)

// WithEnabled sets whether the camera takes part in composition.
//
// Parameters:
//   - enabled: true to enable
//
// Returns:
//   - CameraBuilderOption: a function that sets the enabled flag
func WithEnabled(enabled bool) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.enabled = enabled
	}
}

// WithPriority sets the render priority. Lower priorities render first.
//
// Parameters:
//   - priority: the priority
//
// Returns:
//   - CameraBuilderOption: a function that sets the priority
func WithPriority(priority float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.priority = priority
	}
}

// WithLayers replaces the declared layer ids.
//
// Parameters:
//   - ids: the layer ids to render
//
// Returns:
//   - CameraBuilderOption: a function that sets the layers
func WithLayers(ids ...int) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.layers = slices.Clone(ids)
	}
}

// WithRenderTarget sets the camera's render target.
//
// Parameters:
//   - rt: the render target
//
// Returns:
//   - CameraBuilderOption: a function that sets the render target
func WithRenderTarget(rt render_target.RenderTarget) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.renderTarget = rt
	}
}

// WithClearFlags sets the color, depth and stencil clear flags.
//
// Parameters:
//   - color, depth, stencil: clear flags
//
// Returns:
//   - CameraBuilderOption: a function that sets the clear flags
func WithClearFlags(color, depth, stencil bool) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.clearColorBuffer = color
		c.clearDepthBuffer = depth
		c.clearStencilBuffer = stencil
	}
}

// WithPostEffects enables or disables postprocessing for the camera.
//
// Parameters:
//   - enabled: true to enable post effects
//
// Returns:
//   - CameraBuilderOption: functional option to set post effects
func WithPostEffects(enabled bool) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.postEffectsEnabled = enabled
	}
}

// WithDisablePostEffectsLayer sets the postprocess stop layer id.
// Use common.LayerIDNone to postprocess every layer the camera renders.
//
// Parameters:
//   - id: the stop layer id
//
// Returns:
//   - CameraBuilderOption: functional option to set the stop layer
func WithDisablePostEffectsLayer(id int) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.disablePostEffectsLayer = id
	}
}

// WithRect sets the normalized viewport rectangle.
//
// Parameters:
//   - r: the viewport
//
// Returns:
//   - CameraBuilderOption: functional option to set the viewport
func WithRect(r common.Rect) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.rect = r
	}
}

// WithScissorRect sets the normalized scissor rectangle.
//
// Parameters:
//   - r: the scissor rectangle
//
// Returns:
//   - CameraBuilderOption: functional option to set the scissor rectangle
func WithScissorRect(r common.Rect) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.scissorRect = r
	}
}

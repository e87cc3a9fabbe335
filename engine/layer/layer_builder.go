package layer

import (
	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/light"
	"github.com/Carmen-Shannon/oxy-compose/engine/render_target"
)

// LayerBuilderOption is a functional option for configuring a Layer.
type LayerBuilderOption func(*layerImpl)

// WithEnabled sets whether the layer renders.
//
// Parameters:
//   - enabled: true to enable
//
// Returns:
//   - LayerBuilderOption: option function to apply
func WithEnabled(enabled bool) LayerBuilderOption {
	return func(l *layerImpl) {
		l.enabled = enabled
	}
}

// WithBatches adds initial batches, sorted by material into the two buckets.
//
// Parameters:
//   - batches: the batches to add
//
// Returns:
//   - LayerBuilderOption: option function to apply
func WithBatches(batches ...Batch) LayerBuilderOption {
	return func(l *layerImpl) {
		l.AddBatches(batches...)
	}
}

// WithShadowCasters adds shadow casters that are not drawn by the layer.
//
// Parameters:
//   - batches: the casters to add
//
// Returns:
//   - LayerBuilderOption: option function to apply
func WithShadowCasters(batches ...Batch) LayerBuilderOption {
	return func(l *layerImpl) {
		l.AddShadowCasters(batches...)
	}
}

// WithLights attaches initial lights.
//
// Parameters:
//   - lights: the lights to attach
//
// Returns:
//   - LayerBuilderOption: option function to apply
func WithLights(lights ...light.Light) LayerBuilderOption {
	return func(l *layerImpl) {
		for _, lt := range lights {
			l.AddLight(lt)
		}
	}
}

// WithCameras attaches initial cameras.
//
// Parameters:
//   - cameras: the cameras to attach
//
// Returns:
//   - LayerBuilderOption: option function to apply
func WithCameras(cameras ...camera.Camera) LayerBuilderOption {
	return func(l *layerImpl) {
		for _, cam := range cameras {
			l.AddCamera(cam)
		}
	}
}

// WithPassThrough excludes the layer from composition-wide batch aggregation.
//
// Parameters:
//   - passThrough: true to exclude
//
// Returns:
//   - LayerBuilderOption: option function to apply
func WithPassThrough(passThrough bool) LayerBuilderOption {
	return func(l *layerImpl) {
		l.passThrough = passThrough
	}
}

// WithClearFlags sets the layer's clear overrides.
//
// Parameters:
//   - color, depth, stencil: clear flags
//
// Returns:
//   - LayerBuilderOption: option function to apply
func WithClearFlags(color, depth, stencil bool) LayerBuilderOption {
	return func(l *layerImpl) {
		l.clearColorBuffer = color
		l.clearDepthBuffer = depth
		l.clearStencilBuffer = stencil
	}
}

// WithRenderTarget sets the layer's render target override.
//
// Parameters:
//   - rt: the render target
//
// Returns:
//   - LayerBuilderOption: option function to apply
func WithRenderTarget(rt render_target.RenderTarget) LayerBuilderOption {
	return func(l *layerImpl) {
		l.renderTarget = rt
	}
}

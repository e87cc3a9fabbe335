package render_target

import "github.com/cogentcore/webgpu/wgpu"

// RenderTargetBuilderOption is a functional option applied to a render target during construction.
type RenderTargetBuilderOption func(*renderTarget)

// WithView attaches an existing texture view and its size.
//
// Parameters:
//   - view: the color attachment view
//   - width, height: the view size in pixels
//
// Returns:
//   - RenderTargetBuilderOption: a function that applies the view option
func WithView(view *wgpu.TextureView, width, height uint32) RenderTargetBuilderOption {
	return func(rt *renderTarget) {
		rt.view = view
		rt.width = width
		rt.height = height
	}
}

// WithSize sets the target size without a view, for targets bound later.
//
// Parameters:
//   - width, height: size in pixels
//
// Returns:
//   - RenderTargetBuilderOption: a function that applies the size option
func WithSize(width, height uint32) RenderTargetBuilderOption {
	return func(rt *renderTarget) {
		rt.width = width
		rt.height = height
	}
}

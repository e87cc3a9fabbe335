package render_target

import "github.com/cogentcore/webgpu/wgpu"

// renderTarget is the implementation of the RenderTarget interface.
type renderTarget struct {
	label  string
	view   *wgpu.TextureView
	width  uint32
	height uint32
}

// RenderTarget is a destination a render action draws into: an offscreen texture
// or, when a render action carries a nil RenderTarget, the back buffer.
//
// Render targets are compared by identity only. Two cameras stack onto the same
// target when they reference the same RenderTarget value.
type RenderTarget interface {
	// Label returns the debug label of the target.
	//
	// Returns:
	//   - string: the label
	Label() string

	// View returns the color attachment view, or nil if the target has not been
	// bound to GPU resources yet.
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view or nil
	View() *wgpu.TextureView

	// Width returns the width of the target in pixels.
	//
	// Returns:
	//   - uint32: width in pixels
	Width() uint32

	// Height returns the height of the target in pixels.
	//
	// Returns:
	//   - uint32: height in pixels
	Height() uint32

	// SetView attaches a texture view to the target, e.g. after a resize.
	//
	// Parameters:
	//   - view: the new color attachment view
	//   - width, height: the view size in pixels
	SetView(view *wgpu.TextureView, width, height uint32)
}

var _ RenderTarget = &renderTarget{}

// NewRenderTarget creates a RenderTarget with the given label.
//
// Parameters:
//   - label: debug label used in diagnostics
//   - options: functional options to configure the target
//
// Returns:
//   - RenderTarget: the new render target
func NewRenderTarget(label string, options ...RenderTargetBuilderOption) RenderTarget {
	rt := &renderTarget{label: label}
	for _, option := range options {
		option(rt)
	}
	return rt
}

func (rt *renderTarget) Label() string {
	return rt.label
}

func (rt *renderTarget) View() *wgpu.TextureView {
	return rt.view
}

func (rt *renderTarget) Width() uint32 {
	return rt.width
}

func (rt *renderTarget) Height() uint32 {
	return rt.height
}

func (rt *renderTarget) SetView(view *wgpu.TextureView, width, height uint32) {
	rt.view = view
	rt.width = width
	rt.height = height
}

// Label returns the label of rt, or "backbuffer" when rt is nil.
//
// Parameters:
//   - rt: the render target, may be nil
//
// Returns:
//   - string: a printable name for diagnostics
func Label(rt RenderTarget) string {
	if rt == nil {
		return "backbuffer"
	}
	return rt.Label()
}

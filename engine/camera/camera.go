package camera

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/render_target"
)

type cameraImpl struct {
	mu *sync.Mutex

	name     string
	enabled  bool
	priority float32
	layers   []int

	renderTarget render_target.RenderTarget

	clearColorBuffer   bool
	clearDepthBuffer   bool
	clearStencilBuffer bool

	postEffectsEnabled      bool
	disablePostEffectsLayer int

	rect        common.Rect
	scissorRect common.Rect
}

// Camera defines the capability the render composition needs from a camera.
//
// A camera renders the layers whose ids it declares, but only those layers that
// also list the camera in their own camera list. Cameras render in ascending
// priority order, so a higher priority draws later, on top of lower ones. A
// camera with a render target and post effects enabled stacks every preceding
// camera with the same viewport onto its target.
//
// Setters do not notify the composition. After changing a camera, call
// Layer.MarkCamerasDirty on the layers holding it.
type Camera interface {
	// Name returns the camera's debug name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Enabled returns whether the camera takes part in composition.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Priority returns the render priority. Lower priorities render first.
	//
	// Returns:
	//   - float32: the priority
	Priority() float32

	// Layers returns a copy of the layer ids this camera renders.
	//
	// Returns:
	//   - []int: declared layer ids
	Layers() []int

	// RendersLayer reports whether the camera declares the given layer id.
	//
	// Parameters:
	//   - id: the layer id
	//
	// Returns:
	//   - bool: true if the id is declared
	RendersLayer(id int) bool

	// RenderTarget returns the camera's render target, or nil for the back buffer.
	//
	// Returns:
	//   - render_target.RenderTarget: the target or nil
	RenderTarget() render_target.RenderTarget

	// ClearColorBuffer returns whether the camera clears the color buffer.
	ClearColorBuffer() bool

	// ClearDepthBuffer returns whether the camera clears the depth buffer.
	ClearDepthBuffer() bool

	// ClearStencilBuffer returns whether the camera clears the stencil buffer.
	ClearStencilBuffer() bool

	// PostEffectsEnabled returns whether postprocessing runs for this camera.
	//
	// Returns:
	//   - bool: true if post effects are enabled
	PostEffectsEnabled() bool

	// DisablePostEffectsLayer returns the id of the first layer rendered after
	// postprocessing, or common.LayerIDNone.
	//
	// Returns:
	//   - int: the postprocess stop layer id
	DisablePostEffectsLayer() int

	// Rect returns the normalized viewport rectangle.
	//
	// Returns:
	//   - common.Rect: the viewport
	Rect() common.Rect

	// ScissorRect returns the normalized scissor rectangle.
	//
	// Returns:
	//   - common.Rect: the scissor rectangle
	ScissorRect() common.Rect

	// SetEnabled enables or disables the camera. Call Layer.MarkCamerasDirty on
	// the layers holding the camera for the change to reach the render plan.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetPriority sets the render priority.
	//
	// Parameters:
	//   - priority: the new priority
	SetPriority(priority float32)

	// SetLayers replaces the declared layer ids.
	//
	// Parameters:
	//   - ids: the layer ids to render
	SetLayers(ids []int)

	// SetRenderTarget sets the render target; nil renders to the back buffer.
	//
	// Parameters:
	//   - rt: the render target or nil
	SetRenderTarget(rt render_target.RenderTarget)

	// SetClearFlags sets the three clear-buffer flags.
	//
	// Parameters:
	//   - color, depth, stencil: clear flags
	SetClearFlags(color, depth, stencil bool)

	// SetPostEffectsEnabled toggles postprocessing.
	//
	// Parameters:
	//   - enabled: true to enable
	SetPostEffectsEnabled(enabled bool)

	// SetDisablePostEffectsLayer sets the postprocess stop layer id.
	//
	// Parameters:
	//   - id: layer id or common.LayerIDNone
	SetDisablePostEffectsLayer(id int)

	// SetRect sets the viewport rectangle.
	//
	// Parameters:
	//   - r: the viewport
	SetRect(r common.Rect)

	// SetScissorRect sets the scissor rectangle.
	//
	// Parameters:
	//   - r: the scissor rectangle
	SetScissorRect(r common.Rect)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera rendering the world, depth, skybox, UI and
// immediate layers into the back buffer, clearing all buffers, with the UI layer
// as postprocess stop layer.
//
// Parameters:
//   - name: debug name of the camera
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(name string, options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:      &sync.Mutex{},
		name:    name,
		enabled: true,
		layers: []int{
			common.LayerIDWorld,
			common.LayerIDDepth,
			common.LayerIDSkybox,
			common.LayerIDUI,
			common.LayerIDImmediate,
		},
		clearColorBuffer:        true,
		clearDepthBuffer:        true,
		clearStencilBuffer:      true,
		disablePostEffectsLayer: common.LayerIDUI,
		rect:                    common.FullRect,
		scissorRect:             common.FullRect,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Name() string {
	return c.name
}

func (c *cameraImpl) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

func (c *cameraImpl) Priority() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.priority
}

func (c *cameraImpl) Layers() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.layers)
}

func (c *cameraImpl) RendersLayer(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Contains(c.layers, id)
}

func (c *cameraImpl) RenderTarget() render_target.RenderTarget {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderTarget
}

func (c *cameraImpl) ClearColorBuffer() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clearColorBuffer
}

func (c *cameraImpl) ClearDepthBuffer() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clearDepthBuffer
}

func (c *cameraImpl) ClearStencilBuffer() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clearStencilBuffer
}

func (c *cameraImpl) PostEffectsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.postEffectsEnabled
}

func (c *cameraImpl) DisablePostEffectsLayer() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disablePostEffectsLayer
}

func (c *cameraImpl) Rect() common.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rect
}

func (c *cameraImpl) ScissorRect() common.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scissorRect
}

func (c *cameraImpl) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

func (c *cameraImpl) SetPriority(priority float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.priority = priority
}

func (c *cameraImpl) SetLayers(ids []int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layers = slices.Clone(ids)
}

func (c *cameraImpl) SetRenderTarget(rt render_target.RenderTarget) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderTarget = rt
}

func (c *cameraImpl) SetClearFlags(color, depth, stencil bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearColorBuffer = color
	c.clearDepthBuffer = depth
	c.clearStencilBuffer = stencil
}

func (c *cameraImpl) SetPostEffectsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.postEffectsEnabled = enabled
}

func (c *cameraImpl) SetDisablePostEffectsLayer(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disablePostEffectsLayer = id
}

func (c *cameraImpl) SetRect(r common.Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rect = r
}

func (c *cameraImpl) SetScissorRect(r common.Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scissorRect = r
}

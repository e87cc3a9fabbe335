package layer

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/light"
	"github.com/Carmen-Shannon/oxy-compose/engine/render_target"
)

// layerImpl is the implementation of the Layer interface.
type layerImpl struct {
	id      int
	name    string
	enabled bool

	opaqueBatches      []Batch
	transparentBatches []Batch
	shadowCasters      []Batch

	lights          []light.Light
	clusteredLights []light.Light
	cameras         []camera.Camera

	passThrough bool

	clearColorBuffer   bool
	clearDepthBuffer   bool
	clearStencilBuffer bool

	renderTarget render_target.RenderTarget

	dirty        bool
	dirtyLights  bool
	dirtyCameras bool
	dirtyBlend   bool
}

// Layer is a render layer: a named bucket of opaque and transparent draw batches
// together with the lights and cameras that touch it.
//
// A layer contributes up to two sub-layers to a composition, one opaque and one
// transparent. Mutators set the matching dirty flag. The composition reads the
// flags once per update and clears the ones it consumed.
//
// Slices returned by the accessors are owned by the layer and must not be modified.
type Layer interface {
	// ID returns the layer id used by cameras to declare which layers they render.
	ID() int

	// Name returns the layer's name.
	Name() string

	// Enabled returns whether the layer renders at all.
	Enabled() bool

	// OpaqueBatches returns the batches drawn by the opaque sub-layer.
	OpaqueBatches() []Batch

	// TransparentBatches returns the batches drawn by the transparent sub-layer.
	TransparentBatches() []Batch

	// Batches returns the opaque or transparent bucket.
	//
	// Parameters:
	//   - transparent: which bucket to return
	//
	// Returns:
	//   - []Batch: the requested bucket
	Batches(transparent bool) []Batch

	// ShadowCasters returns the batches this layer contributes to the shadow
	// caster lists of its shadow-casting lights.
	ShadowCasters() []Batch

	// Lights returns the lights affecting this layer, in insertion order.
	Lights() []light.Light

	// ClusteredLights returns the omni and spot lights of this layer, in insertion order.
	ClusteredLights() []light.Light

	// HasClusteredLights reports whether the layer holds any omni or spot light.
	HasClusteredLights() bool

	// Cameras returns the cameras rendering this layer, in insertion order.
	Cameras() []camera.Camera

	// CameraIndex returns the position of cam in Cameras, or -1.
	//
	// Parameters:
	//   - cam: the camera to look up
	//
	// Returns:
	//   - int: the index or -1
	CameraIndex(cam camera.Camera) int

	// PassThrough returns whether the layer's batches are left out of the
	// composition-wide batch list.
	PassThrough() bool

	// ClearColorBuffer returns whether the layer forces a color clear.
	ClearColorBuffer() bool

	// ClearDepthBuffer returns whether the layer forces a depth clear.
	ClearDepthBuffer() bool

	// ClearStencilBuffer returns whether the layer forces a stencil clear.
	ClearStencilBuffer() bool

	// RenderTarget returns the layer's render target override, or nil.
	RenderTarget() render_target.RenderTarget

	// Dirty returns whether the layer's batches changed.
	Dirty() bool

	// DirtyLights returns whether the layer's lights changed.
	DirtyLights() bool

	// DirtyCameras returns whether the layer's cameras or render settings changed.
	DirtyCameras() bool

	// DirtyBlend returns whether a batch's material may have changed blend state.
	DirtyBlend() bool

	// ClearDirty resets the batches flag.
	ClearDirty()

	// ClearDirtyLights resets the lights flag.
	ClearDirtyLights()

	// ClearDirtyCameras resets the cameras flag.
	ClearDirtyCameras()

	// ClearDirtyBlend resets the blend flag.
	ClearDirtyBlend()

	// SetEnabled enables or disables the layer.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// AddBatches sorts batches into the opaque or transparent bucket by their
	// material and registers shadow-casting ones as shadow casters. Batches
	// already present are skipped.
	//
	// Parameters:
	//   - batches: the batches to add
	AddBatches(batches ...Batch)

	// RemoveBatches removes batches from both buckets and from the shadow casters.
	//
	// Parameters:
	//   - batches: the batches to remove
	RemoveBatches(batches ...Batch)

	// AddShadowCasters registers batches as shadow casters without drawing them.
	//
	// Parameters:
	//   - batches: the casters to add
	AddShadowCasters(batches ...Batch)

	// RemoveShadowCasters unregisters shadow casters.
	//
	// Parameters:
	//   - batches: the casters to remove
	RemoveShadowCasters(batches ...Batch)

	// AddLight attaches a light to the layer. Adding the same light twice is a no-op.
	//
	// Parameters:
	//   - l: the light to add
	AddLight(l light.Light)

	// RemoveLight detaches a light from the layer.
	//
	// Parameters:
	//   - l: the light to remove
	RemoveLight(l light.Light)

	// ClearLights detaches every light.
	ClearLights()

	// AddCamera attaches a camera to the layer. Adding the same camera twice is a no-op.
	//
	// Parameters:
	//   - cam: the camera to add
	AddCamera(cam camera.Camera)

	// RemoveCamera detaches a camera from the layer.
	//
	// Parameters:
	//   - cam: the camera to remove
	RemoveCamera(cam camera.Camera)

	// SetPassThrough sets whether the layer is excluded from batch aggregation.
	//
	// Parameters:
	//   - passThrough: true to exclude
	SetPassThrough(passThrough bool)

	// SetClearFlags sets the layer's clear overrides.
	//
	// Parameters:
	//   - color, depth, stencil: clear flags
	SetClearFlags(color, depth, stencil bool)

	// SetRenderTarget sets the layer's render target override.
	//
	// Parameters:
	//   - rt: the render target or nil
	SetRenderTarget(rt render_target.RenderTarget)

	// MarkBlendDirty flags the layer for a blend repartition pass.
	MarkBlendDirty()

	// MarkCamerasDirty flags the layer's cameras as changed. Call it after
	// mutating a camera the layer holds (priority, layers, target, clear flags,
	// post effects, rects or enabled state) so the next update rebuilds the plan.
	MarkCamerasDirty()

	// MarkLightsDirty flags the layer's lights as changed. Call it after
	// enabling, disabling or retyping a light the layer holds.
	MarkLightsDirty()

	// RepartitionBlend moves every batch whose Transparent state no longer matches
	// its bucket into the other bucket, preserving relative order.
	//
	// Returns:
	//   - int: the number of batches moved
	RepartitionBlend() int
}

var _ Layer = &layerImpl{}

// NewLayer creates an enabled Layer with the given id and name. All dirty flags
// start set so the first composition update consumes the layer fully.
//
// Parameters:
//   - id: the layer id
//   - name: the layer name
//   - options: functional options to configure the layer
//
// Returns:
//   - Layer: the new layer
func NewLayer(id int, name string, options ...LayerBuilderOption) Layer {
	l := &layerImpl{
		id:           id,
		name:         name,
		enabled:      true,
		dirty:        true,
		dirtyLights:  true,
		dirtyCameras: true,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *layerImpl) ID() int {
	return l.id
}

func (l *layerImpl) Name() string {
	return l.name
}

func (l *layerImpl) Enabled() bool {
	return l.enabled
}

func (l *layerImpl) OpaqueBatches() []Batch {
	return l.opaqueBatches
}

func (l *layerImpl) TransparentBatches() []Batch {
	return l.transparentBatches
}

func (l *layerImpl) Batches(transparent bool) []Batch {
	if transparent {
		return l.transparentBatches
	}
	return l.opaqueBatches
}

func (l *layerImpl) ShadowCasters() []Batch {
	return l.shadowCasters
}

func (l *layerImpl) Lights() []light.Light {
	return l.lights
}

func (l *layerImpl) ClusteredLights() []light.Light {
	return l.clusteredLights
}

func (l *layerImpl) HasClusteredLights() bool {
	return len(l.clusteredLights) > 0
}

func (l *layerImpl) Cameras() []camera.Camera {
	return l.cameras
}

func (l *layerImpl) CameraIndex(cam camera.Camera) int {
	return slices.Index(l.cameras, cam)
}

func (l *layerImpl) PassThrough() bool {
	return l.passThrough
}

func (l *layerImpl) ClearColorBuffer() bool {
	return l.clearColorBuffer
}

func (l *layerImpl) ClearDepthBuffer() bool {
	return l.clearDepthBuffer
}

func (l *layerImpl) ClearStencilBuffer() bool {
	return l.clearStencilBuffer
}

func (l *layerImpl) RenderTarget() render_target.RenderTarget {
	return l.renderTarget
}

func (l *layerImpl) Dirty() bool {
	return l.dirty
}

func (l *layerImpl) DirtyLights() bool {
	return l.dirtyLights
}

func (l *layerImpl) DirtyCameras() bool {
	return l.dirtyCameras
}

func (l *layerImpl) DirtyBlend() bool {
	return l.dirtyBlend
}

func (l *layerImpl) ClearDirty() {
	l.dirty = false
}

func (l *layerImpl) ClearDirtyLights() {
	l.dirtyLights = false
}

func (l *layerImpl) ClearDirtyCameras() {
	l.dirtyCameras = false
}

func (l *layerImpl) ClearDirtyBlend() {
	l.dirtyBlend = false
}

func (l *layerImpl) SetEnabled(enabled bool) {
	if l.enabled == enabled {
		return
	}
	l.enabled = enabled
	l.dirtyCameras = true
}

func (l *layerImpl) AddBatches(batches ...Batch) {
	for _, b := range batches {
		if slices.Contains(l.opaqueBatches, b) || slices.Contains(l.transparentBatches, b) {
			continue
		}
		if b.Transparent() {
			l.transparentBatches = append(l.transparentBatches, b)
		} else {
			l.opaqueBatches = append(l.opaqueBatches, b)
		}
		if b.CastsShadows() && !slices.Contains(l.shadowCasters, b) {
			l.shadowCasters = append(l.shadowCasters, b)
		}
		l.dirty = true
	}
}

func (l *layerImpl) RemoveBatches(batches ...Batch) {
	for _, b := range batches {
		before := len(l.opaqueBatches) + len(l.transparentBatches) + len(l.shadowCasters)
		l.opaqueBatches = removeBatch(l.opaqueBatches, b)
		l.transparentBatches = removeBatch(l.transparentBatches, b)
		l.shadowCasters = removeBatch(l.shadowCasters, b)
		if len(l.opaqueBatches)+len(l.transparentBatches)+len(l.shadowCasters) != before {
			l.dirty = true
		}
	}
}

func (l *layerImpl) AddShadowCasters(batches ...Batch) {
	for _, b := range batches {
		if slices.Contains(l.shadowCasters, b) {
			continue
		}
		l.shadowCasters = append(l.shadowCasters, b)
		l.dirty = true
	}
}

func (l *layerImpl) RemoveShadowCasters(batches ...Batch) {
	for _, b := range batches {
		before := len(l.shadowCasters)
		l.shadowCasters = removeBatch(l.shadowCasters, b)
		if len(l.shadowCasters) != before {
			l.dirty = true
		}
	}
}

func (l *layerImpl) AddLight(lt light.Light) {
	if slices.Contains(l.lights, lt) {
		return
	}
	l.lights = append(l.lights, lt)
	if lt.Type() != light.LightTypeDirectional {
		l.clusteredLights = append(l.clusteredLights, lt)
	}
	l.dirtyLights = true
}

func (l *layerImpl) RemoveLight(lt light.Light) {
	i := slices.Index(l.lights, lt)
	if i < 0 {
		return
	}
	l.lights = slices.Delete(l.lights, i, i+1)
	if j := slices.Index(l.clusteredLights, lt); j >= 0 {
		l.clusteredLights = slices.Delete(l.clusteredLights, j, j+1)
	}
	l.dirtyLights = true
}

func (l *layerImpl) ClearLights() {
	if len(l.lights) == 0 {
		return
	}
	l.lights = l.lights[:0]
	l.clusteredLights = l.clusteredLights[:0]
	l.dirtyLights = true
}

func (l *layerImpl) AddCamera(cam camera.Camera) {
	if slices.Contains(l.cameras, cam) {
		return
	}
	l.cameras = append(l.cameras, cam)
	l.dirtyCameras = true
}

func (l *layerImpl) RemoveCamera(cam camera.Camera) {
	i := slices.Index(l.cameras, cam)
	if i < 0 {
		return
	}
	l.cameras = slices.Delete(l.cameras, i, i+1)
	l.dirtyCameras = true
}

func (l *layerImpl) SetPassThrough(passThrough bool) {
	if l.passThrough == passThrough {
		return
	}
	l.passThrough = passThrough
	l.dirty = true
}

func (l *layerImpl) SetClearFlags(color, depth, stencil bool) {
	l.clearColorBuffer = color
	l.clearDepthBuffer = depth
	l.clearStencilBuffer = stencil
	l.dirtyCameras = true
}

func (l *layerImpl) SetRenderTarget(rt render_target.RenderTarget) {
	l.renderTarget = rt
	l.dirtyCameras = true
}

func (l *layerImpl) MarkBlendDirty() {
	l.dirtyBlend = true
}

func (l *layerImpl) MarkCamerasDirty() {
	l.dirtyCameras = true
}

func (l *layerImpl) MarkLightsDirty() {
	l.dirtyLights = true
}

func (l *layerImpl) RepartitionBlend() int {
	var toTransparent, toOpaque []Batch
	l.opaqueBatches = slices.DeleteFunc(l.opaqueBatches, func(b Batch) bool {
		if b.Transparent() {
			toTransparent = append(toTransparent, b)
			return true
		}
		return false
	})
	l.transparentBatches = slices.DeleteFunc(l.transparentBatches, func(b Batch) bool {
		if !b.Transparent() {
			toOpaque = append(toOpaque, b)
			return true
		}
		return false
	})
	l.opaqueBatches = append(l.opaqueBatches, toOpaque...)
	l.transparentBatches = append(l.transparentBatches, toTransparent...)

	moved := len(toTransparent) + len(toOpaque)
	if moved > 0 {
		l.dirty = true
	}
	return moved
}

// removeBatch deletes the first occurrence of b from list.
func removeBatch(list []Batch, b Batch) []Batch {
	if i := slices.Index(list, b); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}

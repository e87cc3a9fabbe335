package composition

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/layer"
)

// rebuildCameras collects the enabled cameras of every layer in layer order,
// deduplicated, and sorts them into render order: lower priority values render
// first so higher-priority cameras stack on top of them. Ties keep discovery order.
func (c *compositionImpl) rebuildCameras() {
	clear(c.cameras)
	c.cameras = c.cameras[:0]
	seen := make(map[camera.Camera]struct{})
	for _, l := range c.layerList {
		for _, cam := range l.Cameras() {
			if !cam.Enabled() {
				continue
			}
			if _, ok := seen[cam]; ok {
				continue
			}
			seen[cam] = struct{}{}
			c.cameras = append(c.cameras, cam)
		}
		l.ClearDirtyCameras()
	}
	sort.SliceStable(c.cameras, func(i, j int) bool {
		return c.cameras[i].Priority() < c.cameras[j].Priority()
	})
}

// rebuildRenderActions walks cameras by priority and, for each, the full
// sub-layer sequence, emitting one RenderAction per enabled sub-layer the camera
// and layer both reference. Slots from the previous build are reused and the
// surplus tail is destroyed.
func (c *compositionImpl) rebuildRenderActions() {
	count := 0
	for _, cam := range c.cameras {
		firstIndex := count
		first := true
		postProcessMarked := false
		var lastRA *RenderAction
		cameraLayers := c.cameraLayersScratch[:0]

		for j, l := range c.layerList {
			if !c.subLayerEnabled[j] || !l.Enabled() || !cam.RendersLayer(l.ID()) {
				continue
			}
			cameraLayers = append(cameraLayers, l)

			if !postProcessMarked && l.ID() == cam.DisablePostEffectsLayer() {
				postProcessMarked = true
				if lastRA != nil {
					lastRA.TriggerPostprocess = true
				}
			}

			cameraIndex := l.CameraIndex(cam)
			if cameraIndex < 0 {
				continue
			}
			lastRA = c.addRenderAction(count, l, j, cam, cameraIndex, first, postProcessMarked)
			count++
			first = false
		}

		if lastRA != nil {
			c.renderActions[firstIndex].collectDirectionalLights(cameraLayers, c.layerLights, c.lightsMap)
			lastRA.LastCameraUse = true
			if !postProcessMarked {
				lastRA.TriggerPostprocess = true
			}
		}

		if cam.RenderTarget() != nil && cam.PostEffectsEnabled() {
			c.propagateRenderTarget(firstIndex-1, cam)
		}

		clear(cameraLayers)
		c.cameraLayersScratch = cameraLayers[:0]
	}

	for i := count; i < len(c.renderActions); i++ {
		c.renderActions[i].Destroy()
		c.renderActions[i] = nil
	}
	c.renderActions = c.renderActions[:count]
	c.renderActionCount = count
}

// addRenderAction fills the slot at index, allocating it on first use, and
// resolves its render target and clear flags.
//
// Parameters:
//   - index: slot index
//   - l: the layer of the sub-layer
//   - layerIndex: position of the sub-layer in the layer list
//   - cam: the camera
//   - cameraIndex: position of cam in the layer's camera list
//   - first: whether this is the camera's first action
//   - postProcessMarked: whether the camera already passed its postprocess stop layer
//
// Returns:
//   - *RenderAction: the filled slot
func (c *compositionImpl) addRenderAction(index int, l layer.Layer, layerIndex int, cam camera.Camera, cameraIndex int, first, postProcessMarked bool) *RenderAction {
	var ra *RenderAction
	if index < len(c.renderActions) {
		ra = c.renderActions[index]
	} else {
		ra = newRenderAction()
		c.renderActions = append(c.renderActions, ra)
	}

	rt := l.RenderTarget()
	if cam.RenderTarget() != nil && l.ID() != c.depthLayerID {
		rt = cam.RenderTarget()
	}

	used := false
	for i := index - 1; i >= 0; i-- {
		if c.renderActions[i].Camera == cam && c.renderActions[i].RenderTarget == rt {
			used = true
			break
		}
	}

	needsClear := first || !used
	ra.ClearColor = (needsClear && cam.ClearColorBuffer()) || l.ClearColorBuffer()
	ra.ClearDepth = (needsClear && cam.ClearDepthBuffer()) || l.ClearDepthBuffer()
	ra.ClearStencil = (needsClear && cam.ClearStencilBuffer()) || l.ClearStencilBuffer()

	if postProcessMarked && cam.PostEffectsEnabled() {
		rt = nil
	}

	ra.LayerIndex = layerIndex
	ra.CameraIndex = cameraIndex
	ra.Camera = cam
	ra.RenderTarget = rt
	ra.TriggerPostprocess = false
	ra.FirstCameraUse = first
	ra.LastCameraUse = false
	ra.LightClusters = nil
	ra.clearDirectionalLights()
	return ra
}

// propagateRenderTarget walks backward from start, redirecting earlier actions
// into cam's render target so lower-priority cameras stack onto it. The walk
// stops at an action targeting a different render target or using a different
// viewport or scissor. Depth layer actions are skipped.
//
// Parameters:
//   - start: index of the last action before cam's first action
//   - cam: the camera whose render target is propagated
func (c *compositionImpl) propagateRenderTarget(start int, cam camera.Camera) {
	target := cam.RenderTarget()
	for a := start; a >= 0; a-- {
		ra := c.renderActions[a]
		if c.layerList[ra.LayerIndex].ID() == c.depthLayerID {
			continue
		}
		if ra.RenderTarget != nil && ra.RenderTarget != target {
			break
		}
		if ra.Camera != nil {
			if !cam.Rect().Equals(ra.Camera.Rect()) || !cam.ScissorRect().Equals(ra.Camera.ScissorRect()) {
				break
			}
		}
		ra.RenderTarget = target
	}
}

func (c *compositionImpl) Cameras() []camera.Camera {
	return c.cameras
}

func (c *compositionImpl) RenderActions() []*RenderAction {
	return c.renderActions[:c.renderActionCount]
}

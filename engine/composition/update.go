package composition

import (
	"context"
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/profiler"
	"github.com/Carmen-Shannon/oxy-compose/engine/render_target"
	"github.com/cogentcore/webgpu/wgpu"
)

func (c *compositionImpl) UpdateComposition(device *wgpu.Device, clusteredLightingEnabled bool) (UpdateFlags, error) {
	start := time.Now()
	var result UpdateFlags

	blendDirty := false
	for _, l := range c.layerList {
		if l.Dirty() {
			c.dirty.batches = true
		}
		if l.DirtyLights() {
			c.dirty.lights = true
		}
		if l.DirtyCameras() {
			c.dirty.cameras = true
		}
		if l.DirtyBlend() {
			blendDirty = true
		}
	}

	if blendDirty {
		result |= UpdatedBlend
		for _, l := range c.layerList {
			if !l.DirtyBlend() {
				continue
			}
			l.RepartitionBlend()
			l.ClearDirtyBlend()
		}
		c.dirty.batches = true
	}

	if c.dirty.batches {
		result |= UpdatedBatches
		c.rebuildBatches()
		c.dirty.batches = false
	}

	if c.dirty.lights {
		result |= UpdatedLights
		c.rebuildLights()
		c.dirty.lights = false
	}

	if result&(UpdatedBatches|UpdatedLights) != 0 {
		c.rebuildShadowCasters()
	}

	if c.dirty.cameras || result.Has(UpdatedLights) {
		result |= UpdatedCameras
		c.rebuildCameras()
		c.rebuildRenderActions()
		c.dirty.cameras = false
	}

	var err error
	if result&(UpdatedCameras|UpdatedLights|UpdatedBatches) != 0 && clusteredLightingEnabled {
		err = c.allocateLightClusters(device)
	}
	if result.Has(UpdatedCameras) {
		c.LogRenderActions()
	}

	if result != 0 {
		common.Logger().Debug("composition updated",
			"composition", c.name,
			"flags", result.String(),
			"batches", len(c.batches),
			"lights", len(c.lights),
			"cameras", len(c.cameras),
			"render_actions", c.renderActionCount,
			"clusters", len(c.worldClusters),
		)
	}

	if c.profiler != nil {
		c.profiler.Record(profiler.Sample{
			Batches:       result.Has(UpdatedBatches),
			Blend:         result.Has(UpdatedBlend),
			Lights:        result.Has(UpdatedLights),
			Cameras:       result.Has(UpdatedCameras),
			Duration:      time.Since(start),
			RenderActions: c.renderActionCount,
			Clusters:      len(c.worldClusters),
		})
	}

	return result, err
}

func (c *compositionImpl) LogRenderActions() {
	logger := common.Logger()
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for i, ra := range c.RenderActions() {
		l := c.layerList[ra.LayerIndex]
		clusters := ""
		if ra.LightClusters != nil {
			clusters = ra.LightClusters.Name()
		}
		logger.Debug("render action",
			"composition", c.name,
			"index", i,
			"camera", ra.Camera.Name(),
			"layer", l.Name(),
			"id", l.ID(),
			"transparent", c.subLayerList[ra.LayerIndex],
			"enabled", c.subLayerEnabled[ra.LayerIndex] && l.Enabled(),
			"target", render_target.Label(ra.RenderTarget),
			"clear", ra.ClearFlags(),
			"clusters", clusters,
			"first", ra.FirstCameraUse,
			"last", ra.LastCameraUse,
			"postprocess", ra.TriggerPostprocess,
			"directional", len(ra.DirectionalLights),
		)
	}
}

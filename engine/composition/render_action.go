package composition

import (
	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/layer"
	"github.com/Carmen-Shannon/oxy-compose/engine/light"
	"github.com/Carmen-Shannon/oxy-compose/engine/light_cluster"
	"github.com/Carmen-Shannon/oxy-compose/engine/render_target"
)

// RenderAction is one scheduled unit of work: render Camera against the
// sub-layer at LayerIndex into RenderTarget with the resolved clear flags.
//
// RenderActions are owned by the composition and reused across updates; callers
// must not keep references past the next UpdateComposition.
type RenderAction struct {
	// LayerIndex is the position of the sub-layer in the composition's layer list.
	LayerIndex int
	// CameraIndex is the position of Camera in the layer's camera list.
	CameraIndex int
	Camera      camera.Camera
	// RenderTarget is the resolved destination. Nil renders to the back buffer.
	RenderTarget  render_target.RenderTarget
	LightClusters light_cluster.WorldClusters

	ClearColor   bool
	ClearDepth   bool
	ClearStencil bool

	// TriggerPostprocess marks the action after which the camera's post effects run.
	TriggerPostprocess bool
	FirstCameraUse     bool
	LastCameraUse      bool

	// DirectionalLights holds, on the first action of each camera only, the
	// shadow-casting directional lights of every layer the camera renders.
	DirectionalLights []light.Light
	// DirectionalLightsIndices are the indices of DirectionalLights in the
	// composition's light list.
	DirectionalLightsIndices []int

	directionalLightsSet map[light.Light]struct{}
}

// newRenderAction allocates an empty RenderAction.
func newRenderAction() *RenderAction {
	return &RenderAction{
		directionalLightsSet: make(map[light.Light]struct{}),
	}
}

// IsPostprocessBoundary reports whether post effects run after this action.
func (ra *RenderAction) IsPostprocessBoundary() bool {
	return ra.TriggerPostprocess && ra.Camera != nil && ra.Camera.PostEffectsEnabled()
}

// ClearFlags renders the clear flags as "CDS", with "-" for each unset flag.
func (ra *RenderAction) ClearFlags() string {
	b := []byte("---")
	if ra.ClearColor {
		b[0] = 'C'
	}
	if ra.ClearDepth {
		b[1] = 'D'
	}
	if ra.ClearStencil {
		b[2] = 'S'
	}
	return string(b)
}

// Destroy drops every reference held by the action. The clusters are owned by
// the composition's pool and are not released here.
func (ra *RenderAction) Destroy() {
	ra.Camera = nil
	ra.RenderTarget = nil
	ra.LightClusters = nil
	ra.clearDirectionalLights()
}

func (ra *RenderAction) clearDirectionalLights() {
	ra.DirectionalLights = ra.DirectionalLights[:0]
	ra.DirectionalLightsIndices = ra.DirectionalLightsIndices[:0]
	clear(ra.directionalLightsSet)
}

// collectDirectionalLights gathers the shadow-casting directional lights of
// cameraLayers, deduplicated, in layer order.
//
// Parameters:
//   - cameraLayers: the layers the camera renders
//   - split: enabled directional lights per layer
//   - lightsMap: light to index in the composition's light list
func (ra *RenderAction) collectDirectionalLights(cameraLayers []layer.Layer, split map[layer.Layer]*layerLightData, lightsMap map[light.Light]int) {
	ra.clearDirectionalLights()
	for _, l := range cameraLayers {
		data, ok := split[l]
		if !ok {
			continue
		}
		for _, lt := range data.split[light.LightTypeDirectional] {
			if !lt.CastsShadows() {
				continue
			}
			if _, seen := ra.directionalLightsSet[lt]; seen {
				continue
			}
			ra.directionalLightsSet[lt] = struct{}{}
			ra.DirectionalLights = append(ra.DirectionalLights, lt)
			ra.DirectionalLightsIndices = append(ra.DirectionalLightsIndices, lightsMap[lt])
		}
	}
}

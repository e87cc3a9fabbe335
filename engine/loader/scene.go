package loader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/composition"
	"github.com/Carmen-Shannon/oxy-compose/engine/layer"
	"github.com/Carmen-Shannon/oxy-compose/engine/light"
	"github.com/Carmen-Shannon/oxy-compose/engine/render_target"
)

// Scene holds the objects built from a SceneDescription, keyed by name, and the
// composition populated from its composition section. The composition has not
// been updated yet; callers run UpdateComposition themselves.
type Scene struct {
	Name          string
	RenderTargets map[string]render_target.RenderTarget
	Lights        map[string]light.Light
	Batches       map[string]layer.Batch
	Cameras       map[string]camera.Camera
	Layers        map[string]layer.Layer
	Composition   composition.Composition
}

// sceneBuilder resolves named references while a Scene is assembled.
type sceneBuilder struct {
	scene    *Scene
	layerIDs map[string]int
}

func buildScene(desc *SceneDescription, options []composition.CompositionBuilderOption) (*Scene, error) {
	b := &sceneBuilder{
		scene: &Scene{
			Name:          common.Coalesce(desc.Name, "Composition"),
			RenderTargets: make(map[string]render_target.RenderTarget, len(desc.RenderTargets)),
			Lights:        make(map[string]light.Light, len(desc.Lights)),
			Batches:       make(map[string]layer.Batch, len(desc.Batches)),
			Cameras:       make(map[string]camera.Camera, len(desc.Cameras)),
			Layers:        make(map[string]layer.Layer, len(desc.Layers)),
		},
		layerIDs: make(map[string]int, len(desc.Layers)),
	}

	steps := []func(*SceneDescription) error{
		b.buildRenderTargets,
		b.buildLights,
		b.buildBatches,
		b.indexLayers,
		b.buildCameras,
		b.buildLayers,
	}
	for _, step := range steps {
		if err := step(desc); err != nil {
			return nil, err
		}
	}

	opts := append([]composition.CompositionBuilderOption{composition.WithName(b.scene.Name)}, options...)
	b.scene.Composition = composition.NewComposition(opts...)
	if err := b.populate(desc.Composition); err != nil {
		b.scene.Composition.DestroyComposition()
		return nil, err
	}
	return b.scene, nil
}

func (b *sceneBuilder) buildRenderTargets(desc *SceneDescription) error {
	for i, rd := range desc.RenderTargets {
		if err := checkName("render target", i, rd.Name, b.scene.RenderTargets); err != nil {
			return err
		}
		b.scene.RenderTargets[rd.Name] = render_target.NewRenderTarget(rd.Name, render_target.WithSize(rd.Width, rd.Height))
	}
	return nil
}

func (b *sceneBuilder) buildLights(desc *SceneDescription) error {
	for i, ld := range desc.Lights {
		if err := checkName("light", i, ld.Name, b.scene.Lights); err != nil {
			return err
		}
		lightType, err := parseLightType(ld.Type)
		if err != nil {
			return fmt.Errorf("light %q: %w", ld.Name, err)
		}

		opts := []light.LightBuilderOption{light.WithName(ld.Name), light.WithCastsShadows(ld.CastsShadows)}
		if ld.Position != nil {
			opts = append(opts, light.WithPosition(ld.Position[0], ld.Position[1], ld.Position[2]))
		}
		if ld.Direction != nil {
			opts = append(opts, light.WithDirection(ld.Direction[0], ld.Direction[1], ld.Direction[2]))
		}
		if ld.Color != nil {
			opts = append(opts, light.WithColor(ld.Color[0], ld.Color[1], ld.Color[2]))
		}
		if ld.Intensity != 0 {
			opts = append(opts, light.WithIntensity(ld.Intensity))
		}
		if ld.Range != 0 {
			opts = append(opts, light.WithRange(ld.Range))
		}
		if ld.InnerCone != 0 || ld.OuterCone != 0 {
			opts = append(opts, light.WithSpotCone(common.Coalesce(ld.InnerCone, 25), common.Coalesce(ld.OuterCone, 35)))
		}
		if ld.Enabled != nil {
			opts = append(opts, light.WithEnabled(*ld.Enabled))
		}
		b.scene.Lights[ld.Name] = light.NewLight(lightType, opts...)
	}
	return nil
}

func (b *sceneBuilder) buildBatches(desc *SceneDescription) error {
	for i, bd := range desc.Batches {
		if err := checkName("batch", i, bd.Name, b.scene.Batches); err != nil {
			return err
		}
		b.scene.Batches[bd.Name] = layer.NewBatch(bd.Name, bd.Transparent, bd.CastsShadows)
	}
	return nil
}

// indexLayers records layer ids ahead of camera construction, since cameras
// declare their layers by name.
func (b *sceneBuilder) indexLayers(desc *SceneDescription) error {
	ids := make(map[int]string, len(desc.Layers))
	for i, ld := range desc.Layers {
		if err := checkName("layer", i, ld.Name, b.layerIDs); err != nil {
			return err
		}
		if other, ok := ids[ld.ID]; ok {
			return fmt.Errorf("%w: layers %q and %q share id %d", ErrDuplicateName, other, ld.Name, ld.ID)
		}
		ids[ld.ID] = ld.Name
		b.layerIDs[ld.Name] = ld.ID
	}
	return nil
}

func (b *sceneBuilder) buildCameras(desc *SceneDescription) error {
	for i, cd := range desc.Cameras {
		if err := checkName("camera", i, cd.Name, b.scene.Cameras); err != nil {
			return err
		}
		ids, err := lookupAll(b.layerIDs, cd.Layers, "layer")
		if err != nil {
			return fmt.Errorf("camera %q: %w", cd.Name, err)
		}

		opts := []camera.CameraBuilderOption{
			camera.WithPriority(cd.Priority),
			camera.WithLayers(ids...),
			camera.WithPostEffects(cd.PostEffects),
		}
		if cd.RenderTarget != "" {
			rt, err := lookup(b.scene.RenderTargets, cd.RenderTarget, "render target")
			if err != nil {
				return fmt.Errorf("camera %q: %w", cd.Name, err)
			}
			opts = append(opts, camera.WithRenderTarget(rt))
		}
		if cd.Clear != nil {
			opts = append(opts, camera.WithClearFlags(cd.Clear.Color, cd.Clear.Depth, cd.Clear.Stencil))
		}
		if cd.DisablePostEffectsLayer != "" {
			id, err := lookup(b.layerIDs, cd.DisablePostEffectsLayer, "layer")
			if err != nil {
				return fmt.Errorf("camera %q: %w", cd.Name, err)
			}
			opts = append(opts, camera.WithDisablePostEffectsLayer(id))
		}
		if cd.Rect != nil {
			opts = append(opts, camera.WithRect(toRect(*cd.Rect)))
		}
		if cd.Scissor != nil {
			opts = append(opts, camera.WithScissorRect(toRect(*cd.Scissor)))
		}
		if cd.Enabled != nil {
			opts = append(opts, camera.WithEnabled(*cd.Enabled))
		}
		b.scene.Cameras[cd.Name] = camera.NewCamera(cd.Name, opts...)
	}
	return nil
}

func (b *sceneBuilder) buildLayers(desc *SceneDescription) error {
	for _, ld := range desc.Layers {
		batches, err := lookupAll(b.scene.Batches, ld.Batches, "batch")
		if err != nil {
			return fmt.Errorf("layer %q: %w", ld.Name, err)
		}
		casters, err := lookupAll(b.scene.Batches, ld.ShadowCasters, "batch")
		if err != nil {
			return fmt.Errorf("layer %q: %w", ld.Name, err)
		}
		lights, err := lookupAll(b.scene.Lights, ld.Lights, "light")
		if err != nil {
			return fmt.Errorf("layer %q: %w", ld.Name, err)
		}
		cameras, err := lookupAll(b.scene.Cameras, ld.Cameras, "camera")
		if err != nil {
			return fmt.Errorf("layer %q: %w", ld.Name, err)
		}

		opts := []layer.LayerBuilderOption{
			layer.WithBatches(batches...),
			layer.WithShadowCasters(casters...),
			layer.WithLights(lights...),
			layer.WithCameras(cameras...),
			layer.WithPassThrough(ld.PassThrough),
		}
		if ld.Clear != nil {
			opts = append(opts, layer.WithClearFlags(ld.Clear.Color, ld.Clear.Depth, ld.Clear.Stencil))
		}
		if ld.RenderTarget != "" {
			rt, err := lookup(b.scene.RenderTargets, ld.RenderTarget, "render target")
			if err != nil {
				return fmt.Errorf("layer %q: %w", ld.Name, err)
			}
			opts = append(opts, layer.WithRenderTarget(rt))
		}
		if ld.Enabled != nil {
			opts = append(opts, layer.WithEnabled(*ld.Enabled))
		}
		b.scene.Layers[ld.Name] = layer.NewLayer(ld.ID, ld.Name, opts...)
	}
	return nil
}

// populate places the composition entries in document order.
func (b *sceneBuilder) populate(entries []CompositionEntryDescription) error {
	c := b.scene.Composition
	for _, e := range entries {
		l, err := lookup(b.scene.Layers, e.Layer, "layer")
		if err != nil {
			return fmt.Errorf("composition: %w", err)
		}

		var transparent []bool
		switch strings.ToLower(e.Sub) {
		case "", "both":
			transparent = []bool{false, true}
		case "opaque":
			transparent = []bool{false}
		case "transparent":
			transparent = []bool{true}
		default:
			return fmt.Errorf("%w: composition entry for %q has sub %q", ErrInvalidValue, e.Layer, e.Sub)
		}

		for _, t := range transparent {
			var index int
			if t {
				index = c.GetTransparentIndex(l)
			} else {
				index = c.GetOpaqueIndex(l)
			}
			if index >= 0 {
				return fmt.Errorf("%w: composition places %s twice", ErrDuplicateName, subName(e.Layer, t))
			}

			if t {
				c.PushTransparent(l)
			} else {
				c.PushOpaque(l)
			}
			if e.Enabled != nil && !*e.Enabled {
				c.SetSubLayerEnabled(len(c.SubLayerList())-1, false)
			}
		}
	}
	return nil
}

func parseLightType(s string) (light.LightType, error) {
	switch strings.ToLower(s) {
	case "directional":
		return light.LightTypeDirectional, nil
	case "omni", "point":
		return light.LightTypeOmni, nil
	case "spot":
		return light.LightTypeSpot, nil
	default:
		return 0, fmt.Errorf("%w: light type %q", ErrInvalidValue, s)
	}
}

func checkName[V any](kind string, index int, name string, seen map[string]V) error {
	if name == "" {
		return fmt.Errorf("%w: %s #%d has no name", ErrInvalidValue, kind, index)
	}
	if _, ok := seen[name]; ok {
		return fmt.Errorf("%w: %s %q", ErrDuplicateName, kind, name)
	}
	return nil
}

func lookup[V any](m map[string]V, name, kind string) (V, error) {
	v, ok := m[name]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %s %q", ErrUnknownReference, kind, name)
	}
	return v, nil
}

func lookupAll[V any](m map[string]V, names []string, kind string) ([]V, error) {
	out := make([]V, 0, len(names))
	for _, name := range names {
		v, err := lookup(m, name, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func toRect(v [4]float32) common.Rect {
	return common.Rect{X: v[0], Y: v[1], Z: v[2], W: v[3]}
}

func subName(layerName string, transparent bool) string {
	if transparent {
		return layerName + "/transparent"
	}
	return layerName + "/opaque"
}

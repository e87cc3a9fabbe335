package composition

import (
	"github.com/Carmen-Shannon/oxy-compose/engine/layer"
	"github.com/Carmen-Shannon/oxy-compose/engine/light"
)

// LightCompositionData is the per-light record kept parallel to the
// composition's light list. It holds the deduplicated union of the shadow
// casters of every layer the light touches.
type LightCompositionData struct {
	shadowCastersSet map[layer.Batch]struct{}
	shadowCasters    []layer.Batch
}

func newLightCompositionData() *LightCompositionData {
	return &LightCompositionData{
		shadowCastersSet: make(map[layer.Batch]struct{}),
	}
}

// ShadowCasters returns the casters in first-added order. The slice is owned by
// the composition.
func (d *LightCompositionData) ShadowCasters() []layer.Batch {
	return d.shadowCasters
}

func (d *LightCompositionData) clearShadowCasters() {
	d.shadowCasters = d.shadowCasters[:0]
	clear(d.shadowCastersSet)
}

func (d *LightCompositionData) addShadowCasters(casters []layer.Batch) {
	for _, b := range casters {
		if _, ok := d.shadowCastersSet[b]; ok {
			continue
		}
		d.shadowCastersSet[b] = struct{}{}
		d.shadowCasters = append(d.shadowCasters, b)
	}
}

// layerLightData holds a layer's enabled lights bucketed by type.
type layerLightData struct {
	split [light.LightTypeCount][]light.Light
}

// splitLightsByType fills dst with the enabled lights of src, per type, keeping
// the order of src.
func splitLightsByType(dst *[light.LightTypeCount][]light.Light, src []light.Light) {
	for i := range dst {
		dst[i] = dst[i][:0]
	}
	for _, lt := range src {
		if lt.Enabled() {
			dst[lt.Type()] = append(dst[lt.Type()], lt)
		}
	}
}

// rebuildLights assigns every light referenced by the layers a global index in
// first-seen layer order and refreshes the per-layer and global type buckets.
func (c *compositionImpl) rebuildLights() {
	clear(c.lights)
	c.lights = c.lights[:0]
	clear(c.lightsMap)

	visited := make(map[layer.Layer]struct{}, len(c.layerList)/2)
	for _, l := range c.layerList {
		if _, ok := visited[l]; ok {
			continue
		}
		visited[l] = struct{}{}

		for _, lt := range l.Lights() {
			if _, ok := c.lightsMap[lt]; ok {
				continue
			}
			c.lightsMap[lt] = len(c.lights)
			c.lights = append(c.lights, lt)
			if len(c.lightCompositionData) < len(c.lights) {
				c.lightCompositionData = append(c.lightCompositionData, newLightCompositionData())
			}
		}

		data, ok := c.layerLights[l]
		if !ok {
			data = &layerLightData{}
			c.layerLights[l] = data
		}
		splitLightsByType(&data.split, l.Lights())
		l.ClearDirtyLights()
	}

	for l := range c.layerLights {
		if _, ok := visited[l]; !ok {
			delete(c.layerLights, l)
		}
	}

	splitLightsByType(&c.splitLights, c.lights)

	clear(c.lightCompositionData[len(c.lights):])
	c.lightCompositionData = c.lightCompositionData[:len(c.lights)]
}

// rebuildShadowCasters recomputes every light's shadow caster union from
// scratch.
func (c *compositionImpl) rebuildShadowCasters() {
	for _, d := range c.lightCompositionData {
		d.clearShadowCasters()
	}

	visited := make(map[layer.Layer]struct{}, len(c.layerList)/2)
	for _, l := range c.layerList {
		if _, ok := visited[l]; ok {
			continue
		}
		visited[l] = struct{}{}

		for _, lt := range l.Lights() {
			if !lt.CastsShadows() {
				continue
			}
			c.lightCompositionData[c.lightsMap[lt]].addShadowCasters(l.ShadowCasters())
		}
	}
}

func (c *compositionImpl) Lights() []light.Light {
	return c.lights
}

func (c *compositionImpl) LightIndex(lt light.Light) int {
	if i, ok := c.lightsMap[lt]; ok {
		return i
	}
	return -1
}

func (c *compositionImpl) SplitLights(lightType light.LightType) []light.Light {
	if lightType < 0 || lightType >= light.LightTypeCount {
		return nil
	}
	return c.splitLights[lightType]
}

func (c *compositionImpl) LightCompositionData(index int) *LightCompositionData {
	if index < 0 || index >= len(c.lightCompositionData) {
		return nil
	}
	return c.lightCompositionData[index]
}

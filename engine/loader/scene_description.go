package loader

// SceneDescription is the root of a scene file. Objects reference each other by
// name; every name is unique within its section.
type SceneDescription struct {
	Name          string                        `yaml:"name"`
	RenderTargets []RenderTargetDescription     `yaml:"render_targets"`
	Lights        []LightDescription            `yaml:"lights"`
	Batches       []BatchDescription            `yaml:"batches"`
	Cameras       []CameraDescription           `yaml:"cameras"`
	Layers        []LayerDescription            `yaml:"layers"`
	Composition   []CompositionEntryDescription `yaml:"composition"`
}

// RenderTargetDescription describes an offscreen render target.
type RenderTargetDescription struct {
	Name   string `yaml:"name"`
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
}

// LightDescription describes a light. Type is one of directional, omni or spot.
// Cone angles are half-angles in degrees.
type LightDescription struct {
	Name         string      `yaml:"name"`
	Type         string      `yaml:"type"`
	Position     *[3]float32 `yaml:"position"`
	Direction    *[3]float32 `yaml:"direction"`
	Color        *[3]float32 `yaml:"color"`
	Intensity    float32     `yaml:"intensity"`
	Range        float32     `yaml:"range"`
	InnerCone    float32     `yaml:"inner_cone"`
	OuterCone    float32     `yaml:"outer_cone"`
	Enabled      *bool       `yaml:"enabled"`
	CastsShadows bool        `yaml:"casts_shadows"`
}

// BatchDescription describes a draw batch. Batches listed by several layers are shared.
type BatchDescription struct {
	Name         string `yaml:"name"`
	Transparent  bool   `yaml:"transparent"`
	CastsShadows bool   `yaml:"casts_shadows"`
}

// ClearDescription holds the three clear-buffer flags.
type ClearDescription struct {
	Color   bool `yaml:"color"`
	Depth   bool `yaml:"depth"`
	Stencil bool `yaml:"stencil"`
}

// CameraDescription describes a camera. Layers and DisablePostEffectsLayer
// reference layers by name. Rect and Scissor are x, y, width, height in
// normalized viewport units.
type CameraDescription struct {
	Name                    string            `yaml:"name"`
	Priority                float32           `yaml:"priority"`
	Layers                  []string          `yaml:"layers"`
	RenderTarget            string            `yaml:"render_target"`
	Clear                   *ClearDescription `yaml:"clear"`
	PostEffects             bool              `yaml:"post_effects"`
	DisablePostEffectsLayer string            `yaml:"disable_post_effects_layer"`
	Rect                    *[4]float32       `yaml:"rect"`
	Scissor                 *[4]float32       `yaml:"scissor"`
	Enabled                 *bool             `yaml:"enabled"`
}

// LayerDescription describes a render layer. Batches, ShadowCasters, Lights and
// Cameras reference their sections by name.
type LayerDescription struct {
	Name          string            `yaml:"name"`
	ID            int               `yaml:"id"`
	Enabled       *bool             `yaml:"enabled"`
	Batches       []string          `yaml:"batches"`
	ShadowCasters []string          `yaml:"shadow_casters"`
	Lights        []string          `yaml:"lights"`
	Cameras       []string          `yaml:"cameras"`
	PassThrough   bool              `yaml:"pass_through"`
	Clear         *ClearDescription `yaml:"clear"`
	RenderTarget  string            `yaml:"render_target"`
}

// CompositionEntryDescription places a layer in the composition. Sub is one of
// both (the default), opaque or transparent.
type CompositionEntryDescription struct {
	Layer   string `yaml:"layer"`
	Sub     string `yaml:"sub"`
	Enabled *bool  `yaml:"enabled"`
}

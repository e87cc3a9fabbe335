package light

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional has a direction and no position. Directional lights are
	// never clustered; shadow-casting ones are collected per camera instead.
	LightTypeDirectional LightType = iota

	// LightTypeOmni is binned into every cluster cell its range sphere reaches.
	LightTypeOmni

	// LightTypeSpot is binned like an omni light; the cone only matters to the GPU.
	LightTypeSpot

	// LightTypeCount is the number of light type buckets.
	LightTypeCount = 3
)

// String returns the lowercase name of the light type.
func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypeOmni:
		return "omni"
	case LightTypeSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	name         string
	lightType    LightType
	position     [3]float32
	direction    [3]float32
	color        [3]float32
	intensity    float32
	lightRange   float32
	innerCone    float32 // cosine
	outerCone    float32 // cosine
	enabled      bool
	castsShadows bool
}

// Light is a light source referenced by render layers.
//
// One Light may sit on several layers; the composition deduplicates it by
// identity and gives it one global index. Scheduling reads only Type, Enabled
// and CastsShadows. Position and Range place the light in cluster cells, and
// the remaining fields are copied verbatim into GPULight records.
//
// Changes are not observed. Call Layer.MarkLightsDirty on the layers holding a
// light after enabling, disabling or reconfiguring it.
type Light interface {
	// Name returns the light's debug name.
	Name() string

	// Type returns the light's bucket.
	//
	// Returns:
	//   - LightType: directional, omni or spot
	Type() LightType

	// Position returns the cluster binning center. Unused for directional lights.
	Position() [3]float32

	// Direction returns the unit direction. Unused for omni lights.
	Direction() [3]float32

	// Color returns the packed RGB color.
	Color() [3]float32

	// Intensity returns the packed intensity.
	Intensity() float32

	// Range returns the radius of the sphere used for cluster binning.
	//
	// Returns:
	//   - float32: the radius in world units
	Range() float32

	// InnerCone returns the packed cosine of the inner cone half-angle.
	InnerCone() float32

	// OuterCone returns the packed cosine of the outer cone half-angle.
	OuterCone() float32

	// Enabled reports whether the light takes part in composition. Disabled lights
	// keep their global index but are left out of the type buckets and clusters.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// CastsShadows reports whether the light collects shadow casters.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// Configure applies builder options to an existing light.
	//
	// Parameters:
	//   - opts: the options, e.g. WithPosition or WithRange
	Configure(opts ...LightBuilderOption)

	// SetEnabled enables or disables the light. Call Layer.MarkLightsDirty on the
	// layers holding the light for the change to reach the type buckets.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetCastsShadows sets whether the light collects shadow casters.
	//
	// Parameters:
	//   - castsShadows: true to collect casters
	SetCastsShadows(castsShadows bool)
}

var _ Light = &lightImpl{}

// NewLight creates an enabled Light of the given type. Omni and spot lights
// default to a range of 10 around the origin.
//
// Parameters:
//   - lightType: the light's bucket
//   - opts: builder options
//
// Returns:
//   - Light: the new light
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:  lightType,
		direction:  [3]float32{0, -1, 0},
		color:      [3]float32{1, 1, 1},
		intensity:  1,
		lightRange: 10,
		innerCone:  cosDeg(defaultInnerConeDeg),
		outerCone:  cosDeg(defaultOuterConeDeg),
		enabled:    true,
	}
	l.Configure(opts...)
	return l
}

func (l *lightImpl) Name() string {
	return l.name
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	return l.position
}

func (l *lightImpl) Direction() [3]float32 {
	return l.direction
}

func (l *lightImpl) Color() [3]float32 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) InnerCone() float32 {
	return l.innerCone
}

func (l *lightImpl) OuterCone() float32 {
	return l.outerCone
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) Configure(opts ...LightBuilderOption) {
	for _, opt := range opts {
		opt(l)
	}
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.castsShadows = castsShadows
}

package light

import "github.com/chewxy/math32"

const (
	defaultInnerConeDeg = 25
	defaultOuterConeDeg = 35
)

// LightBuilderOption configures a light in NewLight or Light.Configure.
type LightBuilderOption func(*lightImpl)

// WithName sets the debug name shown in render plan logs.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - LightBuilderOption: the option
func WithName(name string) LightBuilderOption {
	return func(l *lightImpl) {
		l.name = name
	}
}

// WithPosition sets the center of the light's cluster binning sphere.
//
// Parameters:
//   - x, y, z: world-space center
//
// Returns:
//   - LightBuilderOption: the option
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = [3]float32{x, y, z}
	}
}

// WithDirection sets the direction, normalized. A zero vector stays zero.
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = normalize3(x, y, z)
	}
}

// WithColor sets the packed RGB color.
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = [3]float32{r, g, b}
	}
}

// WithIntensity sets the packed intensity.
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithRange sets the radius of the cluster binning sphere. A larger range
// reaches more cells and counts against more per-cell caps.
//
// Parameters:
//   - lightRange: radius in world units
//
// Returns:
//   - LightBuilderOption: the option
func WithRange(lightRange float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightRange = lightRange
	}
}

// WithSpotCone sets the cone half-angles in degrees. They are packed as cosines.
//
// Parameters:
//   - innerDeg: inner half-angle
//   - outerDeg: outer half-angle
//
// Returns:
//   - LightBuilderOption: the option
func WithSpotCone(innerDeg, outerDeg float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.innerCone = cosDeg(innerDeg)
		l.outerCone = cosDeg(outerDeg)
	}
}

// WithEnabled sets whether the light starts enabled.
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

// WithCastsShadows sets whether the light collects the shadow casters of its
// layers. Shadow-casting directional lights are also handed to each camera's
// first render action.
//
// Parameters:
//   - castsShadows: true to collect casters
//
// Returns:
//   - LightBuilderOption: the option
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
	}
}

func normalize3(x, y, z float32) [3]float32 {
	length := math32.Sqrt(x*x + y*y + z*z)
	if length == 0 {
		return [3]float32{}
	}
	return [3]float32{x / length, y / length, z / length}
}

func cosDeg(deg float32) float32 {
	return math32.Cos(deg * math32.Pi / 180)
}

package loader

import "github.com/Carmen-Shannon/oxy-compose/engine/composition"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithCompositionOptions is an option builder that sets extra options applied to every
// composition the loader builds, after the scene's own name.
//
// Parameters:
//   - options: the composition options
//
// Returns:
//   - LoaderBuilderOption: a function that applies the composition options to a loader
func WithCompositionOptions(options ...composition.CompositionBuilderOption) LoaderBuilderOption {
	return func(l *loader) {
		l.compositionOptions = append(l.compositionOptions, options...)
	}
}

// WithDescription is an option builder that pre-populates the description cache.
//
// Parameters:
//   - key: the cache key for the description
//   - desc: the description to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the description option to a loader
func WithDescription(key string, desc *SceneDescription) LoaderBuilderOption {
	return func(l *loader) {
		l.descriptionCache[key] = desc
	}
}

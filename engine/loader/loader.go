package loader

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-compose/engine/composition"
)

// LoaderBackendType identifies the scene file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeYAML selects the YAML scene backend.
	BackendTypeYAML LoaderBackendType = iota
)

var (
	// ErrUnsupportedFormat is returned for scene files whose extension no backend handles.
	ErrUnsupportedFormat = errors.New("loader: unsupported scene format")

	// ErrUnknownReference is returned when a scene object names a render target,
	// light, batch, camera or layer that is not declared.
	ErrUnknownReference = errors.New("loader: unknown reference")

	// ErrDuplicateName is returned when two objects of one section share a name,
	// two layers share an id, or a sub-layer is placed in the composition twice.
	ErrDuplicateName = errors.New("loader: duplicate name")

	// ErrInvalidValue is returned for malformed field values such as an unknown light type.
	ErrInvalidValue = errors.New("loader: invalid value")
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	compositionOptions []composition.CompositionBuilderOption

	descriptionCache map[string]*SceneDescription

	backend loaderBackend
}

// Loader defines the public-facing interface for loading scene files into render compositions.
// It abstracts the file format behind a generic backend and caches decoded descriptions.
// Every load builds a fresh Scene, since compositions are mutable and must not be shared.
type Loader interface {
	// Load decodes a scene file and builds its scene.
	// The decoded description is cached by file path and reused on later loads.
	// The backend is selected based on the file extension (.yaml/.yml → YAML backend).
	//
	// Parameters:
	//   - path: the file path to the scene file
	//
	// Returns:
	//   - *Scene: the built scene
	//   - error: error if decoding or building fails
	Load(path string) (*Scene, error)

	// LoadReader decodes a scene from a reader stream, caches the description by
	// the given name and builds its scene.
	//
	// Parameters:
	//   - name: the cache key for the description
	//   - r: the reader providing the document
	//
	// Returns:
	//   - *Scene: the built scene
	//   - error: error if decoding or building fails
	LoadReader(name string, r io.Reader) (*Scene, error)

	// Build builds a scene from an already decoded description.
	//
	// Parameters:
	//   - desc: the scene description
	//
	// Returns:
	//   - *Scene: the built scene
	//   - error: error if a reference or value is invalid
	Build(desc *SceneDescription) (*Scene, error)

	// Get retrieves a cached description by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *SceneDescription: the cached description or nil
	Get(name string) *SceneDescription

	// Descriptions returns a copy of the description cache.
	//
	// Returns:
	//   - map[string]*SceneDescription: all cached descriptions keyed by name
	Descriptions() map[string]*SceneDescription
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeYAML)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:               sync.RWMutex{},
		descriptionCache: make(map[string]*SceneDescription),
	}

	switch backendType {
	case BackendTypeYAML:
		l.backend = newYAMLLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

// LoadFile loads a scene file with a one-off YAML loader.
//
// Parameters:
//   - path: the file path to the scene file
//   - options: loader options, e.g. WithCompositionOptions
//
// Returns:
//   - *Scene: the built scene
//   - error: error if decoding or building fails
func LoadFile(path string, options ...LoaderBuilderOption) (*Scene, error) {
	return NewLoader(BackendTypeYAML, options...).Load(path)
}

// Load decodes a YAML scene from r with a one-off loader.
//
// Parameters:
//   - r: the reader providing the document
//   - options: loader options, e.g. WithCompositionOptions
//
// Returns:
//   - *Scene: the built scene
//   - error: error if decoding or building fails
func Load(r io.Reader, options ...LoaderBuilderOption) (*Scene, error) {
	return NewLoader(BackendTypeYAML, options...).LoadReader("scene", r)
}

func (l *loader) Load(path string) (*Scene, error) {
	l.mu.RLock()
	cached, ok := l.descriptionCache[path]
	l.mu.RUnlock()
	if ok {
		return l.Build(cached)
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	desc, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	l.descriptionCache[path] = desc
	l.mu.Unlock()

	s, err := l.Build(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", path, err)
	}
	return s, nil
}

func (l *loader) LoadReader(name string, r io.Reader) (*Scene, error) {
	desc, err := l.backend.LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}

	l.mu.Lock()
	l.descriptionCache[name] = desc
	l.mu.Unlock()

	s, err := l.Build(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", name, err)
	}
	return s, nil
}

func (l *loader) Build(desc *SceneDescription) (*Scene, error) {
	if desc == nil {
		return nil, fmt.Errorf("%w: nil scene description", ErrInvalidValue)
	}
	return buildScene(desc, l.compositionOptions)
}

func (l *loader) Get(name string) *SceneDescription {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.descriptionCache[name]
}

func (l *loader) Descriptions() map[string]*SceneDescription {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.descriptionCache)
}

// resolveBackend returns the backend for the given file path based on its extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

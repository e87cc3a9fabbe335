package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlLoaderBackendImpl is the implementation of the yamlLoaderBackend interface.
type yamlLoaderBackendImpl struct{}

// yamlLoaderBackend decodes YAML scene files. Unknown keys are rejected so typos
// surface as errors instead of silently falling back to defaults.
type yamlLoaderBackend interface {
	loaderBackend
}

var _ yamlLoaderBackend = &yamlLoaderBackendImpl{}

// newYAMLLoaderBackend creates a new YAML loader backend.
//
// Returns:
//   - yamlLoaderBackend: the backend
func newYAMLLoaderBackend() yamlLoaderBackend {
	return &yamlLoaderBackendImpl{}
}

func (b *yamlLoaderBackendImpl) Load(path string) (*SceneDescription, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return b.LoadReader(f)
}

func (b *yamlLoaderBackendImpl) LoadReader(r io.Reader) (*SceneDescription, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var desc SceneDescription
	if err := dec.Decode(&desc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty scene document")
		}
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return &desc, nil
}

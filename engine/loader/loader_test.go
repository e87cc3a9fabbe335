package loader

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-compose/engine/composition"
	"github.com/Carmen-Shannon/oxy-compose/engine/light"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenePath = "testdata/scene.yaml"

func TestLoadFile_BuildsScene(t *testing.T) {
	s, err := LoadFile(scenePath)
	require.NoError(t, err)

	assert.Equal(t, "demo", s.Name)
	assert.Equal(t, "demo", s.Composition.Name())
	assert.Len(t, s.RenderTargets, 1)
	assert.Len(t, s.Lights, 3)
	assert.Len(t, s.Batches, 3)
	assert.Len(t, s.Cameras, 2)
	assert.Len(t, s.Layers, 2)

	assert.Equal(t, uint32(1920), s.RenderTargets["hdr"].Width())
	assert.Equal(t, light.LightTypeDirectional, s.Lights["sun"].Type())
	assert.True(t, s.Lights["sun"].CastsShadows())
	assert.Equal(t, light.LightTypeOmni, s.Lights["lamp"].Type())
	assert.Equal(t, [3]float32{1, 0.8, 0.6}, s.Lights["lamp"].Color())
	assert.False(t, s.Lights["torch"].Enabled())
	assert.True(t, s.Batches["water"].Transparent())

	assert.Equal(t, 4, s.Layers["UI"].ID())
	assert.True(t, s.Layers["UI"].ClearDepthBuffer())
	assert.False(t, s.Layers["UI"].ClearColorBuffer())
	assert.Equal(t, []int{0}, s.Cameras["main"].Layers())
	assert.Same(t, s.RenderTargets["hdr"], s.Cameras["main"].RenderTarget())
	assert.Equal(t, float32(10), s.Cameras["overlay"].Priority())

	layers := s.Composition.LayerList()
	require.Len(t, layers, 3)
	assert.Same(t, s.Layers["World"], layers[0])
	assert.Same(t, s.Layers["World"], layers[1])
	assert.Same(t, s.Layers["UI"], layers[2])
	assert.Equal(t, []bool{false, true, true}, s.Composition.SubLayerList())
}

func TestLoadFile_UpdatesIntoRenderActions(t *testing.T) {
	s, err := LoadFile(scenePath)
	require.NoError(t, err)

	flags, err := s.Composition.UpdateComposition(nil, false)
	require.NoError(t, err)
	assert.True(t, flags.Has(composition.UpdatedCameras))

	cams := s.Composition.Cameras()
	require.Len(t, cams, 2)
	assert.Same(t, s.Cameras["main"], cams[0])
	assert.Same(t, s.Cameras["overlay"], cams[1])

	actions := s.Composition.RenderActions()
	require.Len(t, actions, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{actions[0].LayerIndex, actions[1].LayerIndex, actions[2].LayerIndex})
	assert.Same(t, s.RenderTargets["hdr"], actions[0].RenderTarget)
	assert.True(t, actions[0].ClearColor)
	assert.True(t, actions[0].FirstCameraUse)
	assert.True(t, actions[1].LastCameraUse)
	assert.Same(t, s.Cameras["overlay"], actions[2].Camera)
	assert.True(t, actions[2].ClearDepth)

	assert.Len(t, s.Composition.Lights(), 3)
	assert.Equal(t, []light.Light{s.Lights["sun"]}, s.Composition.SplitLights(light.LightTypeDirectional))
	assert.Empty(t, s.Composition.SplitLights(light.LightTypeSpot))
}

func TestLoad_Reader(t *testing.T) {
	doc := `
batches:
  - name: a
layers:
  - name: L
    id: 1000
    batches: [a]
composition:
  - layer: L
    sub: opaque
    enabled: false
`
	s, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "Composition", s.Name)
	assert.Equal(t, []bool{false}, s.Composition.SubLayerList())
	assert.Equal(t, []bool{false}, s.Composition.SubLayerEnabledList())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "unknown camera layer",
			doc:  "cameras:\n  - name: c\n    layers: [Nope]\n",
			want: ErrUnknownReference,
		},
		{
			name: "unknown batch",
			doc:  "layers:\n  - name: L\n    batches: [missing]\n",
			want: ErrUnknownReference,
		},
		{
			name: "unknown render target",
			doc:  "layers:\n  - name: L\n    render_target: rt\n",
			want: ErrUnknownReference,
		},
		{
			name: "unknown composition layer",
			doc:  "composition:\n  - layer: L\n",
			want: ErrUnknownReference,
		},
		{
			name: "duplicate light",
			doc:  "lights:\n  - name: l\n    type: omni\n  - name: l\n    type: spot\n",
			want: ErrDuplicateName,
		},
		{
			name: "duplicate layer id",
			doc:  "layers:\n  - name: A\n    id: 1000\n  - name: B\n    id: 1000\n",
			want: ErrDuplicateName,
		},
		{
			name: "duplicate composition entry",
			doc:  "layers:\n  - name: A\ncomposition:\n  - layer: A\n  - layer: A\n    sub: transparent\n",
			want: ErrDuplicateName,
		},
		{
			name: "bad light type",
			doc:  "lights:\n  - name: l\n    type: area\n",
			want: ErrInvalidValue,
		},
		{
			name: "bad sub",
			doc:  "layers:\n  - name: A\ncomposition:\n  - layer: A\n    sub: both-ish\n",
			want: ErrInvalidValue,
		},
		{
			name: "missing name",
			doc:  "batches:\n  - transparent: true\n",
			want: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(strings.NewReader(tt.doc))
			assert.Nil(t, s)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_DecodeErrors(t *testing.T) {
	_, err := Load(strings.NewReader("layers:\n  - name: L\n    colour: red\n"))
	assert.ErrorContains(t, err, "failed to decode scene")

	_, err = Load(strings.NewReader(""))
	assert.ErrorContains(t, err, "empty scene document")
}

func TestLoadFile_UnsupportedAndMissing(t *testing.T) {
	_, err := LoadFile("testdata/scene.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to load")
}

func TestLoader_CachesDescriptions(t *testing.T) {
	l := NewLoader(BackendTypeYAML)

	first, err := l.Load(scenePath)
	require.NoError(t, err)
	desc := l.Get(scenePath)
	require.NotNil(t, desc)

	second, err := l.Load(scenePath)
	require.NoError(t, err)
	assert.Same(t, desc, l.Get(scenePath))
	assert.NotSame(t, first.Composition, second.Composition)
	assert.NotSame(t, first.Layers["World"], second.Layers["World"])

	all := l.Descriptions()
	assert.Len(t, all, 1)
	delete(all, scenePath)
	assert.NotNil(t, l.Get(scenePath))
	assert.Nil(t, l.Get("other.yaml"))
}

func TestLoader_Options(t *testing.T) {
	desc := &SceneDescription{
		Name:        "memory",
		Layers:      []LayerDescription{{Name: "A", ID: 1000}},
		Composition: []CompositionEntryDescription{{Layer: "A"}},
	}
	l := NewLoader(BackendTypeYAML,
		WithDescription("memory.yaml", desc),
		WithCompositionOptions(composition.WithName("renamed")),
	)

	s, err := l.Load("memory.yaml")
	require.NoError(t, err)
	assert.Equal(t, "memory", s.Name)
	assert.Equal(t, "renamed", s.Composition.Name())
	assert.Len(t, s.Composition.LayerList(), 2)

	_, err = l.Build(nil)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

package common

// Well-known render layer ids. User layers should use ids at or above LayerIDUser.
const (
	// LayerIDNone marks the absence of a layer, e.g. a camera with no postprocess stop layer.
	LayerIDNone = -1

	LayerIDWorld     = 0
	LayerIDDepth     = 1
	LayerIDSkybox    = 2
	LayerIDImmediate = 3
	LayerIDUI        = 4

	LayerIDUser = 1000
)

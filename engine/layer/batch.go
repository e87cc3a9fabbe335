package layer

// batchImpl is the implementation of the Batch interface.
type batchImpl struct {
	name         string
	transparent  bool
	castsShadows bool
}

// Batch is a draw batch: one mesh instance with its material, drawn by the
// renderer for every render action whose sub-layer holds it.
//
// Batches are compared by identity. The composition reads Transparent to decide
// which bucket of a layer a batch belongs in and CastsShadows when the batch is
// added to a layer.
type Batch interface {
	// Name returns the batch's debug name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Transparent returns whether the batch's material blends.
	//
	// Returns:
	//   - bool: true for blended materials
	Transparent() bool

	// CastsShadows returns whether the batch is registered as a shadow caster
	// when added to a layer.
	//
	// Returns:
	//   - bool: true if the batch casts shadows
	CastsShadows() bool

	// SetTransparent changes the material's blend state. Layers holding the batch
	// must be marked blend-dirty to move it into the matching bucket.
	//
	// Parameters:
	//   - transparent: true for blended materials
	SetTransparent(transparent bool)
}

var _ Batch = &batchImpl{}

// NewBatch creates a Batch.
//
// Parameters:
//   - name: debug name
//   - transparent: whether the material blends
//   - castsShadows: whether the batch casts shadows
//
// Returns:
//   - Batch: the new batch
func NewBatch(name string, transparent, castsShadows bool) Batch {
	return &batchImpl{
		name:         name,
		transparent:  transparent,
		castsShadows: castsShadows,
	}
}

func (b *batchImpl) Name() string {
	return b.name
}

func (b *batchImpl) Transparent() bool {
	return b.transparent
}

func (b *batchImpl) CastsShadows() bool {
	return b.castsShadows
}

func (b *batchImpl) SetTransparent(transparent bool) {
	b.transparent = transparent
}

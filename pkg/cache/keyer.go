package cache

// Keyer builds cache keys. Every option that changes the cached bytes must
// be part of the key.
type Keyer interface {
	// RenderKey identifies a rendered image of source.
	RenderKey(source string, opts RenderKeyOpts) string
}

// RenderKeyOpts are the render settings that affect the output image.
type RenderKeyOpts struct {
	Theme  string `json:"theme"`
	Format string `json:"format"`
}

// DefaultKeyer hashes inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RenderKey returns "render:<sha256>".
func (DefaultKeyer) RenderKey(source string, opts RenderKeyOpts) string {
	return hashKey("render", source, opts)
}

var _ Keyer = DefaultKeyer{}

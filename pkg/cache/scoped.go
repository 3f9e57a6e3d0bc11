package cache

// ScopedKeyer prefixes every key of an inner Keyer. A shared Redis instance
// uses it to keep flowdoc entries apart from other tenants:
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "flowdoc:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) RenderKey(source string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(source, opts)
}

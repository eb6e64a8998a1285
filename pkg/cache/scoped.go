package cache

// ScopedKeyer prefixes every key produced by an inner Keyer. The HTTP
// service uses it to keep API tenants apart:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "tenant:plant-7:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) DiagramKey(inputHash string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(inputHash, opts)
}

func (k *ScopedKeyer) PreviewKey(diagramHash, format string) string {
	return k.prefix + k.inner.PreviewKey(diagramHash, format)
}

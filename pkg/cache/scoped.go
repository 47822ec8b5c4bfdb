package cache

// ScopedKeyer prefixes every key of another Keyer. Renders that share a
// Redis instance use it to keep data releases apart:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "worldmaps:ne-10m:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, which defaults to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// GeometryKey implements [Keyer].
func (k *ScopedKeyer) GeometryKey(opts GeometryKeyOpts) string {
	return k.prefix + k.inner.GeometryKey(opts)
}

// SourceKey implements [Keyer].
func (k *ScopedKeyer) SourceKey(path string, size, modUnix int64) string {
	return k.prefix + k.inner.SourceKey(path, size, modUnix)
}

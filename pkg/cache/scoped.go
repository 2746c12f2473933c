package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments, or a CLI
// and a server, can share one backend without colliding.
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "server:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// Prefix returns the scope prefix.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

// OrderKey generates a prefixed ordering key.
func (k *ScopedKeyer) OrderKey(docHash, mode string) string {
	return k.prefix + k.inner.OrderKey(docHash, mode)
}

// CyclesKey generates a prefixed cycle report key.
func (k *ScopedKeyer) CyclesKey(docHash string) string {
	return k.prefix + k.inner.CyclesKey(docHash)
}

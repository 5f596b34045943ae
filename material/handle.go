package material

import "sync"

// Handle is a caller-owned mutable reference to a Catalog. Overrides made
// through it are visible to every subsequent Lookup on the same handle and
// to nothing that already read from it.
type Handle struct {
	mu  sync.RWMutex
	cat Catalog
}

// NewHandle wraps c.
func NewHandle(c Catalog) *Handle {
	return &Handle{cat: c}
}

// Lookup implements Lookuper against the current catalog value.
func (h *Handle) Lookup(material string) (Props, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cat.Lookup(material)
}

// Snapshot returns the current catalog value. Later overrides do not affect it.
func (h *Handle) Snapshot() Catalog {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cat
}

// SetPrice overrides the unit price of material for subsequent lookups.
func (h *Handle) SetPrice(material string, chfPerCmM2 float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	next, err := h.cat.WithPrice(material, chfPerCmM2)
	if err != nil {
		return err
	}
	h.cat = next
	return nil
}

// SetProps overrides X0 and λI of material for subsequent lookups.
func (h *Handle) SetProps(material string, x0Cm, lambdaICm float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	next, err := h.cat.WithProps(material, x0Cm, lambdaICm)
	if err != nil {
		return err
	}
	h.cat = next
	return nil
}

// Replace swaps in an entirely new catalog value.
func (h *Handle) Replace(c Catalog) {
	h.mu.Lock()
	h.cat = c
	h.mu.Unlock()
}

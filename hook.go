package ionbridge

import "sync"

// Hook is a replaceable function slot: a base function plus an ordered
// chain of interceptor layers. The function returned by Load is the base
// wrapped by every layer, the most recently installed layer outermost.
//
// Layers never capture the previous function themselves; the chain is
// recomposed on every change, so layers can be removed in any order and
// SetBase keeps every installed layer in place.
type Hook[F any] struct {
	mu     sync.Mutex
	base   F
	layers []hookLayer[F]
	nextID uint64
	fn     F
}

type hookLayer[F any] struct {
	id   uint64
	wrap func(next F) F
}

// NewHook creates a hook around base. base may be the zero value.
func NewHook[F any](base F) *Hook[F] {
	return &Hook[F]{base: base, fn: base}
}

// Load returns the composed function.
func (h *Hook[F]) Load() F {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fn
}

// Base returns the function underneath every layer.
func (h *Hook[F]) Base() F {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.base
}

// SetBase replaces the base function, keeping installed layers.
func (h *Hook[F]) SetBase(fn F) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.base = fn
	h.recompose()
}

// Layers returns the number of installed layers.
func (h *Hook[F]) Layers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.layers)
}

// Wrap installs a layer. wrap receives the next function in the chain,
// which may be the zero value when no base is set. The returned function
// removes exactly this layer; calling it more than once is a no-op.
func (h *Hook[F]) Wrap(wrap func(next F) F) (uninstall func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.layers = append(h.layers, hookLayer[F]{id: id, wrap: wrap})
	h.recompose()
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *Hook[F]) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, l := range h.layers {
		if l.id == id {
			h.layers = append(h.layers[:i:i], h.layers[i+1:]...)
			break
		}
	}
	h.recompose()
}

// recompose must be called with h.mu held.
func (h *Hook[F]) recompose() {
	fn := h.base
	for _, l := range h.layers {
		fn = l.wrap(fn)
	}
	h.fn = fn
}

package container

// Registry is a lookup table frozen at construction. It is safe for
// concurrent reads without locking because nothing mutates it afterwards.
type Registry[K comparable, V any] struct {
	entries map[K]V
	order   []K
}

// NewRegistry indexes values by key. When two values share a key the later
// one replaces the earlier one but keeps the earlier position in Values.
func NewRegistry[K comparable, V any](values []V, key func(V) K) *Registry[K, V] {
	r := &Registry[K, V]{
		entries: make(map[K]V, len(values)),
		order:   make([]K, 0, len(values)),
	}

	for _, v := range values {
		k := key(v)
		if _, exists := r.entries[k]; !exists {
			r.order = append(r.order, k)
		}
		r.entries[k] = v
	}

	return r
}

func (r *Registry[K, V]) Get(key K) (V, bool) {
	v, ok := r.entries[key]
	return v, ok
}

func (r *Registry[K, V]) Has(key K) bool {
	_, ok := r.entries[key]
	return ok
}

func (r *Registry[K, V]) Len() int {
	return len(r.entries)
}

// Values returns the registered values in first-registration order.
func (r *Registry[K, V]) Values() []V {
	values := make([]V, 0, len(r.order))
	for _, k := range r.order {
		values = append(values, r.entries[k])
	}
	return values
}

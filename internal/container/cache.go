package container

import (
	"reflect"
	"sync"
)

// Cache is a concurrent insert-if-absent instance store.
type Cache[K comparable] struct {
	m sync.Map
}

func (c *Cache[K]) Load(key K) (any, bool) {
	return c.m.Load(key)
}

// LoadOrStore stores value unless key is already present. It returns the
// value held by the cache afterwards and whether that value was already there.
func (c *Cache[K]) LoadOrStore(key K, value any) (actual any, loaded bool) {
	return c.m.LoadOrStore(key, value)
}

// CompareAndDelete removes key only while it still maps to value. Values of
// non-comparable types are left in place.
func (c *Cache[K]) CompareAndDelete(key K, value any) {
	if value != nil && !reflect.TypeOf(value).Comparable() {
		return
	}
	c.m.CompareAndDelete(key, value)
}

func (c *Cache[K]) Range(fn func(key K, value any) bool) {
	c.m.Range(func(k, v any) bool {
		return fn(k.(K), v)
	})
}

func (c *Cache[K]) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (c *Cache[K]) Clear() {
	c.m.Clear()
}

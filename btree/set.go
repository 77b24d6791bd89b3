package btree

import "cmp"
import "io"

import s "github.com/bnclabs/gosettings"

// Set is an ordered set of keys, a Map without values.
type Set[K any] struct {
	m *Map[K, struct{}]
}

// NewSet create a new ordered set, refer to NewMap for cmp and setts.
func NewSet[K any](name string, cmp func(a, b K) int, setts s.Settings) *Set[K] {
	return &Set[K]{m: NewMap[K, struct{}](name, cmp, setts)}
}

// NewOrderedSet create a new set for keys with natural order.
func NewOrderedSet[K cmp.Ordered](name string, setts s.Settings) *Set[K] {
	return NewSet[K](name, cmp.Compare[K], setts)
}

// ID return set's name.
func (set *Set[K]) ID() string {
	return set.m.ID()
}

// Insert key, return true if key was already present.
func (set *Set[K]) Insert(key K) (bool, error) {
	_, existed, err := set.m.Insert(key, struct{}{})
	return existed, err
}

// Remove key, return true if key was present.
func (set *Set[K]) Remove(key K) bool {
	_, ok := set.m.Remove(key)
	return ok
}

// Has return true if key is present.
func (set *Set[K]) Has(key K) bool {
	return set.m.Has(key)
}

// Len return number of keys.
func (set *Set[K]) Len() int {
	return set.m.Len()
}

// IsEmpty return true if set has no keys.
func (set *Set[K]) IsEmpty() bool {
	return set.m.IsEmpty()
}

// Min return the smallest key.
func (set *Set[K]) Min() (K, bool) {
	key, _, ok := set.m.Min()
	return key, ok
}

// Max return the largest key.
func (set *Set[K]) Max() (K, bool) {
	key, _, ok := set.m.Max()
	return key, ok
}

// Iter return an iterator over all keys in ascending order.
func (set *Set[K]) Iter() *Iterator[K, struct{}] {
	return set.m.Iter()
}

// Range return an iterator over keys in [lkey, hkey).
func (set *Set[K]) Range(lkey, hkey K) *Iterator[K, struct{}] {
	return set.m.Range(lkey, hkey)
}

// Keys return all keys in ascending order.
func (set *Set[K]) Keys() []K {
	keys := make([]K, 0, set.m.Len())
	cur := set.m.First()
	for {
		key, _, err := cur.Next()
		if err == io.EOF {
			return keys
		} else if err != nil {
			panicerr("Keys(): %v", err)
		}
		keys = append(keys, key)
	}
}

// Clear remove all keys.
func (set *Set[K]) Clear() {
	set.m.Clear()
}

// Validate panic if the underlying tree is not sane.
func (set *Set[K]) Validate() {
	set.m.Validate()
}

// Destroy set and release its nodes.
func (set *Set[K]) Destroy() error {
	return set.m.Destroy()
}

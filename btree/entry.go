package btree

import "github.com/bnclabs/gobtree/api"
import "github.com/bnclabs/gobtree/malloc"

// Entry is a handle to a key's slot in a Map, present or missing,
// obtained by a single descent. Reading, updating, inserting or removing
// through the handle does not search the tree again. Like a Cursor, an
// Entry is stale once the map is mutated by any other means.
type Entry[K any, V any] struct {
	m     *Map[K, V]
	key   K
	gen   uint64
	ref   malloc.Ref // leaf node, Nilref if map was empty.
	index int
	found bool
}

func (e *Entry[K, V]) locate(m *Map[K, V], key K) *Entry[K, V] {
	_, ref, i, found := m.tree.lookup(key)
	e.m, e.key, e.gen = m, key, m.tree.generation
	e.ref, e.index, e.found = ref, i, found
	return e
}

// Key return entry's key.
func (e *Entry[K, V]) Key() K {
	return e.key
}

// Occupied return true if key is present in map.
func (e *Entry[K, V]) Occupied() bool {
	return e.found
}

// Get return value for occupied entry, api.ErrorKeyMissing otherwise.
func (e *Entry[K, V]) Get() (value V, err error) {
	if err = e.check(); err != nil {
		return value, err
	} else if e.found == false {
		return value, api.ErrorKeyMissing
	}
	return e.m.tree.getnode(e.ref).values[e.index], nil
}

// Set value for entry's key. If entry is occupied old value is
// returned, else key is inserted and entry becomes occupied.
func (e *Entry[K, V]) Set(value V) (old V, err error) {
	if err = e.check(); err != nil {
		return old, err
	}
	t := e.m.tree
	if e.found {
		nd := t.getnode(e.ref)
		old, nd.values[e.index] = nd.values[e.index], value
		t.n_updates++
		return old, nil
	}
	if err = t.insertat(e.ref, e.index, e.key, value); err != nil {
		return old, err
	}
	// splits may have moved the key.
	e.locate(e.m, e.key)
	return old, nil
}

// Modify value of an occupied entry in place.
func (e *Entry[K, V]) Modify(fn func(value *V)) error {
	if err := e.check(); err != nil {
		return err
	} else if e.found == false {
		return api.ErrorKeyMissing
	}
	fn(&e.m.tree.getnode(e.ref).values[e.index])
	e.m.tree.n_updates++
	return nil
}

// OrInsert return value of an occupied entry, else insert value for
// entry's key and return it.
func (e *Entry[K, V]) OrInsert(value V) (V, error) {
	if e.found {
		return e.Get()
	}
	if _, err := e.Set(value); err != nil {
		var zv V
		return zv, err
	}
	return value, nil
}

// Remove occupied entry from map and return its value. Entry becomes
// vacant.
func (e *Entry[K, V]) Remove() (value V, err error) {
	if err = e.check(); err != nil {
		return value, err
	} else if e.found == false {
		return value, api.ErrorKeyMissing
	}
	_, value = e.m.tree.removeat(e.ref, e.index)
	e.locate(e.m, e.key)
	return value, nil
}

func (e *Entry[K, V]) check() error {
	if e.m == nil || e.m.dead || e.gen != e.m.tree.generation {
		return api.ErrorStaleCursor
	}
	return nil
}

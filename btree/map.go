package btree

import "fmt"
import "cmp"
import "io"

import "github.com/bnclabs/gobtree/api"
import "github.com/bnclabs/gobtree/malloc"
import s "github.com/bnclabs/gosettings"
import "github.com/google/uuid"

var _ api.Index[int64, int64] = (*Map[int64, int64])(nil)

// Map is an ordered map of key,value pairs backed by a B+ tree whose
// nodes are managed in a typed arena. Map is not thread safe, callers
// sharing a Map across goroutines shall serialize access.
type Map[K any, V any] struct {
	n_activeiter int64 // 64-bit aligned

	tree     *tree[K, V]
	name     string
	dead     bool
	iterpool chan *Iterator[K, V]

	// settings
	order        int64
	iterpoolsize int64
	setts        s.Settings
	logprefix    string
}

// NewMap create a new ordered map, cmp shall return a negative number,
// zero or a positive number when a is less than, equal to or greater
// than b, and shall be a strict total order. An empty name is replaced
// by a generated uuid.
func NewMap[K any, V any](
	name string, cmp func(a, b K) int, setts s.Settings) *Map[K, V] {

	if name == "" {
		name = uuid.NewString()
	}
	m := &Map[K, V]{name: name}
	m.logprefix = fmt.Sprintf("BTREE [%s]", name)

	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	m.readsettings(setts)
	m.setts = setts
	m.iterpool = make(chan *Iterator[K, V], m.iterpoolsize)

	arena := newnodearena[K, V](m.order, setts)
	m.tree = newtree[K, V](m.order, cmp, arena, m.logprefix)

	infof("%v started with order %v ...\n", m.logprefix, m.order)
	m.logarenasettings()
	return m
}

// NewOrderedMap create a new ordered map for keys with natural order.
func NewOrderedMap[K cmp.Ordered, V any](name string, setts s.Settings) *Map[K, V] {
	return NewMap[K, V](name, cmp.Compare[K], setts)
}

//---- api.IndexMeta{} interface

// ID implement api.IndexMeta interface.
func (m *Map[K, V]) ID() string {
	return m.name
}

// Count implement api.IndexMeta interface.
func (m *Map[K, V]) Count() int64 {
	return m.tree.count
}

// Isactive implement api.IndexMeta interface.
func (m *Map[K, V]) Isactive() bool {
	return m.dead == false
}

// Stats implement api.IndexMeta interface.
func (m *Map[K, V]) Stats() (map[string]interface{}, error) {
	if m.dead {
		return nil, api.ErrorClosed
	}
	return m.stats(), nil
}

// Fullstats implement api.IndexMeta interface.
func (m *Map[K, V]) Fullstats() (map[string]interface{}, error) {
	if m.dead {
		return nil, api.ErrorClosed
	}
	return m.fullstats(), nil
}

// Validate implement api.IndexMeta interface. Walk the full tree and
// panic if any of the tree invariants is broken.
func (m *Map[K, V]) Validate() {
	m.validate()
}

// Log implement api.IndexMeta interface.
func (m *Map[K, V]) Log(what string, humanize bool) {
	m.log(what, humanize)
}

// Destroy implement api.IndexMeta interface. Release all nodes, map
// cannot be used after this.
func (m *Map[K, V]) Destroy() error {
	if m.n_activeiter > 0 {
		infof("%v n_activeiter: %v\n", m.logprefix, m.n_activeiter)
		return api.ErrorActiveIterators
	} else if m.dead {
		panic("Destroy(): already dead tree")
	}
	m.tree.clear()
	m.tree.arena.Release()
	m.setts, m.dead = nil, true
	close(m.iterpool)
	infof("%v destroyed\n", m.logprefix)
	return nil
}

//---- api.IndexReader{} interface

// Len return number of entries in map.
func (m *Map[K, V]) Len() int {
	return int(m.tree.count)
}

// IsEmpty return true if map has no entries.
func (m *Map[K, V]) IsEmpty() bool {
	return m.tree.count == 0
}

// Height of the tree, 0 for an empty map.
func (m *Map[K, V]) Height() int64 {
	return m.tree.height
}

// Capacity return the maximum number of nodes the map can allocate.
func (m *Map[K, V]) Capacity() int64 {
	return m.tree.arena.Capacity()
}

// Has implement api.IndexReader interface.
func (m *Map[K, V]) Has(key K) bool {
	m.tree.n_lookups++
	_, _, _, found := m.tree.lookup(key)
	return found
}

// Get implement api.IndexReader interface.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	m.tree.n_lookups++
	nd, _, i, found := m.tree.lookup(key)
	if found {
		return nd.values[i], true
	}
	return value, false
}

// GetMut return a pointer to key's value for in-place update. The
// pointer shall not be used after the next mutation on the map.
func (m *Map[K, V]) GetMut(key K) (*V, bool) {
	m.tree.n_lookups++
	nd, _, i, found := m.tree.lookup(key)
	if found {
		return &nd.values[i], true
	}
	return nil, false
}

// Min implement api.IndexReader interface.
func (m *Map[K, V]) Min() (key K, value V, ok bool) {
	m.tree.n_lookups++
	if _, nd := m.tree.minleaf(); nd != nil {
		return nd.keys[0], nd.values[0], true
	}
	return key, value, false
}

// Max implement api.IndexReader interface.
func (m *Map[K, V]) Max() (key K, value V, ok bool) {
	m.tree.n_lookups++
	if _, nd := m.tree.maxleaf(); nd != nil {
		n := len(nd.keys) - 1
		return nd.keys[n], nd.values[n], true
	}
	return key, value, false
}

// First return a cursor positioned before the smallest entry.
func (m *Map[K, V]) First() *Cursor[K, V] {
	return (&Cursor[K, V]{}).first(m.tree)
}

// Last return a cursor positioned after the largest entry.
func (m *Map[K, V]) Last() *Cursor[K, V] {
	return (&Cursor[K, V]{}).last(m.tree)
}

// Seek return a cursor positioned before the first entry >= key.
func (m *Map[K, V]) Seek(key K) *Cursor[K, V] {
	m.tree.n_lookups++
	return (&Cursor[K, V]{}).seek(m.tree, key)
}

// Iter return an iterator over all entries in ascending order.
func (m *Map[K, V]) Iter() *Iterator[K, V] {
	return m.Iterate(nil, nil, api.InclBoth, false)
}

// Range return an iterator over entries in [lkey, hkey), in ascending
// order.
func (m *Map[K, V]) Range(lkey, hkey K) *Iterator[K, V] {
	return m.Iterate(&lkey, &hkey, api.InclLow, false)
}

// Iterate return an iterator from lkey to hkey, a nil bound is open.
// Incl can be "both", "low", "high", "none". Iterator shall be closed
// after use.
func (m *Map[K, V]) Iterate(lkey, hkey *K, incl string, reverse bool) *Iterator[K, V] {
	if m.dead {
		panicerr("%v Iterate(): %v", m.logprefix, api.ErrorClosed)
	}
	incl = api.Checkincl(incl)
	iter := m.getiterator().init(m, lkey, hkey, incl, reverse)
	m.tree.n_ranges++
	m.n_activeiter++
	return iter
}

// Scan implement api.IndexReader interface.
func (m *Map[K, V]) Scan(
	lkey, hkey *K, incl string, reverse bool, callb api.RangeCallb[K, V]) {

	iter := m.Iterate(lkey, hkey, incl, reverse)
	defer iter.Close()
	for {
		key, value, err := iter.Next()
		if err == io.EOF {
			return
		} else if err != nil {
			panicerr("%v Scan(): %v", m.logprefix, err)
		} else if callb(key, value) == false {
			return
		}
	}
}

//---- api.IndexWriter{} interface

// Insert implement api.IndexWriter interface. Fails with
// api.ErrorOutofMemory when node arena is full, map is unchanged.
func (m *Map[K, V]) Insert(key K, value V) (old V, existed bool, err error) {
	return m.tree.upsert(key, value)
}

// Remove implement api.IndexWriter interface.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	return m.tree.remove(key)
}

// DeleteMin implement api.IndexWriter interface.
func (m *Map[K, V]) DeleteMin() (K, V, bool) {
	return m.tree.deletemin()
}

// DeleteMax implement api.IndexWriter interface.
func (m *Map[K, V]) DeleteMax() (K, V, bool) {
	return m.tree.deletemax()
}

// Entry return a handle to key's slot, occupied or vacant.
func (m *Map[K, V]) Entry(key K) *Entry[K, V] {
	m.tree.n_lookups++
	return (&Entry[K, V]{}).locate(m, key)
}

// Clear implement api.IndexWriter interface.
func (m *Map[K, V]) Clear() {
	n := m.tree.clear()
	m.tree.n_deletes += n
	debugf("%v cleared %v entries\n", m.logprefix, n)
}

// Clone copy the map, along with its settings, under a new name.
func (m *Map[K, V]) Clone(name string) (*Map[K, V], error) {
	if m.dead {
		errorf("%v Clone(): %v\n", m.logprefix, api.ErrorClosed)
		return nil, api.ErrorClosed
	}
	newm := NewMap[K, V](name, m.tree.cmp, m.setts)
	if m.tree.arena.Allocated() > newm.tree.arena.Available() {
		if err := newm.Destroy(); err != nil {
			errorf("%v Clone(): destroy %v: %v\n", m.logprefix, name, err)
		}
		errorf("%v Clone(): %v\n", m.logprefix, api.ErrorOutofMemory)
		return nil, api.ErrorOutofMemory
	}
	t := newm.tree
	t.root = t.clonetree(m.tree, m.tree.root, malloc.Nilref)
	t.height, t.count = m.tree.height, m.tree.count
	t.n_inserts = m.tree.count
	m.tree.n_clones++
	return newm, nil
}

//---- local functions

func (m *Map[K, V]) getiterator() *Iterator[K, V] {
	select {
	case iter := <-m.iterpool:
		return iter
	default:
		return &Iterator[K, V]{}
	}
}

func (m *Map[K, V]) putiterator(iter *Iterator[K, V]) {
	m.n_activeiter--
	if m.dead {
		return
	}
	select {
	case m.iterpool <- iter:
	default: // let iter be collected by GC
	}
}

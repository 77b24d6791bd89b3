// Package dict implement a dictionary of key,value pairs based on golang
// map. Primarily meant as reference for testing ordered collections.
package dict

import "cmp"
import "sort"

import "github.com/bnclabs/gobtree/api"

var _ api.IndexReader[int64, int64] = (*Dict[int64, int64])(nil)
var _ api.IndexWriter[int64, int64] = (*Dict[int64, int64])(nil)

// Dict is a reference data structure, for validation purpose.
type Dict[K comparable, V any] struct {
	id       string
	dict     map[K]V
	sortkeys []K
	sorted   bool
	cmp      func(a, b K) int
}

// NewDict create a new golang map for indexing key,value, ordered by cmp.
func NewDict[K comparable, V any](id string, cmp func(a, b K) int) *Dict[K, V] {
	return &Dict[K, V]{
		id:       id,
		dict:     make(map[K]V),
		sortkeys: make([]K, 0, 1024),
		cmp:      cmp,
	}
}

// NewOrderedDict create a new dictionary for keys with natural order.
func NewOrderedDict[K cmp.Ordered, V any](id string) *Dict[K, V] {
	return NewDict[K, V](id, cmp.Compare[K])
}

// ID return dictionary's id.
func (d *Dict[K, V]) ID() string {
	return d.id
}

// Count return number of entries.
func (d *Dict[K, V]) Count() int64 {
	return int64(len(d.dict))
}

//---- api.IndexReader{} interface.

// Has implement api.IndexReader{} interface.
func (d *Dict[K, V]) Has(key K) bool {
	_, ok := d.dict[key]
	return ok
}

// Get implement api.IndexReader{} interface.
func (d *Dict[K, V]) Get(key K) (V, bool) {
	value, ok := d.dict[key]
	return value, ok
}

// Min implement api.IndexReader{} interface.
func (d *Dict[K, V]) Min() (key K, value V, ok bool) {
	if keys := d.Keys(); len(keys) > 0 {
		return keys[0], d.dict[keys[0]], true
	}
	return key, value, false
}

// Max implement api.IndexReader{} interface.
func (d *Dict[K, V]) Max() (key K, value V, ok bool) {
	if keys := d.Keys(); len(keys) > 0 {
		key = keys[len(keys)-1]
		return key, d.dict[key], true
	}
	return key, value, false
}

// Scan implement api.IndexReader{} interface.
func (d *Dict[K, V]) Scan(
	lkey, hkey *K, incl string, reverse bool, callb api.RangeCallb[K, V]) {

	for _, key := range d.Rangekeys(lkey, hkey, incl, reverse) {
		if callb(key, d.dict[key]) == false {
			return
		}
	}
}

// Keys return all keys in sort order.
func (d *Dict[K, V]) Keys() []K {
	if d.sorted {
		return d.sortkeys
	}
	d.sortkeys = d.sortkeys[:0]
	for key := range d.dict {
		d.sortkeys = append(d.sortkeys, key)
	}
	sort.Slice(d.sortkeys, func(i, j int) bool {
		return d.cmp(d.sortkeys[i], d.sortkeys[j]) < 0
	})
	d.sorted = true
	return d.sortkeys
}

// Rangekeys return keys between lkey and hkey, a nil bound is open.
func (d *Dict[K, V]) Rangekeys(lkey, hkey *K, incl string, reverse bool) []K {
	lincl, hincl := api.Inclusive(incl)
	keys := make([]K, 0)
	for _, key := range d.Keys() {
		if lkey != nil {
			if c := d.cmp(key, *lkey); c < 0 || (c == 0 && lincl == false) {
				continue
			}
		}
		if hkey != nil {
			if c := d.cmp(key, *hkey); c > 0 || (c == 0 && hincl == false) {
				continue
			}
		}
		keys = append(keys, key)
	}
	if reverse {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}
	return keys
}

//---- api.IndexWriter{} interface.

// Insert implement api.IndexWriter{} interface.
func (d *Dict[K, V]) Insert(key K, value V) (old V, existed bool, err error) {
	old, existed = d.dict[key]
	if existed == false {
		d.sorted = false
	}
	d.dict[key] = value
	return old, existed, nil
}

// Remove implement api.IndexWriter{} interface.
func (d *Dict[K, V]) Remove(key K) (V, bool) {
	value, ok := d.dict[key]
	if ok {
		delete(d.dict, key)
		d.sorted = false
	}
	return value, ok
}

// DeleteMin implement api.IndexWriter{} interface.
func (d *Dict[K, V]) DeleteMin() (key K, value V, ok bool) {
	if key, value, ok = d.Min(); ok {
		d.Remove(key)
	}
	return key, value, ok
}

// DeleteMax implement api.IndexWriter{} interface.
func (d *Dict[K, V]) DeleteMax() (key K, value V, ok bool) {
	if key, value, ok = d.Max(); ok {
		d.Remove(key)
	}
	return key, value, ok
}

// Clear implement api.IndexWriter{} interface.
func (d *Dict[K, V]) Clear() {
	d.dict, d.sortkeys, d.sorted = make(map[K]V), d.sortkeys[:0], false
}

package btree

import "io"

import "github.com/bnclabs/gobtree/api"

// Iterator walks entries of a Map between an optional low and high
// bound, in ascending or descending order. Obtain one with Iter, Range
// or Iterate, and Close it once done.
type Iterator[K any, V any] struct {
	m       *Map[K, V]
	cur     Cursor[K, V]
	lkey    K
	hkey    K
	haslow  bool
	hashigh bool
	lincl   bool
	hincl   bool
	reverse bool
	eof     bool
	closed  bool
}

func (iter *Iterator[K, V]) init(
	m *Map[K, V], lkey, hkey *K, incl string, reverse bool) *Iterator[K, V] {

	var zk K
	iter.m, iter.reverse, iter.eof, iter.closed = m, reverse, false, false
	iter.lincl, iter.hincl = api.Inclusive(incl)
	iter.lkey, iter.haslow = zk, lkey != nil
	iter.hkey, iter.hashigh = zk, hkey != nil
	if iter.haslow {
		iter.lkey = *lkey
	}
	if iter.hashigh {
		iter.hkey = *hkey
	}

	t, cmp := m.tree, m.tree.cmp
	switch {
	case reverse == false && iter.haslow:
		iter.cur.seek(t, iter.lkey)
		if iter.lincl == false {
			if k, _, err := iter.cur.Peek(); err == nil && cmp(k, iter.lkey) == 0 {
				iter.cur.Next()
			}
		}
	case reverse == false:
		iter.cur.first(t)
	case iter.hashigh:
		iter.cur.seek(t, iter.hkey)
		if iter.hincl {
			if k, _, err := iter.cur.Peek(); err == nil && cmp(k, iter.hkey) == 0 {
				iter.cur.Next()
			}
		}
	default:
		iter.cur.last(t)
	}
	return iter
}

// Next implement api.IndexIterator{} interface. Return io.EOF once
// the range is exhausted, api.ErrorStaleCursor if the map was mutated.
func (iter *Iterator[K, V]) Next() (key K, value V, err error) {
	if iter.closed {
		return key, value, api.ErrorClosed
	} else if iter.eof {
		return key, value, io.EOF
	}

	if iter.reverse {
		key, value, err = iter.cur.Prev()
	} else {
		key, value, err = iter.cur.Next()
	}
	if err == nil && iter.outofrange(key) {
		var zk K
		var zv V
		key, value, err = zk, zv, io.EOF
	}
	if err == io.EOF {
		iter.eof = true
	}
	return key, value, err
}

// Close implement api.IndexIterator{} interface.
func (iter *Iterator[K, V]) Close() {
	if iter.closed {
		return
	}
	iter.closed = true
	m := iter.m
	var zk K
	iter.lkey, iter.hkey, iter.m = zk, zk, nil
	iter.cur.tree, iter.cur.stack = nil, iter.cur.stack[:0]
	m.putiterator(iter)
}

func (iter *Iterator[K, V]) outofrange(key K) bool {
	cmp := iter.m.tree.cmp
	if iter.reverse && iter.haslow {
		c := cmp(key, iter.lkey)
		return c < 0 || (c == 0 && iter.lincl == false)
	} else if iter.reverse == false && iter.hashigh {
		c := cmp(key, iter.hkey)
		return c > 0 || (c == 0 && iter.hincl == false)
	}
	return false
}

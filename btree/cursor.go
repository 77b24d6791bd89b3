package btree

import "io"

import "github.com/bnclabs/gobtree/api"

// Cursor is a position between two adjacent entries of a Map, or before
// the first entry, or after the last entry. Cursor carries the map's
// generation at the time it was positioned, any mutation on the map
// after that renders the cursor stale.
type Cursor[K any, V any] struct {
	tree  *tree[K, V]
	gen   uint64
	stack []frame
}

func (cur *Cursor[K, V]) first(t *tree[K, V]) *Cursor[K, V] {
	cur.tree, cur.gen = t, t.generation
	cur.stack = t.leftmost(t.root, cur.stack[:0])
	return cur
}

func (cur *Cursor[K, V]) last(t *tree[K, V]) *Cursor[K, V] {
	cur.tree, cur.gen = t, t.generation
	cur.stack = t.rightmost(t.root, cur.stack[:0])
	return cur
}

// seek position cursor before the first entry that is >= key.
func (cur *Cursor[K, V]) seek(t *tree[K, V], key K) *Cursor[K, V] {
	cur.tree, cur.gen = t, t.generation
	cur.stack, _ = t.locate(key, cur.stack[:0])
	return cur
}

// Next return the entry after cursor and move past it. Return io.EOF
// if there are no more entries, cursor stays where it was.
func (cur *Cursor[K, V]) Next() (key K, value V, err error) {
	if err = cur.check(); err != nil {
		return key, value, err
	} else if cur.forward() == false {
		return key, value, io.EOF
	}
	top := &cur.stack[len(cur.stack)-1]
	nd := cur.tree.getnode(top.ref)
	key, value = nd.keys[top.index], nd.values[top.index]
	top.index++
	return key, value, nil
}

// Prev return the entry before cursor and move behind it. Return io.EOF
// if there are no more entries, cursor stays where it was.
func (cur *Cursor[K, V]) Prev() (key K, value V, err error) {
	if err = cur.check(); err != nil {
		return key, value, err
	} else if cur.backward() == false {
		return key, value, io.EOF
	}
	top := &cur.stack[len(cur.stack)-1]
	top.index--
	nd := cur.tree.getnode(top.ref)
	return nd.keys[top.index], nd.values[top.index], nil
}

// Peek return the entry after cursor without moving the cursor.
func (cur *Cursor[K, V]) Peek() (key K, value V, err error) {
	if err = cur.check(); err != nil {
		return key, value, err
	} else if cur.forward() == false {
		return key, value, io.EOF
	}
	top := cur.stack[len(cur.stack)-1]
	nd := cur.tree.getnode(top.ref)
	return nd.keys[top.index], nd.values[top.index], nil
}

// Key return the key after cursor without moving the cursor.
func (cur *Cursor[K, V]) Key() (key K, err error) {
	key, _, err = cur.Peek()
	return key, err
}

// Value return the value after cursor without moving the cursor.
func (cur *Cursor[K, V]) Value() (value V, err error) {
	_, value, err = cur.Peek()
	return value, err
}

// Isstale return true if the map was mutated after cursor was positioned.
func (cur *Cursor[K, V]) Isstale() bool {
	return cur.check() != nil
}

func (cur *Cursor[K, V]) check() error {
	if cur.tree == nil || cur.gen != cur.tree.generation {
		return api.ErrorStaleCursor
	}
	return nil
}

// forward make sure the leaf frame points to an entry, moving to the
// next leaf if cursor is at the end of current leaf. Return false if
// there are no more entries.
func (cur *Cursor[K, V]) forward() bool {
	n := len(cur.stack)
	if n == 0 {
		return false
	}
	top := cur.stack[n-1]
	if top.index < len(cur.tree.getnode(top.ref).keys) {
		return true
	}
	level := n - 2
	for ; level >= 0; level-- {
		fr := cur.stack[level]
		if fr.index < len(cur.tree.getnode(fr.ref).children)-1 {
			break
		}
	}
	if level < 0 {
		return false
	}
	fr := &cur.stack[level]
	fr.index++
	child := cur.tree.getnode(fr.ref).children[fr.index]
	cur.stack = cur.tree.leftmost(child, cur.stack[:level+1])
	return true
}

// backward make sure there is an entry before the leaf frame's offset,
// moving to the previous leaf if cursor is at the start of current
// leaf. Return false if there are no more entries.
func (cur *Cursor[K, V]) backward() bool {
	n := len(cur.stack)
	if n == 0 {
		return false
	} else if cur.stack[n-1].index > 0 {
		return true
	}
	level := n - 2
	for ; level >= 0; level-- {
		if cur.stack[level].index > 0 {
			break
		}
	}
	if level < 0 {
		return false
	}
	fr := &cur.stack[level]
	fr.index--
	child := cur.tree.getnode(fr.ref).children[fr.index]
	cur.stack = cur.tree.rightmost(child, cur.stack[:level+1])
	return true
}

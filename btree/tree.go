package btree

import "fmt"

import "github.com/bnclabs/gobtree/api"
import "github.com/bnclabs/gobtree/malloc"

// treestats all are 64-bit aligned.
type treestats struct {
	n_lookups int64
	n_ranges  int64
	n_inserts int64
	n_updates int64
	n_deletes int64
	n_nodes   int64
	n_frees   int64
	n_splits  int64
	n_merges  int64
	n_borrows int64
	n_clones  int64
}

// tree is the B+ tree engine. Nodes live in arena and refer to each
// other by handle. Every mutation that adds or removes a key, or moves
// keys across nodes, bumps generation.
type tree[K any, V any] struct {
	treestats

	root       malloc.Ref
	height     int64
	count      int64
	generation uint64
	order      int64 // maximum number of children in a node
	minkeys    int64 // ceil(order/2) - 1, except for root
	maxkeys    int64 // order - 1
	cmp        func(a, b K) int
	arena      *malloc.Arena[node[K, V]]
	logprefix  string
}

func newtree[K any, V any](
	order int64, cmp func(a, b K) int,
	arena *malloc.Arena[node[K, V]], logprefix string) *tree[K, V] {

	if order < api.MinOrder || order > api.MaxOrder {
		panicerr("order %v out of range [%v,%v]", order, api.MinOrder, api.MaxOrder)
	} else if cmp == nil {
		panicerr("comparator is nil")
	}
	return &tree[K, V]{
		root:      malloc.Nilref,
		order:     order,
		minkeys:   ((order + 1) / 2) - 1,
		maxkeys:   order - 1,
		cmp:       cmp,
		arena:     arena,
		logprefix: logprefix,
	}
}

//---- node store

// newnode allocate a node from arena. Callers shall make sure, in
// advance, that the arena has room for it.
func (t *tree[K, V]) newnode(leaf bool) (malloc.Ref, *node[K, V]) {
	ref, err := t.arena.Alloc()
	if err != nil {
		panicerr("%v newnode(): %v", t.logprefix, err)
	}
	nd := t.arena.Chunk(ref)
	nd.init(t.order, leaf)
	t.n_nodes++
	return ref, nd
}

func (t *tree[K, V]) freenode(ref malloc.Ref) {
	t.arena.Free(ref)
	t.n_frees++
}

func (t *tree[K, V]) getnode(ref malloc.Ref) *node[K, V] {
	return t.arena.Chunk(ref)
}

//---- traversal

// frame is a position inside a node. For internal nodes index is the
// child taken, for leaf nodes index is a gap between entries.
type frame struct {
	ref   malloc.Ref
	index int
}

// locate descend from root to the leaf where key is, or shall be, and
// return the path. Leaf frame carries the offset of key, or its
// insertion offset when key is missing.
func (t *tree[K, V]) locate(key K, path []frame) ([]frame, bool) {
	path = path[:0]
	for ref := t.root; ref != malloc.Nilref; {
		nd := t.getnode(ref)
		if nd.leaf {
			i, found := nd.search(key, t.cmp)
			return append(path, frame{ref: ref, index: i}), found
		}
		i := nd.childindex(key, t.cmp)
		path = append(path, frame{ref: ref, index: i})
		ref = nd.children[i]
	}
	return path, false
}

// lookup is locate without book-keeping the path.
func (t *tree[K, V]) lookup(key K) (*node[K, V], malloc.Ref, int, bool) {
	for ref := t.root; ref != malloc.Nilref; {
		nd := t.getnode(ref)
		if nd.leaf {
			i, found := nd.search(key, t.cmp)
			return nd, ref, i, found
		}
		ref = nd.children[nd.childindex(key, t.cmp)]
	}
	return nil, malloc.Nilref, 0, false
}

// leftmost descend to the first entry under ref.
func (t *tree[K, V]) leftmost(ref malloc.Ref, path []frame) []frame {
	for ref != malloc.Nilref {
		nd := t.getnode(ref)
		path = append(path, frame{ref: ref, index: 0})
		if nd.leaf {
			break
		}
		ref = nd.children[0]
	}
	return path
}

// rightmost descend to the gap after the last entry under ref.
func (t *tree[K, V]) rightmost(ref malloc.Ref, path []frame) []frame {
	for ref != malloc.Nilref {
		nd := t.getnode(ref)
		if nd.leaf {
			path = append(path, frame{ref: ref, index: len(nd.keys)})
			break
		}
		path = append(path, frame{ref: ref, index: len(nd.children) - 1})
		ref = nd.children[len(nd.children)-1]
	}
	return path
}

func (t *tree[K, V]) minleaf() (malloc.Ref, *node[K, V]) {
	ref := t.root
	for ref != malloc.Nilref {
		nd := t.getnode(ref)
		if nd.leaf {
			return ref, nd
		}
		ref = nd.children[0]
	}
	return malloc.Nilref, nil
}

func (t *tree[K, V]) maxleaf() (malloc.Ref, *node[K, V]) {
	ref := t.root
	for ref != malloc.Nilref {
		nd := t.getnode(ref)
		if nd.leaf {
			return ref, nd
		}
		ref = nd.children[len(nd.children)-1]
	}
	return malloc.Nilref, nil
}

// minkey return smallest key in the subtree under ref.
func (t *tree[K, V]) minkey(ref malloc.Ref) K {
	nd := t.getnode(ref)
	for nd.leaf == false {
		nd = t.getnode(nd.children[0])
	}
	return nd.keys[0]
}

//---- maintenance

// clear drop all nodes, returns number of entries dropped.
func (t *tree[K, V]) clear() int64 {
	n := t.count
	t.n_frees += t.arena.Allocated()
	t.arena.Reset()
	t.root, t.height, t.count = malloc.Nilref, 0, 0
	t.generation++
	return n
}

// clonetree copy the subtree under ref, from tree src, into this tree.
func (t *tree[K, V]) clonetree(src *tree[K, V], ref, parent malloc.Ref) malloc.Ref {
	if ref == malloc.Nilref {
		return malloc.Nilref
	}
	snd := src.getnode(ref)
	newref, nd := t.newnode(snd.leaf)
	nd.parent = parent
	nd.keys = append(nd.keys, snd.keys...)
	if snd.leaf {
		nd.values = append(nd.values, snd.values...)
		return newref
	}
	for _, child := range snd.children {
		nd.children = append(nd.children, t.clonetree(src, child, newref))
	}
	return newref
}

func (t *tree[K, V]) String() string {
	return fmt.Sprintf("%v{height:%v count:%v gen:%v}",
		t.logprefix, t.height, t.count, t.generation)
}

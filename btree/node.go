package btree

import "github.com/bnclabs/gobtree/malloc"

// node of a B+ tree. Leaf nodes carry keys and values. Internal nodes
// carry separator keys and child handles, where keys[i] is the smallest
// key in the subtree at children[i+1].
type node[K any, V any] struct {
	keys     []K
	values   []V          // leaf only
	children []malloc.Ref // internal only, len(keys)+1
	parent   malloc.Ref
	leaf     bool
}

func (nd *node[K, V]) init(order int64, leaf bool) {
	nd.keys, nd.leaf, nd.parent = make([]K, 0, order), leaf, malloc.Nilref
	if leaf {
		nd.values = make([]V, 0, order)
		return
	}
	nd.children = make([]malloc.Ref, 0, order+1)
}

// search return the offset of first key >= key, and whether that key is
// equal to key.
func (nd *node[K, V]) search(key K, cmp func(K, K) int) (int, bool) {
	lo, hi := 0, len(nd.keys)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if cmp(nd.keys[mid], key) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, lo < len(nd.keys) && cmp(nd.keys[lo], key) == 0
}

// childindex return offset of the child whose subtree may contain key.
func (nd *node[K, V]) childindex(key K, cmp func(K, K) int) int {
	i, found := nd.search(key, cmp)
	if found {
		return i + 1
	}
	return i
}

// childpos return offset of child in this node.
func (nd *node[K, V]) childpos(child malloc.Ref) int {
	for i, ref := range nd.children {
		if ref == child {
			return i
		}
	}
	panicerr("child %v missing in parent", child)
	return -1
}

func (nd *node[K, V]) insertkv(i int, key K, value V) {
	var zk K
	var zv V
	nd.keys, nd.values = append(nd.keys, zk), append(nd.values, zv)
	copy(nd.keys[i+1:], nd.keys[i:])
	copy(nd.values[i+1:], nd.values[i:])
	nd.keys[i], nd.values[i] = key, value
}

func (nd *node[K, V]) removekv(i int) (K, V) {
	var zk K
	var zv V
	key, value := nd.keys[i], nd.values[i]
	n := len(nd.keys) - 1
	copy(nd.keys[i:], nd.keys[i+1:])
	copy(nd.values[i:], nd.values[i+1:])
	nd.keys[n], nd.values[n] = zk, zv
	nd.keys, nd.values = nd.keys[:n], nd.values[:n]
	return key, value
}

// insertkc insert key at offset i and child at offset i+1.
func (nd *node[K, V]) insertkc(i int, key K, child malloc.Ref) {
	var zk K
	nd.keys = append(nd.keys, zk)
	copy(nd.keys[i+1:], nd.keys[i:])
	nd.keys[i] = key
	nd.children = append(nd.children, malloc.Nilref)
	copy(nd.children[i+2:], nd.children[i+1:])
	nd.children[i+1] = child
}

// removekc remove key at offset i and child at offset i+1.
func (nd *node[K, V]) removekc(i int) (K, malloc.Ref) {
	var zk K
	key, child := nd.keys[i], nd.children[i+1]
	n := len(nd.keys) - 1
	copy(nd.keys[i:], nd.keys[i+1:])
	nd.keys[n], nd.keys = zk, nd.keys[:n]
	copy(nd.children[i+1:], nd.children[i+2:])
	nd.children[n+1], nd.children = malloc.Nilref, nd.children[:n+1]
	return key, child
}

// truncate node to n keys, releasing references held by the tail.
func (nd *node[K, V]) truncate(n int) {
	var zk K
	for i := n; i < len(nd.keys); i++ {
		nd.keys[i] = zk
	}
	nd.keys = nd.keys[:n]
	if nd.leaf {
		var zv V
		for i := n; i < len(nd.values); i++ {
			nd.values[i] = zv
		}
		nd.values = nd.values[:n]
		return
	}
	for i := n + 1; i < len(nd.children); i++ {
		nd.children[i] = malloc.Nilref
	}
	nd.children = nd.children[:n+1]
}

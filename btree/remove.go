package btree

import "github.com/bnclabs/gobtree/malloc"

// remove key from tree, return its value.
func (t *tree[K, V]) remove(key K) (value V, ok bool) {
	_, ref, i, found := t.lookup(key)
	if found == false {
		return value, false
	}
	_, value = t.removeat(ref, i)
	return value, true
}

func (t *tree[K, V]) deletemin() (key K, value V, ok bool) {
	ref, nd := t.minleaf()
	if nd == nil {
		return key, value, false
	}
	key, value = t.removeat(ref, 0)
	return key, value, true
}

func (t *tree[K, V]) deletemax() (key K, value V, ok bool) {
	ref, nd := t.maxleaf()
	if nd == nil {
		return key, value, false
	}
	key, value = t.removeat(ref, len(nd.keys)-1)
	return key, value, true
}

// removeat remove entry at offset i from leaf ref and rebalance.
func (t *tree[K, V]) removeat(ref malloc.Ref, i int) (K, V) {
	nd := t.getnode(ref)
	key, value := nd.removekv(i)
	t.count--
	t.generation++
	t.n_deletes++

	t.rebalance(ref)
	// only the smallest key of a leaf can be a separator.
	if i == 0 && t.root != malloc.Nilref {
		t.refreshseparator(key)
	}
	return key, value
}

// rebalance fix underflow at ref, borrowing from a sibling when it can
// spare a key, else merging with a sibling and moving up.
func (t *tree[K, V]) rebalance(ref malloc.Ref) {
	for {
		nd := t.getnode(ref)
		if nd.parent == malloc.Nilref {
			t.shrinkroot(ref, nd)
			return
		} else if int64(len(nd.keys)) >= t.minkeys {
			return
		}

		pref := nd.parent
		parent := t.getnode(pref)
		ci := parent.childpos(ref)
		if ci > 0 {
			left := t.getnode(parent.children[ci-1])
			if int64(len(left.keys)) > t.minkeys {
				t.borrowleft(parent, ci, left, ref, nd)
				return
			}
		}
		if ci < len(parent.children)-1 {
			right := t.getnode(parent.children[ci+1])
			if int64(len(right.keys)) > t.minkeys {
				t.borrowright(parent, ci, ref, nd, right)
				return
			}
		}
		if ci > 0 {
			t.merge(parent, ci-1)
		} else {
			t.merge(parent, ci)
		}
		ref = pref
	}
}

func (t *tree[K, V]) shrinkroot(ref malloc.Ref, root *node[K, V]) {
	if len(root.keys) > 0 {
		return
	} else if root.leaf {
		t.freenode(ref)
		t.root, t.height = malloc.Nilref, 0
		return
	}
	child := root.children[0]
	t.getnode(child).parent = malloc.Nilref
	t.freenode(ref)
	t.root = child
	t.height--
	tracef("%v tree height shrunk to %v\n", t.logprefix, t.height)
}

// borrowleft move the last entry of left sibling into nd, nd is the
// ci-th child of parent.
func (t *tree[K, V]) borrowleft(
	parent *node[K, V], ci int, left *node[K, V], ref malloc.Ref, nd *node[K, V]) {

	last := len(left.keys) - 1
	if nd.leaf {
		key, value := left.removekv(last)
		nd.insertkv(0, key, value)
		parent.keys[ci-1] = nd.keys[0]

	} else {
		var zk K
		key, child := left.keys[last], left.children[last+1]
		left.keys[last], left.keys = zk, left.keys[:last]
		left.children[last+1], left.children = malloc.Nilref, left.children[:last+1]

		nd.keys = append(nd.keys, zk)
		copy(nd.keys[1:], nd.keys)
		nd.keys[0] = parent.keys[ci-1]
		nd.children = append(nd.children, malloc.Nilref)
		copy(nd.children[1:], nd.children)
		nd.children[0] = child
		t.getnode(child).parent = ref
		parent.keys[ci-1] = key
	}
	t.n_borrows++
}

// borrowright move the first entry of right sibling into nd, nd is the
// ci-th child of parent.
func (t *tree[K, V]) borrowright(
	parent *node[K, V], ci int, ref malloc.Ref, nd *node[K, V], right *node[K, V]) {

	if nd.leaf {
		key, value := right.removekv(0)
		nd.keys, nd.values = append(nd.keys, key), append(nd.values, value)
		parent.keys[ci] = right.keys[0]

	} else {
		var zk K
		key, child := right.keys[0], right.children[0]
		n := len(right.keys) - 1
		copy(right.keys, right.keys[1:])
		right.keys[n], right.keys = zk, right.keys[:n]
		copy(right.children, right.children[1:])
		right.children[n+1], right.children = malloc.Nilref, right.children[:n+1]

		nd.keys = append(nd.keys, parent.keys[ci])
		nd.children = append(nd.children, child)
		t.getnode(child).parent = ref
		parent.keys[ci] = key
	}
	t.n_borrows++
}

// merge children at offset i and i+1 of parent, along with separator
// at offset i, into the child at offset i.
func (t *tree[K, V]) merge(parent *node[K, V], i int) {
	lref := parent.children[i]
	left, right := t.getnode(lref), t.getnode(parent.children[i+1])
	separator, rref := parent.removekc(i)
	if left.leaf {
		left.keys = append(left.keys, right.keys...)
		left.values = append(left.values, right.values...)

	} else {
		left.keys = append(left.keys, separator)
		left.keys = append(left.keys, right.keys...)
		for _, child := range right.children {
			t.getnode(child).parent = lref
		}
		left.children = append(left.children, right.children...)
	}
	t.freenode(rref)
	t.n_merges++
}

// refreshseparator replace a separator equal to a removed key with the
// smallest key of its right subtree.
func (t *tree[K, V]) refreshseparator(key K) {
	for ref := t.root; ref != malloc.Nilref; {
		nd := t.getnode(ref)
		if nd.leaf {
			return
		}
		i, found := nd.search(key, t.cmp)
		if found {
			nd.keys[i] = t.minkey(nd.children[i+1])
			return
		}
		ref = nd.children[i]
	}
}

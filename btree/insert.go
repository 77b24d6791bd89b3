package btree

import "github.com/bnclabs/gobtree/api"
import "github.com/bnclabs/gobtree/malloc"

// upsert key,value. If key is already present replace its value and
// return the old value, tree structure is left untouched.
func (t *tree[K, V]) upsert(key K, value V) (old V, existed bool, err error) {
	nd, ref, i, found := t.lookup(key)
	if found {
		old, nd.values[i] = nd.values[i], value
		t.n_updates++
		return old, true, nil
	}
	return old, false, t.insertat(ref, i, key, value)
}

// insertat insert a missing key at offset i in leaf ref. When ref is
// Nilref tree must be empty. Fails with api.ErrorOutofMemory, without
// touching the tree, if arena cannot supply the nodes the insert needs.
func (t *tree[K, V]) insertat(ref malloc.Ref, i int, key K, value V) error {
	if need := t.nodesneeded(ref); need > t.arena.Available() {
		return api.ErrorOutofMemory
	}

	if ref == malloc.Nilref {
		if t.root != malloc.Nilref {
			panicerr("%v insertat(): missing leaf in non-empty tree", t.logprefix)
		}
		ref, _ = t.newnode(true /*leaf*/)
		t.root, t.height, i = ref, 1, 0
	}
	nd := t.getnode(ref)
	nd.insertkv(i, key, value)
	t.count++
	t.generation++
	t.n_inserts++

	for int64(len(nd.keys)) > t.maxkeys {
		ref, nd = t.split(ref, nd)
	}
	return nil
}

// nodesneeded count the nodes to be allocated when a key is added to
// leaf ref, one for every full node from leaf upwards, plus a new root
// if the root is full as well.
func (t *tree[K, V]) nodesneeded(ref malloc.Ref) int64 {
	if ref == malloc.Nilref {
		return 1
	}
	n := int64(0)
	for ref != malloc.Nilref {
		nd := t.getnode(ref)
		if int64(len(nd.keys)) < t.maxkeys {
			return n
		}
		n, ref = n+1, nd.parent
	}
	return n + 1
}

// split an overflowing node into two, and insert the separator into its
// parent, growing a new root if needed. Return the parent.
func (t *tree[K, V]) split(ref malloc.Ref, nd *node[K, V]) (malloc.Ref, *node[K, V]) {
	rref, right := t.newnode(nd.leaf)
	mid := len(nd.keys) / 2

	var separator K
	if nd.leaf {
		right.keys = append(right.keys, nd.keys[mid:]...)
		right.values = append(right.values, nd.values[mid:]...)
		nd.truncate(mid)
		separator = right.keys[0]

	} else {
		separator = nd.keys[mid]
		right.keys = append(right.keys, nd.keys[mid+1:]...)
		right.children = append(right.children, nd.children[mid+1:]...)
		for _, child := range right.children {
			t.getnode(child).parent = rref
		}
		nd.truncate(mid)
	}

	pref := nd.parent
	if pref == malloc.Nilref { // grow the tree
		var root *node[K, V]
		pref, root = t.newnode(false /*leaf*/)
		root.children = append(root.children, ref)
		nd.parent = pref
		t.root = pref
		t.height++
		tracef("%v tree height grew to %v\n", t.logprefix, t.height)
	}
	parent := t.getnode(pref)
	parent.insertkc(parent.childpos(ref), separator, rref)
	right.parent = pref
	t.n_splits++
	return pref, parent
}

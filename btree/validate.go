package btree

import "github.com/bnclabs/gobtree/malloc"

// validate walk the full tree and panic if:
//   - keys are not in strict ascending order across the tree.
//   - a non-root node has less than ceil(order/2)-1 keys or a node has
//     more than order-1 keys.
//   - leaves are not at the same depth, equal to tree's height.
//   - a separator is not the smallest key of its right subtree.
//   - parent handles or entry count or node count are out of sync.
func (m *Map[K, V]) validate() {
	t := m.tree
	if t.root == malloc.Nilref {
		if t.height != 0 || t.count != 0 {
			fmsg := "validate(): empty tree with height:%v count:%v"
			panicerr(fmsg, t.height, t.count)
		} else if x := t.arena.Allocated(); x != 0 {
			panicerr("validate(): empty tree with %v nodes", x)
		}
		m.validatestats()
		return
	}

	entries, nodes, _ := t.validatenode(t.root, malloc.Nilref, 1, nil, nil)
	if entries != t.count {
		panicerr("validate(): count:%v != entries:%v", t.count, entries)
	} else if x := t.arena.Allocated(); x != nodes {
		panicerr("validate(): allocated:%v != nodes:%v", x, nodes)
	}
	m.validatestats()
}

// validatenode check the subtree at ref whose keys shall be within
// [lo, hi), return number of entries, number of nodes and the
// smallest key in subtree.
func (t *tree[K, V]) validatenode(
	ref, parent malloc.Ref, depth int64, lo, hi *K) (int64, int64, K) {

	nd := t.getnode(ref)
	nkeys := int64(len(nd.keys))
	if nd.parent != parent {
		panicerr("validate(): node %v parent:%v expected %v", ref, nd.parent, parent)
	} else if nkeys > t.maxkeys {
		panicerr("validate(): node %v has %v keys > %v", ref, nkeys, t.maxkeys)
	} else if parent != malloc.Nilref && nkeys < t.minkeys {
		panicerr("validate(): node %v has %v keys < %v", ref, nkeys, t.minkeys)
	} else if nkeys == 0 {
		panicerr("validate(): node %v is empty", ref)
	}
	for i := 1; i < len(nd.keys); i++ {
		if t.cmp(nd.keys[i-1], nd.keys[i]) >= 0 {
			panicerr("validate(): node %v keys out of order at %v", ref, i)
		}
	}
	if lo != nil && t.cmp(nd.keys[0], *lo) < 0 {
		panicerr("validate(): node %v key below subtree bound", ref)
	} else if hi != nil && t.cmp(nd.keys[nkeys-1], *hi) >= 0 {
		panicerr("validate(): node %v key beyond subtree bound", ref)
	}

	if nd.leaf {
		if depth != t.height {
			panicerr("validate(): leaf %v at depth %v, height %v", ref, depth, t.height)
		} else if len(nd.values) != len(nd.keys) {
			panicerr("validate(): leaf %v keys:%v values:%v", ref, nkeys, len(nd.values))
		} else if len(nd.children) > 0 {
			panicerr("validate(): leaf %v has children", ref)
		}
		return nkeys, 1, nd.keys[0]
	}

	if len(nd.children) != len(nd.keys)+1 {
		fmsg := "validate(): node %v keys:%v children:%v"
		panicerr(fmsg, ref, nkeys, len(nd.children))
	}
	var smallest K
	entries, nodes := int64(0), int64(1)
	for i, child := range nd.children {
		clo, chi := lo, hi
		if i > 0 {
			clo = &nd.keys[i-1]
		}
		if i < len(nd.keys) {
			chi = &nd.keys[i]
		}
		n, x, minkey := t.validatenode(child, ref, depth+1, clo, chi)
		if i == 0 {
			smallest = minkey
		} else if t.cmp(minkey, nd.keys[i-1]) != 0 {
			panicerr("validate(): node %v separator %v is stale", ref, i-1)
		}
		entries, nodes = entries+n, nodes+x
	}
	return entries, nodes, smallest
}

// Package btree implement ordered Map and Set types on top of an in
// memory B+ tree.
//
// Tree nodes live in a typed arena, package malloc, and refer to their
// children and parent by integer handles. Leaf nodes hold keys and
// values, internal nodes hold separator keys where every separator is the
// smallest key of the subtree to its right. Order of the tree, the
// maximum number of children for a node, is configurable via the "order"
// setting and shall be at least 3.
//
// Inserts split full nodes bottom up, growing the tree from the root.
// Before splitting, the number of nodes needed is checked against the
// arena's capacity, and the insert fails with api.ErrorOutofMemory
// without touching the tree. Removals borrow from a sibling, left first,
// when the sibling can spare a key, and merge with a sibling otherwise,
// shrinking the tree from the root.
//
// Cursors and iterators hold a path from root to leaf. Every mutation
// that adds or removes a key bumps the map's generation, and cursors,
// iterators and Entry handles created before that return
// api.ErrorStaleCursor. Replacing the value of an existing key does not
// invalidate them.
//
// Map and Set are not thread safe.
package btree

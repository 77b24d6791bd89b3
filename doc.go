// Package gobtree implement an in-memory ordered collection, a B+ tree
// whose nodes are managed by a typed arena and addressed by integer
// handles.
//
// api:
//
// Errors, constants and generic interfaces for ordered indexes.
//
// btree:
//
// Ordered Map and Set types backed by a B+ tree of configurable order.
// Supports point lookup, upsert, removal, cursors, bounded iterators and
// entry handles. Not thread safe.
//
// dict:
//
// Reference ordered dictionary built on golang map, used to validate
// btree.
//
// lib:
//
// Convinience functions that can be used by other packages. Package shall
// not import packages other than golang's standard packages.
//
// malloc:
//
// Typed arena of growing pools, with two allocation strategies, that
// backs the tree's nodes.
package gobtree

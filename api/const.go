package api

import "errors"

// ErrorActiveIterators operation cannot succeed because there are active
// iterators on the index instance.
var ErrorActiveIterators = errors.New("activeIterators")

// ErrorKeyMissing operation cannot succeed because specifed key is missing
// in the index instance.
var ErrorKeyMissing = errors.New("keyMissing")

// ErrorOutofMemory node arena has reached its configured capacity, the
// index is left as it was before the failed call.
var ErrorOutofMemory = errors.New("outofmemory")

// ErrorStaleCursor index was mutated after a cursor, iterator or entry
// handle was positioned on it. The handle must be re-opened.
var ErrorStaleCursor = errors.New("staleCursor")

// ErrorClosed operation attempted on a closed iterator or a destroyed
// index.
var ErrorClosed = errors.New("closed")

// MinOrder minimum order, maximum number of children, of a B-tree node.
const MinOrder = int64(3)

// MaxOrder maximum order of a B-tree node. A node's key offset must fit
// in a uint16.
const MaxOrder = int64(65536)

// Range inclusion, argument to Iterate and Scan.
const (
	InclNone = "none"
	InclLow  = "low"
	InclHigh = "high"
	InclBoth = "both"
)

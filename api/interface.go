// Package api define errors, constants and interfaces common to the
// ordered collections implemented by this module.
package api

// RangeCallb callback from Scan API. Return false to stop the scan.
type RangeCallb[K any, V any] func(key K, value V) bool

// IndexMeta interface to access an index's identity and health.
type IndexMeta interface {
	// ID return index id. Typically, it is human readable and unique.
	ID() string

	// Count return the number of entries indexed.
	Count() int64

	// Isactive return whether index is active or not.
	Isactive() bool

	// Stats return a set of index statistics.
	Stats() (map[string]interface{}, error)

	// Fullstats return an involved set of index statistics, calling this
	// function will walk the whole tree.
	Fullstats() (map[string]interface{}, error)

	// Log current statistics, if humanize is true log some or all of the
	// stats in human readable format.
	Log(what string, humanize bool)

	// Validate check whether index is in sane state, panics otherwise.
	Validate()

	// Destroy to delete an index and clean up its resources.
	Destroy() error
}

// IndexReader interface for read-only access into an ordered index.
type IndexReader[K any, V any] interface {
	// Has checks whether key is present in the index.
	Has(key K) bool

	// Get value for key, second return is false if key is missing.
	Get(key K) (V, bool)

	// Min return the entry with the smallest key.
	Min() (K, V, bool)

	// Max return the entry with the largest key.
	Max() (K, V, bool)

	// Scan entries between lkey and hkey, a nil bound is open. Incl can
	// be "both", "low", "high", "none".
	Scan(lkey, hkey *K, incl string, reverse bool, callb RangeCallb[K, V])
}

// IndexWriter interface for mutating an ordered index.
type IndexWriter[K any, V any] interface {
	// Insert key,value. If key is already present its value is replaced
	// and the old value returned.
	Insert(key K, value V) (old V, existed bool, err error)

	// Remove key, return the removed value.
	Remove(key K) (V, bool)

	// DeleteMin remove the entry with the smallest key.
	DeleteMin() (K, V, bool)

	// DeleteMax remove the entry with the largest key.
	DeleteMax() (K, V, bool)

	// Clear remove all entries.
	Clear()
}

// Index interface for managing ordered key,value pairs.
type Index[K any, V any] interface {
	IndexMeta
	IndexReader[K, V]
	IndexWriter[K, V]
}

// IndexIterator interface to walk a range of entries. Next return io.EOF
// when the range is exhausted.
type IndexIterator[K any, V any] interface {
	Next() (key K, value V, err error)

	// Close iterator, to release resources.
	Close()
}

package malloc

// Mpooler manages a pool of equal sized chunks of type T, each chunk
// addressed by its offset within the pool.
type Mpooler[T any] interface {
	// Allocchunk allocate a chunk from pool, return false if pool is
	// exhausted.
	Allocchunk() (offset int64, ok bool)

	// Free chunk back to pool.
	Free(offset int64)

	// Chunk return pointer to a live chunk.
	Chunk(offset int64) *T

	// Islive return whether chunk at offset is allocated.
	Islive(offset int64) bool

	// Numchunks managed by this pool.
	Numchunks() int64

	// Allocated return number of live chunks.
	Allocated() int64

	// Available return number of free chunks.
	Available() int64

	// Memory return memory held by the pool and overhead of managing it.
	Memory() (overhead, useful int64)

	// Release this pool and all its resources.
	Release()
}

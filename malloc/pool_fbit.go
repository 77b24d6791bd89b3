package malloc

import "unsafe"

// poolfbit manages chunks using a bitmap of free chunks, allocation
// picks the lowest free offset.
type poolfbit[T any] struct {
	chunks []T
	fbits  *freebits
}

func fbitfactory[T any]() func(n int64) Mpooler[T] {
	return func(n int64) Mpooler[T] { return newpoolfbit[T](n) }
}

func newpoolfbit[T any](n int64) *poolfbit[T] {
	if n <= 0 || n > Maxchunks {
		panicerr("poolfbit: invalid number of chunks %v", n)
	}
	return &poolfbit[T]{chunks: make([]T, n), fbits: newfreebits(n)}
}

// Allocchunk implement Mpooler{} interface.
func (pool *poolfbit[T]) Allocchunk() (int64, bool) {
	if pool.fbits == nil {
		panicerr("poolfbit: pool already released")
	}
	return pool.fbits.alloc()
}

// Free implement Mpooler{} interface.
func (pool *poolfbit[T]) Free(offset int64) {
	if pool.Islive(offset) == false {
		panicerr("poolfbit.free(): chunk %v is not live", offset)
	}
	var zero T
	pool.chunks[offset] = zero
	pool.fbits.free(offset)
}

// Chunk implement Mpooler{} interface.
func (pool *poolfbit[T]) Chunk(offset int64) *T {
	if pool.Islive(offset) == false {
		panicerr("poolfbit.chunk(): chunk %v is not live", offset)
	}
	return &pool.chunks[offset]
}

// Islive implement Mpooler{} interface.
func (pool *poolfbit[T]) Islive(offset int64) bool {
	if pool.fbits == nil || offset < 0 || offset >= pool.fbits.nblocks {
		return false
	}
	return pool.fbits.isfree(offset) == false
}

// Numchunks implement Mpooler{} interface.
func (pool *poolfbit[T]) Numchunks() int64 {
	return int64(len(pool.chunks))
}

// Allocated implement Mpooler{} interface.
func (pool *poolfbit[T]) Allocated() int64 {
	if pool.fbits == nil {
		return 0
	}
	return pool.fbits.nblocks - pool.fbits.nfree
}

// Available implement Mpooler{} interface.
func (pool *poolfbit[T]) Available() int64 {
	if pool.fbits == nil {
		return 0
	}
	return pool.fbits.nfree
}

// Memory implement Mpooler{} interface.
func (pool *poolfbit[T]) Memory() (overhead, useful int64) {
	var zero T
	overhead = int64(unsafe.Sizeof(*pool))
	if pool.fbits != nil {
		overhead += pool.fbits.sizeof()
	}
	useful = int64(len(pool.chunks)) * int64(unsafe.Sizeof(zero))
	return overhead, useful
}

// Release implement Mpooler{} interface.
func (pool *poolfbit[T]) Release() {
	pool.chunks, pool.fbits = nil, nil
}

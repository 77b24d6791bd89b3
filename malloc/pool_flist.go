package malloc

import "unsafe"

import "github.com/bnclabs/gobtree/lib"

// poolflist manages chunks using a stack of free offsets, alloc and free
// are O(1). A bitmap of live chunks catches double free.
type poolflist[T any] struct {
	chunks   []T
	freelist []uint16
	live     []uint8
}

func flistfactory[T any]() func(n int64) Mpooler[T] {
	return func(n int64) Mpooler[T] { return newpoolflist[T](n) }
}

func newpoolflist[T any](n int64) *poolflist[T] {
	if n <= 0 || n > Maxchunks {
		panicerr("poolflist: invalid number of chunks %v", n)
	}
	pool := &poolflist[T]{
		chunks:   make([]T, n),
		freelist: make([]uint16, n),
		live:     make([]uint8, lib.Ceil(n, 8)),
	}
	// lowest offsets are handed out first.
	for i := int64(0); i < n; i++ {
		pool.freelist[i] = uint16(n - 1 - i)
	}
	return pool
}

// Allocchunk implement Mpooler{} interface.
func (pool *poolflist[T]) Allocchunk() (int64, bool) {
	if len(pool.freelist) == 0 {
		return -1, false
	}
	freeoff := len(pool.freelist) - 1
	offset := int64(pool.freelist[freeoff])
	pool.freelist = pool.freelist[:freeoff]
	q, r := offset>>3, uint8(offset&0x7)
	pool.live[q] = lib.Bit8(pool.live[q]).Setbit(r)
	return offset, true
}

// Free implement Mpooler{} interface.
func (pool *poolflist[T]) Free(offset int64) {
	if pool.Islive(offset) == false {
		panicerr("poolflist.free(): chunk %v is not live", offset)
	}
	var zero T
	pool.chunks[offset] = zero
	q, r := offset>>3, uint8(offset&0x7)
	pool.live[q] = lib.Bit8(pool.live[q]).Clearbit(r)
	pool.freelist = append(pool.freelist, uint16(offset))
}

// Chunk implement Mpooler{} interface.
func (pool *poolflist[T]) Chunk(offset int64) *T {
	if pool.Islive(offset) == false {
		panicerr("poolflist.chunk(): chunk %v is not live", offset)
	}
	return &pool.chunks[offset]
}

// Islive implement Mpooler{} interface.
func (pool *poolflist[T]) Islive(offset int64) bool {
	if offset < 0 || offset >= int64(len(pool.chunks)) {
		return false
	}
	return lib.Bit8(pool.live[offset>>3]).Isset(uint8(offset & 0x7))
}

// Numchunks implement Mpooler{} interface.
func (pool *poolflist[T]) Numchunks() int64 {
	return int64(len(pool.chunks))
}

// Allocated implement Mpooler{} interface.
func (pool *poolflist[T]) Allocated() int64 {
	return int64(len(pool.chunks) - len(pool.freelist))
}

// Available implement Mpooler{} interface.
func (pool *poolflist[T]) Available() int64 {
	return int64(len(pool.freelist))
}

// Memory implement Mpooler{} interface.
func (pool *poolflist[T]) Memory() (overhead, useful int64) {
	var zero T
	self := int64(unsafe.Sizeof(*pool))
	slicesz := int64(cap(pool.freelist)) * int64(unsafe.Sizeof(uint16(0)))
	overhead = self + slicesz + int64(cap(pool.live))
	useful = int64(len(pool.chunks)) * int64(unsafe.Sizeof(zero))
	return overhead, useful
}

// Release implement Mpooler{} interface.
func (pool *poolflist[T]) Release() {
	pool.chunks, pool.freelist, pool.live = nil, nil, nil
}

package malloc

import "unsafe"

import s "github.com/bnclabs/gosettings"

// Arena manages chunks of type T across a growing set of pools, with an
// upper limit on the number of live chunks.
type Arena[T any] struct {
	pools     []Mpooler[T]
	poolmaker func(n int64) Mpooler[T]
	hint      int   // pools before hint have no free chunks
	numchunks int64 // chunks in all pools
	allocated int64
	released  bool

	// statistics
	n_allocs int64
	n_frees  int64

	// settings
	capacity  int64
	maxchunks int64
	allocator string
}

// NewArena create a new typed arena, setts shall carry all the settings
// listed in Defaultsettings().
func NewArena[T any](setts s.Settings) *Arena[T] {
	arena := &Arena[T]{
		capacity:  setts.Int64("capacity"),
		maxchunks: setts.Int64("maxchunks"),
		allocator: setts.String("allocator"),
	}
	if cp := arena.capacity; cp <= 0 || cp > Maxcapacity {
		panicerr("arena capacity %v out of range (0,%v]", cp, Maxcapacity)
	} else if mc := arena.maxchunks; mc <= 0 || mc > Maxchunks {
		panicerr("arena maxchunks %v out of range (0,%v]", mc, Maxchunks)
	}
	// pools are limited to Maxpools, capacity is what they can hold.
	if reachable := Reachable(arena.capacity, arena.maxchunks); reachable < arena.capacity {
		arena.capacity = reachable
	}
	switch arena.allocator {
	case "flist":
		arena.poolmaker = flistfactory[T]()
	case "fbit":
		arena.poolmaker = fbitfactory[T]()
	default:
		panicerr("invalid allocator %q", arena.allocator)
	}
	arena.pools = make([]Mpooler[T], 0, 16)
	return arena
}

//---- operations

// Alloc a chunk from arena, chunk is initialized to T's zero value.
func (arena *Arena[T]) Alloc() (Ref, error) {
	if arena.released {
		panicerr("arena released")
	} else if arena.allocated >= arena.capacity {
		return Nilref, ErrorOutofMemory
	}

	for i := arena.hint; i < len(arena.pools); i++ {
		if offset, ok := arena.pools[i].Allocchunk(); ok {
			arena.hint = i
			arena.allocated++
			arena.n_allocs++
			return makeref(int64(i), offset), nil
		}
	}

	// pools exhausted, create a new pool.
	cpools := int64(len(arena.pools))
	if cpools >= Maxpools {
		return Nilref, ErrorOutofMemory
	}
	remaining := arena.capacity - arena.numchunks
	if remaining <= 0 {
		return Nilref, ErrorOutofMemory
	}
	n := adaptiveNumchunks(cpools, remaining, arena.maxchunks)
	arena.pools = append(arena.pools, arena.poolmaker(n))
	arena.numchunks += n
	arena.hint = len(arena.pools) - 1
	offset, _ := arena.pools[arena.hint].Allocchunk()
	arena.allocated++
	arena.n_allocs++
	return makeref(cpools, offset), nil
}

// Free chunk back to arena, freeing a chunk that is not live will panic.
func (arena *Arena[T]) Free(ref Ref) {
	pool, offset := arena.locate(ref)
	arena.pools[pool].Free(offset)
	if int(pool) < arena.hint {
		arena.hint = int(pool)
	}
	arena.allocated--
	arena.n_frees++
}

// Chunk return pointer to a live chunk. The pointer is valid till the
// chunk is freed.
func (arena *Arena[T]) Chunk(ref Ref) *T {
	pool, offset := arena.locate(ref)
	return arena.pools[pool].Chunk(offset)
}

// Islive return whether ref points to a live chunk in this arena.
func (arena *Arena[T]) Islive(ref Ref) bool {
	if ref == Nilref || arena.released {
		return false
	}
	pool, offset := ref.split()
	if pool >= int64(len(arena.pools)) {
		return false
	}
	return arena.pools[pool].Islive(offset)
}

// Reset free all chunks and drop all pools, arena can be used again.
func (arena *Arena[T]) Reset() {
	for _, pool := range arena.pools {
		pool.Release()
	}
	arena.n_frees += arena.allocated
	arena.pools, arena.hint = arena.pools[:0], 0
	arena.numchunks, arena.allocated = 0, 0
}

// Release arena and all its pools, arena cannot be used after this.
func (arena *Arena[T]) Release() {
	arena.Reset()
	arena.pools, arena.released = nil, true
}

//---- statistics and maintenance

// Capacity return the maximum number of live chunks.
func (arena *Arena[T]) Capacity() int64 {
	return arena.capacity
}

// Allocated return number of live chunks.
func (arena *Arena[T]) Allocated() int64 {
	return arena.allocated
}

// Available return number of chunks that can still be allocated.
func (arena *Arena[T]) Available() int64 {
	return arena.capacity - arena.allocated
}

// Numpools return number of pools created so far.
func (arena *Arena[T]) Numpools() int {
	return len(arena.pools)
}

// Memory return memory held by arena's pools, as useful bytes, and
// memory spent in managing them.
func (arena *Arena[T]) Memory() (overhead, useful int64) {
	self := int64(unsafe.Sizeof(*arena))
	slicesz := int64(cap(arena.pools)) * int64(unsafe.Sizeof(Mpooler[T](nil)))
	overhead += self + slicesz
	for _, pool := range arena.pools {
		x, y := pool.Memory()
		overhead += x
		useful += y
	}
	return
}

// Utilization return number of chunks in each pool and the percentage
// of live chunks in them.
func (arena *Arena[T]) Utilization() ([]int, []float64) {
	ss, zs := make([]int, 0), make([]float64, 0)
	for _, pool := range arena.pools {
		n := pool.Numchunks()
		ss = append(ss, int(n))
		zs = append(zs, (float64(pool.Allocated())/float64(n))*100)
	}
	return ss, zs
}

// Stats return arena statistics.
func (arena *Arena[T]) Stats() map[string]interface{} {
	overhead, useful := arena.Memory()
	return map[string]interface{}{
		"capacity":  arena.capacity,
		"allocated": arena.allocated,
		"available": arena.Available(),
		"numchunks": arena.numchunks,
		"npools":    int64(arena.Numpools()),
		"overhead":  overhead,
		"useful":    useful,
		"n_allocs":  arena.n_allocs,
		"n_frees":   arena.n_frees,
		"allocator": arena.allocator,
	}
}

func (arena *Arena[T]) locate(ref Ref) (int64, int64) {
	if arena.released {
		panicerr("arena released")
	} else if ref == Nilref {
		panicerr("nil reference")
	}
	pool, offset := ref.split()
	if pool >= int64(len(arena.pools)) {
		panicerr("%v: %v", ErrorInvalidRef, ref)
	}
	return pool, offset
}

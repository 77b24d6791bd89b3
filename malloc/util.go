package malloc

import "fmt"
import "errors"

import "github.com/bnclabs/gobtree/api"

// ErrorOutofMemory arena has reached its capacity.
var ErrorOutofMemory = api.ErrorOutofMemory

// ErrorInvalidRef handle does not refer to any pool in this arena.
var ErrorInvalidRef = errors.New("malloc.invalidref")

// Ref is a handle to a chunk in arena. Upper 16 bits hold the pool
// number plus one, lower 16 bits hold chunk offset within the pool.
type Ref uint32

// Nilref never refers to a chunk.
const Nilref = Ref(0)

func makeref(pool, offset int64) Ref {
	return Ref(uint32(pool+1)<<16 | uint32(offset))
}

func (ref Ref) split() (pool, offset int64) {
	return int64(ref>>16) - 1, int64(ref & 0xffff)
}

// String implement fmt.Stringer.
func (ref Ref) String() string {
	if ref == Nilref {
		return "nil"
	}
	pool, offset := ref.split()
	return fmt.Sprintf("%d.%d", pool, offset)
}

// Poolsizes return the number of chunks in each pool created by an arena
// of given capacity, in the order they are created.
func Poolsizes(capacity, maxchunks int64) []int64 {
	sizes, total := []int64{}, int64(0)
	for total < capacity && int64(len(sizes)) < Maxpools {
		n := adaptiveNumchunks(int64(len(sizes)), capacity-total, maxchunks)
		sizes = append(sizes, n)
		total += n
	}
	return sizes
}

// Reachable return the number of chunks an arena of given capacity can
// manage, less than capacity when Maxpools pools of at most maxchunks
// cannot hold it.
func Reachable(capacity, maxchunks int64) int64 {
	total := int64(0)
	for _, size := range Poolsizes(capacity, maxchunks) {
		total += size
	}
	return total
}

// first pool has Minchunks chunks, every new pool doubles the size till
// maxchunks, never exceeding the remaining capacity.
func adaptiveNumchunks(cpools, remaining, maxchunks int64) int64 {
	n := maxchunks
	if cpools < 16 {
		if x := Minchunks << uint(cpools); x < n {
			n = x
		}
	}
	if n > remaining {
		n = remaining
	}
	return n
}

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}

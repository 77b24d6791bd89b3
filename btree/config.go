package btree

import "unsafe"

import "github.com/bnclabs/gobtree/malloc"
import s "github.com/bnclabs/gosettings"
import "github.com/cloudfoundry/gosigar"

// Defaultsettings for a btree Map along with its node arena.
//
// "order" (int64, default: 8)
//		Maximum number of children for an internal node, leaf nodes
//		can hold upto order-1 entries. Shall be >= 3.
//
// "iterpool.size" (int64, default: 100)
//		Maximum number of iterators kept for reuse. Each Iter, Range,
//		Iterate call acquires an iterator, Close gives it back.
//
// "nodearena.capacity" (int64, default: 0)
//		Maximum number of nodes the tree can hold. When 0, capacity
//		is computed from free RAM and the estimated node size.
//
// "nodearena.maxchunks" (int64, default: 65536)
//		Maximum number of nodes in a single arena pool.
//
// "nodearena.allocator" (string, default: "flist")
//		Arena allocator, "flist" or "fbit".
func Defaultsettings() s.Settings {
	setts := s.Settings{
		"order":         int64(8),
		"iterpool.size": int64(100),
	}
	nodesetts := s.Settings{
		"capacity":  int64(0),
		"maxchunks": malloc.Maxchunks,
		"allocator": "flist",
	}
	return setts.Mixin(nodesetts.AddPrefix("nodearena."))
}

func (m *Map[K, V]) readsettings(setts s.Settings) *Map[K, V] {
	m.order = setts.Int64("order")
	m.iterpoolsize = setts.Int64("iterpool.size")
	return m
}

func newnodearena[K any, V any](
	order int64, setts s.Settings) *malloc.Arena[node[K, V]] {

	memsetts := setts.Section("nodearena").Trim("nodearena.")
	if memsetts.Int64("capacity") <= 0 {
		memsetts["capacity"] = nodecapacity[K, V](order)
	}
	return malloc.NewArena[node[K, V]](memsetts)
}

// nodecapacity estimate the number of nodes that fit in free RAM.
func nodecapacity[K any, V any](order int64) int64 {
	var k K
	var v V
	var nd node[K, V]
	_, _, free := getsysmem()
	entrysize := int64(unsafe.Sizeof(k)) + int64(unsafe.Sizeof(v)) +
		int64(unsafe.Sizeof(malloc.Nilref))
	nodesize := int64(unsafe.Sizeof(nd)) + (order * entrysize)
	capacity := int64(free) / nodesize
	if capacity < malloc.Minchunks {
		return malloc.Minchunks
	} else if capacity > malloc.Maxcapacity {
		return malloc.Maxcapacity
	}
	return capacity
}

func getsysmem() (total, used, free uint64) {
	mem := sigar.Mem{}
	mem.Get()
	return mem.Total, mem.Used, mem.Free
}

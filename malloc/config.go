package malloc

import "fmt"

import s "github.com/bnclabs/gosettings"

// Maxpools maximum number of pools allowed in an arena.
const Maxpools = int64(512)

// Maxchunks maximum number of chunks allowed in a pool, chunk offsets
// within a pool must fit in 16 bits.
const Maxchunks = int64(65536)

// Minchunks number of chunks in the first pool of an arena.
const Minchunks = int64(64)

// Maxcapacity maximum number of chunks an arena can manage.
const Maxcapacity = Maxpools * Maxchunks

// Defaultsettings for arena.
//
// "capacity" (int64, default: <capacity>)
//		Maximum number of live chunks.
//
// "maxchunks" (int64, default: 65536)
//		Maximum number of chunks in a single pool.
//
// "allocator" (string, default: "flist")
//		Allocater algorithm, can be "flist" or "fbit".
func Defaultsettings(capacity int64) s.Settings {
	if capacity <= 0 || capacity > Maxcapacity {
		panic(fmt.Errorf("capacity %v out of range (0,%v]", capacity, Maxcapacity))
	}
	return s.Settings{
		"capacity":  capacity,
		"maxchunks": Maxchunks,
		"allocator": "flist",
	}
}

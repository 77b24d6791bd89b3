package malloc

import "unsafe"

import "github.com/bnclabs/gobtree/lib"

// freebits bitmap of free chunks, a set bit mark the chunk as free.
type freebits struct {
	nblocks int64
	nfree   int64
	freeoff int64 // bytes before freeoff have no free bits.
	bitmap  []uint8
}

func newfreebits(nblocks int64) *freebits {
	fbits := &freebits{
		nblocks: nblocks,
		nfree:   nblocks,
		bitmap:  make([]uint8, lib.Ceil(nblocks, 8)),
	}
	for i := int64(0); i < (nblocks >> 3); i++ {
		fbits.bitmap[i] = 0xff
	}
	if x := (nblocks & 0x7); x > 0 {
		byt := uint8(0)
		for i := int64(0); i < x; i++ {
			byt = lib.Bit8(byt).Setbit(uint8(i))
		}
		fbits.bitmap[len(fbits.bitmap)-1] = byt
	}
	return fbits
}

func (fbits *freebits) alloc() (int64, bool) {
	if fbits.nfree == 0 {
		return -1, false
	}
	for off := fbits.freeoff; off < int64(len(fbits.bitmap)); off++ {
		byt := fbits.bitmap[off]
		if byt == 0 {
			continue
		}
		n := lib.Bit8(byt).Findfirstset()
		fbits.bitmap[off] = lib.Bit8(byt).Clearbit(uint8(n))
		fbits.freeoff, fbits.nfree = off, fbits.nfree-1
		return (off << 3) + int64(n), true
	}
	panicerr("freebits: %v free blocks not found in bitmap", fbits.nfree)
	return -1, false
}

func (fbits *freebits) free(nthblock int64) {
	if nthblock < 0 || nthblock >= fbits.nblocks {
		panicerr("freebits: block %v out of range %v", nthblock, fbits.nblocks)
	}
	q, r := (nthblock >> 3), uint8(nthblock&0x7)
	if lib.Bit8(fbits.bitmap[q]).Isset(r) {
		panicerr("freebits: block %v already free", nthblock)
	}
	fbits.bitmap[q] = lib.Bit8(fbits.bitmap[q]).Setbit(r)
	if q < fbits.freeoff {
		fbits.freeoff = q
	}
	fbits.nfree++
}

func (fbits *freebits) isfree(nthblock int64) bool {
	if nthblock < 0 || nthblock >= fbits.nblocks {
		return false
	}
	q, r := (nthblock >> 3), uint8(nthblock&0x7)
	return lib.Bit8(fbits.bitmap[q]).Isset(r)
}

// freeblocks count free bits, can be costly.
func (fbits *freebits) freeblocks() (n int64) {
	for _, byt := range fbits.bitmap {
		n += int64(lib.Bit8(byt).Ones())
	}
	return
}

func (fbits *freebits) sizeof() int64 {
	return int64(unsafe.Sizeof(*fbits)) + int64(cap(fbits.bitmap))
}

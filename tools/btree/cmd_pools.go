package main

import "fmt"
import "flag"
import "unsafe"

import "github.com/bnclabs/gobtree/malloc"
import humanize "github.com/dustin/go-humanize"

var poolsopts struct {
	capacity  int64
	maxchunks int64
	chunksize int64
}

func parsePoolsopts(args []string) {
	f := flag.NewFlagSet("pools", flag.ExitOnError)
	f.Int64Var(&poolsopts.capacity, "capacity", 1024*1024,
		"arena capacity, in number of chunks")
	f.Int64Var(&poolsopts.maxchunks, "maxchunks", malloc.Maxchunks,
		"maximum number of chunks in a pool")
	f.Int64Var(&poolsopts.chunksize, "chunksize", 0,
		"size of a chunk in bytes, 0 to use the size of a pointer")
	f.Parse(args)
}

func dopools(args []string) {
	parsePoolsopts(args)
	if poolsopts.chunksize <= 0 {
		var ptr *int
		poolsopts.chunksize = int64(unsafe.Sizeof(ptr))
	}

	sizes := malloc.Poolsizes(poolsopts.capacity, poolsopts.maxchunks)
	total := int64(0)
	for i, size := range sizes {
		total += size
		mem := humanize.Bytes(uint64(size * poolsopts.chunksize))
		fmt.Printf("pool %4v, chunks %6v, memory %v\n", i, size, mem)
	}
	if total < poolsopts.capacity {
		fmsg := "warning: capacity %v unreachable with %v pools\n"
		fmt.Printf(fmsg, poolsopts.capacity, malloc.Maxpools)
	}
	fmt.Printf("total %v pools, %v chunks\n", len(sizes), humanize.Comma(total))
}

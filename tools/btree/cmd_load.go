package main

import "os"
import "fmt"
import "flag"
import "time"
import "math/rand"

import "github.com/bnclabs/golog"
import "github.com/bnclabs/gobtree/btree"
import "github.com/bnclabs/gobtree/lib"
import s "github.com/bnclabs/gosettings"
import humanize "github.com/dustin/go-humanize"

var loadopts struct {
	n         int
	order     int
	capacity  int
	maxchunks int
	allocator string
	seed      int
	dotfile   string
	pretty    bool
}

func parseLoadopts(args []string) {
	f := flag.NewFlagSet("load", flag.ExitOnError)

	f.IntVar(&loadopts.n, "n", 1000000,
		"number of items to generate and insert")
	f.IntVar(&loadopts.order, "order", 8,
		"maximum number of children in a node")
	f.IntVar(&loadopts.capacity, "capacity", 0,
		"maximum number of nodes, 0 to compute from free RAM")
	f.IntVar(&loadopts.maxchunks, "maxchunks", 65536,
		"maximum number of nodes in an arena pool")
	f.StringVar(&loadopts.allocator, "allocator", "flist",
		"node allocator, flist or fbit")
	f.IntVar(&loadopts.seed, "seed", int(time.Now().UnixNano()%1000000),
		"seed for random keys")
	f.StringVar(&loadopts.dotfile, "dotfile", "",
		"dump dot file output of the tree")
	f.BoolVar(&loadopts.pretty, "pretty", true,
		"print statistics with indentation")
	f.Parse(args)
}

func doload(args []string) {
	parseLoadopts(args)

	setts := mapsettings(
		loadopts.order, loadopts.capacity, loadopts.maxchunks,
		loadopts.allocator)
	m := btree.NewOrderedMap[int64, int64]("load", setts)
	defer m.Destroy()

	rnd := rand.New(rand.NewSource(int64(loadopts.seed)))
	now := time.Now()
	n := 0
	for ; n < loadopts.n; n++ {
		key := rnd.Int63()
		if _, _, err := m.Insert(key, key); err != nil {
			log.Errorf("insert %v: %v\n", n, err)
			break
		}
	}
	elapsed := time.Since(now)
	fmsg := "took %v to load %v items, %v per insert\n"
	fmt.Printf(fmsg, elapsed, humanize.Comma(int64(n)), elapsed/time.Duration(n+1))

	now = time.Now()
	m.Validate()
	fmt.Printf("took %v to validate %v items\n", time.Since(now), m.Len())

	stats, err := m.Fullstats()
	if err != nil {
		log.Fatalf("fullstats: %v\n", err)
	}
	fmt.Println(lib.Prettystats(stats, loadopts.pretty))
	m.Log("full", true)

	if loadopts.dotfile != "" {
		fd, err := os.Create(loadopts.dotfile)
		if err != nil {
			log.Fatalf("%v\n", err)
		}
		defer fd.Close()
		m.Dotdump(fd)
	}
}

func mapsettings(order, capacity, maxchunks int, allocator string) s.Settings {
	setts := btree.Defaultsettings()
	setts["order"] = int64(order)
	setts["nodearena.capacity"] = int64(capacity)
	setts["nodearena.maxchunks"] = int64(maxchunks)
	setts["nodearena.allocator"] = allocator
	return setts
}

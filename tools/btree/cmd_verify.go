package main

import "io"
import "fmt"
import "flag"
import "time"
import "strconv"
import "math/rand"

import "github.com/bnclabs/golog"
import "github.com/bnclabs/gobtree/btree"
import "github.com/bnclabs/gobtree/dict"
import "github.com/bnclabs/gobtree/lib"
import humanize "github.com/dustin/go-humanize"

var verifyopts struct {
	ops       int
	keyspace  int
	orders    []int64
	allocator string
	validate  int
	seed      int
}

func parseVerifyopts(args []string) {
	var orders string

	f := flag.NewFlagSet("verify", flag.ExitOnError)
	f.IntVar(&verifyopts.ops, "ops", 100000,
		"number of operations to apply for each order")
	f.IntVar(&verifyopts.keyspace, "keyspace", 10000,
		"keys are picked from [0,keyspace)")
	f.StringVar(&orders, "orders", "3,4,5,8,64",
		"comma separated list of tree orders to verify")
	f.StringVar(&verifyopts.allocator, "allocator", "flist",
		"node allocator, flist or fbit")
	f.IntVar(&verifyopts.validate, "validate", 1000,
		"validate tree for every n operations")
	f.IntVar(&verifyopts.seed, "seed", int(time.Now().UnixNano()%1000000),
		"seed for random operations")
	f.Parse(args)

	for _, s := range lib.Parsecsv(orders) {
		order, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			log.Fatalf("invalid order %q: %v\n", s, err)
		}
		verifyopts.orders = append(verifyopts.orders, order)
	}
}

func doverify(args []string) {
	parseVerifyopts(args)
	log.Infof("verify with seed %v\n", verifyopts.seed)

	for _, order := range verifyopts.orders {
		now := time.Now()
		setts := mapsettings(int(order), 0, 65536, verifyopts.allocator)
		m := btree.NewOrderedMap[int64, int64]("verify", setts)
		d := dict.NewOrderedDict[int64, int64]("reference")
		rnd := rand.New(rand.NewSource(int64(verifyopts.seed)))
		counts := verifyops(m, d, rnd)
		compare(m, d)
		m.Destroy()

		fmsg := "order %v verified %v ops %v in %v\n"
		nops := humanize.Comma(int64(verifyopts.ops))
		fmt.Printf(fmsg, order, nops, counts, time.Since(now))
	}
}

func verifyops(
	m *btree.Map[int64, int64], d *dict.Dict[int64, int64],
	rnd *rand.Rand) map[string]int {

	counts := map[string]int{}
	for i := 0; i < verifyopts.ops; i++ {
		key, value := int64(rnd.Intn(verifyopts.keyspace)), rnd.Int63()
		switch op := rnd.Intn(10); {
		case op < 5:
			_, mok, err := m.Insert(key, value)
			if err != nil {
				log.Fatalf("insert %v: %v\n", key, err)
			}
			_, dok, _ := d.Insert(key, value)
			check(mok == dok, "insert %v existed: %v, expected %v", key, mok, dok)
			counts["insert"]++
		case op < 8:
			mval, mok := m.Remove(key)
			dval, dok := d.Remove(key)
			check(mok == dok && mval == dval, "remove %v: %v, expected %v", key, mval, dval)
			counts["remove"]++
		case op == 8:
			mkey, _, _ := m.DeleteMin()
			dkey, _, _ := d.DeleteMin()
			check(mkey == dkey, "deletemin: %v, expected %v", mkey, dkey)
			counts["deletemin"]++
		default:
			mkey, _, _ := m.DeleteMax()
			dkey, _, _ := d.DeleteMax()
			check(mkey == dkey, "deletemax: %v, expected %v", mkey, dkey)
			counts["deletemax"]++
		}
		if verifyopts.validate > 0 && i%verifyopts.validate == 0 {
			m.Validate()
		}
	}
	return counts
}

func compare(m *btree.Map[int64, int64], d *dict.Dict[int64, int64]) {
	m.Validate()
	check(m.Count() == d.Count(), "count %v, expected %v", m.Count(), d.Count())

	keys := d.Keys()
	iter := m.Iter()
	defer iter.Close()
	for i := 0; ; i++ {
		key, value, err := iter.Next()
		if err == io.EOF {
			check(i == len(keys), "iterated %v, expected %v", i, len(keys))
			return
		} else if err != nil {
			log.Fatalf("iterate: %v\n", err)
		}
		dval, _ := d.Get(keys[i])
		check(key == keys[i], "key %v, expected %v", key, keys[i])
		check(value == dval, "value %v, expected %v", value, dval)
	}
}

func check(ok bool, fmsg string, args ...interface{}) {
	if ok == false {
		log.Fatalf(fmsg+"\n", args...)
	}
}

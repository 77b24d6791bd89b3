package btree

import "io"
import "bytes"
import "strings"
import "testing"
import "math/rand"

import "github.com/bnclabs/gobtree/api"
import "github.com/bnclabs/gobtree/dict"
import "github.com/bnclabs/gobtree/malloc"
import "github.com/stretchr/testify/require"

func TestMapEmpty(t *testing.T) {
	m := NewOrderedMap[int64, int64]("empty", testsettings(8))
	defer m.Destroy()

	if m.ID() != "empty" {
		t.Errorf("unexpected %v", m.ID())
	} else if m.Count() != 0 || m.Len() != 0 || m.IsEmpty() == false {
		t.Errorf("unexpected %v", m.Count())
	} else if m.Height() != 0 {
		t.Errorf("unexpected %v", m.Height())
	}
	if _, ok := m.Get(10); ok {
		t.Errorf("unexpected key")
	} else if _, _, ok := m.Min(); ok {
		t.Errorf("unexpected min")
	} else if _, _, ok := m.Max(); ok {
		t.Errorf("unexpected max")
	} else if _, _, ok := m.DeleteMin(); ok {
		t.Errorf("unexpected deletemin")
	} else if _, _, ok := m.DeleteMax(); ok {
		t.Errorf("unexpected deletemax")
	} else if _, ok := m.Remove(10); ok {
		t.Errorf("unexpected remove")
	}

	m.Validate()
	stats, err := m.Stats()
	require.NoError(t, err)
	if x := stats["n_count"].(int64); x != 0 {
		t.Errorf("unexpected %v", x)
	} else if x := stats["n_inserts"].(int64); x != 0 {
		t.Errorf("unexpected %v", x)
	} else if x := stats["n_nodes"].(int64); x != 0 {
		t.Errorf("unexpected %v", x)
	} else if x := stats["node.allocated"].(int64); x != 0 {
		t.Errorf("unexpected %v", x)
	} else if x := stats["order"].(int64); x != 8 {
		t.Errorf("unexpected %v", x)
	}
	m.Log("full", true)
}

func TestMapName(t *testing.T) {
	m := NewOrderedMap[int64, int64]("", testsettings(8))
	defer m.Destroy()
	require.Len(t, m.ID(), 36)
	require.Equal(t, int64(1024*1024), m.Capacity())
}

func TestMapInvalid(t *testing.T) {
	dotest := func(fn func()) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("expected panic")
			}
		}()
		fn()
	}
	dotest(func() { NewOrderedMap[int, int]("order", testsettings(2)) })
	dotest(func() { NewMap[int, int]("cmp", nil, testsettings(8)) })
	dotest(func() {
		setts := testsettings(8)
		setts["nodearena.allocator"] = "buddy"
		NewOrderedMap[int, int]("allocator", setts)
	})
	dotest(func() {
		m := NewOrderedMap[int, int]("incl", testsettings(8))
		m.Iterate(nil, nil, "lowhigh", false)
	})
}

// height growth for order 4 while loading 1..20, a leaf splits into
// two leaves of two keys each.
func TestMapHeight(t *testing.T) {
	m := NewOrderedMap[int, string]("height", testsettings(4))
	defer m.Destroy()

	heights := map[int]int64{1: 1, 3: 1, 4: 2, 9: 2, 10: 3, 20: 3}
	for key := 1; key <= 20; key++ {
		_, existed, err := m.Insert(key, "value")
		require.NoError(t, err)
		require.False(t, existed)
		if height, ok := heights[key]; ok {
			require.Equal(t, height, m.Height(), "after key %v", key)
		}
		m.Validate()
	}
	require.Equal(t, 20, m.Len())
	require.Equal(t, ascending(21)[1:], iterkeys(t, m.Iter()))

	stats, err := m.Fullstats()
	require.NoError(t, err)
	if x := stats["n_leaves"].(int64); x != 10 {
		t.Errorf("unexpected %v", x)
	} else if x := stats["n_internals"].(int64); x != 4 {
		t.Errorf("unexpected %v", x)
	} else if x := stats["node.allocated"].(int64); x != 14 {
		t.Errorf("unexpected %v", x)
	} else if x := stats["n_splits"].(int64); x != 11 {
		t.Errorf("unexpected %v", x)
	}

	_, h_fill := m.treeshape()
	require.Contains(t, h_fill.Logstring(), `"samples": 14`)

	key, _, _ := m.Min()
	require.Equal(t, 1, key)
	key, _, _ = m.Max()
	require.Equal(t, 20, key)
	m.Log("full", true)
}

func TestMapUpsert(t *testing.T) {
	m := NewOrderedMap[string, int]("upsert", testsettings(3))
	defer m.Destroy()

	keys := []string{"key3", "key1", "key5", "key2", "key4"}
	for i, key := range keys {
		m.Insert(key, i)
	}
	gen := m.tree.generation
	old, existed, err := m.Insert("key2", 100)
	require.NoError(t, err)
	require.True(t, existed)
	require.Equal(t, 3, old)
	require.Equal(t, gen, m.tree.generation)
	require.Equal(t, 5, m.Len())

	value, ok := m.Get("key2")
	require.True(t, ok)
	require.Equal(t, 100, value)

	ptr, ok := m.GetMut("key4")
	require.True(t, ok)
	*ptr += 10
	value, _ = m.Get("key4")
	require.Equal(t, 14, value)
	_, ok = m.GetMut("key9")
	require.False(t, ok)

	stats, _ := m.Stats()
	if x := stats["n_inserts"].(int64); x != 5 {
		t.Errorf("unexpected %v", x)
	} else if x := stats["n_updates"].(int64); x != 1 {
		t.Errorf("unexpected %v", x)
	}
	m.Validate()
}

func TestMapRemove(t *testing.T) {
	m := NewOrderedMap[int, string]("remove", testsettings(3))
	defer m.Destroy()

	for _, key := range []int{10, 20, 30, 40, 50} {
		m.Insert(key, "value")
	}
	value, ok := m.Remove(30)
	require.True(t, ok)
	require.Equal(t, "value", value)
	require.False(t, m.Has(30))
	require.True(t, m.Has(20))
	require.True(t, m.Has(40))
	m.Validate()

	gen, height := m.tree.generation, m.Height()
	_, ok = m.Remove(30)
	require.False(t, ok)
	require.Equal(t, gen, m.tree.generation)
	require.Equal(t, height, m.Height())
	require.Equal(t, []int{10, 20, 40, 50}, iterkeys(t, m.Iter()))
}

func TestMapRemoveRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(100))
	m := NewOrderedMap[int, int]("removerandom", testsettings(4))
	defer m.Destroy()

	keys := rnd.Perm(100000)[:100]
	for _, key := range keys {
		m.Insert(key, key)
	}
	rnd.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	for _, key := range keys {
		_, ok := m.Remove(key)
		require.True(t, ok)
	}

	fresh := NewOrderedMap[int, int]("fresh", testsettings(4))
	defer fresh.Destroy()
	require.Equal(t, fresh.Height(), m.Height())
	require.Equal(t, fresh.Len(), m.Len())
	require.Equal(t, fresh.tree.root, m.tree.root)
	require.Equal(t, int64(0), m.tree.arena.Allocated())
	m.Validate()
}

func TestMapDeleteAll(t *testing.T) {
	orders := []int64{3, 4, 5, 8}
	for _, order := range orders {
		keys := rand.New(rand.NewSource(order)).Perm(1000)
		testcases := map[string][]int{
			"ascending":  ascending(1000),
			"descending": descending(1000),
			"random":     keys,
		}
		for name, deletes := range testcases {
			m := NewOrderedMap[int, int]("deleteall", testsettings(order))
			for _, key := range keys {
				m.Insert(key, key*10)
			}
			m.Validate()
			for i, key := range deletes {
				value, ok := m.Remove(key)
				require.True(t, ok, "%v order:%v key:%v", name, order, key)
				require.Equal(t, key*10, value)
				if i%50 == 0 {
					m.Validate()
				}
			}
			require.Equal(t, int64(0), m.Height(), name)
			require.Equal(t, 0, m.Len(), name)
			require.Equal(t, int64(0), m.tree.arena.Allocated(), name)
			m.Validate()
			require.NoError(t, m.Destroy())
		}
	}
}

func TestMapDeleteMinMax(t *testing.T) {
	m := NewOrderedMap[int, int]("deleteminmax", testsettings(4))
	defer m.Destroy()

	for key := 0; key < 200; key++ {
		m.Insert(key, -key)
	}
	for i := 0; i < 100; i++ {
		key, value, ok := m.DeleteMin()
		require.True(t, ok)
		require.Equal(t, i, key)
		require.Equal(t, -i, value)
		key, _, ok = m.DeleteMax()
		require.True(t, ok)
		require.Equal(t, 199-i, key)
		m.Validate()
	}
	require.True(t, m.IsEmpty())
	require.Equal(t, int64(0), m.Height())
}

func TestMapRange(t *testing.T) {
	m := NewOrderedMap[int, int]("range", testsettings(3))
	defer m.Destroy()

	for _, key := range []int{1, 5, 7, 10, 15, 20} {
		m.Insert(key, key)
	}
	require.Equal(t, []int{5, 7, 10}, iterkeys(t, m.Range(5, 15)))
	require.Equal(t, []int{7, 10}, iterkeys(t, m.Range(6, 15)))
	require.Equal(t, []int{}, iterkeys(t, m.Range(15, 5)))
	require.Equal(t, []int{1, 5, 7, 10, 15, 20}, iterkeys(t, m.Iter()))

	lkey, hkey := 5, 15
	lmiss, hmiss := 6, 14
	testcases := []struct {
		lkey, hkey *int
		incl       string
		reverse    bool
		keys       []int
	}{
		{&lkey, &hkey, "both", false, []int{5, 7, 10, 15}},
		{&lkey, &hkey, "none", false, []int{7, 10}},
		{&lkey, &hkey, "low", false, []int{5, 7, 10}},
		{&lkey, &hkey, "high", false, []int{7, 10, 15}},
		{&lkey, &hkey, "both", true, []int{15, 10, 7, 5}},
		{&lkey, &hkey, "none", true, []int{10, 7}},
		{&lkey, &hkey, "low", true, []int{10, 7, 5}},
		{&lkey, &hkey, "high", true, []int{15, 10, 7}},
		{&lmiss, &hmiss, "none", false, []int{7, 10}},
		{&lmiss, &hmiss, "both", true, []int{10, 7}},
		{nil, &hkey, "low", false, []int{1, 5, 7, 10}},
		{&hkey, nil, "low", false, []int{15, 20}},
		{&lkey, nil, "none", true, []int{20, 15, 10, 7}},
		{nil, &lkey, "both", true, []int{5, 1}},
		{nil, nil, "", true, []int{20, 15, 10, 7, 5, 1}},
	}
	for _, tcase := range testcases {
		iter := m.Iterate(tcase.lkey, tcase.hkey, tcase.incl, tcase.reverse)
		require.Equal(t, tcase.keys, iterkeys(t, iter), "%+v", tcase)
	}

	values := []int{}
	m.Scan(&lkey, nil, "both", false, func(key, value int) bool {
		values = append(values, value)
		return len(values) < 3
	})
	require.Equal(t, []int{5, 7, 10}, values)
	require.Equal(t, int64(0), m.n_activeiter)
}

func TestMapIteratorState(t *testing.T) {
	m := NewOrderedMap[int, int]("iterstate", testsettings(3))
	for key := 0; key < 10; key++ {
		m.Insert(key, key)
	}

	iter := m.Iter()
	key, _, err := iter.Next()
	require.NoError(t, err)
	require.Equal(t, 0, key)
	require.Equal(t, api.ErrorActiveIterators, m.Destroy())

	m.Insert(3, 30) // value replacement keeps iterators valid
	key, _, err = iter.Next()
	require.NoError(t, err)
	require.Equal(t, 1, key)

	m.Insert(100, 100)
	_, _, err = iter.Next()
	require.Equal(t, api.ErrorStaleCursor, err)
	iter.Close()
	iter.Close()
	_, _, err = iter.Next()
	require.Equal(t, api.ErrorClosed, err)

	iter = m.Range(8, 9)
	require.Equal(t, []int{8}, iterkeys(t, iter))

	require.NoError(t, m.Destroy())
	require.False(t, m.Isactive())
	_, err = m.Stats()
	require.Equal(t, api.ErrorClosed, err)
	_, err = m.Fullstats()
	require.Equal(t, api.ErrorClosed, err)
	_, err = m.Clone("clone")
	require.Equal(t, api.ErrorClosed, err)
	require.Panics(t, func() { m.Iter() })
	require.Panics(t, func() { m.Scan(nil, nil, "both", false, nil) })
}

func TestMapOutofMemory(t *testing.T) {
	setts := testsettings(4)
	setts["nodearena.capacity"] = int64(3)
	m := NewOrderedMap[int, int]("oom", setts)
	defer m.Destroy()

	for key := 1; key <= 5; key++ {
		_, _, err := m.Insert(key, key)
		require.NoError(t, err)
	}
	gen := m.tree.generation
	_, _, err := m.Insert(6, 6)
	require.Equal(t, api.ErrorOutofMemory, err)
	require.Equal(t, 5, m.Len())
	require.False(t, m.Has(6))
	require.Equal(t, gen, m.tree.generation)
	m.Validate()

	// updates and inserts into a leaf with room still succeed.
	old, existed, err := m.Insert(3, 30)
	require.NoError(t, err)
	require.True(t, existed)
	require.Equal(t, 3, old)
	_, err = m.Entry(0).Set(0)
	require.NoError(t, err)
	_, err = m.Entry(7).Set(7)
	require.Equal(t, api.ErrorOutofMemory, err)

	m.Remove(5)
	m.Remove(4)
	_, _, err = m.Insert(6, 6)
	require.NoError(t, err)
	m.Validate()

	setts["nodearena.capacity"] = int64(1)
	m1 := NewOrderedMap[int, int]("oom1", setts)
	defer m1.Destroy()
	for key := 0; key < 3; key++ {
		_, _, err := m1.Insert(key, key)
		require.NoError(t, err)
	}
	_, _, err = m1.Insert(4, 4)
	require.Equal(t, api.ErrorOutofMemory, err)
	require.Equal(t, int64(1), m1.Height())
	m1.Validate()
}

// with a single node per pool, the arena can never hold more nodes than
// the number of pools.
func TestMapOutofPools(t *testing.T) {
	for _, allocator := range []string{"flist", "fbit"} {
		setts := testsettings(3)
		setts["nodearena.capacity"] = int64(1000)
		setts["nodearena.maxchunks"] = int64(1)
		setts["nodearena.allocator"] = allocator
		m := NewOrderedMap[int, int]("oompools", setts)
		require.Equal(t, malloc.Maxpools, m.Capacity())

		var err error
		key := 0
		for ; key < 10000 && err == nil; key++ {
			_, _, err = m.Insert(key, key)
		}
		require.Equal(t, api.ErrorOutofMemory, err)
		failed := key - 1
		require.Equal(t, failed, m.Len())
		require.False(t, m.Has(failed))
		require.True(t, m.tree.arena.Allocated() <= malloc.Maxpools)
		m.Validate()

		// removals free nodes for further inserts.
		for key := 0; key < 100; key++ {
			m.Remove(key)
		}
		_, _, err = m.Insert(failed, failed)
		require.NoError(t, err)
		m.Validate()
		require.NoError(t, m.Destroy())
	}
}

func TestMapCloneOutofMemory(t *testing.T) {
	m := NewOrderedMap[int, int]("cloneoom", testsettings(3))
	defer m.Destroy()
	for key := 0; key < 100; key++ {
		m.Insert(key, key)
	}

	m.setts["nodearena.capacity"] = int64(2)
	c, err := m.Clone("clone")
	require.Equal(t, api.ErrorOutofMemory, err)
	require.Nil(t, c)
	require.Equal(t, 100, m.Len())
	m.Validate()

	m.setts["nodearena.capacity"] = m.tree.arena.Allocated()
	c, err = m.Clone("clone")
	require.NoError(t, err)
	defer c.Destroy()
	c.Validate()
	require.Equal(t, int64(0), c.tree.arena.Available())
	require.Equal(t, iterkeys(t, m.Iter()), iterkeys(t, c.Iter()))
}

func TestMapClear(t *testing.T) {
	m := NewOrderedMap[int, int]("clear", testsettings(5))
	defer m.Destroy()

	for key := 0; key < 1000; key++ {
		m.Insert(key, key)
	}
	cur := m.First()
	m.Clear()
	require.True(t, cur.Isstale())
	require.Equal(t, 0, m.Len())
	require.Equal(t, int64(0), m.Height())
	m.Validate()

	for key := 0; key < 100; key++ {
		m.Insert(key, key)
	}
	require.Equal(t, 100, m.Len())
	m.Validate()
}

func TestMapClone(t *testing.T) {
	m := NewOrderedMap[int, string]("orig", testsettings(4))
	defer m.Destroy()
	for _, key := range rand.New(rand.NewSource(10)).Perm(1000) {
		m.Insert(key, "value")
	}

	c, err := m.Clone("clone")
	require.NoError(t, err)
	defer c.Destroy()
	c.Validate()
	require.Equal(t, "clone", c.ID())
	require.Equal(t, m.Len(), c.Len())
	require.Equal(t, m.Height(), c.Height())
	require.Equal(t, iterkeys(t, m.Iter()), iterkeys(t, c.Iter()))

	for key := 0; key < 500; key++ {
		c.Remove(key)
	}
	c.Insert(2000, "value")
	c.Validate()
	m.Validate()
	require.Equal(t, 1000, m.Len())
	require.Equal(t, 501, c.Len())
	require.False(t, m.Has(2000))

	stats, _ := m.Stats()
	if x := stats["n_clones"].(int64); x != 1 {
		t.Errorf("unexpected %v", x)
	}
}

func TestMapFbit(t *testing.T) {
	setts := testsettings(3)
	setts["nodearena.allocator"] = "fbit"
	setts["nodearena.maxchunks"] = int64(128)
	m := NewOrderedMap[int, int]("fbit", setts)
	defer m.Destroy()

	d := dict.NewOrderedDict[int, int]("reference")
	withdict(t, m, d, rand.New(rand.NewSource(3)), 5000, 300)
	stats, _ := m.Stats()
	if x := stats["node.allocator"].(string); x != "fbit" {
		t.Errorf("unexpected %v", x)
	}
}

func TestMapRandom(t *testing.T) {
	for _, order := range []int64{3, 4, 5, 8, 32} {
		m := NewOrderedMap[int, int]("random", testsettings(order))
		d := dict.NewOrderedDict[int, int]("reference")
		withdict(t, m, d, rand.New(rand.NewSource(order)), 20000, 1000)
		require.NoError(t, m.Destroy())
	}
}

func TestMapValidatePanic(t *testing.T) {
	dotest := func(corrupt func(m *Map[int, int])) {
		m := NewOrderedMap[int, int]("corrupt", testsettings(4))
		for key := 0; key < 100; key++ {
			m.Insert(key, key)
		}
		corrupt(m)
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("expected panic")
			}
		}()
		m.Validate()
	}
	dotest(func(m *Map[int, int]) { m.tree.count++ })
	dotest(func(m *Map[int, int]) { m.tree.height++ })
	dotest(func(m *Map[int, int]) { m.tree.n_inserts++ })
	dotest(func(m *Map[int, int]) {
		_, nd := m.tree.minleaf()
		nd.keys[0], nd.keys[1] = nd.keys[1], nd.keys[0]
	})
	dotest(func(m *Map[int, int]) {
		root := m.tree.getnode(m.tree.root)
		root.keys[0]++
	})
}

func TestMapDotdump(t *testing.T) {
	m := NewOrderedMap[int, int]("dotdump", testsettings(3))
	defer m.Destroy()
	for key := 0; key < 10; key++ {
		m.Insert(key, key)
	}
	buf := bytes.NewBuffer(nil)
	m.Dotdump(buf)
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "digraph btree {"))
	require.True(t, strings.HasSuffix(out, "}\n"))
	require.Contains(t, out, "<f1> 9")
	require.Contains(t, out, "->")
}

func BenchmarkMapInsert(b *testing.B) {
	m := NewOrderedMap[int, int]("bench", testsettings(32))
	defer m.Destroy()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Insert(i, i)
	}
}

func BenchmarkMapGet(b *testing.B) {
	m := NewOrderedMap[int, int]("bench", testsettings(32))
	defer m.Destroy()
	for i := 0; i < 100000; i++ {
		m.Insert(i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Get(i % 100000)
	}
}

// withdict apply n random operations on m and d, over keys in [0, keyspace),
// and compare them.
func withdict(
	t *testing.T, m *Map[int, int], d *dict.Dict[int, int],
	rnd *rand.Rand, n, keyspace int) {

	for i := 0; i < n; i++ {
		key, value := rnd.Intn(keyspace), rnd.Int()
		switch op := rnd.Intn(10); {
		case op < 5:
			mold, mok, err := m.Insert(key, value)
			require.NoError(t, err)
			dold, dok, _ := d.Insert(key, value)
			require.Equal(t, dok, mok)
			require.Equal(t, dold, mold)
		case op < 8:
			mval, mok := m.Remove(key)
			dval, dok := d.Remove(key)
			require.Equal(t, dok, mok)
			require.Equal(t, dval, mval)
		case op == 8:
			mkey, mval, mok := m.DeleteMin()
			dkey, dval, dok := d.DeleteMin()
			require.Equal(t, dok, mok)
			require.Equal(t, dkey, mkey)
			require.Equal(t, dval, mval)
		default:
			mkey, mval, mok := m.DeleteMax()
			dkey, dval, dok := d.DeleteMax()
			require.Equal(t, dok, mok)
			require.Equal(t, dkey, mkey)
			require.Equal(t, dval, mval)
		}
		if i%500 == 0 {
			m.Validate()
		}
	}
	m.Validate()
	require.Equal(t, d.Count(), m.Count())

	keys := append([]int{}, d.Keys()...)
	require.Equal(t, len(keys), len(iterkeys(t, m.Iter())))
	require.Equal(t, keys, iterkeys(t, m.Iter()))
	for _, key := range keys {
		mval, mok := m.Get(key)
		dval, _ := d.Get(key)
		require.True(t, mok)
		require.Equal(t, dval, mval)
	}
	for i := 0; i < 100; i++ {
		lkey, hkey := rnd.Intn(keyspace), rnd.Intn(keyspace)
		incl := []string{"none", "low", "high", "both"}[rnd.Intn(4)]
		reverse := rnd.Intn(2) == 1
		iter := m.Iterate(&lkey, &hkey, incl, reverse)
		require.Equal(t, d.Rangekeys(&lkey, &hkey, incl, reverse), iterkeys(t, iter))
	}
}

// iterkeys drain and close iter.
func iterkeys[V any](t *testing.T, iter *Iterator[int, V]) []int {
	defer iter.Close()
	keys := []int{}
	for {
		key, _, err := iter.Next()
		if err == io.EOF {
			return keys
		}
		require.NoError(t, err)
		keys = append(keys, key)
	}
}

func ascending(n int) []int {
	keys := make([]int, n)
	for i := range keys {
		keys[i] = i
	}
	return keys
}

func descending(n int) []int {
	keys := make([]int, n)
	for i := range keys {
		keys[i] = n - 1 - i
	}
	return keys
}

package btree

import "fmt"
import "unsafe"
import "strings"
import "encoding/json"

import "github.com/bnclabs/gobtree/lib"
import "github.com/bnclabs/gobtree/malloc"
import humanize "github.com/dustin/go-humanize"

func (m *Map[K, V]) stats() map[string]interface{} {
	t := m.tree
	stats := map[string]interface{}{
		"n_count":      t.count,
		"n_lookups":    t.n_lookups,
		"n_ranges":     t.n_ranges,
		"n_inserts":    t.n_inserts,
		"n_updates":    t.n_updates,
		"n_deletes":    t.n_deletes,
		"n_nodes":      t.n_nodes,
		"n_frees":      t.n_frees,
		"n_splits":     t.n_splits,
		"n_merges":     t.n_merges,
		"n_borrows":    t.n_borrows,
		"n_clones":     t.n_clones,
		"n_activeiter": m.n_activeiter,
		"height":       t.height,
		"order":        t.order,
		"generation":   t.generation,
	}
	for k, v := range t.arena.Stats() {
		stats["node."+k] = v
	}
	return stats
}

func (m *Map[K, V]) fullstats() map[string]interface{} {
	stats, _ := m.treeshape()
	return stats
}

// treeshape walk the tree to gather depth and node occupancy, return
// full statistics along with the node fill histogram.
func (m *Map[K, V]) treeshape() (map[string]interface{}, *lib.HistogramInt64) {
	t, stats := m.tree, m.stats()

	h_depth := lib.NewhistorgramInt64(1, 32, 1)
	h_fill := lib.NewhistorgramInt64(0, 100, 10)
	av_keys := &lib.AverageInt64{}
	nleaves, ninternals := int64(0), int64(0)
	t.walk(t.root, 1, func(nd *node[K, V], depth int64) {
		if nd.leaf {
			h_depth.Add(depth)
			nleaves++
		} else {
			ninternals++
		}
		av_keys.Add(int64(len(nd.keys)))
		h_fill.Add((int64(len(nd.keys)) * 100) / t.maxkeys)
	})
	if nleaves > 0 && (h_depth.Min() != t.height || h_depth.Max() != t.height) {
		fmsg := "fullstats(): leaf depth [%v,%v] differs from height %v"
		panicerr(fmsg, h_depth.Min(), h_depth.Max(), t.height)
	}
	stats["h_depth"] = h_depth.Fullstats()
	stats["h_fill"] = h_fill.Fullstats()
	stats["keys_per_node"] = av_keys.Stats()
	stats["n_leaves"] = nleaves
	stats["n_internals"] = ninternals
	return stats, h_fill
}

func (t *tree[K, V]) walk(
	ref malloc.Ref, depth int64, callb func(*node[K, V], int64)) {

	if ref == malloc.Nilref {
		return
	}
	nd := t.getnode(ref)
	callb(nd, depth)
	for _, child := range nd.children {
		t.walk(child, depth+1, callb)
	}
}

// validatestats panics if statistics are out of sync with the tree.
func (m *Map[K, V]) validatestats() {
	t := m.tree
	if t.count != (t.n_inserts - t.n_deletes) {
		fmsg := "validatestats(): n_count:%v != (n_inserts:%v - n_deletes:%v)"
		panicerr(fmsg, t.count, t.n_inserts, t.n_deletes)
	}
	if allocated := t.arena.Allocated(); allocated != (t.n_nodes - t.n_frees) {
		fmsg := "validatestats(): allocated:%v != (n_nodes:%v - n_frees:%v)"
		panicerr(fmsg, allocated, t.n_nodes, t.n_frees)
	}
	if m.n_activeiter < 0 {
		panicerr("validatestats(): n_activeiter:%v", m.n_activeiter)
	}
}

func (m *Map[K, V]) logarenasettings() {
	stats := m.tree.arena.Stats()
	var nd node[K, V]
	capacity := stats["capacity"].(int64)
	size := uint64(capacity) * uint64(unsafe.Sizeof(nd))
	fmsg := "%v node arena capacity: %v nodes (%v) allocator: %v\n"
	infof(fmsg, m.logprefix, capacity, humanize.Bytes(size), stats["allocator"])
}

func (m *Map[K, V]) log(what string, dohumanize bool) {
	var stats map[string]interface{}
	var h_fill *lib.HistogramInt64
	switch what {
	case "full", "fullstats":
		stats, h_fill = m.treeshape()
	default:
		stats = m.stats()
	}

	if dohumanize {
		overhead := uint64(stats["node.overhead"].(int64))
		useful := uint64(stats["node.useful"].(int64))
		fmsg := "%v node memory: %v useful, overhd %v allocated %v avail %v\n"
		infof(fmsg, m.logprefix, humanize.Bytes(useful),
			humanize.Bytes(overhead), stats["node.allocated"],
			stats["node.available"])

		outs := []string{}
		sizes, zs := m.tree.arena.Utilization()
		for i, size := range sizes {
			fmsg := "  pool %3d: %6v nodes, utilz: %2.2f%%"
			outs = append(outs, fmt.Sprintf(fmsg, i, size, zs[i]))
		}
		infof("%v pool utilization:\n%v\n", m.logprefix, strings.Join(outs, "\n"))
		if h_fill != nil {
			infof("%v node fill %%: %v\n", m.logprefix, h_fill.Logstring())
		}
	}

	text, err := json.Marshal(stats)
	if err != nil {
		panicerr("log(): %v", err)
	}
	infof("%v stats %v\n", m.logprefix, string(text))
}

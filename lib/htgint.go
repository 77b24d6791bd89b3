package lib

import "math"
import "sort"
import "fmt"
import "strings"
import "strconv"

// HistogramInt64 bucketed histogram of int64 samples, along with running
// min, max, mean and variance. Samples less than `from` are counted in
// the first bucket, samples greater than or equal to `till` are counted
// in the last bucket.
type HistogramInt64 struct {
	AverageInt64
	histogram []int64
	from      int64
	till      int64
	width     int64
}

// NewhistorgramInt64 return a new histogram object, bucket boundaries
// are aligned to `width`.
func NewhistorgramInt64(from, till, width int64) *HistogramInt64 {
	if width <= 0 {
		panic(fmt.Errorf("histogram width %v must be positive", width))
	}
	from = (from / width) * width
	till = (till / width) * width
	h := &HistogramInt64{from: from, till: till, width: width}
	h.histogram = make([]int64, 1+((till-from)/width)+1)
	return h
}

// Add a sample to this histogram.
func (h *HistogramInt64) Add(sample int64) {
	h.AverageInt64.Add(sample)
	switch {
	case sample < h.from:
		h.histogram[0]++
	case sample >= h.till:
		h.histogram[len(h.histogram)-1]++
	default:
		h.histogram[((sample-h.from)/h.width)+1]++
	}
}

// Stats return cumulative counts keyed by bucket's lower boundary, the
// last non-empty bucket is keyed as "+".
func (h *HistogramInt64) Stats() map[string]int64 {
	m := make(map[string]int64)
	cumm := int64(0)
	for i := len(h.histogram) - 1; i >= 0; i-- {
		if h.histogram[i] == 0 {
			continue
		}
		for j := 0; j <= i; j++ {
			v := h.histogram[j]
			key := strconv.Itoa(int(h.from + (int64(j) * h.width)))
			cumm += v
			if j == i {
				m["+"] = cumm
			} else {
				m[key] = cumm
			}
		}
		break
	}
	return m
}

// Fullstats includes mean,variance,stddeviance in the Stats().
func (h *HistogramInt64) Fullstats() map[string]interface{} {
	hmap := make(map[string]interface{})
	for k, v := range h.Stats() {
		hmap[k] = v
	}
	stats := h.AverageInt64.Stats()
	stats["histogram"] = hmap
	return stats
}

// Logstring return Fullstats as loggable string, with keys sorted.
func (h *HistogramInt64) Logstring() string {
	stats, keys := h.Fullstats(), []string{}
	for k := range stats {
		if k == "histogram" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ss := []string{}
	for _, key := range keys {
		ss = append(ss, fmt.Sprintf(`"%v": %v`, key, stats[key]))
	}

	hkeys, histogram := []int{}, h.Stats()
	for k := range histogram {
		if k == "+" {
			continue
		}
		n, _ := strconv.Atoi(k)
		hkeys = append(hkeys, n)
	}
	sort.Ints(hkeys)
	hs := []string{}
	for _, k := range hkeys {
		ks := strconv.Itoa(k)
		hs = append(hs, fmt.Sprintf(`"%v": %v`, ks, histogram[ks]))
	}
	if v, ok := histogram["+"]; ok {
		hs = append(hs, fmt.Sprintf(`"+": %v`, v))
	}
	ss = append(ss, fmt.Sprintf(`"histogram": {%v}`, strings.Join(hs, ",")))
	return "{" + strings.Join(ss, ",") + "}"
}

// AverageInt64 compute running mean and variance over int64 samples.
type AverageInt64 struct {
	n      int64
	minval int64
	maxval int64
	sum    int64
	sumsq  float64
	init   bool
}

// Add a sample.
func (av *AverageInt64) Add(sample int64) {
	av.n++
	av.sum += sample
	f := float64(sample)
	av.sumsq += f * f
	if av.init == false || sample < av.minval {
		av.minval = sample
	}
	if av.init == false || av.maxval < sample {
		av.maxval = sample
	}
	av.init = true
}

// Min return minimum value from sample.
func (av *AverageInt64) Min() int64 {
	return av.minval
}

// Max return maximum value from sample.
func (av *AverageInt64) Max() int64 {
	return av.maxval
}

// Samples return total number of samples in the set.
func (av *AverageInt64) Samples() int64 {
	return av.n
}

// Sum return the sum of all sample values.
func (av *AverageInt64) Sum() int64 {
	return av.sum
}

// Mean return the average value of all samples, truncated.
func (av *AverageInt64) Mean() int64 {
	if av.n == 0 {
		return 0
	}
	return int64(float64(av.sum) / float64(av.n))
}

// Variance return the squared deviation of samples from the
// truncated mean.
func (av *AverageInt64) Variance() float64 {
	if av.n == 0 {
		return 0
	}
	nF, meanF := float64(av.n), float64(av.Mean())
	return (av.sumsq / nF) - (meanF * meanF)
}

// SD return the standard deviation.
func (av *AverageInt64) SD() float64 {
	if v := av.Variance(); v > 0 {
		return math.Sqrt(v)
	}
	return 0
}

// Stats return statistics as map.
func (av *AverageInt64) Stats() map[string]interface{} {
	return map[string]interface{}{
		"samples":     av.Samples(),
		"sum":         av.Sum(),
		"min":         av.Min(),
		"max":         av.Max(),
		"mean":        av.Mean(),
		"variance":    av.Variance(),
		"stddeviance": av.SD(),
	}
}

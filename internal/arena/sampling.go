package arena

import "sort"

// Bias selects which elements of an oversized array an ingest adapter keeps
// when an array has more than array_max_items elements (spec.md §4.A).
type Bias uint8

const (
	// BiasHead keeps the first N elements.
	BiasHead Bias = iota
	// BiasHeadMidTail interleaves first, middle, and last positions,
	// preserving their relative (ascending) order.
	BiasHeadMidTail
	// BiasTail keeps the last N elements (CLI --tail / ArraySamplerStrategy
	// Tail override; not part of the base ArrayBias enum in spec.md §4.A,
	// but required to implement the CLI's --tail flag symmetrically with
	// --head).
	BiasTail
)

// SampleIndices returns the original indices to keep for an array of the
// given total length, capped at max elements, under bias. The returned
// slice is always sorted ascending (original relative order preserved) and
// has length min(total, max). When total <= max, it returns nil to signal
// "contiguous prefix, no sampling needed" (callers should treat a nil result
// as "keep everything" rather than indices [0..total)).
func SampleIndices(total, max int, bias Bias) []int {
	if max < 0 {
		max = 0
	}
	if total <= max {
		return nil
	}
	if max == 0 {
		return []int{}
	}
	switch bias {
	case BiasHeadMidTail:
		return sampleHeadMidTail(total, max)
	case BiasTail:
		return sampleTail(total, max)
	default:
		return sampleHead(total, max)
	}
}

func sampleHead(total, max int) []int {
	out := make([]int, max)
	for i := range out {
		out[i] = i
	}
	return out
}

func sampleTail(total, max int) []int {
	out := make([]int, max)
	start := total - max
	for i := range out {
		out[i] = start + i
	}
	return out
}

// sampleHeadMidTail splits the keep-budget roughly into thirds: a head run,
// a tail run, and a middle run centered on the array's midpoint. Any
// duplicate indices produced when total is only slightly larger than max
// are deduplicated, and the result is re-sorted ascending.
func sampleHeadMidTail(total, max int) []int {
	head := max / 3
	tail := max / 3
	mid := max - head - tail

	seen := make(map[int]bool, max)
	add := func(idx int) {
		if idx >= 0 && idx < total {
			seen[idx] = true
		}
	}

	for i := 0; i < head; i++ {
		add(i)
	}
	for i := 0; i < tail; i++ {
		add(total - 1 - i)
	}
	midStart := (total - mid) / 2
	for i := 0; i < mid; i++ {
		add(midStart + i)
	}

	// Backfill from the head forward if dedup left us short (small totals).
	next := head
	for len(seen) < max && next < total {
		add(next)
		next++
	}

	out := make([]int, 0, len(seen))
	for idx := range seen {
		out = append(out, idx)
	}
	sort.Ints(out)
	if len(out) > max {
		out = out[:max]
	}
	return out
}

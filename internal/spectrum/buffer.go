// Package spectrum holds the per-frame magnitude buffer shared between the
// capture side and the visualizers, and the analyser that fills it.
package spectrum

import "math"

// Buffer is one frame of frequency-domain magnitudes. Index i is frequency
// bin i in ascending order; every value is in [0, 255].
//
// A Buffer is owned by the render loop and refreshed in place each tick.
// Visualizers borrow it for the duration of a single Draw call.
type Buffer []uint8

// New returns a zeroed buffer with the given number of bins.
func New(bins int) Buffer {
	if bins < 0 {
		bins = 0
	}
	return make(Buffer, bins)
}

// BinIndex maps entity i of count onto a bin of a buffer of length n using
// floor(i/count*n), clamped into [0, n-1].
func BinIndex(i, count, n int) int {
	if n <= 0 || count <= 0 {
		return 0
	}
	idx := int(math.Floor(float64(i) / float64(count) * float64(n)))
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

// Index is BinIndex over the buffer's own length.
func (b Buffer) Index(i, count int) int {
	return BinIndex(i, count, len(b))
}

// At returns the sample at i, or 0 when i is out of range.
func (b Buffer) At(i int) uint8 {
	if i < 0 || i >= len(b) {
		return 0
	}
	return b[i]
}

// Level returns the sample at i normalized to [0, 1].
func (b Buffer) Level(i int) float64 {
	return float64(b.At(i)) / 255
}

// Mean averages the samples in [lo, hi). An empty range yields 0.
func (b Buffer) Mean(lo, hi int) float64 {
	if lo < 0 {
		lo = 0
	}
	if hi > len(b) {
		hi = len(b)
	}
	if hi <= lo {
		return 0
	}
	var sum int
	for _, v := range b[lo:hi] {
		sum += int(v)
	}
	return float64(sum) / float64(hi-lo)
}

// Average is the mean over the whole buffer.
func (b Buffer) Average() float64 {
	return b.Mean(0, len(b))
}

// Bands averages the buffer into n equal-width groups of bins. n is capped at
// the buffer length.
func (b Buffer) Bands(n int) []float64 {
	if n > len(b) {
		n = len(b)
	}
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for k := range out {
		out[k] = b.Mean(k*len(b)/n, (k+1)*len(b)/n)
	}
	return out
}

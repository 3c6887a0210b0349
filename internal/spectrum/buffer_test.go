package spectrum

import "testing"

func TestBinIndexClamped(t *testing.T) {
	tests := []struct {
		name     string
		i, count int
		n        int
		expected int
	}{
		{"first", 0, 100, 512, 0},
		{"middle", 50, 100, 512, 256},
		{"last", 99, 100, 512, 506},
		{"past end", 100, 100, 512, 511},
		{"negative", -3, 100, 512, 0},
		{"empty buffer", 5, 100, 0, 0},
		{"zero count", 5, 0, 512, 0},
		{"more entities than bins", 31, 32, 8, 7},
	}

	for _, tt := range tests {
		got := BinIndex(tt.i, tt.count, tt.n)
		if got != tt.expected {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.expected, got)
		}
	}
}

func TestBufferAtOutOfRange(t *testing.T) {
	b := Buffer{1, 2, 3}
	if b.At(-1) != 0 || b.At(3) != 0 {
		t.Error("out of range reads should yield 0")
	}
	if b.At(2) != 3 {
		t.Errorf("expected 3, got %d", b.At(2))
	}
	if b.Level(1) != 2.0/255 {
		t.Errorf("unexpected level %f", b.Level(1))
	}
}

func TestBufferMean(t *testing.T) {
	b := Buffer{0, 10, 20, 30}
	if got := b.Mean(0, 2); got != 5 {
		t.Errorf("expected 5, got %f", got)
	}
	if got := b.Average(); got != 15 {
		t.Errorf("expected 15, got %f", got)
	}
	if got := b.Mean(2, 2); got != 0 {
		t.Errorf("empty range should be 0, got %f", got)
	}
	if got := Buffer(nil).Average(); got != 0 {
		t.Errorf("nil buffer should average 0, got %f", got)
	}
}

func TestBufferBands(t *testing.T) {
	b := Buffer{0, 10, 20, 30, 40, 50}
	got := b.Bands(3)
	want := []float64{5, 25, 45}
	if len(got) != len(want) {
		t.Fatalf("expected %d bands, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("band %d: expected %f, got %f", i, want[i], got[i])
		}
	}
	if got := b.Bands(10); len(got) != len(b) {
		t.Errorf("bands should be capped at %d, got %d", len(b), len(got))
	}
	if Buffer(nil).Bands(4) != nil || b.Bands(0) != nil {
		t.Error("empty input should yield nil")
	}
}

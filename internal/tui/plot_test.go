package tui

import (
	"math"
	"testing"
)

func TestFillGaps(t *testing.T) {
	nan := math.NaN()

	out, gaps := fillGaps([]float64{1, nan, nan, 4})
	if gaps != 2 {
		t.Fatalf("gaps = %d, want 2", gaps)
	}
	want := []float64{1, 1, 1, 4}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}

	// A leading gap run backfills from the first finite value.
	out, gaps = fillGaps([]float64{nan, math.Inf(1), 3, 5})
	if gaps != 2 {
		t.Fatalf("gaps = %d, want 2", gaps)
	}
	want = []float64{3, 3, 3, 5}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestFillGaps_AllMissing(t *testing.T) {
	out, gaps := fillGaps([]float64{math.NaN(), math.NaN()})
	if gaps != 2 {
		t.Fatalf("gaps = %d, want 2", gaps)
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %v, want 0 placeholder", i, v)
		}
	}
}

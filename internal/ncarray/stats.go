package ncarray

import "math"

// RunningStats is a streaming min/max/mean/variance accumulator
// (Welford's method). Non-finite samples are skipped; all results come
// from the one pass.
type RunningStats struct {
	count int
	mean  float64
	m2    float64
	min   float64
	max   float64
}

// NewRunningStats returns an empty accumulator.
func NewRunningStats() *RunningStats {
	return &RunningStats{min: math.Inf(1), max: math.Inf(-1)}
}

// Add folds one sample into the accumulator. NaN and infinities are
// ignored and do not count as valid.
func (s *RunningStats) Add(v float64) {
	if !isFinite(v) {
		return
	}
	s.count++
	if v < s.min {
		s.min = v
	}
	if v > s.max {
		s.max = v
	}
	delta := v - s.mean
	s.mean += delta / float64(s.count)
	s.m2 += delta * (v - s.mean)
}

// Count returns the number of valid samples seen.
func (s *RunningStats) Count() int { return s.count }

// MinMax returns the range of valid samples; ok is false when no valid
// sample has been seen.
func (s *RunningStats) MinMax() (min, max float64, ok bool) {
	if s.count == 0 {
		return 0, 0, false
	}
	return s.min, s.max, true
}

// Mean returns the running mean; ok is false with no valid samples.
func (s *RunningStats) Mean() (float64, bool) {
	if s.count == 0 {
		return 0, false
	}
	return s.mean, true
}

// Std returns the sample standard deviation; it needs at least two
// valid samples.
func (s *RunningStats) Std() (float64, bool) {
	if s.count < 2 {
		return 0, false
	}
	return math.Sqrt(s.m2 / float64(s.count-1)), true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

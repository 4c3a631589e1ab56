// Package stats reduces Monte Carlo trial times to summary figures.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNoSamples is returned when a summary is requested for an empty slice.
var ErrNoSamples = errors.New("stats: no samples")

// Summary is the reduction of one run's trial times.
type Summary struct {
	Trials int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	P50    float64
	P90    float64
	P95    float64
	P99    float64
}

// Summarize computes the summary of times. The standard deviation is the
// population form, matching how the reference experiments reported spread.
func Summarize(times []float64) (Summary, error) {
	if len(times) == 0 {
		return Summary{}, ErrNoSamples
	}

	sorted := make([]float64, len(times))
	copy(sorted, times)
	sort.Float64s(sorted)

	sum := 0.0
	for _, t := range sorted {
		sum += t
	}
	mean := sum / float64(len(sorted))

	varSum := 0.0
	for _, t := range sorted {
		d := t - mean
		varSum += d * d
	}

	return Summary{
		Trials: len(sorted),
		Mean:   mean,
		StdDev: math.Sqrt(varSum / float64(len(sorted))),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P50:    percentileSorted(sorted, 50),
		P90:    percentileSorted(sorted, 90),
		P95:    percentileSorted(sorted, 95),
		P99:    percentileSorted(sorted, 99),
	}, nil
}

// Percentile returns the p-th percentile of times using linear
// interpolation between closest ranks.
func Percentile(times []float64, p float64) (float64, error) {
	if len(times) == 0 {
		return 0, ErrNoSamples
	}
	if p < 0 || p > 100 {
		return 0, fmt.Errorf("stats: percentile must be in [0,100], got %g", p)
	}
	sorted := make([]float64, len(times))
	copy(sorted, times)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p), nil
}

func percentileSorted(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Bucket is one histogram bin over [Lo, Hi).
type Bucket struct {
	Lo    float64
	Hi    float64
	Count int
}

// Histogram bins times into the given number of equal-width buckets. The
// last bucket is closed on the right so the maximum lands in it. Buckets
// are data for the caller to format; no plotting happens here.
func Histogram(times []float64, bins int) ([]Bucket, error) {
	if len(times) == 0 {
		return nil, ErrNoSamples
	}
	if bins <= 0 {
		return nil, fmt.Errorf("stats: bins must be positive, got %d", bins)
	}

	min, max := times[0], times[0]
	for _, t := range times[1:] {
		if t < min {
			min = t
		}
		if t > max {
			max = t
		}
	}
	if min == max {
		return []Bucket{{Lo: min, Hi: max, Count: len(times)}}, nil
	}

	width := (max - min) / float64(bins)
	buckets := make([]Bucket, bins)
	for i := range buckets {
		buckets[i].Lo = min + float64(i)*width
		buckets[i].Hi = min + float64(i+1)*width
	}
	buckets[bins-1].Hi = max

	for _, t := range times {
		idx := int((t - min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		buckets[idx].Count++
	}
	return buckets, nil
}

package scoring

import (
	"math"
	"sort"
)

// Tunable defaults. The window and thresholds are design choices, not
// statistically derived; see Config.
const (
	DefaultWindow           = 5
	DefaultNotableThreshold = 2.0
	DefaultMinAbsoluteViews = 5000
)

// Config holds the outlier scorer tunables.
type Config struct {
	// Window is how many neighbors to gather on each side of a video.
	Window int
	// NotableThreshold is the minimum outlier score for a candidate video
	// to be surfaced as a discovery.
	NotableThreshold float64
	// MinAbsoluteViews filters out low-traffic videos that are merely
	// noisy ratios.
	MinAbsoluteViews int64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Window:           DefaultWindow,
		NotableThreshold: DefaultNotableThreshold,
		MinAbsoluteViews: DefaultMinAbsoluteViews,
	}
}

// ScoreSeries computes a per-video outlier score for an ordered view-count
// series (most recent first). Each score is the ratio of that video's views
// to the median views of up to Window non-zero neighbors on each side,
// rounded to one decimal place.
//
// Sentinels: a zero-view video scores 0.0 (it cannot be an outlier); a video
// with no valid neighbors scores 1.0 (no baseline available). The returned
// slice always has the same length and order as the input.
//
// A local window is used instead of a global channel average so that a video
// is compared to its temporal neighbors rather than to uploads from years
// apart under different channel conditions.
func ScoreSeries(views []int64) []float64 {
	return ScoreSeriesWindow(views, DefaultWindow)
}

// ScoreSeriesWindow is ScoreSeries with an explicit neighborhood half-width.
func ScoreSeriesWindow(views []int64, window int) []float64 {
	scores := make([]float64, len(views))

	for i, vc := range views {
		if vc == 0 {
			scores[i] = 0.0
			continue
		}

		neighbors := gatherNeighbors(views, i, window)
		if len(neighbors) == 0 {
			scores[i] = 1.0
			continue
		}

		med := median(neighbors)
		if med <= 0 {
			// Cannot happen given the zero-neighbor exclusion, but guard anyway.
			scores[i] = 1.0
			continue
		}
		scores[i] = roundTo1(float64(vc) / med)
	}

	return scores
}

// Notable reports whether a candidate video qualifies as a discovery:
// its score must clear the threshold AND its absolute view count must be
// high enough to rule out noisy ratios on low-traffic videos.
func (c Config) Notable(score float64, views int64) bool {
	return score >= c.NotableThreshold && views >= c.MinAbsoluteViews
}

// gatherNeighbors collects up to window non-zero view counts on each side
// of index i, clipped at the slice bounds.
func gatherNeighbors(views []int64, i, window int) []int64 {
	neighbors := make([]int64, 0, 2*window)
	for offset := 1; offset <= window; offset++ {
		if j := i - offset; j >= 0 && views[j] > 0 {
			neighbors = append(neighbors, views[j])
		}
		if j := i + offset; j < len(views) && views[j] > 0 {
			neighbors = append(neighbors, views[j])
		}
	}
	return neighbors
}

// median returns the median of a non-empty slice. The input is not modified.
func median(vals []int64) float64 {
	sorted := make([]int64, len(vals))
	copy(sorted, vals)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a] < sorted[b] })

	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}

// MedianViews exposes the neighborhood-free baseline median used when scoring
// a single candidate against another channel's recent uploads. Zero-view
// entries are excluded; an empty result yields 0.
func MedianViews(views []int64) float64 {
	nonZero := make([]int64, 0, len(views))
	for _, v := range views {
		if v > 0 {
			nonZero = append(nonZero, v)
		}
	}
	if len(nonZero) == 0 {
		return 0
	}
	return median(nonZero)
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

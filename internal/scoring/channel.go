package scoring

// Channel ranking weights and exclusion limits. Weights are design choices;
// they bias the composite toward sustained engagement over raw reach.
const (
	weightViewsPerVideo = 2.0
	weightViewsPerSub   = 3.0
	weightRecentAvg     = 1.0

	// Channels above this upload count are likely mass/corporate accounts
	// that would skew rankings.
	MaxVideoCount = 1000

	// Channels whose recent average views fall below this fraction of their
	// subscriber count are considered inactive.
	MinActivityRatio = 0.05

	normalizeEpsilon = 1e-9
)

// ChannelScore computes the composite ranking score for a channel from its
// aggregate stats and recent upload view counts:
//
//	views_per_video = totalViews / (totalVideos + 1)
//	views_per_sub   = mean(recentViews) / subs   (0 when subs == 0)
//	raw             = views_per_video*2.0 + views_per_sub*3.0 + mean(recentViews)*1.0
//
// Raw scores are only meaningful relative to a candidate set; use Normalize
// to map them onto a 0-100 display scale.
func ChannelScore(subs, totalViews, totalVideos int64, recentViews []int64) float64 {
	viewsPerVideo := float64(totalViews) / float64(totalVideos+1)

	recentAvg := meanViews(recentViews)

	var viewsPerSub float64
	if subs > 0 {
		viewsPerSub = recentAvg / float64(subs)
	}

	return viewsPerVideo*weightViewsPerVideo + viewsPerSub*weightViewsPerSub + recentAvg*weightRecentAvg
}

// Normalize min-max scales raw scores onto 0-100. When all raw scores are
// equal the spread is degenerate and every score maps to 0.
func Normalize(raw []float64) []float64 {
	out := make([]float64, len(raw))
	if len(raw) == 0 {
		return out
	}

	min, max := raw[0], raw[0]
	for _, r := range raw[1:] {
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}

	spread := max - min
	if spread < normalizeEpsilon {
		return out
	}
	for i, r := range raw {
		out[i] = (r - min) / spread * 100
	}
	return out
}

// Excluded reports whether a channel should be dropped from ranking entirely
// rather than merely scored low: zero subscribers, a dead/inactive upload
// pattern, or an upload count that marks a mass account.
func Excluded(subs, totalVideos int64, recentViews []int64) bool {
	if subs <= 0 {
		return true
	}
	if totalVideos > MaxVideoCount {
		return true
	}
	if meanViews(recentViews) < float64(subs)*MinActivityRatio {
		return true
	}
	return false
}

func meanViews(views []int64) float64 {
	if len(views) == 0 {
		return 0
	}
	var sum int64
	for _, v := range views {
		sum += v
	}
	return float64(sum) / float64(len(views))
}

// MaxViews returns the largest element, or 0 for an empty slice. Used by the
// niche search engagement gate.
func MaxViews(views []int64) int64 {
	var max int64
	for _, v := range views {
		if v > max {
			max = v
		}
	}
	return max
}

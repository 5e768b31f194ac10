package scoring

import (
	"math"
	"testing"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestScoreSeries_Length(t *testing.T) {
	tests := []struct {
		name  string
		views []int64
	}{
		{"empty", []int64{}},
		{"single", []int64{100}},
		{"several", []int64{10, 20, 30, 40, 50}},
		{"with zeros", []int64{0, 100, 0, 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreSeries(tt.views)
			if len(got) != len(tt.views) {
				t.Errorf("len = %d, want %d", len(got), len(tt.views))
			}
			for i, s := range got {
				if s < 0 {
					t.Errorf("score[%d] = %.1f, want >= 0", i, s)
				}
			}
		})
	}
}

func TestScoreSeries_AllZeros(t *testing.T) {
	got := ScoreSeries([]int64{0, 0, 0})
	for i, s := range got {
		if s != 0.0 {
			t.Errorf("score[%d] = %.1f, want 0.0 (zero-view sentinel)", i, s)
		}
	}
}

func TestScoreSeries_SingleElement(t *testing.T) {
	// No neighbors at all, so the neutral sentinel.
	got := ScoreSeries([]int64{100})
	if got[0] != 1.0 {
		t.Errorf("score = %.1f, want 1.0 (no baseline)", got[0])
	}
}

func TestScoreSeries_IsolatedNonZero(t *testing.T) {
	// Non-zero video surrounded entirely by zeros: neighbors are excluded,
	// so the neighborhood is empty.
	got := ScoreSeries([]int64{0, 0, 500, 0, 0})
	if got[2] != 1.0 {
		t.Errorf("score = %.1f, want 1.0 (all neighbors zero)", got[2])
	}
}

func TestScoreSeries_MedianRatio(t *testing.T) {
	// Index 3 (value 100) has neighbors [10,20,30,25,22,18], median 21:
	// 100/21 = 4.7619, which rounds to 4.8 at one decimal.
	views := []int64{10, 20, 30, 100, 25, 22, 18}
	got := ScoreSeries(views)
	if got[3] != 4.8 {
		t.Errorf("score[3] = %.1f, want 4.8", got[3])
	}
}

func TestScoreSeries_WindowClipping(t *testing.T) {
	// First element only has forward neighbors; last only backward.
	views := []int64{100, 10, 10, 10, 10, 10, 10}
	got := ScoreSeries(views)

	// Neighbors of index 0 are the five 10s, median 10, so 100/10 = 10.0
	if got[0] != 10.0 {
		t.Errorf("score[0] = %.1f, want 10.0", got[0])
	}
	// Index 6 sees five 10s behind it, so 10/10 = 1.0
	if got[6] != 1.0 {
		t.Errorf("score[6] = %.1f, want 1.0", got[6])
	}
}

func TestScoreSeries_ZeroNeighborsExcluded(t *testing.T) {
	// Zeros inside the window must not drag the median down.
	views := []int64{0, 0, 50, 100, 50, 0, 0}
	got := ScoreSeries(views)

	// Index 3 neighbors: [50, 50] (zeros excluded), median 50, so 2.0
	if got[3] != 2.0 {
		t.Errorf("score[3] = %.1f, want 2.0", got[3])
	}
}

func TestScoreSeries_Idempotent(t *testing.T) {
	views := []int64{10, 20, 30, 100, 25, 22, 18, 0, 5000}
	first := ScoreSeries(views)
	second := ScoreSeries(views)
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("score[%d] differs between calls: %.1f vs %.1f", i, first[i], second[i])
		}
	}
}

func TestNotable(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name  string
		score float64
		views int64
		want  bool
	}{
		{"clears both gates", 2.0, 5000, true},
		{"high score, low traffic", 8.5, 4999, false},
		{"high traffic, below threshold", 1.9, 1_000_000, false},
		{"well above both", 4.8, 120_000, true},
		{"zero score", 0.0, 50_000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.Notable(tt.score, tt.views); got != tt.want {
				t.Errorf("Notable(%.1f, %d) = %v, want %v", tt.score, tt.views, got, tt.want)
			}
		})
	}
}

func TestMedianViews(t *testing.T) {
	tests := []struct {
		name  string
		views []int64
		want  float64
	}{
		{"empty", nil, 0},
		{"all zeros", []int64{0, 0, 0}, 0},
		{"odd count", []int64{10, 30, 20}, 20},
		{"even count", []int64{10, 20, 30, 40}, 25},
		{"zeros excluded", []int64{0, 10, 0, 30}, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MedianViews(tt.views); got != tt.want {
				t.Errorf("MedianViews(%v) = %.1f, want %.1f", tt.views, got, tt.want)
			}
		})
	}
}

func TestMedian_InputNotMutated(t *testing.T) {
	views := []int64{30, 10, 20}
	_ = MedianViews(views)
	if views[0] != 30 || views[1] != 10 || views[2] != 20 {
		t.Errorf("input mutated: %v", views)
	}
}

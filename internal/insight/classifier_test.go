package insight

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shrike012/Streamline/internal/model"
)

// fakeEmbedder returns a fixed vector per input text, so tests can pin the
// cosine similarity between any two texts exactly.
type fakeEmbedder struct {
	vectors map[string][]float64
	calls   int
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	vecs, err := f.EmbedBatch(context.Background(), []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v, ok := f.vectors[t]
		if !ok {
			v = []float64{1, 0}
		}
		out[i] = v
	}
	return out, nil
}

// vecWithSim returns a unit vector whose cosine similarity with the base
// vector {1, 0} is exactly sim.
func vecWithSim(sim float64) []float64 {
	return []float64{sim, math.Sqrt(1 - sim*sim)}
}

type memCache struct {
	entries map[string]*Classification
}

func (m *memCache) GetClassification(_ context.Context, key string) (*Classification, bool, error) {
	c, ok := m.entries[key]
	return c, ok, nil
}

func (m *memCache) SetClassification(_ context.Context, key string, c *Classification, _ time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string]*Classification)
	}
	m.entries[key] = c
	return nil
}

func profile(channelID, niche, style, market string) *model.ChannelProfile {
	return &model.ChannelProfile{
		ChannelID:               channelID,
		ChannelTitle:            channelID,
		AnalyzedNiche:           niche,
		AnalyzedStyle:           style,
		AnalyzedAttentionMarket: market,
	}
}

// classifyWith runs the classifier with pinned attention and niche
// similarities between two otherwise-fixed profiles.
func classifyWith(t *testing.T, attentionSim, nicheSim float64, mine, candidate *model.ChannelProfile) *Classification {
	t.Helper()

	emb := &fakeEmbedder{vectors: map[string][]float64{
		mine.AnalyzedAttentionMarket:      vecWithSim(1.0),
		candidate.AnalyzedAttentionMarket: vecWithSim(attentionSim),
		mine.AnalyzedNiche:                vecWithSim(1.0),
		candidate.AnalyzedNiche:           vecWithSim(nicheSim),
	}}
	// Identical profile strings would collide in the vector map; the test
	// fixtures always use distinct texts.
	got, err := NewClassifier(emb, nil).Classify(context.Background(), mine, candidate)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	return got
}

func TestClassify_NonCompetitorGate(t *testing.T) {
	mine := profile("UCmine", "Valorant gaming", "Gameplay", "Young Adults, M, [Entertainment]")

	// attention similarity just below 0.55 is Non-Competitor even with
	// an otherwise identical audience.
	cand := profile("UCother", "Valorant montages", "Gameplay", "Young Adults, M, [Entertainment, Education]")
	got := classifyWith(t, 0.549, 0.999, mine, cand)
	if got.CompetitorType != NonCompetitor {
		t.Errorf("type = %s, want %s at similarity 0.549", got.CompetitorType, NonCompetitor)
	}

	// Exactly 0.55 with one categorical mismatch proceeds past the gate.
	cand = profile("UCother", "Valorant montages", "Gameplay", "Teens, M, [Entertainment]")
	got = classifyWith(t, 0.55, 0.999, mine, cand)
	if got.CompetitorType == NonCompetitor {
		t.Errorf("type = %s, want past the Non-Competitor gate at 0.55 with diff_count 1", got.CompetitorType)
	}
	if got.CompetitorType != Distant {
		t.Errorf("type = %s, want %s (0.55 < 0.70)", got.CompetitorType, Distant)
	}
}

func TestClassify_DiffCountGate(t *testing.T) {
	mine := profile("UCmine", "Valorant gaming", "Gameplay", "Young Adults, M, [Entertainment]")
	// Two categorical mismatches force Non-Competitor regardless of a high
	// attention similarity.
	cand := profile("UCother", "Valorant montages", "Gameplay", "Seniors, F, [Entertainment]")

	got := classifyWith(t, 0.95, 0.999, mine, cand)
	if got.CompetitorType != NonCompetitor {
		t.Errorf("type = %s, want %s with diff_count 2", got.CompetitorType, NonCompetitor)
	}
}

func TestClassify_RuleTable(t *testing.T) {
	const sameMarket = "Young Adults, M, [Entertainment]"
	mine := profile("UCmine", "Valorant gaming", "Gameplay", sameMarket)

	tests := []struct {
		name         string
		attentionSim float64
		nicheSim     float64
		candidate    *model.ChannelProfile
		want         CompetitorType
	}{
		{
			"niche+style match, high similarity",
			0.90, 0.999,
			profile("UCa", "Valorant esports", "Gameplay", "Young Adults, Mix, [Entertainment]"),
			Direct,
		},
		{
			"niche+style match, mid similarity",
			0.78, 0.999,
			profile("UCb", "Valorant esports", "Gameplay", "Young Adults, Mix, [Entertainment]"),
			Indirect,
		},
		{
			"niche+style match, low similarity",
			0.72, 0.999,
			profile("UCc", "Valorant esports", "Gameplay", "Young Adults, Mix, [Entertainment]"),
			Adjacent,
		},
		{
			"topic match without niche match",
			0.76, 0.5,
			profile("UCd", "Valorant lore explained", "Documentary", "Young Adults, Mix, [Entertainment]"),
			Indirect,
		},
		{
			"topic match, lower similarity",
			0.72, 0.5,
			profile("UCe", "Valorant lore explained", "Documentary", "Young Adults, Mix, [Entertainment]"),
			Adjacent,
		},
		{
			"style match only, high similarity",
			0.82, 0.5,
			profile("UCf", "Minecraft builds", "Gameplay", "Young Adults, Mix, [Entertainment]"),
			Adjacent,
		},
		{
			"style match only, mid similarity",
			0.75, 0.5,
			profile("UCg", "Minecraft builds", "Gameplay", "Young Adults, Mix, [Entertainment]"),
			Distant,
		},
		{
			"no matches at all",
			0.90, 0.5,
			profile("UCh", "Cooking vlogs", "Vlog", "Young Adults, Mix, [Entertainment]"),
			Distant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyWith(t, tt.attentionSim, tt.nicheSim, mine, tt.candidate)
			if got.CompetitorType != tt.want {
				t.Errorf("type = %s, want %s", got.CompetitorType, tt.want)
			}
			if !almostEqual(got.AttentionMarketSimilarity, tt.attentionSim, 1e-9) {
				t.Errorf("similarity = %.6f, want %.6f", got.AttentionMarketSimilarity, tt.attentionSim)
			}
		})
	}
}

func TestClassify_MalformedMarketStillClassifies(t *testing.T) {
	// A garbled attention-market string falls back to unknown components.
	// Both sides unknown puts diff count at 1 (empty motivation sets never
	// intersect), so classification proceeds on niche/style alone.
	mine := profile("UCmine", "Valorant gaming", "Gameplay", "???")
	cand := profile("UCother", "Valorant esports", "Gameplay", "also garbage")

	got := classifyWith(t, 0.90, 0.999, mine, cand)
	if got.CompetitorType != Direct {
		t.Errorf("type = %s, want %s (niche+style match should survive parse failure)", got.CompetitorType, Direct)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	mine := profile("UCmine", "Valorant gaming", "Gameplay", "Young Adults, M, [Entertainment]")
	cand := profile("UCother", "Valorant esports", "Gameplay", "Young Adults, Mix, [Entertainment]")

	first := classifyWith(t, 0.87, 0.999, mine, cand)
	second := classifyWith(t, 0.87, 0.999, mine, cand)

	if *first != *second {
		t.Errorf("repeated classification differs: %+v vs %+v", first, second)
	}
}

func TestClassify_NoSymmetryGuarantee(t *testing.T) {
	// The API contract does not promise classify(A, B) == classify(B, A):
	// the rule table is evaluated from the caller's perspective and the two
	// directions are cached under distinct keys. This test documents that
	// both directions are computed independently; with the current rule
	// table and a deterministic embedder the categorical inputs happen to
	// be symmetric, so equality here is incidental, not contractual.
	a := profile("UCa", "Valorant gaming", "Gameplay", "Young Adults, M, [Entertainment]")
	b := profile("UCb", "Valorant esports", "Gameplay", "Young Adults, Mix, [Entertainment]")

	emb := &fakeEmbedder{vectors: map[string][]float64{
		a.AnalyzedAttentionMarket: vecWithSim(1.0),
		b.AnalyzedAttentionMarket: vecWithSim(0.87),
		a.AnalyzedNiche:           vecWithSim(1.0),
		b.AnalyzedNiche:           vecWithSim(0.999),
	}}
	cache := &memCache{}
	clf := NewClassifier(emb, cache)

	ab, err := clf.Classify(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Classify(a, b): %v", err)
	}
	ba, err := clf.Classify(context.Background(), b, a)
	if err != nil {
		t.Fatalf("Classify(b, a): %v", err)
	}

	if emb.calls != 2 {
		t.Errorf("embedder calls = %d, want 2 (directions must not share a cache entry)", emb.calls)
	}
	if ab.CompetitorType == "" || ba.CompetitorType == "" {
		t.Error("both directions must produce a classification")
	}
}

func TestClassify_CacheHitSkipsEmbedding(t *testing.T) {
	mine := profile("UCmine", "Valorant gaming", "Gameplay", "Young Adults, M, [Entertainment]")
	cand := profile("UCother", "Valorant esports", "Gameplay", "Young Adults, Mix, [Entertainment]")

	emb := &fakeEmbedder{vectors: map[string][]float64{
		mine.AnalyzedAttentionMarket: vecWithSim(1.0),
		cand.AnalyzedAttentionMarket: vecWithSim(0.87),
		mine.AnalyzedNiche:           vecWithSim(1.0),
		cand.AnalyzedNiche:           vecWithSim(0.999),
	}}
	clf := NewClassifier(emb, &memCache{})

	first, err := clf.Classify(context.Background(), mine, cand)
	if err != nil {
		t.Fatalf("first Classify: %v", err)
	}
	second, err := clf.Classify(context.Background(), mine, cand)
	if err != nil {
		t.Fatalf("second Classify: %v", err)
	}

	if emb.calls != 1 {
		t.Errorf("embedder calls = %d, want 1 (second call should hit cache)", emb.calls)
	}
	if *first != *second {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestClassify_EmbeddingFailurePropagates(t *testing.T) {
	mine := profile("UCmine", "Valorant gaming", "Gameplay", "Young Adults, M, [Entertainment]")
	cand := profile("UCother", "Valorant esports", "Gameplay", "Young Adults, Mix, [Entertainment]")

	wantErr := errors.New("upstream unavailable")
	clf := NewClassifier(&fakeEmbedder{err: wantErr}, nil)

	_, err := clf.Classify(context.Background(), mine, cand)
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want wrapped %v", err, wantErr)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 0}, []float64{1, 0}, 1.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"zero vector", []float64{0, 0}, []float64{1, 0}, 0.0},
		{"length mismatch", []float64{1, 0}, []float64{1, 0, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("CosineSimilarity = %.6f, want %.6f", got, tt.want)
			}
		})
	}
}

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

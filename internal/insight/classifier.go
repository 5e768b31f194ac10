package insight

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shrike012/Streamline/internal/model"
)

// CompetitorType is the categorical closeness classification between two
// channels' audiences and content.
type CompetitorType string

const (
	NonCompetitor CompetitorType = "Non-Competitor"
	Distant       CompetitorType = "Distant"
	Adjacent      CompetitorType = "Adjacent"
	Indirect      CompetitorType = "Indirect"
	Direct        CompetitorType = "Direct"
)

// Classification is the result of comparing two channel profiles.
type Classification struct {
	AttentionMarketSimilarity float64        `json:"attentionMarketSimilarity"`
	CompetitorType            CompetitorType `json:"competitorType"`
}

// Similarity thresholds for the rule table. The niche-match threshold is
// intentionally strict: niche strings are short phrases, so anything below
// a near-exact embedding match is treated as a different niche.
const (
	nonCompetitorGate = 0.55
	distantGate       = 0.70
	nicheMatchSim     = 0.995

	cacheTTL = 7 * 24 * time.Hour
)

// Embedder produces fixed-dimension embedding vectors for text. Calls cross
// the network; the classifier makes them its only suspend point.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Cache memoizes classifications keyed by the ordered channel-ID pair, since
// computing embeddings has external latency and cost. Implementations must
// treat a missing key as (nil, false, nil).
type Cache interface {
	GetClassification(ctx context.Context, key string) (*Classification, bool, error)
	SetClassification(ctx context.Context, key string, c *Classification, ttl time.Duration) error
}

// Classifier computes rule-based competitor classifications layered atop
// embedding cosine similarity. Raw similarity alone conflates same-audience,
// same-format, and same-topic notions of "competitor"; the tie-break table
// keeps the result explainable.
type Classifier struct {
	embedder Embedder
	cache    Cache
}

// NewClassifier creates a Classifier. cache may be nil, in which case every
// call recomputes.
func NewClassifier(embedder Embedder, cache Cache) *Classifier {
	return &Classifier{embedder: embedder, cache: cache}
}

// Classify compares a candidate channel's profile against the caller's own.
// The comparison is not symmetric: the rule table is evaluated from the
// caller's perspective, so Classify(A, B) need not equal Classify(B, A).
//
// Embedding failures propagate to the caller; a zero vector is never
// substituted since it would produce a misleading similarity score.
func (c *Classifier) Classify(ctx context.Context, mine, candidate *model.ChannelProfile) (*Classification, error) {
	key := cacheKey(mine.ChannelID, candidate.ChannelID)
	if c.cache != nil {
		if cached, ok, err := c.cache.GetClassification(ctx, key); err == nil && ok {
			return cached, nil
		}
	}

	// One batched call covers both attention markets and both niches.
	vectors, err := c.embedder.EmbedBatch(ctx, []string{
		candidate.AnalyzedAttentionMarket,
		mine.AnalyzedAttentionMarket,
		candidate.AnalyzedNiche,
		mine.AnalyzedNiche,
	})
	if err != nil {
		return nil, fmt.Errorf("embed profiles: %w", err)
	}
	if len(vectors) != 4 {
		return nil, fmt.Errorf("embed profiles: got %d vectors, want 4", len(vectors))
	}

	attentionSim := CosineSimilarity(vectors[0], vectors[1])
	nicheSim := CosineSimilarity(vectors[2], vectors[3])

	myMarket := ParseAttentionMarket(mine.AnalyzedAttentionMarket)
	candMarket := ParseAttentionMarket(candidate.AnalyzedAttentionMarket)

	result := &Classification{
		AttentionMarketSimilarity: attentionSim,
		CompetitorType: decide(ruleInputs{
			attentionSim: attentionSim,
			diffCount:    DiffCount(myMarket, candMarket),
			nicheMatch:   nicheSim >= nicheMatchSim,
			styleMatch:   strings.EqualFold(candidate.AnalyzedStyle, mine.AnalyzedStyle),
			topicMatch:   MainTopic(candidate.AnalyzedNiche) == MainTopic(mine.AnalyzedNiche),
		}),
	}

	if c.cache != nil {
		_ = c.cache.SetClassification(ctx, key, result, cacheTTL)
	}
	return result, nil
}

type ruleInputs struct {
	attentionSim float64
	diffCount    int
	nicheMatch   bool
	styleMatch   bool
	topicMatch   bool
}

// decide evaluates the classification rule table in order; the first
// matching rule wins.
func decide(in ruleInputs) CompetitorType {
	sim := in.attentionSim

	if sim < nonCompetitorGate || in.diffCount >= 2 {
		return NonCompetitor
	}
	if sim < distantGate {
		return Distant
	}

	switch {
	case in.nicheMatch && in.styleMatch:
		switch {
		case sim >= 0.85:
			return Direct
		case sim >= 0.75:
			return Indirect
		default:
			return Adjacent
		}
	case in.topicMatch:
		switch {
		case sim >= 0.75:
			return Indirect
		case sim >= 0.65:
			return Adjacent
		default:
			return Distant
		}
	case in.nicheMatch:
		switch {
		case sim >= 0.80:
			return Indirect
		case sim >= 0.70:
			return Adjacent
		default:
			return Distant
		}
	case in.styleMatch:
		if sim >= 0.80 {
			return Adjacent
		}
		return Distant
	default:
		return Distant
	}
}

func cacheKey(myChannelID, candidateChannelID string) string {
	return fmt.Sprintf("insight:%s:%s", myChannelID, candidateChannelID)
}

// CosineSimilarity computes the similarity between two vectors. Mismatched
// lengths or a zero-magnitude vector yield 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

package insight

import (
	"regexp"
	"strings"
)

// AttentionMarket is the structured form of a channel's target-audience
// description. Upstream it travels as a single LLM-generated string
// ("<age_group>, <gender>, [<motivation>, ...]"); internally it is a proper
// record and only serialized back to text at the analysis boundary.
type AttentionMarket struct {
	AgeGroup    string
	Gender      string
	Motivations []string
}

// The motivation vocabulary the analysis prompt allows. Anything else in the
// generated text is dropped during parsing.
var knownMotivations = map[string]bool{
	"entertainment": true,
	"education":     true,
	"connection":    true,
}

var quotedMotiveRe = regexp.MustCompile(`"(.*?)"|'(.*?)'`)

// ParseAttentionMarket parses the serialized attention-market string. The
// upstream generator is an LLM, so the format is not guaranteed: both
// quoted-list (["a", "b"]) and bare-bracket ([a, b]) motivation forms are
// tolerated, and any parse failure falls back to unknown components rather
// than an error, since partial classification via niche/style alone remains
// meaningful.
func ParseAttentionMarket(s string) AttentionMarket {
	unknown := AttentionMarket{AgeGroup: "unknown", Gender: "unknown"}

	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "unknown") {
		return unknown
	}

	parts := strings.SplitN(s, ",", 3)
	if len(parts) < 2 {
		return unknown
	}

	m := AttentionMarket{
		AgeGroup: strings.ToLower(strings.TrimSpace(parts[0])),
		Gender:   strings.ToLower(strings.TrimSpace(parts[1])),
	}
	if m.AgeGroup == "" {
		m.AgeGroup = "unknown"
	}
	if m.Gender == "" {
		m.Gender = "unknown"
	}
	if len(parts) == 3 {
		m.Motivations = ParseMotivations(parts[2])
	}
	return m
}

// ParseMotivations extracts the known motivations from the list portion of
// an attention-market string, e.g. `[Entertainment, Connection]` or
// `["education"]`.
func ParseMotivations(s string) []string {
	var raw []string

	for _, match := range quotedMotiveRe.FindAllStringSubmatch(s, -1) {
		for _, group := range match[1:] {
			if group != "" {
				raw = append(raw, group)
			}
		}
	}

	// Bare-bracket fallback: strip brackets, split on commas.
	if len(raw) == 0 {
		stripped := strings.Trim(strings.TrimSpace(s), "[]")
		for _, part := range strings.Split(stripped, ",") {
			raw = append(raw, part)
		}
	}

	var motives []string
	for _, m := range raw {
		m = strings.ToLower(strings.TrimSpace(m))
		if knownMotivations[m] {
			motives = append(motives, m)
		}
	}
	return motives
}

// DiffCount counts the categorical mismatches between two attention markets:
// age group, gender, and whether the motivation sets have an empty
// intersection. The result is in {0, 1, 2, 3}.
func DiffCount(a, b AttentionMarket) int {
	diff := 0
	if a.AgeGroup != b.AgeGroup {
		diff++
	}
	if a.Gender != b.Gender {
		diff++
	}
	if !motivationsOverlap(a.Motivations, b.Motivations) {
		diff++
	}
	return diff
}

func motivationsOverlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// MainTopic extracts the first whitespace-delimited token of a niche string
// as a crude "main topic": "Valorant gaming" -> "valorant".
func MainTopic(niche string) string {
	tokens := strings.Fields(strings.ToLower(niche))
	if len(tokens) == 0 {
		return "unknown"
	}
	return tokens[0]
}

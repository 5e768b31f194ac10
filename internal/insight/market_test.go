package insight

import (
	"reflect"
	"testing"
)

func TestParseAttentionMarket(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  AttentionMarket
	}{
		{
			"canonical format",
			"Young Adults, M, [Entertainment]",
			AttentionMarket{AgeGroup: "young adults", Gender: "m", Motivations: []string{"entertainment"}},
		},
		{
			"two motivations",
			"Middle-Aged, Mix, [Education, Connection]",
			AttentionMarket{AgeGroup: "middle-aged", Gender: "mix", Motivations: []string{"education", "connection"}},
		},
		{
			"quoted motivation list",
			`Teens, F, ["education", "connection"]`,
			AttentionMarket{AgeGroup: "teens", Gender: "f", Motivations: []string{"education", "connection"}},
		},
		{
			"empty string",
			"",
			AttentionMarket{AgeGroup: "unknown", Gender: "unknown"},
		},
		{
			"unknown sentinel from analysis",
			"Unknown",
			AttentionMarket{AgeGroup: "unknown", Gender: "unknown"},
		},
		{
			"missing motivations",
			"Seniors, M",
			AttentionMarket{AgeGroup: "seniors", Gender: "m"},
		},
		{
			"single segment is malformed",
			"garbage",
			AttentionMarket{AgeGroup: "unknown", Gender: "unknown"},
		},
		{
			"unrecognized motivation dropped",
			"Kids, Mix, [Curiosity]",
			AttentionMarket{AgeGroup: "kids", Gender: "mix"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAttentionMarket(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseAttentionMarket(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseMotivations_Formats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"bare brackets", "[entertainment, education]", []string{"entertainment", "education"}},
		{"double quoted", `["entertainment", "education"]`, []string{"entertainment", "education"}},
		{"single quoted", `['connection']`, []string{"connection"}},
		{"mixed case", "[Entertainment]", []string{"entertainment"}},
		{"no brackets at all", "education, connection", []string{"education", "connection"}},
		{"nothing recognizable", "[fame, fortune]", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMotivations(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseMotivations(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDiffCount(t *testing.T) {
	base := AttentionMarket{AgeGroup: "young adults", Gender: "m", Motivations: []string{"entertainment"}}

	tests := []struct {
		name  string
		other AttentionMarket
		want  int
	}{
		{"identical", base, 0},
		{
			"different age only",
			AttentionMarket{AgeGroup: "teens", Gender: "m", Motivations: []string{"entertainment"}},
			1,
		},
		{
			"different age and gender",
			AttentionMarket{AgeGroup: "teens", Gender: "f", Motivations: []string{"entertainment"}},
			2,
		},
		{
			"all three differ",
			AttentionMarket{AgeGroup: "seniors", Gender: "f", Motivations: []string{"education"}},
			3,
		},
		{
			"overlapping motivation sets count as a match",
			AttentionMarket{AgeGroup: "young adults", Gender: "m", Motivations: []string{"education", "entertainment"}},
			0,
		},
		{
			"both empty motivation sets have no intersection",
			AttentionMarket{AgeGroup: "young adults", Gender: "m"},
			1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DiffCount(base, tt.other); got != tt.want {
				t.Errorf("DiffCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMainTopic(t *testing.T) {
	tests := []struct {
		niche string
		want  string
	}{
		{"Valorant gaming", "valorant"},
		{"CS2 frag movies", "cs2"},
		{"Minecraft building tutorials", "minecraft"},
		{"  History documentaries", "history"},
		{"", "unknown"},
		{"   ", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.niche, func(t *testing.T) {
			if got := MainTopic(tt.niche); got != tt.want {
				t.Errorf("MainTopic(%q) = %q, want %q", tt.niche, got, tt.want)
			}
		})
	}
}

package middleware

import (
	"strings"
	"testing"
)

func TestValidateChannelID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "UCuAXFkgsw1L7xaCfnd5JJOw", "UCuAXFkgsw1L7xaCfnd5JJOw", false},
		{"trims whitespace", "  UCabc  ", "UCabc", false},
		{"empty", "", "", true},
		{"too long 33", "123456789012345678901234567890123", "", true},
		{"exactly 32", "12345678901234567890123456789012", "12345678901234567890123456789012", false},
		{"invalid chars", "UC test!", "", true},
		{"sql injection", "UC'; DROP--", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateChannelID(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid uuid-style", "6f1c2a3b-44d5-4e6f-8a9b-0c1d2e3f4a5b", "6f1c2a3b-44d5-4e6f-8a9b-0c1d2e3f4a5b", false},
		{"valid opaque", "user_12345", "user_12345", false},
		{"empty", "", "", true},
		{"too long 65", strings.Repeat("a", 65), "", true},
		{"exactly 64", strings.Repeat("a", 64), strings.Repeat("a", 64), false},
		{"sql injection", "abc'; DROP--", "", true},
		{"spaces", "user id", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateUserID(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateSearchQuery(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple", "indie game devlogs", "indie game devlogs", false},
		{"punctuation", "cooking, baking & pastry", "cooking, baking & pastry", false},
		{"unicode letters", "café reviews", "café reviews", false},
		{"trims whitespace", "  chess  ", "chess", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"too long", strings.Repeat("a", 101), "", true},
		{"exactly 100", strings.Repeat("a", 100), strings.Repeat("a", 100), false},
		{"angle brackets", "<script>", "", true},
		{"sql injection", "x'; DROP--", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateSearchQuery(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateChannelURL(t *testing.T) {
	if got, errMsg := ValidateChannelURL("  https://youtube.com/@creator  "); errMsg != "" || got != "https://youtube.com/@creator" {
		t.Errorf("got %q (err %q)", got, errMsg)
	}
	if _, errMsg := ValidateChannelURL(""); errMsg == "" {
		t.Error("expected error for empty URL")
	}
	if _, errMsg := ValidateChannelURL("https://" + strings.Repeat("x", 300)); errMsg == "" {
		t.Error("expected error for over-long URL")
	}
}

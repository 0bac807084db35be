package report

import (
	"testing"

	"pgregory.net/rapid"
)

func TestScoreLabelBands(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{5.0, "Outstanding"},
		{4.5, "Outstanding"},
		{4.4, "Exceeds"},
		{4.0, "Exceeds"},
		{3.9, "Good"},
		{3.5, "Good"},
		{3.4, "Meets"},
		{3.0, "Meets"},
		{2.9, "Below"},
		{2.5, "Below"},
		{2.4, "Needs Improvement"},
		{0.0, "Needs Improvement"},
	}
	for _, tt := range tests {
		if got := ScoreLabel(tt.score); got != tt.want {
			t.Errorf("ScoreLabel(%.1f) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

// Property: every score in [0, 5] maps to exactly one non-empty label.
func TestScoreLabelTotal(t *testing.T) {
	valid := map[string]bool{
		"Outstanding": true, "Exceeds": true, "Good": true,
		"Meets": true, "Below": true, "Needs Improvement": true,
	}
	rapid.Check(t, func(rt *rapid.T) {
		score := rapid.Float64Range(0, 5).Draw(rt, "score")
		if got := ScoreLabel(score); !valid[got] {
			rt.Fatalf("ScoreLabel(%v) = %q", score, got)
		}
	})
}

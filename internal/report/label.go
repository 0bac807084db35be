package report

// ScoreLabel maps a 0–5 score to one of six qualitative labels. Total over
// the whole range; out-of-range inputs are clamped by the band edges.
func ScoreLabel(score float64) string {
	switch {
	case score >= 4.5:
		return "Outstanding"
	case score >= 4.0:
		return "Exceeds"
	case score >= 3.5:
		return "Good"
	case score >= 3.0:
		return "Meets"
	case score >= 2.5:
		return "Below"
	default:
		return "Needs Improvement"
	}
}

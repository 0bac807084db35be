package report

import "testing"

func sampleReport() *Report {
	score := 3.8
	return &Report{
		OverallScore:     &score,
		ExecutiveSummary: "Solid overall.",
		Dimensions: map[string]DimensionEvaluation{
			"Communication":   {Rating: 4.1, Confidence: ConfidenceHigh},
			"Technical Depth": {Rating: 2.6, Confidence: ConfidenceLow, Assessment: "shallow"},
		},
		DimensionOrder: []string{"Communication", "Technical Depth"},
		ActionItems: []ActionItem{
			{Title: "Practice deep dives", Priority: PriorityHigh},
		},
	}
}

func TestBuildViewWithScore(t *testing.T) {
	v := BuildView(sampleReport())

	if !v.ScoreAvailable {
		t.Fatal("score not available")
	}
	if v.ScoreText != "3.8 / 5" {
		t.Errorf("score text = %q", v.ScoreText)
	}
	if v.ScoreLabel != "Good" {
		t.Errorf("score label = %q", v.ScoreLabel)
	}
	if v.Summary != "Solid overall." {
		t.Errorf("summary = %q", v.Summary)
	}

	if len(v.Cards) != 2 {
		t.Fatalf("cards = %d", len(v.Cards))
	}
	// Cards follow DimensionOrder.
	if v.Cards[0].Name != "Communication" || v.Cards[1].Name != "Technical Depth" {
		t.Errorf("card order = %q, %q", v.Cards[0].Name, v.Cards[1].Name)
	}
	if v.Cards[1].RatingLabel != "Below" {
		t.Errorf("rating label = %q", v.Cards[1].RatingLabel)
	}

	if len(v.Radial) != 2 || v.Radial[0].Label != "Communication" || v.Radial[0].Rating != 4.1 {
		t.Errorf("radial = %+v", v.Radial)
	}
	if len(v.ActionItems) != 1 || v.ActionItems[0].Title != "Practice deep dives" {
		t.Errorf("action items = %+v", v.ActionItems)
	}
}

func TestBuildViewScoreUnavailable(t *testing.T) {
	r := sampleReport()
	r.OverallScore = nil
	r.ExecutiveSummary = ""

	v := BuildView(r)
	if v.ScoreAvailable {
		t.Error("nil score reported available")
	}
	if v.ScoreText != "Score unavailable" {
		t.Errorf("score text = %q", v.ScoreText)
	}
	if v.ScoreLabel != "" {
		t.Errorf("score label = %q for unavailable score", v.ScoreLabel)
	}
	if v.Summary != SummaryUnavailable {
		t.Errorf("summary = %q", v.Summary)
	}
}

func TestBuildViewEmptyReport(t *testing.T) {
	v := BuildView(&Report{Dimensions: map[string]DimensionEvaluation{}})
	if v.ScoreAvailable || len(v.Cards) != 0 || len(v.ActionItems) != 0 {
		t.Errorf("view = %+v", v)
	}
	if v.Summary != SummaryUnavailable {
		t.Errorf("summary = %q", v.Summary)
	}
}

package report

import (
	"strings"
	"testing"
	"time"

	"github.com/ameyrk/intervu/internal/session"
	"github.com/ameyrk/intervu/internal/transcript"
)

func sampleDocument() *Document {
	answer := "I sharded the database."
	cov := 72.0
	return &Document{
		Meta: &session.CompletedSession{
			AttemptID:          "attempt-1",
			SessionID:          "sess-1",
			Config:             session.Config{Role: "Backend Engineer", Seniority: "Senior", Skill: "System Design"},
			StartedAt:          time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			CompletedAt:        time.Date(2026, 3, 1, 10, 25, 0, 0, time.UTC),
			DurationSeconds:    1500,
			CompletionReason:   "coverage reached",
			CoveragePercentage: &cov,
		},
		Transcript: []transcript.Entry{
			{Question: "How would you scale writes?", Answer: &answer, Timestamp: time.Date(2026, 3, 1, 10, 1, 0, 0, time.UTC)},
			{Question: "Thanks, that's all.", Timestamp: time.Date(2026, 3, 1, 10, 24, 0, 0, time.UTC)},
		},
		Report:      sampleReport(),
		GeneratedAt: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
	}
}

func TestMarkdownRoundTrip(t *testing.T) {
	doc := sampleDocument()

	data, err := (&MarkdownRenderer{}).Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	md := string(data)
	for _, want := range []string{
		"<!-- intervu-report-version: 1 -->",
		"## Overall",
		"## Summary",
		"## Dimensions",
		"## Action Items",
		"## Transcript",
		"3.8 / 5",
		"How would you scale writes?",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	parsed, err := (&MarkdownParser{}).Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	assertDocumentsEqual(t, doc, parsed)
}

func TestJSONRoundTrip(t *testing.T) {
	doc := sampleDocument()

	data, err := (&JSONRenderer{}).Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	parsed, err := (&JSONParser{}).Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	assertDocumentsEqual(t, doc, parsed)
}

func TestMarkdownRendersUnavailableScore(t *testing.T) {
	doc := sampleDocument()
	doc.Report.OverallScore = nil

	data, err := (&MarkdownRenderer{}).Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(data), "unavailable") {
		t.Error("missing score not surfaced in markdown")
	}
	if strings.Contains(string(data), "0.0 / 5") {
		t.Error("missing score rendered as zero")
	}
}

func TestMarkdownParserRejectsForeignFiles(t *testing.T) {
	for name, data := range map[string][]byte{
		"plain markdown": []byte("# Some other document\n"),
		"no payload":     []byte("<!-- intervu-report-version: 1 -->\nhello\n"),
		"bad base64":     []byte("<!-- intervu-report-version: 1 -->\n<!-- intervu-data: !!! -->\n"),
	} {
		if _, err := (&MarkdownParser{}).Parse(data); err == nil {
			t.Errorf("%s: expected parse error", name)
		}
	}
}

func assertDocumentsEqual(t *testing.T, want, got *Document) {
	t.Helper()
	if got.Meta == nil || got.Meta.AttemptID != want.Meta.AttemptID {
		t.Fatalf("meta = %+v", got.Meta)
	}
	if got.Meta.Config != want.Meta.Config {
		t.Errorf("config = %+v, want %+v", got.Meta.Config, want.Meta.Config)
	}
	if len(got.Transcript) != len(want.Transcript) {
		t.Fatalf("transcript = %d entries, want %d", len(got.Transcript), len(want.Transcript))
	}
	if *got.Transcript[0].Answer != *want.Transcript[0].Answer {
		t.Errorf("answer = %q", *got.Transcript[0].Answer)
	}
	if got.Report == nil || !got.Report.ScoreAvailable() != !want.Report.ScoreAvailable() {
		t.Fatalf("report = %+v", got.Report)
	}
	if want.Report.ScoreAvailable() && *got.Report.OverallScore != *want.Report.OverallScore {
		t.Errorf("score = %v", *got.Report.OverallScore)
	}
	if len(got.Report.Dimensions) != len(want.Report.Dimensions) {
		t.Errorf("dimensions = %d, want %d", len(got.Report.Dimensions), len(want.Report.Dimensions))
	}
	if !got.GeneratedAt.Equal(want.GeneratedAt) {
		t.Errorf("generated at = %v", got.GeneratedAt)
	}
}

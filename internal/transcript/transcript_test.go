package transcript_test

import (
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/ameyrk/intervu/internal/transcript"
)

func TestAppendQuestionRejectsWhilePending(t *testing.T) {
	l := transcript.NewLog()
	if err := l.AppendQuestion("q1"); err != nil {
		t.Fatalf("AppendQuestion: %v", err)
	}
	err := l.AppendQuestion("q2")
	if !errors.Is(err, transcript.ErrPendingQuestion) {
		t.Fatalf("expected ErrPendingQuestion, got %v", err)
	}
}

func TestRecordAnswerRequiresPendingQuestion(t *testing.T) {
	l := transcript.NewLog()
	err := l.RecordAnswer("hello")
	if !errors.Is(err, transcript.ErrNoPendingQuestion) {
		t.Fatalf("expected ErrNoPendingQuestion, got %v", err)
	}

	if err := l.AppendQuestion("q1"); err != nil {
		t.Fatalf("AppendQuestion: %v", err)
	}
	if err := l.RecordAnswer("a1"); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	// second answer to the same question is rejected
	err = l.RecordAnswer("a2")
	if !errors.Is(err, transcript.ErrNoPendingQuestion) {
		t.Fatalf("expected ErrNoPendingQuestion, got %v", err)
	}
}

func TestAnnotateAttachesToLastAnsweredEntry(t *testing.T) {
	l := transcript.NewLog()
	if err := l.Annotate(transcript.AnswerEvaluation{Feedback: "x"}); !errors.Is(err, transcript.ErrNoAnsweredEntry) {
		t.Fatalf("expected ErrNoAnsweredEntry, got %v", err)
	}

	mustAppend(t, l, "q1")
	mustAnswer(t, l, "a1")
	mustAppend(t, l, "q2")

	eval := transcript.AnswerEvaluation{
		Scores:   map[string]transcript.SkillScore{"System Design": {Score: 4.0, Rationale: "solid"}},
		Feedback: "good structure",
	}
	if err := l.Annotate(eval); err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	entries := l.Snapshot()
	if entries[0].Evaluation == nil {
		t.Fatal("evaluation not attached to the answered entry")
	}
	if entries[0].Evaluation.Feedback != "good structure" {
		t.Errorf("feedback = %q", entries[0].Evaluation.Feedback)
	}
	if entries[1].Evaluation != nil {
		t.Error("evaluation attached to the unanswered entry")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	l := transcript.NewLog()
	mustAppend(t, l, "q1")
	mustAnswer(t, l, "a1")

	if err := l.Annotate(transcript.AnswerEvaluation{
		Scores:   map[string]transcript.SkillScore{"clarity": {Score: 4}},
		Feedback: "clear",
	}); err != nil {
		t.Fatalf("annotate: %v", err)
	}

	snap := l.Snapshot()
	*snap[0].Answer = "mutated"
	snap[0].Evaluation.Feedback = "mutated"
	snap[0].Evaluation.Scores["clarity"] = transcript.SkillScore{Score: 1}

	fresh := l.Snapshot()
	if got := *fresh[0].Answer; got != "a1" {
		t.Errorf("snapshot answer mutation leaked into the log: %q", got)
	}
	if got := fresh[0].Evaluation.Feedback; got != "clear" {
		t.Errorf("snapshot feedback mutation leaked into the log: %q", got)
	}
	if got := fresh[0].Evaluation.Scores["clarity"].Score; got != 4 {
		t.Errorf("snapshot score mutation leaked into the log: %v", got)
	}
}

func TestPendingAndLastQuestion(t *testing.T) {
	l := transcript.NewLog()
	if l.Pending() {
		t.Error("empty log reports pending")
	}
	mustAppend(t, l, "q1")
	if !l.Pending() || l.LastQuestion() != "q1" {
		t.Errorf("pending = %v, last = %q", l.Pending(), l.LastQuestion())
	}
	mustAnswer(t, l, "a1")
	if l.Pending() {
		t.Error("answered log still reports pending")
	}
}

// Property: after any valid sequence of operations, the log never holds two
// unanswered questions, and only the final entry may lack an answer.
func TestLogShapeInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		l := transcript.NewLog()
		n := rapid.IntRange(0, 30).Draw(rt, "ops")
		for i := 0; i < n; i++ {
			if rapid.Bool().Draw(rt, "is_question") {
				_ = l.AppendQuestion(rapid.StringN(1, 40, -1).Draw(rt, "q"))
			} else {
				_ = l.RecordAnswer(rapid.StringN(1, 40, -1).Draw(rt, "a"))
			}
		}

		entries := l.Snapshot()
		for i, e := range entries {
			if i < len(entries)-1 && !e.Answered() {
				rt.Fatalf("entry %d of %d is unanswered", i, len(entries))
			}
		}
		if got := transcript.AnsweredCount(entries); l.Pending() && got != len(entries)-1 {
			rt.Fatalf("pending log: answered count %d, entries %d", got, len(entries))
		}
	})
}

func mustAppend(t *testing.T, l *transcript.Log, q string) {
	t.Helper()
	if err := l.AppendQuestion(q); err != nil {
		t.Fatalf("AppendQuestion(%q): %v", q, err)
	}
}

func mustAnswer(t *testing.T, l *transcript.Log, a string) {
	t.Helper()
	if err := l.RecordAnswer(a); err != nil {
		t.Fatalf("RecordAnswer(%q): %v", a, err)
	}
}

// Package transcript maintains the ordered question/answer log of one
// interview session. The log is append-only: questions are appended, answers
// fill in the most recent question, and at most one question may be awaiting
// an answer at any time.
package transcript

import (
	"errors"
	"time"
)

// ErrPendingQuestion is returned by AppendQuestion when the previous question
// has not been answered yet. Two unanswered questions in a row is a protocol
// violation on the interviewer side.
var ErrPendingQuestion = errors.New("previous question is still awaiting an answer")

// ErrNoPendingQuestion is returned by RecordAnswer when no question is
// awaiting an answer.
var ErrNoPendingQuestion = errors.New("no question is awaiting an answer")

// ErrNoAnsweredEntry is returned by Annotate when the log holds no fully
// answered entry to attach the evaluation to.
var ErrNoAnsweredEntry = errors.New("no answered entry to annotate")

// AnswerEvaluation is a best-effort per-answer assessment attached to an
// entry after the fact. Its arrival (or failure to arrive) never affects the
// main interview flow.
type AnswerEvaluation struct {
	Scores   map[string]SkillScore `json:"scores,omitempty"`
	Feedback string                `json:"feedback,omitempty"`
}

// SkillScore is one skill's score within an AnswerEvaluation.
type SkillScore struct {
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale,omitempty"`
}

// Entry is a single turn in the transcript. Answer is nil while the question
// is awaiting user input.
type Entry struct {
	Question   string            `json:"question"`
	Answer     *string           `json:"answer"`
	Timestamp  time.Time         `json:"timestamp"`
	Evaluation *AnswerEvaluation `json:"evaluation,omitempty"`
}

// Answered reports whether the entry has an answer recorded.
func (e Entry) Answered() bool { return e.Answer != nil }

// Log is the append-only transcript of one session.
//
// Log is not safe for concurrent mutation; the session controller's phase
// guards serialize all writes. Annotate is the one exception: it only touches
// already-answered entries and may be called from the evaluation side channel.
type Log struct {
	entries []Entry
	now     func() time.Time
}

// NewLog returns an empty transcript log.
func NewLog() *Log {
	return &Log{now: time.Now}
}

// AppendQuestion appends a new unanswered entry. It fails with
// ErrPendingQuestion if the last entry is still unanswered.
func (l *Log) AppendQuestion(text string) error {
	if n := len(l.entries); n > 0 && !l.entries[n-1].Answered() {
		return ErrPendingQuestion
	}
	l.entries = append(l.entries, Entry{
		Question:  text,
		Timestamp: l.now().UTC(),
	})
	return nil
}

// RecordAnswer fills in the answer on the pending question. It fails with
// ErrNoPendingQuestion if every entry is already answered (or the log is
// empty).
func (l *Log) RecordAnswer(text string) error {
	n := len(l.entries)
	if n == 0 || l.entries[n-1].Answered() {
		return ErrNoPendingQuestion
	}
	l.entries[n-1].Answer = &text
	return nil
}

// Annotate attaches a per-answer evaluation to the most recently answered
// entry. Callers treat failure as advisory only.
func (l *Log) Annotate(eval AnswerEvaluation) error {
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].Answered() {
			l.entries[i].Evaluation = &eval
			return nil
		}
	}
	return ErrNoAnsweredEntry
}

// Len returns the number of entries.
func (l *Log) Len() int { return len(l.entries) }

// Pending reports whether the last entry is awaiting an answer.
func (l *Log) Pending() bool {
	n := len(l.entries)
	return n > 0 && !l.entries[n-1].Answered()
}

// LastQuestion returns the most recent question text, or "" if empty.
func (l *Log) LastQuestion() string {
	if n := len(l.entries); n > 0 {
		return l.entries[n-1].Question
	}
	return ""
}

// Snapshot returns an ordered copy of the log for submission to the
// evaluation pipeline. Mutating the snapshot does not affect the log.
func (l *Log) Snapshot() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	for i := range out {
		if out[i].Answer != nil {
			a := *out[i].Answer
			out[i].Answer = &a
		}
		if out[i].Evaluation != nil {
			ev := *out[i].Evaluation
			if ev.Scores != nil {
				scores := make(map[string]SkillScore, len(ev.Scores))
				for k, v := range ev.Scores {
					scores[k] = v
				}
				ev.Scores = scores
			}
			out[i].Evaluation = &ev
		}
	}
	return out
}

// Restore replaces the log contents with previously persisted entries.
// Used when resuming state from disk.
func (l *Log) Restore(entries []Entry) {
	l.entries = make([]Entry, len(entries))
	copy(l.entries, entries)
}

// AnsweredCount returns the number of fully answered entries.
func AnsweredCount(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.Answered() {
			n++
		}
	}
	return n
}

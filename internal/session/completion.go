package session

import "github.com/ameyrk/intervu/internal/api"

// Outcome classifies a submit-answer response.
type Outcome int

const (
	// OutcomeContinue: the service asked another question.
	OutcomeContinue Outcome = iota
	// OutcomeCompleted: the service explicitly ended the interview.
	OutcomeCompleted
	// OutcomeAmbiguousCompleted: the response carried neither a completion
	// flag nor a next question. Treated as completion so the session can
	// never hang awaiting a question that will not come; the service's
	// contract is not trusted enough to assume otherwise.
	OutcomeAmbiguousCompleted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeCompleted:
		return "completed"
	case OutcomeAmbiguousCompleted:
		return "ambiguous-completed"
	}
	return "unknown"
}

// Completed reports whether the outcome ends the interview.
func (o Outcome) Completed() bool { return o != OutcomeContinue }

// DetectCompletion classifies a submit-answer response. An explicit
// completion flag always wins, even when a next question is also present.
func DetectCompletion(resp *api.SubmitResponse) Outcome {
	switch {
	case resp.InterviewCompleted:
		return OutcomeCompleted
	case resp.NextQuestion != "":
		return OutcomeContinue
	default:
		return OutcomeAmbiguousCompleted
	}
}

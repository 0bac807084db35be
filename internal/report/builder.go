package report

import (
	"errors"

	"github.com/ameyrk/intervu/internal/api"
	"github.com/ameyrk/intervu/internal/session"
	"github.com/ameyrk/intervu/internal/transcript"
)

// ErrIncompleteConfig blocks an evaluation request when the completed
// session's role or seniority is missing.
var ErrIncompleteConfig = errors.New("session config is missing role or seniority")

// ErrEmptyTranscript blocks an evaluation request when the transcript has no
// fully answered entries. There is nothing for the service to evaluate, so
// the network call is never made.
var ErrEmptyTranscript = errors.New("transcript has no answered questions")

// BuildEvaluationRequest assembles the evaluate-interview payload from a
// completed session and its transcript snapshot. Both pre-flight validations
// run before any network traffic.
func BuildEvaluationRequest(meta *session.CompletedSession, entries []transcript.Entry) (api.EvaluateRequest, error) {
	if meta == nil || meta.Config.Role == "" || meta.Config.Seniority == "" {
		return api.EvaluateRequest{}, ErrIncompleteConfig
	}
	if transcript.AnsweredCount(entries) == 0 {
		return api.EvaluateRequest{}, ErrEmptyTranscript
	}

	return api.EvaluateRequest{
		Role:       meta.Config.Role,
		Seniority:  meta.Config.Seniority,
		Skills:     meta.Config.Skills(),
		Transcript: entries,
	}, nil
}

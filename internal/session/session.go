// Package session owns the lifecycle of one interview session: the phase
// state machine, the transcript it accumulates, and the on-disk hand-off to
// the evaluation pipeline.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/ameyrk/intervu/internal/transcript"
)

// Phase is a discrete state in the session state machine.
type Phase string

const (
	PhaseNotStarted     Phase = "not_started"
	PhaseStarting       Phase = "starting"
	PhaseAwaitingAnswer Phase = "awaiting_answer"
	PhaseSubmitting     Phase = "submitting"
	PhaseCompleted      Phase = "completed"
	PhaseFailed         Phase = "error"
)

// Terminal reports whether the phase admits no further turns.
func (p Phase) Terminal() bool { return p == PhaseCompleted }

// Active reports whether a remote call is in flight or expected.
func (p Phase) Active() bool {
	return p == PhaseStarting || p == PhaseAwaitingAnswer || p == PhaseSubmitting
}

// Config is the interview setup chosen before the session starts.
type Config struct {
	Role         string `json:"role"`
	Seniority    string `json:"seniority"`
	Skill        string `json:"skill"`
	SkillContext string `json:"skill_context,omitempty"`
}

// Skills returns the skill list the remote contract expects. The client
// practices exactly one skill per session.
func (c Config) Skills() []string { return []string{c.Skill} }

// Validate checks the fields required to start a session.
func (c Config) Validate() error {
	if c.Role == "" || c.Seniority == "" || c.Skill == "" {
		return ErrConfigInvalid
	}
	return nil
}

// ErrConfigInvalid blocks session start when role, seniority, or skill is
// missing.
var ErrConfigInvalid = errors.New("role, seniority, and skill are required")

// PhaseError is returned when an operation is attempted in the wrong phase.
type PhaseError struct {
	Op    string
	Phase Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s is not valid while session is %s", e.Op, e.Phase)
}

// State is the persistable snapshot of a session. Entries mirror the
// transcript log at save time.
type State struct {
	AttemptID   string             `json:"attempt_id"`
	SessionID   string             `json:"session_id,omitempty"`
	Phase       Phase              `json:"phase"`
	Config      Config             `json:"config"`
	StartedAt   time.Time          `json:"started_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	Entries     []transcript.Entry `json:"entries"`

	// Completion metadata reported by the service, when it decided to end
	// the interview.
	CompletionReason   string   `json:"completion_reason,omitempty"`
	EvidenceSummary    string   `json:"evidence_summary,omitempty"`
	CoveragePercentage *float64 `json:"coverage_percentage,omitempty"`

	// LastError holds the message shown to the user while in PhaseFailed;
	// PriorPhase and LastAnswer let a later process retry the failed step.
	LastError  string `json:"last_error,omitempty"`
	PriorPhase Phase  `json:"prior_phase,omitempty"`
	LastAnswer string `json:"last_answer,omitempty"`
}

// Duration returns elapsed interview time, using CompletedAt when set.
func (s State) Duration() time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	end := time.Now()
	if s.CompletedAt != nil {
		end = *s.CompletedAt
	}
	return end.Sub(s.StartedAt).Round(time.Second)
}

// CompletedSession is the config-side half of the completed-session hand-off.
// It is written under the fixed "config" key next to the transcript and is
// what the report command reads back.
type CompletedSession struct {
	AttemptID          string    `json:"attempt_id"`
	SessionID          string    `json:"session_id,omitempty"`
	Config             Config    `json:"config"`
	StartedAt          time.Time `json:"started_at"`
	CompletedAt        time.Time `json:"completed_at"`
	DurationSeconds    int       `json:"duration_seconds"`
	CompletionReason   string    `json:"completion_reason,omitempty"`
	EvidenceSummary    string    `json:"evidence_summary,omitempty"`
	CoveragePercentage *float64  `json:"coverage_percentage,omitempty"`
}

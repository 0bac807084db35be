package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ameyrk/intervu/internal/api"
	"github.com/ameyrk/intervu/internal/transcript"
)

// ErrEmptyAnswer rejects a blank submission before any network call.
var ErrEmptyAnswer = errors.New("answer is empty")

// Remote is the slice of the assessment service the controller needs.
// *api.Client satisfies it; tests substitute fakes.
type Remote interface {
	StartSession(ctx context.Context, req api.StartRequest) (*api.StartResponse, error)
	SubmitAnswer(ctx context.Context, req api.SubmitRequest) (*api.SubmitResponse, error)
	EvaluateAnswer(ctx context.Context, req api.AnswerEvalRequest) (*transcript.AnswerEvaluation, error)
}

// Controller drives one interview session through its phases. All turn-taking
// operations are serialized by phase guards: at most one primary network call
// is in flight at a time. The per-answer evaluation side channel is the only
// concurrent actor, and it only ever annotates already-answered transcript
// entries.
//
// The mutex covers state and transcript between the main flow and that side
// channel; it is released around network calls so a slow request never blocks
// observers.
type Controller struct {
	mu     sync.Mutex
	remote Remote
	store  *Store
	log    *transcript.Log
	logger *log.Logger

	state  State
	status string

	// gen is bumped by Exit; in-flight responses from an older generation
	// are dropped without effect.
	gen int

	// Retry bookkeeping: the phase to re-enter and the answer to re-send.
	priorPhase   Phase
	lastQuestion string
	lastAnswer   string

	plan             *api.InterviewPlan
	estimatedMinutes int

	onStatus    func(string)
	annotateOff bool
}

// NewController returns a Controller for a fresh session with the given
// config. store may be nil in tests that don't exercise persistence.
func NewController(remote Remote, store *Store, cfg Config) *Controller {
	return &Controller{
		remote: remote,
		store:  store,
		log:    transcript.NewLog(),
		logger: log.Default(),
		state:  State{Phase: PhaseNotStarted, Config: cfg},
		status: "not started",
	}
}

// ResumeController reconstructs a controller from persisted state, for
// commands running in a separate process from the one that started the
// session.
func ResumeController(remote Remote, store *Store, st *State) *Controller {
	c := NewController(remote, store, st.Config)
	c.state = *st
	c.log.Restore(st.Entries)
	c.status = statusFor(st.Phase, st.LastError)
	c.priorPhase = st.PriorPhase
	c.lastAnswer = st.LastAnswer
	return c
}

// OnStatus registers a callback invoked on every status change, for a
// surrounding UI to display. The callback runs with the controller locked and
// must not call back into it.
func (c *Controller) OnStatus(fn func(string)) { c.onStatus = fn }

// SetLogger overrides the destination for side-channel warnings.
func (c *Controller) SetLogger(l *log.Logger) { c.logger = l }

// DisableAnnotations turns off the per-answer evaluation side channel.
func (c *Controller) DisableAnnotations() { c.annotateOff = true }

// Start begins the session: valid only from NotStarted. On success the
// opening question is in the transcript and the phase is AwaitingAnswer.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != PhaseNotStarted {
		return &PhaseError{Op: "start", Phase: c.state.Phase}
	}
	if err := c.state.Config.Validate(); err != nil {
		return err
	}

	c.state.AttemptID = uuid.NewString()
	c.state.StartedAt = time.Now().UTC()
	return c.startLocked(ctx)
}

// SubmitAnswer records the user's answer and sends it: valid only from
// AwaitingAnswer. Depending on the service's reply the session either
// continues with a new pending question or completes.
func (c *Controller) SubmitAnswer(ctx context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != PhaseAwaitingAnswer {
		return &PhaseError{Op: "submit answer", Phase: c.state.Phase}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyAnswer
	}

	c.lastQuestion = c.log.LastQuestion()
	if err := c.log.RecordAnswer(text); err != nil {
		return err
	}
	c.lastAnswer = text
	return c.submitLocked(ctx)
}

// Retry re-enters the phase that failed: a failed start is re-attempted, a
// failed submission re-sends the already-recorded answer. The transcript
// accumulated so far is preserved. Valid only from Error.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != PhaseFailed {
		return &PhaseError{Op: "retry", Phase: c.state.Phase}
	}
	c.state.LastError = ""

	switch c.priorPhase {
	case PhaseStarting:
		return c.startLocked(ctx)
	case PhaseSubmitting:
		return c.submitLocked(ctx)
	}
	return &PhaseError{Op: "retry", Phase: c.priorPhase}
}

// Exit ends the session early without further remote calls. Early
// termination is a normal exit: the session transitions to Completed and the
// hand-off snapshots are written. Responses to any in-flight request are
// dropped when they arrive.
func (c *Controller) Exit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase.Terminal() {
		return &PhaseError{Op: "exit", Phase: c.state.Phase}
	}
	c.gen++
	if c.state.CompletionReason == "" {
		c.state.CompletionReason = "ended by user"
	}
	return c.completeLocked()
}

// startLocked runs the start-session exchange. Caller holds the lock; it is
// released for the duration of the network call.
func (c *Controller) startLocked(ctx context.Context) error {
	c.setPhase(PhaseStarting)
	c.saveActive()

	req := api.StartRequest{
		Role:         c.state.Config.Role,
		Seniority:    c.state.Config.Seniority,
		Skills:       c.state.Config.Skills(),
		SkillContext: c.state.Config.SkillContext,
	}

	gen := c.gen
	c.mu.Unlock()
	resp, err := c.remote.StartSession(ctx, req)
	c.mu.Lock()

	if gen != c.gen {
		return nil // session exited while the request was in flight
	}
	if err != nil {
		return c.fail(PhaseStarting, err)
	}
	// A successful reply without a session id (or without an opening
	// question) cannot be worked around client-side: synthesizing either
	// would mask a backend failure.
	if resp.SessionID == "" {
		return c.fail(PhaseStarting, &api.ProtocolError{Op: "start-session", Field: "session_id"})
	}
	if resp.OpeningStatement == "" {
		return c.fail(PhaseStarting, &api.ProtocolError{Op: "start-session", Field: "opening_statement"})
	}

	c.state.SessionID = resp.SessionID
	c.plan = resp.Plan
	c.estimatedMinutes = resp.EstimatedDurationMinutes

	if err := c.log.AppendQuestion(resp.OpeningStatement); err != nil {
		return c.fail(PhaseStarting, err)
	}
	c.setPhase(PhaseAwaitingAnswer)
	c.saveActive()
	return nil
}

// submitLocked runs the submit-answer exchange for the already-recorded
// answer. Caller holds the lock; it is released for the network call.
func (c *Controller) submitLocked(ctx context.Context) error {
	c.setPhase(PhaseSubmitting)
	c.saveActive()

	req := api.SubmitRequest{SessionID: c.state.SessionID, Answer: c.lastAnswer}

	gen := c.gen
	c.mu.Unlock()
	resp, err := c.remote.SubmitAnswer(ctx, req)
	c.mu.Lock()

	if gen != c.gen {
		return nil
	}
	if err != nil {
		return c.fail(PhaseSubmitting, err)
	}

	if !c.annotateOff {
		// Fire-and-forget: may still be running during the next turn, and
		// its failure or late arrival never disturbs the main sequence.
		go c.annotateAnswer(c.lastQuestion, c.lastAnswer, c.historyLocked(), gen)
	}

	outcome := DetectCompletion(resp)
	if outcome.Completed() {
		// The service's final message, when present, closes the transcript.
		if resp.NextQuestion != "" {
			if err := c.log.AppendQuestion(resp.NextQuestion); err != nil {
				return c.fail(PhaseSubmitting, err)
			}
		}
		c.state.CompletionReason = resp.CompletionReason
		c.state.EvidenceSummary = resp.EvidenceSummary
		c.state.CoveragePercentage = resp.CoveragePercentage
		if outcome == OutcomeAmbiguousCompleted && c.state.CompletionReason == "" {
			c.state.CompletionReason = "service ended the interview without an explicit signal"
		}
		return c.completeLocked()
	}

	if err := c.log.AppendQuestion(resp.NextQuestion); err != nil {
		return c.fail(PhaseSubmitting, err)
	}
	c.setPhase(PhaseAwaitingAnswer)
	c.saveActive()
	return nil
}

// completeLocked finalizes duration bookkeeping, transitions to Completed,
// and hands the transcript and config snapshots to the session store. This is
// the single hand-off point to the evaluation pipeline.
func (c *Controller) completeLocked() error {
	now := time.Now().UTC()
	c.state.CompletedAt = &now
	c.state.Entries = c.log.Snapshot()
	c.setPhase(PhaseCompleted)

	if c.store == nil {
		return nil
	}
	if err := c.store.WriteHandoff(c.state.Entries, NewCompletedSession(&c.state, now)); err != nil {
		return err
	}
	return c.store.DeleteActive()
}

// fail records the error, remembers which phase to re-enter on Retry, and
// transitions to Error.
func (c *Controller) fail(prior Phase, err error) error {
	c.priorPhase = prior
	c.state.LastError = err.Error()
	c.setPhase(PhaseFailed)
	c.saveActive()
	return err
}

// annotateAnswer runs the per-answer evaluation side channel. Failures are
// logged and never surfaced, retried, or allowed to interrupt the interview.
func (c *Controller) annotateAnswer(question, answer string, history []api.ConversationTurn, gen int) {
	ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
	defer cancel()

	eval, err := c.remote.EvaluateAnswer(ctx, api.AnswerEvalRequest{
		Answer:              answer,
		Question:            question,
		SkillsToAssess:      c.state.Config.Skills(),
		ConversationHistory: history,
		RoleContext: api.AnswerEvalRoleContext{
			Role:      c.state.Config.Role,
			Seniority: c.state.Config.Seniority,
		},
	})
	if err != nil {
		c.logger.Printf("[annotate] answer evaluation failed (ignored): %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return // session exited; drop the late result
	}
	if err := c.log.Annotate(*eval); err != nil {
		c.logger.Printf("[annotate] could not attach evaluation: %v", err)
	}
}

// historyLocked converts the transcript into the role/content turn list the
// per-answer evaluator expects.
func (c *Controller) historyLocked() []api.ConversationTurn {
	var turns []api.ConversationTurn
	for _, e := range c.log.Snapshot() {
		turns = append(turns, api.ConversationTurn{Role: "interviewer", Content: e.Question})
		if e.Answer != nil {
			turns = append(turns, api.ConversationTurn{Role: "user", Content: *e.Answer})
		}
	}
	return turns
}

// setPhase transitions the state machine and refreshes the observable status
// string.
func (c *Controller) setPhase(p Phase) {
	c.state.Phase = p
	c.status = statusFor(p, c.state.LastError)
	if c.onStatus != nil {
		c.onStatus(c.status)
	}
}

func statusFor(p Phase, lastError string) string {
	switch p {
	case PhaseNotStarted:
		return "not started"
	case PhaseStarting:
		return "starting session…"
	case PhaseAwaitingAnswer:
		return "awaiting your answer"
	case PhaseSubmitting:
		return "submitting answer…"
	case PhaseCompleted:
		return "interview complete"
	case PhaseFailed:
		if lastError != "" {
			return "error: " + lastError
		}
		return "error"
	}
	return string(p)
}

// saveActive persists the in-progress state; best-effort so a disk hiccup
// never breaks a live interview.
func (c *Controller) saveActive() {
	if c.store == nil {
		return
	}
	c.state.Entries = c.log.Snapshot()
	c.state.PriorPhase = c.priorPhase
	c.state.LastAnswer = c.lastAnswer
	if err := c.store.SaveActive(&c.state); err != nil {
		c.logger.Printf("[session] could not persist state: %v", err)
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Phase
}

// Status returns the externally observable status string.
func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Snapshot returns a copy of the current state including transcript entries.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	st.Entries = c.log.Snapshot()
	return st
}

// PendingQuestion returns the question currently awaiting an answer, or ""
// when none is pending.
func (c *Controller) PendingQuestion() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.log.Pending() {
		return c.log.LastQuestion()
	}
	return ""
}

// Plan returns the interview plan echoed by the service at start, if any.
func (c *Controller) Plan() *api.InterviewPlan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plan
}

// EstimatedMinutes returns the service's estimated interview length.
func (c *Controller) EstimatedMinutes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.estimatedMinutes
}

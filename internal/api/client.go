// Package api is the HTTP client for the remote interview assessment
// service. It covers the four endpoints the client consumes: starting a
// session, submitting an answer, whole-interview evaluation, and best-effort
// per-answer evaluation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/ameyrk/intervu/internal/transcript"
)

// DefaultTimeout bounds each request. Evaluation calls can take a while on
// the service side, so this is deliberately generous.
const DefaultTimeout = 90 * time.Second

// Client talks to the assessment service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New returns a Client for the given base URL. apiKey may be empty; when set
// it is sent as a bearer token.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// RequestError wraps a transport-level failure. These are retryable.
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string { return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err) }
func (e *RequestError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response from the service.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.Code, e.Body)
}

// ProtocolError is a successful response that is missing a field the client
// cannot proceed without. It is never patched over with a fabricated value.
type ProtocolError struct {
	Op    string
	Field string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: response missing required field %q", e.Op, e.Field)
}

// Retryable reports whether err is worth retrying: transport failures and
// server-side (5xx) statuses.
func Retryable(err error) bool {
	var re *RequestError
	if errors.As(err, &re) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	return false
}

// StartRequest begins a new interview session.
type StartRequest struct {
	Role         string   `json:"role"`
	Seniority    string   `json:"seniority"`
	Skills       []string `json:"skills"`
	SkillContext string   `json:"skill_context,omitempty"`
}

// InterviewPlan echoes the service's pre-interview planning result.
type InterviewPlan struct {
	Archetype            string   `json:"archetype"`
	Objective            string   `json:"objective"`
	EvaluationDimensions []string `json:"evaluation_dimensions"`
}

// StartResponse is the service's reply to StartSession. SessionID is required;
// the caller must reject a response without one.
type StartResponse struct {
	SessionID                string         `json:"session_id"`
	OpeningStatement         string         `json:"opening_statement"`
	EstimatedDurationMinutes int            `json:"estimated_duration_minutes"`
	Plan                     *InterviewPlan `json:"interview_plan,omitempty"`
}

// SubmitRequest carries one answer back to the service.
type SubmitRequest struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

// SubmitResponse is the service's reply to SubmitAnswer. Either NextQuestion
// or InterviewCompleted is normally present; the completion detector decides
// what a response with neither means.
type SubmitResponse struct {
	NextQuestion       string   `json:"next_question"`
	InterviewCompleted bool     `json:"interview_completed"`
	CompletionReason   string   `json:"completion_reason,omitempty"`
	EvidenceSummary    string   `json:"evidence_summary,omitempty"`
	CoveragePercentage *float64 `json:"coverage_percentage,omitempty"`
}

// EvaluateRequest asks for a whole-interview evaluation.
type EvaluateRequest struct {
	Role       string             `json:"role"`
	Seniority  string             `json:"seniority"`
	Skills     []string           `json:"skills"`
	Transcript []transcript.Entry `json:"transcript"`
}

// AnswerEvalRequest asks for a best-effort assessment of a single answer.
type AnswerEvalRequest struct {
	Answer              string              `json:"answer"`
	Question            string              `json:"question"`
	SkillsToAssess      []string            `json:"skills_to_assess"`
	ConversationHistory []ConversationTurn  `json:"conversation_history"`
	RoleContext         AnswerEvalRoleContext `json:"role_context"`
}

// ConversationTurn is one prior exchange included for evaluation context.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AnswerEvalRoleContext situates the answer being evaluated.
type AnswerEvalRoleContext struct {
	Role      string `json:"role"`
	Seniority string `json:"seniority"`
}

// StartSession creates a new interview session and returns the opening
// statement.
func (c *Client) StartSession(ctx context.Context, req StartRequest) (*StartResponse, error) {
	var resp StartResponse
	if err := c.post(ctx, "start-session", "/api/start-interview", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitAnswer sends the user's answer and returns the service's next move.
func (c *Client) SubmitAnswer(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	var resp SubmitResponse
	if err := c.post(ctx, "submit-answer", "/api/submit-answer", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EvaluateInterview requests a full evaluation of the transcript. The payload
// is returned raw: the service has two response shapes (a legacy flat-score
// form and an enhanced per-dimension form) and the aggregation pipeline owns
// telling them apart.
func (c *Client) EvaluateInterview(ctx context.Context, req EvaluateRequest) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.post(ctx, "evaluate-interview", "/api/evaluate-interview-enhanced", req, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// EvaluateAnswer requests a per-answer assessment. Best-effort: callers log
// failures and move on.
func (c *Client) EvaluateAnswer(ctx context.Context, req AnswerEvalRequest) (*transcript.AnswerEvaluation, error) {
	var resp transcript.AnswerEvaluation
	if err := c.post(ctx, "evaluate-answer", "/api/evaluate-answer", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// post sends a JSON body and decodes a JSON reply into out.
func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, Code: resp.StatusCode, Body: truncate(string(data), 300)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Back off to a rune boundary so the cut never splits a UTF-8 sequence.
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

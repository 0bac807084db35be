package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/ameyrk/intervu/internal/session"
	"github.com/ameyrk/intervu/internal/transcript"
)

// executeCommand runs a cobra command with the given args and captures combined output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

// isolate points HOME and XDG_DATA_HOME at temp dirs so tests never touch
// real state.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("INTERVU_API_URL", "")
	t.Setenv("INTERVU_API_KEY", "")
}

func activeState(t *testing.T) *session.State {
	t.Helper()
	answer := "my answer"
	return &session.State{
		AttemptID: "attempt-1",
		SessionID: "sess-1",
		Phase:     session.PhaseAwaitingAnswer,
		Config:    session.Config{Role: "Backend Engineer", Seniority: "Senior", Skill: "System Design"},
		StartedAt: time.Now().Add(-5 * time.Minute),
		Entries: []transcript.Entry{
			{Question: "Q1", Answer: &answer, Timestamp: time.Now()},
			{Question: "Q2", Timestamp: time.Now()},
		},
	}
}

func TestStatusNoSession(t *testing.T) {
	isolate(t)

	out, err := executeCommand(rootCmd, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "no active interview") {
		t.Errorf("output = %q", out)
	}
}

func TestStatusShowsActiveSession(t *testing.T) {
	isolate(t)

	store, err := session.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.SaveActive(activeState(t)); err != nil {
		t.Fatalf("SaveActive: %v", err)
	}

	out, err := executeCommand(rootCmd, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"awaiting_answer", "Backend Engineer", "Questions answered: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStatusReportsHandoffReady(t *testing.T) {
	isolate(t)

	store, err := session.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	st := activeState(t)
	if err := store.WriteHandoff(st.Entries, session.NewCompletedSession(st, time.Now())); err != nil {
		t.Fatalf("WriteHandoff: %v", err)
	}

	out, err := executeCommand(rootCmd, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "intervu report") {
		t.Errorf("output = %q", out)
	}
}

func TestDoubleStartError(t *testing.T) {
	isolate(t)

	store, err := session.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.SaveActive(activeState(t)); err != nil {
		t.Fatalf("SaveActive: %v", err)
	}

	out, err := executeCommand(rootCmd, "start")
	if err == nil {
		t.Fatal("expected an error from double-start, got nil")
	}
	combined := out + err.Error()
	if !strings.Contains(combined, "interview already in progress") {
		t.Errorf("expected error to mention an in-progress interview, got: %q", combined)
	}
}

func TestAbortNoSession(t *testing.T) {
	isolate(t)

	out, err := executeCommand(rootCmd, "abort")
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !strings.Contains(out+err.Error(), "no active interview") {
		t.Errorf("output = %q, err = %v", out, err)
	}
}

func TestAbortEndsSessionAndWritesHandoff(t *testing.T) {
	isolate(t)

	store, err := session.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.SaveActive(activeState(t)); err != nil {
		t.Fatalf("SaveActive: %v", err)
	}

	out, err := executeCommand(rootCmd, "abort")
	if err != nil {
		t.Fatalf("abort: %v", err)
	}
	if !strings.Contains(out, "1 answered question(s) kept") {
		t.Errorf("output = %q", out)
	}

	if !store.HandoffReady() {
		t.Fatal("handoff not written by abort")
	}
	if _, err := store.LoadActive(); err == nil {
		t.Error("active session still present after abort")
	}

	_, meta, err := store.LoadHandoff()
	if err != nil {
		t.Fatalf("LoadHandoff: %v", err)
	}
	if meta.CompletionReason != "ended by user" {
		t.Errorf("completion reason = %q", meta.CompletionReason)
	}
}

func TestReportNoCompletedInterview(t *testing.T) {
	isolate(t)

	out, err := executeCommand(rootCmd, "report")
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !strings.Contains(out+err.Error(), "no completed interview") {
		t.Errorf("output = %q, err = %v", out, err)
	}
}

func TestReportGeneratesFile(t *testing.T) {
	isolate(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/evaluate-interview-enhanced" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"overall_assessment": map[string]any{
				"overall_score":     4.1,
				"executive_summary": "Strong performance.",
			},
			"dimension_evaluations": map[string]any{
				"Technical Depth": map[string]any{"rating": 4.0, "confidence": "High"},
			},
		})
	}))
	defer srv.Close()
	t.Setenv("INTERVU_API_URL", srv.URL)

	outDir := t.TempDir()
	home := os.Getenv("HOME")
	cfgDir := filepath.Join(home, ".config", "intervu")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgJSON := `{"output_dir": ` + jsonQuote(outDir) + `}`
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte(cfgJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := session.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	st := activeState(t)
	if err := store.WriteHandoff(st.Entries, session.NewCompletedSession(st, time.Now())); err != nil {
		t.Fatalf("WriteHandoff: %v", err)
	}

	out, err := executeCommand(rootCmd, "report", "--format", "json")
	if err != nil {
		t.Fatalf("report: %v\n%s", err, out)
	}
	if !strings.Contains(out, "4.1 / 5") {
		t.Errorf("output missing score: %q", out)
	}

	reportPath := filepath.Join(outDir, "intervu-report-attempt-1.json")
	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("report file is not JSON: %v", err)
	}
	if doc["report"] == nil || doc["transcript"] == nil || doc["meta"] == nil {
		t.Errorf("report document incomplete: %v", doc)
	}
}

func TestViewMissingFile(t *testing.T) {
	isolate(t)

	missing := filepath.Join(t.TempDir(), "nope.md")
	out, err := executeCommand(rootCmd, "view", missing)
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !strings.Contains(out+err.Error(), "file not found") {
		t.Errorf("output = %q, err = %v", out, err)
	}
}

func TestViewRejectsForeignMarkdown(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "other.md")
	if err := os.WriteFile(path, []byte("# Just some notes\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "view", "--plain", path)
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !strings.Contains(out+err.Error(), "not a valid intervu report") {
		t.Errorf("output = %q, err = %v", out, err)
	}
}

func jsonQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

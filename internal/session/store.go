package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ameyrk/intervu/internal/transcript"
)

// ErrNoSession is returned by LoadActive when no session file exists on disk.
var ErrNoSession = errors.New("no active session")

// ErrNoHandoff is returned by LoadHandoff when the completed-session
// snapshots are absent. Report generation treats this as a hard precondition
// failure: the user has to run an interview first.
var ErrNoHandoff = errors.New("no completed session found")

// The two fixed hand-off keys written on session completion, plus the active
// session state. One interview session per data directory at a time.
const (
	activeFile     = "session.json"
	transcriptFile = "transcript.json"
	configFile     = "config.json"
)

// Store persists session state to the XDG data directory.
// Path: $XDG_DATA_HOME/intervu or ~/.local/share/intervu.
type Store struct {
	dir string
}

// NewStore returns a Store backed by the XDG data directory, creating it if
// needed.
func NewStore() (*Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string { return s.dir }

// dataDir returns the intervu-specific XDG data directory.
func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "intervu"), nil
}

// SaveActive writes the active session state atomically.
func (s *Store) SaveActive(st *State) error {
	return s.writeAtomic(activeFile, st)
}

// LoadActive reads the active session state. Returns ErrNoSession if none
// exists.
func (s *Store) LoadActive() (*State, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, activeFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse session state: %w", err)
	}
	return &st, nil
}

// DeleteActive removes the active session file.
func (s *Store) DeleteActive() error {
	if err := os.Remove(filepath.Join(s.dir, activeFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete session state: %w", err)
	}
	return nil
}

// WriteHandoff persists the completed session under the two fixed keys the
// evaluation pipeline reads: the transcript and the session config. A new
// session's hand-off replaces the previous one wholesale.
func (s *Store) WriteHandoff(entries []transcript.Entry, meta *CompletedSession) error {
	if err := s.writeAtomic(transcriptFile, entries); err != nil {
		return err
	}
	return s.writeAtomic(configFile, meta)
}

// LoadHandoff reads back the completed-session snapshots. Both keys must be
// present; a missing one returns ErrNoHandoff.
func (s *Store) LoadHandoff() ([]transcript.Entry, *CompletedSession, error) {
	tdata, err := os.ReadFile(filepath.Join(s.dir, transcriptFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrNoHandoff
		}
		return nil, nil, fmt.Errorf("failed to read transcript snapshot: %w", err)
	}
	cdata, err := os.ReadFile(filepath.Join(s.dir, configFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrNoHandoff
		}
		return nil, nil, fmt.Errorf("failed to read config snapshot: %w", err)
	}

	var entries []transcript.Entry
	if err := json.Unmarshal(tdata, &entries); err != nil {
		return nil, nil, fmt.Errorf("failed to parse transcript snapshot: %w", err)
	}
	var meta CompletedSession
	if err := json.Unmarshal(cdata, &meta); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config snapshot: %w", err)
	}
	return entries, &meta, nil
}

// HandoffReady reports whether both completed-session snapshots exist.
func (s *Store) HandoffReady() bool {
	for _, name := range []string{transcriptFile, configFile} {
		if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
			return false
		}
	}
	return true
}

// ClearHandoff removes the completed-session snapshots.
func (s *Store) ClearHandoff() error {
	for _, name := range []string{transcriptFile, configFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to clear hand-off: %w", err)
		}
	}
	return nil
}

// writeAtomic marshals v and writes it via a temp file + os.Rename so readers
// never observe a partial file.
func (s *Store) writeAtomic(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to persist %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to persist %s: %w", name, err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist %s: %w", name, err)
	}

	if err = os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", name, err)
	}
	return nil
}

// NewCompletedSession assembles the config-side hand-off from final state.
func NewCompletedSession(st *State, completedAt time.Time) *CompletedSession {
	return &CompletedSession{
		AttemptID:          st.AttemptID,
		SessionID:          st.SessionID,
		Config:             st.Config,
		StartedAt:          st.StartedAt,
		CompletedAt:        completedAt,
		DurationSeconds:    int(completedAt.Sub(st.StartedAt).Round(time.Second).Seconds()),
		CompletionReason:   st.CompletionReason,
		EvidenceSummary:    st.EvidenceSummary,
		CoveragePercentage: st.CoveragePercentage,
	}
}

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ameyrk/intervu/internal/session"
)

// opDoneMsg signals that a controller call finished. The model re-reads the
// controller state rather than carrying results in the message.
type opDoneMsg struct{ err error }

// Interview is the Bubble Tea model driving a live interview session.
type Interview struct {
	ctrl *session.Controller

	ta     textarea.Model
	sp     spinner.Model
	vp     viewport.Model
	width  int
	height int
	ready  bool

	// busy is true while a controller call is in flight; input is ignored.
	busy bool
	err  error
}

// NewInterview creates the interview model. Init starts a fresh session;
// resumed controllers pick up in whatever phase they were left.
func NewInterview(ctrl *session.Controller) Interview {
	ta := textarea.New()
	ta.Placeholder = "Type your answer… (ctrl+d to submit)"
	ta.ShowLineNumbers = false
	ta.SetHeight(5)
	ta.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))

	return Interview{ctrl: ctrl, ta: ta, sp: sp}
}

func (m Interview) Init() tea.Cmd {
	cmds := []tea.Cmd{m.sp.Tick, textarea.Blink}
	if m.ctrl.Phase() == session.PhaseNotStarted {
		cmds = append(cmds, m.startCmd())
	}
	return tea.Batch(cmds...)
}

func (m Interview) startCmd() tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: m.ctrl.Start(context.Background())}
	}
}

func (m Interview) submitCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: m.ctrl.SubmitAnswer(context.Background(), text)}
	}
}

func (m Interview) retryCmd() tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: m.ctrl.Retry(context.Background())}
	}
}

func (m Interview) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if !m.ctrl.Phase().Terminal() {
				_ = m.ctrl.Exit()
			}
			return m, tea.Quit
		case "q":
			// q quits only outside the answer box
			if m.ctrl.Phase() != session.PhaseAwaitingAnswer {
				if !m.ctrl.Phase().Terminal() {
					_ = m.ctrl.Exit()
				}
				return m, tea.Quit
			}
		case "r":
			if m.ctrl.Phase() == session.PhaseFailed && !m.busy {
				m.busy = true
				m.err = nil
				return m, m.retryCmd()
			}
		case "ctrl+d":
			if m.ctrl.Phase() == session.PhaseAwaitingAnswer && !m.busy {
				text := strings.TrimSpace(m.ta.Value())
				if text == "" {
					return m, nil
				}
				m.busy = true
				m.ta.Reset()
				m.ta.Blur()
				return m, m.submitCmd(text)
			}
		}
		if m.ctrl.Phase() == session.PhaseAwaitingAnswer && !m.busy {
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		return m, nil

	case opDoneMsg:
		m.busy = false
		m.err = msg.err
		m.refreshConversation()
		switch m.ctrl.Phase() {
		case session.PhaseAwaitingAnswer:
			m.ta.Focus()
			return m, textarea.Blink
		case session.PhaseCompleted:
			return m, nil
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.ta.SetWidth(m.width - 4)
		m.vp = viewport.New(m.width, m.conversationHeight())
		m.refreshConversation()
		return m, nil
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// conversationHeight is the terminal height minus the fixed chrome rows:
// title(1) + status(1) + input block(7).
func (m Interview) conversationHeight() int {
	h := m.height - 9
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Interview) refreshConversation() {
	if !m.ready {
		return
	}
	m.vp.Height = m.conversationHeight()
	m.vp.SetContent(m.renderConversation())
	m.vp.GotoBottom()
}

func (m *Interview) renderConversation() string {
	st := m.ctrl.Snapshot()
	var sb strings.Builder

	if plan := m.ctrl.Plan(); plan != nil {
		banner := plan.Objective
		if mins := m.ctrl.EstimatedMinutes(); mins > 0 {
			banner += fmt.Sprintf("  (~%d min)", mins)
		}
		sb.WriteString(dimStyle.Render("  "+banner) + "\n\n")
	}

	// The snapshot already carries the pending unanswered question as its
	// last entry, so one pass over the entries covers the whole conversation.
	for i, e := range st.Entries {
		sb.WriteString(questionStyle.Render(fmt.Sprintf("  Q%d: ", i+1)))
		sb.WriteString(wrap(e.Question, m.width-8, "      ") + "\n")
		if e.Answered() {
			sb.WriteString(answerStyle.Render("  You: ") + wrap(*e.Answer, m.width-8, "      ") + "\n")
		}
		sb.WriteString("\n")
	}

	if m.ctrl.Phase() == session.PhaseCompleted {
		sb.WriteString("\n" + sectionHeader.Render("  Interview complete.") + "\n")
		if st.CompletionReason != "" {
			sb.WriteString(dimStyle.Render("  "+st.CompletionReason) + "\n")
		}
		if st.CoveragePercentage != nil {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("  Coverage: %.0f%%", *st.CoveragePercentage)) + "\n")
		}
		sb.WriteString(dimStyle.Render("  Run 'intervu report' to generate your evaluation.") + "\n")
	}

	return sb.String()
}

func (m Interview) View() string {
	if !m.ready {
		return "Loading…"
	}

	cfg := m.ctrl.Snapshot().Config
	title := titleStyle.Width(m.width).Render(
		fmt.Sprintf("  intervu  %s · %s · %s", cfg.Role, cfg.Seniority, cfg.Skill))

	var input string
	phase := m.ctrl.Phase()
	switch {
	case phase == session.PhaseFailed:
		input = errStyle.Render("  "+m.ctrl.Status()) + "\n" +
			dimStyle.Render("  press r to retry, q to end the interview")
	case phase == session.PhaseAwaitingAnswer && !m.busy:
		input = m.ta.View()
	case phase.Terminal():
		input = dimStyle.Render("  press q to exit")
	default:
		input = "  " + m.sp.View() + " " + m.ctrl.Status()
	}
	inputBlock := lipgloss.NewStyle().Height(7).Render(input)

	hint := "  ctrl+d submit  esc quit"
	if phase == session.PhaseFailed {
		hint = "  r retry  q end"
	} else if phase.Terminal() {
		hint = "  q exit"
	}
	status := statusBarStyle.Width(m.width).Render(hint)

	return lipgloss.JoinVertical(lipgloss.Left, title, m.vp.View(), inputBlock, status)
}

// RunInterview starts the interactive interview for the given controller.
func RunInterview(ctrl *session.Controller) error {
	p := tea.NewProgram(NewInterview(ctrl), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Package tui provides the Bubble Tea interfaces for intervu: a live
// interview screen and a tabbed viewer for evaluation reports.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ameyrk/intervu/internal/report"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	// Active tab: bright, underlined
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	// Inactive tab: muted
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	// Separator between tabs
	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	// Section heading inside a tab
	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	// Key=value label
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	bulletStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	scoreGoodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreMidStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	scoreLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	barFillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabSummary tabID = iota
	tabDimensions
	tabChart
	tabActions
	tabTranscript
	tabCount
)

var tabNames = [tabCount]string{
	"Summary", "Dimensions", "Chart", "Action Items", "Transcript",
}

// ── Viewer model ────────────────────

// Viewer is the root Bubble Tea model for browsing a saved evaluation report.
type Viewer struct {
	doc       *report.Document
	view      report.View
	filename  string
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
}

// NewViewer creates a viewer model for the given report document and source filename.
func NewViewer(doc *report.Document, filename string) Viewer {
	return Viewer{
		doc:      doc,
		view:     report.BuildView(doc.Report),
		filename: filepath.Base(filename),
	}
}

// ── Bubble Tea interface ───────────────

func (m Viewer) Init() tea.Cmd { return nil }

func (m Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3", "4", "5":
			m.activeTab = tabID(msg.String()[0] - '1')
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Viewer) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  intervu  " + m.filename)

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  1-5 jump  q quit"
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Viewer) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Viewer) renderTab(t tabID) string {
	switch t {
	case tabSummary:
		return m.renderSummary()
	case tabDimensions:
		return m.renderDimensions()
	case tabChart:
		return m.renderChart()
	case tabActions:
		return m.renderActions()
	case tabTranscript:
		return m.renderTranscript()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func bullet(text string) string {
	return bulletStyle.Render("  •") + "  " + text + "\n"
}

func scoreStyleFor(score float64) lipgloss.Style {
	switch {
	case score >= 3.5:
		return scoreGoodStyle
	case score >= 2.5:
		return scoreMidStyle
	default:
		return scoreLowStyle
	}
}

func (m *Viewer) renderSummary() string {
	var sb strings.Builder
	sb.WriteString(heading("Overall"))

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-14s", label)) + "  " + value + "\n")
	}

	if m.view.ScoreAvailable {
		score := *m.doc.Report.OverallScore
		row("Score:", scoreStyleFor(score).Render(m.view.ScoreText)+"  "+m.view.ScoreLabel)
	} else {
		row("Score:", dimStyle.Render(m.view.ScoreText))
	}

	if meta := m.doc.Meta; meta != nil {
		row("Role:", meta.Config.Role)
		row("Seniority:", meta.Config.Seniority)
		row("Skill:", meta.Config.Skill)
		row("Duration:", fmt.Sprintf("%d min", meta.DurationSeconds/60))
		if meta.CompletionReason != "" {
			row("Ended:", meta.CompletionReason)
		}
		if meta.CoveragePercentage != nil {
			row("Coverage:", fmt.Sprintf("%.0f%%", *meta.CoveragePercentage))
		}
	}

	sb.WriteString(heading("Executive Summary"))
	sb.WriteString("  " + wrap(m.view.Summary, m.width-4, "  ") + "\n")

	sb.WriteString(heading("Counts"))
	row("Dimensions:", fmt.Sprintf("%d", len(m.view.Cards)))
	row("Action Items:", fmt.Sprintf("%d", len(m.view.ActionItems)))
	row("Questions:", fmt.Sprintf("%d", len(m.doc.Transcript)))
	return sb.String()
}

func (m *Viewer) renderDimensions() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Dimensions (%d)", len(m.view.Cards))))
	if len(m.view.Cards) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for _, card := range m.view.Cards {
		score := scoreStyleFor(card.Rating).Render(fmt.Sprintf("%.1f/5", card.Rating))
		sb.WriteString(sectionHeader.Render("  "+card.Name) + "  " + score +
			dimStyle.Render("  ("+string(card.Confidence)+" confidence)") + "\n\n")
		if card.Assessment != "" {
			sb.WriteString("  " + wrap(card.Assessment, m.width-4, "  ") + "\n\n")
		}
		if len(card.Strengths) > 0 {
			sb.WriteString(labelStyle.Render("  Strengths") + "\n")
			for _, s := range card.Strengths {
				sb.WriteString(bullet(s))
			}
			sb.WriteString("\n")
		}
		if len(card.Improvements) > 0 {
			sb.WriteString(labelStyle.Render("  Areas for Improvement") + "\n")
			for _, s := range card.Improvements {
				sb.WriteString(bullet(s))
			}
			sb.WriteString("\n")
		}
		if len(card.EvidenceQuotes) > 0 {
			sb.WriteString(labelStyle.Render("  Evidence") + "\n")
			for _, q := range card.EvidenceQuotes {
				sb.WriteString(dimStyle.Render("  > "+q) + "\n")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// renderChart draws a horizontal bar per dimension scaled to a 0–5 rating.
func (m *Viewer) renderChart() string {
	var sb strings.Builder
	sb.WriteString(heading("Scores by Dimension"))
	if len(m.view.Radial) == 0 {
		sb.WriteString(dimStyle.Render("  (no dimension scores)") + "\n")
		return sb.String()
	}

	maxLabel := 0
	for _, p := range m.view.Radial {
		if len(p.Label) > maxLabel {
			maxLabel = len(p.Label)
		}
	}
	barWidth := m.width - maxLabel - 16
	if barWidth < 10 {
		barWidth = 10
	}

	for _, p := range m.view.Radial {
		filled := int(p.Rating / 5.0 * float64(barWidth))
		if filled > barWidth {
			filled = barWidth
		}
		if filled < 0 {
			filled = 0
		}
		bar := barFillStyle.Render(strings.Repeat("█", filled)) +
			barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
		score := scoreStyleFor(p.Rating).Render(fmt.Sprintf("%.1f", p.Rating))
		sb.WriteString(fmt.Sprintf("  %-*s  %s  %s\n\n", maxLabel, p.Label, bar, score))
	}
	return sb.String()
}

func (m *Viewer) renderActions() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Action Items (%d)", len(m.view.ActionItems))))
	if len(m.view.ActionItems) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for i, item := range m.view.ActionItems {
		num := dimStyle.Render(fmt.Sprintf("  %2d.", i+1))
		badge := priorityStyle(item.Priority).Render("[" + strings.ToUpper(string(item.Priority)) + "]")
		sb.WriteString(num + " " + badge + "  " + sectionHeader.Render(item.Title) + "\n")
		if item.Description != "" {
			sb.WriteString("      " + wrap(item.Description, m.width-8, "      ") + "\n")
		}
		if item.ExpectedOutcome != "" {
			sb.WriteString(labelStyle.Render("      Expected:") + "  " + item.ExpectedOutcome + "\n")
		}
		if item.Timeframe != "" {
			sb.WriteString(labelStyle.Render("      Timeframe:") + " " + item.Timeframe + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func priorityStyle(p report.Priority) lipgloss.Style {
	switch p {
	case report.PriorityCritical, report.PriorityHigh:
		return scoreLowStyle
	case report.PriorityMedium:
		return scoreMidStyle
	default:
		return dimStyle
	}
}

func (m *Viewer) renderTranscript() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Transcript (%d questions)", len(m.doc.Transcript))))
	if len(m.doc.Transcript) == 0 {
		sb.WriteString(dimStyle.Render("  (empty)") + "\n")
		return sb.String()
	}
	for i, e := range m.doc.Transcript {
		ts := timeStyle.Render(e.Timestamp.Format("15:04:05"))
		sb.WriteString(fmt.Sprintf("  %s  %s\n", ts, questionStyle.Render(fmt.Sprintf("Q%d: %s", i+1, e.Question))))
		if e.Answered() {
			sb.WriteString("            " + answerStyle.Render(wrap(*e.Answer, m.width-14, "            ")) + "\n")
		} else {
			sb.WriteString("            " + dimStyle.Render("(unanswered)") + "\n")
		}
		if e.Evaluation != nil && e.Evaluation.Feedback != "" {
			sb.WriteString(dimStyle.Render("            ↳ "+e.Evaluation.Feedback) + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// wrap soft-wraps text to the given width, prefixing continuation lines.
func wrap(text string, width int, prefix string) string {
	if width < 20 {
		width = 20
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}
	var sb strings.Builder
	lineLen := 0
	for i, w := range words {
		if i > 0 {
			if lineLen+1+len(w) > width {
				sb.WriteString("\n" + prefix)
				lineLen = 0
			} else {
				sb.WriteString(" ")
				lineLen++
			}
		}
		sb.WriteString(w)
		lineLen += len(w)
	}
	return sb.String()
}

// RunViewer starts the report viewer TUI for the given document.
func RunViewer(doc *report.Document, filename string) error {
	p := tea.NewProgram(NewViewer(doc, filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

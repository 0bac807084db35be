package report

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ameyrk/intervu/internal/session"
	"github.com/ameyrk/intervu/internal/transcript"
)

// Document is the complete, renderable record of one evaluated interview:
// session metadata, the transcript, and the normalized report.
type Document struct {
	Meta        *session.CompletedSession `json:"meta"`
	Transcript  []transcript.Entry        `json:"transcript"`
	Report      *Report                   `json:"report"`
	GeneratedAt time.Time                 `json:"generated_at"`
}

// Renderer serializes a Document to bytes.
type Renderer interface {
	Render(doc *Document) ([]byte, error)
}

// JSONRenderer renders a Document as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// MarkdownRenderer renders a Document as human-readable Markdown with an
// embedded base64 JSON payload for lossless round-trip parsing.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(doc *Document) ([]byte, error) {
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(jsonBytes)

	view := BuildView(doc.Report)

	var sb strings.Builder

	// Sentinel and embedded payload.
	sb.WriteString("<!-- intervu-report-version: 1 -->\n")
	fmt.Fprintf(&sb, "<!-- intervu-data: %s -->\n\n", encoded)

	// Title.
	title := "Interview Report"
	if doc.Meta != nil {
		title = fmt.Sprintf("Interview Report — %s (%s)", doc.Meta.Config.Role, doc.Meta.Config.Seniority)
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	// ## Overall
	sb.WriteString("## Overall\n\n")
	if view.ScoreAvailable {
		fmt.Fprintf(&sb, "- Score: %s — **%s**\n", view.ScoreText, view.ScoreLabel)
	} else {
		sb.WriteString("- Score: _unavailable — the evaluation did not include an overall score_\n")
	}
	if doc.Meta != nil {
		fmt.Fprintf(&sb, "- Skill: %s\n", doc.Meta.Config.Skill)
		fmt.Fprintf(&sb, "- Duration: %ds\n", doc.Meta.DurationSeconds)
		if doc.Meta.CompletionReason != "" {
			fmt.Fprintf(&sb, "- Completion: %s\n", doc.Meta.CompletionReason)
		}
		if doc.Meta.CoveragePercentage != nil {
			fmt.Fprintf(&sb, "- Coverage: %.0f%%\n", *doc.Meta.CoveragePercentage)
		}
	}
	sb.WriteString("\n")

	// ## Summary
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "%s\n\n", view.Summary)

	// ## Dimensions
	sb.WriteString("## Dimensions\n\n")
	if len(view.Cards) == 0 {
		sb.WriteString("_No per-dimension ratings in this evaluation._\n")
	} else {
		for _, card := range view.Cards {
			fmt.Fprintf(&sb, "### %s — %.1f/5 (%s, confidence %s)\n\n",
				card.Name, card.Rating, card.RatingLabel, card.Confidence)
			if card.Assessment != "" {
				fmt.Fprintf(&sb, "%s\n\n", card.Assessment)
			}
			writeList(&sb, "Strengths", card.Strengths)
			writeList(&sb, "Improvements", card.Improvements)
			writeQuotes(&sb, card.EvidenceQuotes)
		}
	}
	sb.WriteString("\n")

	// ## Action Items
	sb.WriteString("## Action Items\n\n")
	if len(view.ActionItems) == 0 {
		sb.WriteString("_No action items._\n")
	} else {
		for i, item := range view.ActionItems {
			fmt.Fprintf(&sb, "%d. **%s** [%s / %s]\n", i+1, item.Title, item.Priority, item.Category)
			if item.Description != "" {
				fmt.Fprintf(&sb, "   %s\n", item.Description)
			}
			for _, ev := range item.Evidence {
				fmt.Fprintf(&sb, "   > %s\n", ev)
			}
		}
	}
	sb.WriteString("\n")

	// ## Transcript
	sb.WriteString("## Transcript\n\n")
	if len(doc.Transcript) == 0 {
		sb.WriteString("_Empty transcript._\n")
	} else {
		for i, e := range doc.Transcript {
			fmt.Fprintf(&sb, "**Q%d.** %s\n\n", i+1, e.Question)
			if e.Answer != nil {
				fmt.Fprintf(&sb, "**A.** %s\n\n", *e.Answer)
			} else {
				sb.WriteString("_(no answer)_\n\n")
			}
		}
	}

	return []byte(sb.String()), nil
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", heading)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
	sb.WriteString("\n")
}

func writeQuotes(sb *strings.Builder, quotes []string) {
	if len(quotes) == 0 {
		return
	}
	sb.WriteString("Evidence:\n")
	for _, q := range quotes {
		fmt.Fprintf(sb, "> %s\n", q)
	}
	sb.WriteString("\n")
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ameyrk/intervu/internal/report"
	"github.com/ameyrk/intervu/internal/tui"
)

var plainOutput bool

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Browse a saved evaluation report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", path)
			}
			return err
		}

		var parser report.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			parser = &report.JSONParser{}
		default:
			parser = &report.MarkdownParser{}
		}

		doc, err := parser.Parse(data)
		if err != nil {
			return err
		}

		if plainOutput {
			printReport(doc)
			return nil
		}
		return tui.RunViewer(doc, path)
	},
}

// printReport writes a plain-text rendering of the report to stdout.
func printReport(doc *report.Document) {
	view := report.BuildView(doc.Report)

	fmt.Println("## Overall")
	if view.ScoreAvailable {
		fmt.Printf("  Score:     %s — %s\n", view.ScoreText, view.ScoreLabel)
	} else {
		fmt.Printf("  Score:     %s\n", view.ScoreText)
	}
	if meta := doc.Meta; meta != nil {
		fmt.Printf("  Role:      %s (%s)\n", meta.Config.Role, meta.Config.Seniority)
		fmt.Printf("  Skill:     %s\n", meta.Config.Skill)
		fmt.Printf("  Duration:  %d min\n", meta.DurationSeconds/60)
		if meta.CompletionReason != "" {
			fmt.Printf("  Ended:     %s\n", meta.CompletionReason)
		}
	}
	fmt.Println()

	fmt.Println("## Summary")
	fmt.Printf("  %s\n", view.Summary)
	fmt.Println()

	fmt.Println("## Dimensions")
	if len(view.Cards) == 0 {
		fmt.Println("  (none)")
	} else {
		for _, card := range view.Cards {
			fmt.Printf("  %s: %.1f/5 (%s, %s confidence)\n", card.Name, card.Rating, card.RatingLabel, card.Confidence)
			if card.Assessment != "" {
				fmt.Printf("    %s\n", card.Assessment)
			}
			for _, s := range card.Strengths {
				fmt.Printf("    + %s\n", s)
			}
			for _, s := range card.Improvements {
				fmt.Printf("    - %s\n", s)
			}
		}
	}
	fmt.Println()

	fmt.Println("## Action Items")
	if len(view.ActionItems) == 0 {
		fmt.Println("  (none)")
	} else {
		for i, item := range view.ActionItems {
			fmt.Printf("  %d. [%s] %s\n", i+1, item.Priority, item.Title)
			if item.Description != "" {
				fmt.Printf("     %s\n", item.Description)
			}
		}
	}
	fmt.Println()

	fmt.Println("## Transcript")
	if len(doc.Transcript) == 0 {
		fmt.Println("  (empty)")
	} else {
		for i, e := range doc.Transcript {
			fmt.Printf("  Q%d: %s\n", i+1, e.Question)
			if e.Answered() {
				fmt.Printf("      %s\n", *e.Answer)
			} else {
				fmt.Println("      (unanswered)")
			}
		}
	}
	fmt.Println()
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "plain text output instead of TUI")
	rootCmd.AddCommand(viewCmd)
}

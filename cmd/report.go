package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/ameyrk/intervu/internal/api"
	"github.com/ameyrk/intervu/internal/report"
	"github.com/ameyrk/intervu/internal/session"
)

var (
	reportFormat string
	reportWait   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Evaluate the last completed interview and write a report file",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore()
		if err != nil {
			return err
		}

		if !store.HandoffReady() {
			if !reportWait {
				return fmt.Errorf("no completed interview found (finish one with 'intervu start', or use --wait)")
			}
			cmd.Println("Waiting for an interview to complete…")
			if err := session.WaitForHandoff(cmd.Context(), store); err != nil {
				return err
			}
		}

		entries, meta, err := store.LoadHandoff()
		if err != nil {
			return err
		}

		// Pre-flight: never hit the network with a request that cannot
		// produce a valid evaluation.
		req, err := report.BuildEvaluationRequest(meta, entries)
		if err != nil {
			return err
		}

		cfg := GetConfig()
		client := api.New(cfg.APIBaseURL, cfg.APIKey)

		cmd.Println("Requesting evaluation…")
		ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
		defer cancel()
		raw, err := client.EvaluateInterview(ctx, req)
		if err != nil {
			if api.Retryable(err) {
				return fmt.Errorf("%w (transient — run 'intervu report' again to retry)", err)
			}
			return err
		}

		rep, err := report.Normalize(raw)
		if err != nil {
			return err
		}

		doc := &report.Document{
			Meta:        meta,
			Transcript:  entries,
			Report:      rep,
			GeneratedAt: time.Now(),
		}

		// Select renderer based on --format flag or config DefaultFormat.
		format := reportFormat
		if format == "" {
			format = cfg.DefaultFormat
		}

		var renderer report.Renderer
		ext := ".md"
		if format == "json" {
			renderer = &report.JSONRenderer{}
			ext = ".json"
		} else {
			renderer = &report.MarkdownRenderer{}
		}

		data, err := renderer.Render(doc)
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}

		outputDir := cfg.OutputDir
		if outputDir == "" {
			outputDir = "."
		}
		outputPath := filepath.Join(outputDir, "intervu-report-"+meta.AttemptID+ext)
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("write report file: %w", err)
		}

		view := report.BuildView(rep)
		if view.ScoreAvailable {
			cmd.Printf("Overall: %s — %s\n", view.ScoreText, view.ScoreLabel)
		} else {
			cmd.Printf("Overall: %s\n", view.ScoreText)
		}
		cmd.Printf("Report written: %s\n", outputPath)
		cmd.Printf("Browse it with: intervu view %s\n", outputPath)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "", "output format: markdown or json (overrides config)")
	reportCmd.Flags().BoolVar(&reportWait, "wait", false, "watch for an interview to complete, then report")
	rootCmd.AddCommand(reportCmd)
}

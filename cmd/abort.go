package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ameyrk/intervu/internal/api"
	"github.com/ameyrk/intervu/internal/session"
	"github.com/ameyrk/intervu/internal/transcript"
)

var abortCmd = &cobra.Command{
	Use:   "abort",
	Short: "End the current interview early, keeping the transcript",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore()
		if err != nil {
			return err
		}

		st, err := store.LoadActive()
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				return fmt.Errorf("no active interview")
			}
			return err
		}

		cfg := GetConfig()
		ctrl := session.ResumeController(api.New(cfg.APIBaseURL, cfg.APIKey), store, st)
		if err := ctrl.Exit(); err != nil {
			return err
		}

		answered := transcript.AnsweredCount(ctrl.Snapshot().Entries)
		cmd.Printf("Interview ended. %d answered question(s) kept.\n", answered)
		if answered > 0 {
			cmd.Println("Run 'intervu report' to generate your evaluation.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(abortCmd)
}

package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/ameyrk/intervu/internal/session"
	"github.com/ameyrk/intervu/internal/transcript"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current interview session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore()
		if err != nil {
			return err
		}

		st, err := store.LoadActive()
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				if store.HandoffReady() {
					cmd.Println("no active interview")
					cmd.Println("a completed interview is ready — run 'intervu report'")
					return nil
				}
				cmd.Println("no active interview")
				return nil
			}
			return err
		}

		cmd.Printf("Phase: %s\n", st.Phase)
		cmd.Printf("Role: %s (%s) — %s\n", st.Config.Role, st.Config.Seniority, st.Config.Skill)
		cmd.Printf("Started: %s\n", st.StartedAt.Format(time.RFC3339))
		cmd.Printf("Duration: %s\n", time.Since(st.StartedAt).Round(time.Second).String())
		cmd.Printf("Questions answered: %d\n", transcript.AnsweredCount(st.Entries))
		if st.Phase == session.PhaseFailed && st.LastError != "" {
			cmd.Printf("Last error: %s\n", st.LastError)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

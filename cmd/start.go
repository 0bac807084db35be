package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/ameyrk/intervu/internal/api"
	"github.com/ameyrk/intervu/internal/session"
	"github.com/ameyrk/intervu/internal/transcript"
	"github.com/ameyrk/intervu/internal/tui"
)

var (
	startRole      string
	startSeniority string
	startSkill     string
	startContext   string
	startPlain     bool
	startResume    bool
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Begin a new interview session",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore()
		if err != nil {
			return err
		}

		cfg := GetConfig()
		client := api.New(cfg.APIBaseURL, cfg.APIKey)

		prior, err := store.LoadActive()
		if err != nil && !errors.Is(err, session.ErrNoSession) {
			return err
		}

		var ctrl *session.Controller
		if prior != nil {
			if !startResume {
				return fmt.Errorf("interview already in progress (started at %s) — resume with --resume or end it with 'intervu abort'",
					prior.StartedAt.Format(time.RFC3339))
			}
			ctrl = session.ResumeController(client, store, prior)
		} else {
			sessCfg := session.Config{
				Role:         firstNonEmpty(startRole, cfg.DefaultRole),
				Seniority:    firstNonEmpty(startSeniority, cfg.DefaultSeniority),
				Skill:        firstNonEmpty(startSkill, cfg.DefaultSkill),
				SkillContext: startContext,
			}
			if err := sessCfg.Validate(); err != nil {
				return fmt.Errorf("%w (pass --role/--seniority/--skill or run 'intervu setup')", err)
			}
			ctrl = session.NewController(client, store, sessCfg)
		}

		if cfg.NoAnnotations {
			ctrl.DisableAnnotations()
		}

		if startPlain || !term.IsTerminal(os.Stdin.Fd()) {
			return runPlainInterview(ctrl)
		}
		return tui.RunInterview(ctrl)
	},
}

// runPlainInterview drives the interview over plain stdin/stdout: print the
// question, read one line, submit. Used for non-TTY stdin and --plain.
func runPlainInterview(ctrl *session.Controller) error {
	ctx := context.Background()

	if ctrl.Phase() == session.PhaseNotStarted {
		fmt.Println("Starting interview…")
		if err := ctrl.Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}

	if plan := ctrl.Plan(); plan != nil && plan.Objective != "" {
		fmt.Printf("\n%s\n", plan.Objective)
	}
	if mins := ctrl.EstimatedMinutes(); mins > 0 {
		fmt.Printf("Estimated duration: %d minutes.\n", mins)
	}
	fmt.Println("Answer each question on one line. Type /exit to end early.")

	sc := bufio.NewScanner(os.Stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		switch ctrl.Phase() {
		case session.PhaseAwaitingAnswer:
			n := transcript.AnsweredCount(ctrl.Snapshot().Entries) + 1
			fmt.Printf("\nQ%d: %s\n\n> ", n, ctrl.PendingQuestion())
			if !sc.Scan() {
				// EOF ends the interview like /exit.
				_ = ctrl.Exit()
				continue
			}
			answer := strings.TrimSpace(sc.Text())
			if answer == "/exit" {
				_ = ctrl.Exit()
				continue
			}
			if err := ctrl.SubmitAnswer(ctx, answer); err != nil {
				if errors.Is(err, session.ErrEmptyAnswer) {
					fmt.Println("(please enter an answer)")
					continue
				}
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}

		case session.PhaseFailed:
			st := ctrl.Snapshot()
			fmt.Fprintf(os.Stderr, "\n%s\n", st.LastError)
			fmt.Print("Retry? [y/N] ")
			if !sc.Scan() || !strings.EqualFold(strings.TrimSpace(sc.Text()), "y") {
				_ = ctrl.Exit()
				continue
			}
			if err := ctrl.Retry(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}

		case session.PhaseCompleted:
			st := ctrl.Snapshot()
			fmt.Println("\nInterview complete.")
			if st.CompletionReason != "" {
				fmt.Printf("  %s\n", st.CompletionReason)
			}
			if st.CoveragePercentage != nil {
				fmt.Printf("  Coverage: %.0f%%\n", *st.CoveragePercentage)
			}
			fmt.Printf("  Questions answered: %d\n", transcript.AnsweredCount(st.Entries))
			fmt.Println("Run 'intervu report' to generate your evaluation.")
			return nil

		default:
			// transient phase between calls; nothing to do
			return nil
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	startCmd.Flags().StringVar(&startRole, "role", "", "role to interview for (e.g. \"Backend Engineer\")")
	startCmd.Flags().StringVar(&startSeniority, "seniority", "", "seniority level (e.g. \"Senior\")")
	startCmd.Flags().StringVar(&startSkill, "skill", "", "skill to assess (e.g. \"System Design\")")
	startCmd.Flags().StringVar(&startContext, "context", "", "free-form context narrowing the skill focus")
	startCmd.Flags().BoolVar(&startPlain, "plain", false, "plain stdin/stdout loop instead of the TUI")
	startCmd.Flags().BoolVar(&startResume, "resume", false, "resume an interrupted interview")
	rootCmd.AddCommand(startCmd)
}

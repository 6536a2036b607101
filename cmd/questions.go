package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/thinxi/thinxi-admin/internal/difficulty"
	"github.com/thinxi/thinxi-admin/internal/metrics"
	"github.com/thinxi/thinxi-admin/internal/questions"
	"github.com/thinxi/thinxi-admin/internal/ui/theme"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the trivia categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		counts, _ := cmd.Flags().GetBool("counts")
		out := cmd.OutOrStdout()

		var svc *questions.Service
		if counts {
			b, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()
			svc = b.questions()
		}

		lipgloss.Fprintf(out, "%-4s  %-28s", "Code", "Name")
		if counts {
			lipgloss.Fprintf(out, "  %9s  %s", "Questions", "Next")
		}
		lipgloss.Fprintln(out)
		lipgloss.Fprintln(out, strings.Repeat("─", 56))

		for _, c := range questions.Categories() {
			lipgloss.Fprintf(out, "%-4s  %-28s", c.ID, c.Name)
			if counts {
				qs, err := svc.ListByCategory(cmd.Context(), c.ID)
				if err != nil {
					return fmt.Errorf("count %s: %w", c.Name, err)
				}
				next, err := svc.NextNumber(cmd.Context(), c.ID)
				if err != nil {
					return fmt.Errorf("number %s: %w", c.Name, err)
				}
				lipgloss.Fprintf(out, "  %9d  %s", len(qs), next)
			}
			lipgloss.Fprintln(out)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list <category>",
	Short: "List the questions of a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := questions.LookupCategory(args[0])
		if err != nil {
			return err
		}

		b, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		qs, err := b.questions().ListByCategory(cmd.Context(), cat.ID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(qs) == 0 {
			lipgloss.Fprintf(out, "No questions in %s.\n", cat.Name)
			return nil
		}

		lipgloss.Fprintf(out, "%-22s  %4s  %7s  %7s  %s\n", "ID", "Diff", "Correct", "Wrong", "Question")
		lipgloss.Fprintln(out, strings.Repeat("─", 100))
		for _, q := range qs {
			lipgloss.Fprintf(out, "%-22s  %4s  %7d  %7d  %s\n",
				q.ID,
				theme.DifficultyStyle(q.Difficulty).Render(fmt.Sprintf("%4d", q.Difficulty)),
				q.AnswerStats.Correct,
				q.AnswerStats.Wrong,
				truncate(q.Question, 52),
			)
		}
		lipgloss.Fprintf(out, "\n%d questions\n", len(qs))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		q, err := b.questions().Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printQuestion(cmd.OutOrStdout(), q)
		return nil
	},
}

func printQuestion(out io.Writer, q *questions.Question) {
	lipgloss.Fprintf(out, "ID:          %s\n", q.ID)
	lipgloss.Fprintf(out, "Category:    %s (%s)\n", q.Category, q.CategoryID)
	lipgloss.Fprintf(out, "Difficulty:  %d\n", q.Difficulty)
	lipgloss.Fprintf(out, "Answers:     %d correct / %d wrong (%.0f%%)\n",
		q.AnswerStats.Correct, q.AnswerStats.Wrong, q.AnswerStats.Accuracy())
	lipgloss.Fprintln(out)
	lipgloss.Fprintln(out, theme.Body.Bold(true).Render(q.Question))
	for i, opt := range q.Options {
		line := fmt.Sprintf("  %c)  %s", 'A'+i, opt)
		if i == q.Correct {
			line = theme.Correct.Render(line + "  ✓")
		}
		lipgloss.Fprintln(out, line)
	}
}

var answerCmd = &cobra.Command{
	Use:   "answer <id>",
	Short: "Record a player answer and re-grade the question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		correct, _ := cmd.Flags().GetBool("correct")

		b, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		adj, err := b.questions().RecordAnswer(cmd.Context(), args[0], correct)
		if err != nil {
			return err
		}
		printAdjustment(cmd.OutOrStdout(), adj)
		return nil
	},
}

var adjustCmd = &cobra.Command{
	Use:   "adjust [id...]",
	Short: "Re-grade question difficulty from answer stats",
	Long: "Re-grades the given questions, or every question of --category. Questions with\n" +
		"fewer than 20 answers keep their difficulty. Running it again without new\n" +
		"answers changes nothing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		metricsFile, _ := cmd.Flags().GetString("metrics-file")
		if metricsFile == "" {
			metricsFile = settings.Generate.MetricsFile
		}
		if category == "" && len(args) == 0 {
			return errors.New("give question ids or --category")
		}

		b, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()
		svc := b.questions()

		ids := append([]string(nil), args...)
		if category != "" {
			cat, err := questions.LookupCategory(category)
			if err != nil {
				return err
			}
			qs, err := svc.ListByCategory(cmd.Context(), cat.ID)
			if err != nil {
				return err
			}
			for _, q := range qs {
				ids = append(ids, q.ID)
			}
		}

		m := metrics.New()
		out := cmd.OutOrStdout()
		var changed, failed int
		for _, id := range ids {
			adj, err := svc.AdjustDifficulty(cmd.Context(), id)
			if err != nil {
				failed++
				lipgloss.Fprintf(out, "%s: %s\n", id, theme.Incorrect.Render(err.Error()))
				if cmd.Context().Err() != nil {
					return err
				}
				continue
			}
			m.ObserveAdjustment(adj)
			if adj.Changed {
				changed++
			}
			printAdjustment(out, adj)
		}
		lipgloss.Fprintf(out, "\n%d re-graded, %d changed, %d failed\n", len(ids)-failed, changed, failed)

		if metricsFile != "" {
			if err := m.WriteToTextfile(metricsFile); err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d questions could not be re-graded", failed, len(ids))
		}
		return nil
	},
}

func printAdjustment(out io.Writer, adj *questions.Adjustment) {
	s := adj.Stats
	stats := fmt.Sprintf("%d/%d correct (%.1f%%)", s.Correct, s.Total(), s.Accuracy())

	var verdict string
	switch {
	case adj.Gated:
		verdict = theme.Dim.Render(fmt.Sprintf("held at %d (needs %d answers)", adj.Current, difficulty.MinSample))
	case adj.Settled:
		verdict = theme.Dim.Render(fmt.Sprintf("settled at %d", adj.Current))
	case adj.Changed:
		verdict = theme.Warning.Render(fmt.Sprintf("%d → %d", adj.Previous, adj.Current))
	default:
		verdict = fmt.Sprintf("stays %d", adj.Current)
	}
	lipgloss.Fprintf(out, "%-22s  %-24s  %s\n", adj.QuestionID, stats, verdict)
}

func init() {
	categoriesCmd.Flags().Bool("counts", false, "Show stored question counts and next number")

	answerCmd.Flags().Bool("correct", false, "The player answered correctly")
	answerCmd.Flags().Bool("wrong", false, "The player answered wrongly")
	answerCmd.MarkFlagsOneRequired("correct", "wrong")
	answerCmd.MarkFlagsMutuallyExclusive("correct", "wrong")

	adjustCmd.Flags().StringP("category", "c", "", "Re-grade every question of this category code")
	adjustCmd.Flags().String("metrics-file", "", "Write Prometheus counters to this file")
}

package cmd

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thinxi/thinxi-admin/internal/metrics"
	"github.com/thinxi/thinxi-admin/internal/questiongen"
	"github.com/thinxi/thinxi-admin/internal/questions"
	"github.com/thinxi/thinxi-admin/internal/ui/theme"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new questions with the text model",
	Long: "Asks the configured text model for new questions and saves the ones that\n" +
		"parse, validate and are not already stored. Each round picks a random\n" +
		"category unless --category is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		g := settings.Generate
		flags := cmd.Flags()
		if flags.Changed("count") {
			g.Count, _ = flags.GetInt("count")
		}
		if flags.Changed("category") {
			g.Category, _ = flags.GetString("category")
		}
		if flags.Changed("rate") {
			g.Rate, _ = flags.GetFloat64("rate")
		}
		if flags.Changed("structured") {
			g.StructuredOutput, _ = flags.GetBool("structured")
		}
		if flags.Changed("metrics-file") {
			g.MetricsFile, _ = flags.GetString("metrics-file")
		}
		if g.Count < 1 {
			return fmt.Errorf("count must be at least 1")
		}
		if g.Category != "" {
			if _, err := questions.LookupCategory(g.Category); err != nil {
				return err
			}
		}

		b, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		provider, err := b.provider(cmd.Context())
		if err != nil {
			return err
		}

		genCfg := questiongen.DefaultConfig()
		genCfg.MaxTokens = g.MaxTokens
		genCfg.Temperature = g.Temperature
		genCfg.MaxPriorQuestions = g.MaxPriorQuestions
		genCfg.StructuredOutput = g.StructuredOutput
		genCfg.Timeout = settings.LLM.Timeout

		m := metrics.New()
		h := questions.NewHarvester(
			b.questions(),
			questiongen.New(provider, genCfg),
			log,
			questions.HarvestConfig{CategoryID: g.Category, Rate: g.Rate},
			m,
		)

		log.Info("generating questions",
			zap.Int("count", g.Count),
			zap.String("provider", settings.LLM.Provider),
			zap.String("model", provider.ModelID()),
		)

		out := cmd.OutOrStdout()
		sum, runErr := h.Run(cmd.Context(), g.Count, func(res questions.Result) {
			printResult(out, res)
		})

		lipgloss.Fprintf(out, "\n%d saved, %d duplicate, %d malformed, %d failed\n",
			sum.Saved, sum.Duplicate, sum.Malformed, sum.Failed)

		if g.MetricsFile != "" {
			if err := m.WriteToTextfile(g.MetricsFile); err != nil {
				log.Warn("write metrics file", zap.Error(err))
			}
		}
		return runErr
	},
}

func printResult(out io.Writer, res questions.Result) {
	switch res.Outcome {
	case questions.OutcomeSaved:
		lipgloss.Fprintf(out, "%s  %s  %s\n",
			theme.Correct.Render("saved    "), res.Question.ID, truncate(res.Question.Question, 60))
	case questions.OutcomeDuplicate:
		lipgloss.Fprintf(out, "%s  %s\n", theme.Dim.Render("duplicate"), res.CategoryID)
	case questions.OutcomeMalformed:
		lipgloss.Fprintf(out, "%s  %s  %v\n", theme.Warning.Render("malformed"), res.CategoryID, res.Err)
	default:
		lipgloss.Fprintf(out, "%s  %s  %v\n", theme.Incorrect.Render("failed   "), res.CategoryID, res.Err)
	}
}

func init() {
	f := generateCmd.Flags()
	f.IntP("count", "n", 1, "Number of generation rounds")
	f.StringP("category", "c", "", "Category code to generate for (default: random per round)")
	f.Float64("rate", 0.5, "Maximum rounds per second (0 for unlimited)")
	f.Bool("structured", false, "Request schema-constrained JSON from the model")
	f.String("metrics-file", "", "Write Prometheus counters to this file after the run")
}

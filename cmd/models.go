package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thinxi/thinxi-admin/internal/llm"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models available to the configured API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		if err := settings.LLM.Validate(); err != nil {
			return err
		}
		lister, err := llm.NewModelLister(cmd.Context(), settings.LLM)
		if err != nil {
			return err
		}
		models, err := lister.ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("list models: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-44s  %-32s  %8s  %8s\n", "Model", "Name", "In", "Out")
		fmt.Fprintln(out, strings.Repeat("─", 98))

		shown := 0
		for _, m := range models {
			if !all && !m.CanGenerate() {
				continue
			}
			fmt.Fprintf(out, "%-44s  %-32s  %8s  %8s\n",
				truncate(m.ID, 44), truncate(m.DisplayName, 32),
				formatLimit(m.InputTokenLimit), formatLimit(m.OutputTokenLimit))
			shown++
		}
		fmt.Fprintf(out, "\n%d models (%s)\n", shown, settings.LLM.Provider)
		return nil
	},
}

func formatLimit(n int) string {
	if n <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d", n)
}

func init() {
	modelsCmd.Flags().Bool("all", false, "Include models that cannot generate text")
}

package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/thinxi/thinxi-admin/internal/playtest"
)

var playtestCmd = &cobra.Command{
	Use:   "playtest",
	Short: "Play stored questions in the terminal and record the answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

		// Console logging would draw over the full-screen UI.
		quiet, err := newLogger(io.Discard)
		if err != nil {
			return err
		}
		log = quiet

		b, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		return playtest.Run(cmd.Context(), b.questions(), category)
	},
}

func init() {
	playtestCmd.Flags().StringP("category", "c", "", "Start in this category code")
}

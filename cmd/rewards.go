package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thinxi/thinxi-admin/internal/rewards"
)

var rewardsCmd = &cobra.Command{
	Use:   "rewards",
	Short: "Inspect and upload the reward task catalogue",
}

// selectTasks returns the catalogue, optionally narrowed by --cadence.
func selectTasks(cmd *cobra.Command) ([]rewards.Task, error) {
	tasks := rewards.Catalog()
	cadence, _ := cmd.Flags().GetString("cadence")
	if cadence == "" {
		return tasks, nil
	}
	c := rewards.Cadence(cadence)
	if !c.Valid() {
		return nil, fmt.Errorf("unknown cadence %q (want daily, weekly or monthly)", cadence)
	}
	return rewards.Filter(tasks, c), nil
}

var rewardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in reward tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := selectTasks(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-22s  %-8s  %6s  %-24s  %s\n", "Key", "Type", "Reward", "Trigger", "Title")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, t := range tasks {
			fmt.Fprintf(out, "%-22s  %-8s  %6d  %-24s  %s\n",
				t.ID, t.Type, t.Reward, truncate(t.Trigger, 24), t.Title)
		}
		fmt.Fprintf(out, "\n%d tasks\n", len(tasks))
		return nil
	},
}

var rewardsUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Write the reward tasks to the document store",
	Long: "Writes every task as a new document with active set to true. Uploading\n" +
		"twice creates duplicates; clear the collection first when re-seeding.",
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := selectTasks(cmd)
		if err != nil {
			return err
		}
		if err := rewards.Validate(tasks); err != nil {
			return fmt.Errorf("invalid catalogue: %w", err)
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		out := cmd.OutOrStdout()
		if dryRun {
			fmt.Fprintf(out, "%d tasks valid; nothing written\n", len(tasks))
			return nil
		}

		b, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		n, err := rewards.NewUploader(b.docs, log, settings.Collections.RewardTasks).Upload(cmd.Context(), tasks)
		fmt.Fprintf(out, "%d of %d tasks written to %s\n", n, len(tasks), settings.Collections.RewardTasks)
		return err
	},
}

func init() {
	for _, c := range []*cobra.Command{rewardsListCmd, rewardsUploadCmd} {
		c.Flags().String("cadence", "", "Only tasks of this cadence: daily, weekly or monthly")
	}
	rewardsUploadCmd.Flags().Bool("dry-run", false, "Validate without writing")

	rewardsCmd.AddCommand(rewardsListCmd)
	rewardsCmd.AddCommand(rewardsUploadCmd)
}

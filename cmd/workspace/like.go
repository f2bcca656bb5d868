package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var likeCommand = &cobra.Command{
	Use:   "like",
	Short: "Toggle a job's liked status",
	RunE:  runLikeCmd,
}

var likeJobID int

func init() {
	likeCommand.Flags().IntVarP(&likeJobID, "job", "j", 0, "Job id to toggle")
	_ = likeCommand.MarkFlagRequired("job")

	rootCmd.AddCommand(likeCommand)
}

func runLikeCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	client, cfg, err := loadSetup(cmd)
	if err != nil {
		return err
	}

	if err := client.ToggleLike(ctx, likeJobID, cfg.UserID); err != nil {
		return err
	}

	// Report the resulting membership rather than guessing the flip.
	saved, err := client.SavedJobIDs(ctx, cfg.UserID)
	if err != nil {
		fmt.Printf("Toggled like for job %d.\n", likeJobID)
		return nil
	}
	for _, id := range saved {
		if id == likeJobID {
			fmt.Printf("Job %d is now liked.\n", likeJobID)
			return nil
		}
	}
	fmt.Printf("Job %d is no longer liked.\n", likeJobID)
	return nil
}

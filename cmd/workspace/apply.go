package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datahiredevops/datahire-workspace/internal/application"
	"github.com/datahiredevops/datahire-workspace/internal/types"
)

var applyCommand = &cobra.Command{
	Use:   "apply",
	Short: "Apply to a job with one of your resumes",
	Long: `Gathers your resumes and cover letters, then submits an application. Run
without --resume to see the available choices; picking a resume submits
immediately. A cover letter is optional.`,
	RunE: runApplyCmd,
}

var (
	applyJobID       int
	applyResumeID    int
	applyCoverLetter int
)

func init() {
	applyCommand.Flags().IntVarP(&applyJobID, "job", "j", 0, "Job id to apply to")
	applyCommand.Flags().IntVarP(&applyResumeID, "resume", "r", 0, "Resume id to submit with")
	applyCommand.Flags().IntVar(&applyCoverLetter, "cover-letter", 0, "Cover letter id to attach (optional)")
	_ = applyCommand.MarkFlagRequired("job")

	rootCmd.AddCommand(applyCommand)
}

func runApplyCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	client, cfg, err := loadSetup(cmd)
	if err != nil {
		return err
	}

	// Guard against double submission before opening the flow.
	appliedIDs, err := client.AppliedJobIDs(ctx, cfg.UserID)
	if err != nil {
		return fmt.Errorf("checking applied jobs: %w", err)
	}
	appliedSet := make(map[int]bool, len(appliedIDs))
	for _, id := range appliedIDs {
		appliedSet[id] = true
	}

	flow := application.NewFlow(client, cfg.UserID,
		application.WithAppliedCheck(func(jobID int) bool { return appliedSet[jobID] }),
		application.WithOnApplied(func(jobID int, app *types.Application) {
			fmt.Printf("Applied to job %d.\n", jobID)
			if app != nil {
				fmt.Printf("Submitted resume: %s\n", app.ResumeName)
				if app.HasCoverLetter() {
					fmt.Printf("Cover letter: %s\n", app.CoverLetterURL)
				}
			}
		}),
	)

	if err := flow.Initiate(ctx, applyJobID); err != nil {
		return err
	}

	resumes, letters := flow.Choices()
	if applyResumeID == 0 {
		// No pick yet: show the gathered choices and leave the flow open.
		fmt.Println("Resumes:")
		for _, r := range resumes {
			fmt.Printf("  %d\t%s\n", r.ID, r.Name)
		}
		if len(letters) > 0 {
			fmt.Println("Cover letters (optional):")
			for _, l := range letters {
				fmt.Printf("  %d\t%s\n", l.ID, l.Name)
			}
		}
		fmt.Println("Re-run with --resume <id> to submit.")
		return flow.Cancel()
	}

	if applyCoverLetter != 0 {
		if err := flow.ChooseCoverLetter(applyCoverLetter); err != nil {
			return err
		}
	}
	return flow.Confirm(ctx, applyResumeID)
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datahiredevops/datahire-workspace/internal/analysis"
)

var analyzeCommand = &cobra.Command{
	Use:   "analyze",
	Short: "Show the match analysis for a job, optionally optimizing",
	Long: `Loads the detail pane for one job: checks for a persisted optimization first
and falls back to the raw match analysis. With --optimize, submits the current
score for resume optimization and shows the before/after result.`,
	RunE: runAnalyzeCmd,
}

var (
	analyzeJobID    int
	analyzeOptimize bool
	analyzeApplied  bool
)

func init() {
	analyzeCommand.Flags().IntVarP(&analyzeJobID, "job", "j", 0, "Job id to analyze")
	analyzeCommand.Flags().BoolVar(&analyzeOptimize, "optimize", false, "Submit the current score for optimization")
	analyzeCommand.Flags().BoolVar(&analyzeApplied, "application", false, "Also show the persisted application detail")
	_ = analyzeCommand.MarkFlagRequired("job")

	rootCmd.AddCommand(analyzeCommand)
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	client, cfg, err := loadSetup(cmd)
	if err != nil {
		return err
	}

	panel := analysis.NewPanel(client, cfg.UserID)
	panel.Select(ctx, analyzeJobID)
	if analyzeApplied {
		panel.LoadApplication(ctx)
	}

	view := panel.View()
	if view.Phase == analysis.PhaseError {
		return view.Err
	}

	if analyzeOptimize && view.Phase == analysis.PhaseAnalysisReady {
		if _, err := panel.Optimize(ctx); err != nil {
			return err
		}
		view = panel.View()
	}

	printPanel(view)
	return nil
}

func printPanel(view analysis.View) {
	fmt.Printf("Job %d\n", view.JobID)

	if view.Application != nil {
		fmt.Printf("Applied with: %s", view.Application.ResumeName)
		if view.Application.HasCoverLetter() {
			fmt.Printf(" (+ cover letter)")
		}
		fmt.Printf(" on %s\n", view.Application.AppliedAt.Format("2006-01-02"))
	}

	switch view.Phase {
	case analysis.PhaseOptimizationReady:
		opt := view.Optimization
		fmt.Printf("Optimized: %d%% -> %d%% (+%d)\n", opt.OriginalScore, opt.NewScore, opt.Improvement())
		if opt.Summary != "" {
			fmt.Printf("Summary: %s\n", opt.Summary)
		}
	case analysis.PhaseAnalysisReady:
		a := view.Analysis
		fmt.Printf("Match: %d%%\n", a.MatchScore)
		fmt.Printf("Breakdown: experience %d%%, skills %d%%, industry %d%%\n",
			a.Breakdown.Experience, a.Breakdown.Skill, a.Breakdown.Industry)
		if a.Reason != "" {
			fmt.Printf("Reason: %s\n", a.Reason)
		}
		if len(a.MatchedSkills) > 0 {
			fmt.Printf("Matched skills: %s\n", strings.Join(a.MatchedSkills, ", "))
		}
		if missing := a.MissingSkills(); len(missing) > 0 {
			fmt.Printf("Missing skills: %s\n", strings.Join(missing, ", "))
		}
	default:
		fmt.Printf("Panel state: %s\n", view.Phase)
	}
}

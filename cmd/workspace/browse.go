package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/datahiredevops/datahire-workspace/internal/config"
	"github.com/datahiredevops/datahire-workspace/internal/export"
	"github.com/datahiredevops/datahire-workspace/internal/scores"
	"github.com/datahiredevops/datahire-workspace/internal/types"
	"github.com/datahiredevops/datahire-workspace/internal/workspace"
)

var browseCommand = &cobra.Command{
	Use:   "browse",
	Short: "List jobs on a tab with their match scores",
	Long: `Fetches the job collection and the liked/applied membership sets, applies the
tab and search filter, loads a match score for every visible job, and prints
the result. Use --export to additionally write the list to an Excel workbook.`,
	RunE: runBrowseCmd,
}

var (
	browseTab    string
	browseQuery  string
	browseExport string
)

func init() {
	browseCommand.Flags().StringVarP(&browseTab, "tab", "t", "recommended", "Tab to show: recommended, liked, or applied")
	browseCommand.Flags().StringVarP(&browseQuery, "query", "q", "", "Search query matched against title and company")
	browseCommand.Flags().StringVar(&browseExport, "export", "", "Write the visible list to this .xlsx path")

	rootCmd.AddCommand(browseCommand)
}

func parseTab(name string) (workspace.Tab, error) {
	tab := workspace.Tab(name)
	if !tab.Valid() {
		return "", fmt.Errorf("unknown tab %q: use recommended, liked, or applied", name)
	}
	return tab, nil
}

func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	client, cfg, err := loadSetup(cmd)
	if err != nil {
		return err
	}
	tab, err := parseTab(browseTab)
	if err != nil {
		return err
	}

	// Jobs and both membership sets load concurrently; the workspace is not
	// usable until all three arrive.
	var (
		jobs    []types.Job
		liked   []int
		applied []int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = client.Jobs(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		liked, err = client.SavedJobIDs(gctx, cfg.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		applied, err = client.AppliedJobIDs(gctx, cfg.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("loading workspace: %w", err)
	}

	store := workspace.NewStore(workspace.WithLikePersister(client, cfg.UserID))
	store.SetJobs(jobs)
	store.SeedMemberships(liked, applied)
	store.SetTab(tab)
	store.SetQuery(browseQuery)

	snap := store.Snapshot()
	if len(snap.Visible) == 0 {
		fmt.Println("No jobs match.")
		return nil
	}

	loader, settled := newScoreLoader(client, cfg, len(snap.Visible))
	defer loader.Close()
	for _, job := range snap.Visible {
		loader.Load(ctx, job.ID)
	}
	waitForScores(ctx, settled, len(snap.Visible))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMATCH\tTITLE\tCOMPANY\tLOCATION\tSALARY")
	for _, job := range snap.Visible {
		match := "-"
		if score, ok := loader.Score(job.ID); ok {
			match = fmt.Sprintf("%d%%", score)
		}
		marker := ""
		if snap.HasSelection && job.ID == snap.SelectedID {
			marker = "*"
		}
		fmt.Fprintf(w, "%d%s\t%s\t%s\t%s\t%s\t%s\n",
			job.ID, marker, match, job.Title, job.Company, job.Location, job.Salary)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if browseExport != "" {
		if err := export.ExportToExcel(snap.Visible, loader.Score, browseExport); err != nil {
			return err
		}
		fmt.Printf("Exported %d jobs to %s\n", len(snap.Visible), browseExport)
	}
	return nil
}

// newScoreLoader builds the loader from config and returns a channel that
// receives one value per settled score.
func newScoreLoader(fetcher scores.Fetcher, cfg config.Config, n int) (*scores.Loader, <-chan struct{}) {
	settled := make(chan struct{}, n)
	opts := []scores.Option{
		scores.WithStaggerUnit(time.Duration(cfg.StaggerMillis) * time.Millisecond),
		scores.WithOnLoad(func(int, int) { settled <- struct{}{} }),
	}
	if cfg.ScoreConcurrency > 0 {
		opts = append(opts, scores.WithConcurrencyLimit(cfg.ScoreConcurrency))
	}
	return scores.NewLoader(fetcher, cfg.UserID, opts...), settled
}

func waitForScores(ctx context.Context, settled <-chan struct{}, n int) {
	timeout := time.After(30 * time.Second)
	for i := 0; i < n; i++ {
		select {
		case <-settled:
		case <-timeout:
			return
		case <-ctx.Done():
			return
		}
	}
}

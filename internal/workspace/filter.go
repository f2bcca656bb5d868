// Package workspace owns the client-side state of the job-matching
// workspace: the canonical job collection, the liked/applied/hidden
// membership sets, the active tab and search query, and the single selected
// job. Derived views are computed by pure functions; all mutation goes
// through the Store.
package workspace

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/cases"

	"github.com/datahiredevops/datahire-workspace/internal/types"
)

// Tab selects which membership predicate the visible-list filter applies.
type Tab string

// Workspace tabs. Exactly one is active at a time.
const (
	TabRecommended Tab = "recommended"
	TabLiked       Tab = "liked"
	TabApplied     Tab = "applied"
)

// Valid reports whether t is one of the known tabs.
func (t Tab) Valid() bool {
	switch t {
	case TabRecommended, TabLiked, TabApplied:
		return true
	}
	return false
}

var foldCaser = cases.Fold()

// matchesQuery reports whether the job's title or company contains the query
// case-insensitively. An empty query matches everything.
func matchesQuery(title, company, query string) bool {
	if query == "" {
		return true
	}
	q := foldCaser.String(query)
	return strings.Contains(foldCaser.String(title), q) ||
		strings.Contains(foldCaser.String(company), q)
}

// Visible derives the filtered job list from the full collection and the
// current filter inputs. Rules, in order: hidden jobs are excluded
// unconditionally; a non-empty query must match title or company; then the
// tab predicate applies. Recommended excludes anything already applied to:
// applied jobs graduate out of the recommendation feed. Source order is
// preserved and the input slice is never mutated.
func Visible(jobs []types.Job, tab Tab, query string, liked, applied, hidden mapset.Set[int]) []types.Job {
	out := make([]types.Job, 0, len(jobs))
	for _, job := range jobs {
		if hidden.Contains(job.ID) {
			continue
		}
		if !matchesQuery(job.Title, job.Company, query) {
			continue
		}
		switch tab {
		case TabLiked:
			if !liked.Contains(job.ID) {
				continue
			}
		case TabApplied:
			if !applied.Contains(job.ID) {
				continue
			}
		default: // recommended
			if applied.Contains(job.ID) {
				continue
			}
		}
		out = append(out, job)
	}
	return out
}

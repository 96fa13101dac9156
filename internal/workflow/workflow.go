// Package workflow labels a repository's merge workflow from its merged and
// closed pull-request counts over a time window. Repositories that close far
// more PRs than they mark merged integrate work outside the platform's merge
// mechanism, which changes how contributions must be attributed.
package workflow

import (
	"context"
	"fmt"

	"github.com/orglens/orglens/internal/github"
)

// Type is a repository's merge workflow classification.
type Type string

const (
	Standard    Type = "standard"
	NonStandard Type = "non-standard"
	HighVolume  Type = "high-volume"
)

// Thresholds for the non-standard and high-volume classifications.
const (
	landedRatio      = 3
	minMergedSignal  = 50
	minLandedSignal  = 100
	highVolumeMerged = 1000
)

// Counts holds the classification together with the raw counts behind it.
type Counts struct {
	Type   Type
	Merged int
	Closed int
	Landed int
}

// Classify labels the workflow from merged and closed counts. Landed is the
// difference: PRs that closed without the platform marking them merged.
func Classify(merged, closed int) Type {
	landed := closed - merged
	floor := merged
	if floor < 1 {
		floor = 1
	}
	if landed > landedRatio*floor && merged >= minMergedSignal && landed >= minLandedSignal {
		return NonStandard
	}
	if merged > highVolumeMerged {
		return HighVolume
	}
	return Standard
}

// Detect queries merged and closed PR counts strictly after the cutoff date
// and classifies the repository's workflow.
func Detect(ctx context.Context, client github.Client, owner, repo, cutoff string) (Counts, error) {
	merged, err := client.SearchIssueCount(ctx,
		fmt.Sprintf("repo:%s/%s is:pr is:merged merged:>%s", owner, repo, cutoff))
	if err != nil {
		return Counts{}, fmt.Errorf("counting merged PRs: %w", err)
	}
	closed, err := client.SearchIssueCount(ctx,
		fmt.Sprintf("repo:%s/%s is:pr is:closed closed:>%s", owner, repo, cutoff))
	if err != nil {
		return Counts{}, fmt.Errorf("counting closed PRs: %w", err)
	}

	return Counts{
		Type:   Classify(merged, closed),
		Merged: merged,
		Closed: closed,
		Landed: closed - merged,
	}, nil
}

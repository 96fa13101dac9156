// Package attribution classifies raw pull-request records into an
// organization's credited output. Records marked merged are credited
// directly; under a non-standard workflow, closed-only records are verified
// against their close events and credited as landed or excluded as dropped.
package attribution

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/orglens/orglens/internal/github"
	"github.com/orglens/orglens/internal/progress"
	"github.com/orglens/orglens/internal/roster"
	"github.com/orglens/orglens/internal/workflow"
)

// Counts holds the credited and uncredited totals for one employee.
type Counts struct {
	Merged  int `json:"merged"`
	Landed  int `json:"landed"`
	Dropped int `json:"dropped"`
}

// Tally is one employee's row in the per-employee summary.
type Tally struct {
	Login string
	Name  string
	Tier  int
	Counts
}

// Credited is the employee's total credited work.
func (t Tally) Credited() int {
	return t.Merged + t.Landed
}

// Report is the attribution metadata persisted after a run. Field names
// match the established metadata JSON format.
type Report struct {
	WorkflowType    string            `json:"workflow_type"`
	TotalMerged     int               `json:"total_merged"`
	TotalClosedOnly int               `json:"total_closed_only"`
	TotalPRs        int               `json:"total_prs"`
	OrgMergedCount  int               `json:"rh_merged_count"`
	OrgLandedCount  int               `json:"rh_landed_count"`
	OrgTotal        int               `json:"rh_verified_total"`
	OrgPct          float64           `json:"rh_pct"`
	PerEmployee     map[string]Counts `json:"per_employee"`
}

// Save writes the report to a JSON file.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report to %s: %w", path, err)
	}
	return nil
}

// Result is a full attribution run: the persisted report plus the ordered
// per-employee summary.
type Result struct {
	Report    Report
	Employees []Tally
}

// Attributor runs the attribution pipeline for one repository.
type Attributor struct {
	client   github.Client
	logger   *zap.Logger
	reporter progress.Reporter
	botList  []string
	suffix   string
	workers  int
}

// NewAttributor creates an Attributor. The reporter may be nil.
func NewAttributor(client github.Client, logger *zap.Logger, reporter progress.Reporter, botList []string, botSuffix string, workers int) *Attributor {
	return &Attributor{
		client:   client,
		logger:   logger,
		reporter: reporter,
		botList:  botList,
		suffix:   botSuffix,
		workers:  workers,
	}
}

// Run executes the pipeline: dedupe, cutoff filter, bot filter, partition,
// direct attribution, and (for non-standard workflows) verification of
// closed-only records.
func (a *Attributor) Run(ctx context.Context, owner, repo string, primary, supplementary []PullRequest, ros *roster.Roster, cutoff string, wfType workflow.Type) (*Result, error) {
	prs := MergeRecords(primary, supplementary)
	prs = FilterCutoff(prs, cutoff)
	prs = FilterBots(prs, a.suffix, a.botList)
	mergedList, closedOnly := Partition(prs)

	byLogin := ros.ByLogin()

	// Per-employee tallies in encounter order.
	tallies := make(map[string]*Tally)
	var order []string
	tally := func(login string) *Tally {
		if t, ok := tallies[login]; ok {
			return t
		}
		emp := byLogin[login]
		t := &Tally{Login: login, Name: emp.Name, Tier: emp.Tier()}
		tallies[login] = t
		order = append(order, login)
		return t
	}

	// Direct attribution of platform-merged records.
	for _, pr := range mergedList {
		login := strings.ToLower(pr.Author.Login)
		if _, ok := byLogin[login]; ok {
			tally(login).Merged++
		}
	}

	// Closed-only records need verification only under a non-standard
	// workflow; otherwise they are ordinary rejected PRs.
	if wfType == workflow.NonStandard && len(closedOnly) > 0 {
		var candidates []PullRequest
		for _, pr := range closedOnly {
			if _, ok := byLogin[strings.ToLower(pr.Author.Login)]; ok {
				candidates = append(candidates, pr)
			}
		}

		verifier := NewVerifier(a.client, a.workers, a.logger, a.reporter)
		states := verifier.VerifyClosed(ctx, owner, repo, candidates)
		for _, pr := range candidates {
			t := tally(strings.ToLower(pr.Author.Login))
			switch states[pr.Number] {
			case StateLanded:
				t.Landed++
			default:
				t.Dropped++
			}
		}
	}

	// Order the summary by credited work, descending, stable on ties.
	employees := make([]Tally, 0, len(order))
	for _, login := range order {
		employees = append(employees, *tallies[login])
	}
	sort.SliceStable(employees, func(i, j int) bool {
		return employees[i].Credited() > employees[j].Credited()
	})

	report := Report{
		WorkflowType:    string(wfType),
		TotalMerged:     len(mergedList),
		TotalClosedOnly: len(closedOnly),
		TotalPRs:        len(mergedList) + len(closedOnly),
		PerEmployee:     make(map[string]Counts, len(employees)),
	}
	for _, t := range employees {
		report.OrgMergedCount += t.Merged
		report.OrgLandedCount += t.Landed
		report.PerEmployee[t.Login] = t.Counts
	}
	report.OrgTotal = report.OrgMergedCount + report.OrgLandedCount
	if report.TotalPRs > 0 {
		report.OrgPct = math.Round(float64(report.OrgTotal)/float64(report.TotalPRs)*1000) / 10
	}

	return &Result{Report: report, Employees: employees}, nil
}

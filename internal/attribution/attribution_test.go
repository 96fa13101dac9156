package attribution

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/orglens/orglens/internal/github"
	"github.com/orglens/orglens/internal/roster"
	"github.com/orglens/orglens/internal/workflow"
)

func pr(number int, login, mergedAt, closedAt string) PullRequest {
	return PullRequest{Number: number, Author: Author{Login: login}, MergedAt: mergedAt, ClosedAt: closedAt}
}

func TestMergeRecordsDedupe(t *testing.T) {
	primary := []PullRequest{
		pr(1, "alice", "2024-02-01T00:00:00Z", ""),
		pr(2, "bob", "", "2024-02-02T00:00:00Z"),
	}
	supplementary := []PullRequest{
		pr(2, "someone-else", "2024-02-03T00:00:00Z", ""),
		pr(3, "carol", "2024-02-04T00:00:00Z", ""),
	}

	merged := MergeRecords(primary, supplementary)
	if len(merged) != 3 {
		t.Fatalf("got %d records, want 3", len(merged))
	}
	// Primary wins on conflict.
	if merged[1].Author.Login != "bob" {
		t.Errorf("record 2 author = %q, want bob (primary precedence)", merged[1].Author.Login)
	}
}

func TestFilterCutoffInclusive(t *testing.T) {
	cutoff := "2024-01-01T00:00:00Z"
	prs := []PullRequest{
		pr(1, "alice", cutoff, ""),                     // exactly at cutoff: kept
		pr(2, "bob", "2023-12-31T23:59:59Z", ""),       // one second before: dropped
		pr(3, "carol", "", "2024-06-01T00:00:00Z"),     // closed after: kept
		pr(4, "dave", "", ""),                          // no timestamps: dropped
		pr(5, "erin", "2024-03-01T00:00:00Z", "never"), // merged time wins
	}

	got := FilterCutoff(prs, cutoff)
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	for _, p := range got {
		if p.Number == 2 || p.Number == 4 {
			t.Errorf("record %d should have been filtered", p.Number)
		}
	}
}

func TestFilterBots(t *testing.T) {
	prs := []PullRequest{
		pr(1, "alice", "2024-02-01", ""),
		pr(2, "dependabot[bot]", "2024-02-01", ""),
		pr(3, "Mergify", "2024-02-01", ""),
		pr(4, "PyTorchMergeBot", "2024-02-01", ""),
	}

	got := FilterBots(prs, "[bot]", []string{"mergify", "pytorchmergebot"})
	if len(got) != 1 || got[0].Author.Login != "alice" {
		t.Fatalf("got %v, want only alice", got)
	}
}

func TestPartition(t *testing.T) {
	prs := []PullRequest{
		pr(1, "alice", "2024-02-01", "2024-02-01"),
		pr(2, "bob", "", "2024-02-02"),
	}
	merged, closedOnly := Partition(prs)
	if len(merged) != 1 || merged[0].Number != 1 {
		t.Errorf("merged = %v, want [1]", merged)
	}
	if len(closedOnly) != 1 || closedOnly[0].Number != 2 {
		t.Errorf("closedOnly = %v, want [2]", closedOnly)
	}
}

func TestClassifyCloseEvents(t *testing.T) {
	tests := []struct {
		name   string
		events []github.CloseEvent
		want   State
	}{
		{"linked commit means landed", []github.CloseEvent{{CommitID: "abc123"}}, StateLanded},
		{"no commit means dropped", []github.CloseEvent{{CommitID: ""}}, StateDropped},
		{"no close events means dropped", nil, StateDropped},
		{"any linked commit suffices", []github.CloseEvent{{}, {CommitID: "def456"}}, StateLanded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyCloseEvents(tt.events); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// eventClient serves canned close events per PR number.
type eventClient struct {
	github.Client
	events map[int][]github.CloseEvent
	errs   map[int]bool
}

func (c *eventClient) IssueCloseEvents(ctx context.Context, owner, repo string, number int) ([]github.CloseEvent, error) {
	if c.errs[number] {
		return nil, fmt.Errorf("boom")
	}
	return c.events[number], nil
}

func testRoster() *roster.Roster {
	r := &roster.Roster{Employees: []roster.Employee{
		{UID: "u1", Name: "A Dev", Email: "a@redhat.com", GithubUsername: "adev", ResolutionTier: 2},
		{UID: "u2", Name: "B Dev", Email: "b@redhat.com", GithubUsername: "bdev", ResolutionTier: 1},
	}}
	r.Recompute()
	return r
}

func TestRunStandardWorkflow(t *testing.T) {
	primary := []PullRequest{
		pr(1, "adev", "2024-02-01T00:00:00Z", ""),
		pr(2, "adev", "2024-02-02T00:00:00Z", ""),
		pr(3, "stranger", "2024-02-03T00:00:00Z", ""),
		pr(4, "bdev", "", "2024-02-04T00:00:00Z"), // closed-only, not verified under standard
	}

	a := NewAttributor(&eventClient{}, zap.NewNop(), nil, nil, "[bot]", 2)
	result, err := a.Run(context.Background(), "acme", "widgets", primary, nil, testRoster(), "2024-01-01", workflow.Standard)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	report := result.Report

	if report.TotalPRs != 4 || report.TotalMerged != 3 || report.TotalClosedOnly != 1 {
		t.Errorf("totals = %d/%d/%d, want 4/3/1", report.TotalPRs, report.TotalMerged, report.TotalClosedOnly)
	}
	if report.OrgMergedCount != 2 || report.OrgLandedCount != 0 {
		t.Errorf("org counts = %d merged, %d landed, want 2/0", report.OrgMergedCount, report.OrgLandedCount)
	}
	if report.OrgPct != 50.0 {
		t.Errorf("pct = %v, want 50.0", report.OrgPct)
	}
	if counts, ok := report.PerEmployee["adev"]; !ok || counts.Merged != 2 {
		t.Errorf("per-employee adev = %+v, want merged 2", counts)
	}
}

func TestRunNonStandardVerification(t *testing.T) {
	primary := []PullRequest{
		pr(10, "adev", "", "2024-02-01T00:00:00Z"), // will land
		pr(11, "adev", "", "2024-02-02T00:00:00Z"), // will drop
		pr(12, "bdev", "", "2024-02-03T00:00:00Z"), // lookup fails: dropped
		pr(13, "stranger", "", "2024-02-04T00:00:00Z"),
	}
	supplementary := []PullRequest{
		pr(14, "bdev", "2024-02-05T00:00:00Z", ""),
	}
	client := &eventClient{
		events: map[int][]github.CloseEvent{
			10: {{CommitID: "abc123"}},
			11: {{CommitID: ""}},
		},
		errs: map[int]bool{12: true},
	}

	a := NewAttributor(client, zap.NewNop(), nil, nil, "[bot]", 2)
	result, err := a.Run(context.Background(), "acme", "widgets", primary, supplementary, testRoster(), "2024-01-01", workflow.NonStandard)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	report := result.Report

	if report.OrgLandedCount != 1 {
		t.Errorf("landed = %d, want 1", report.OrgLandedCount)
	}
	if report.OrgMergedCount != 1 {
		t.Errorf("merged = %d, want 1", report.OrgMergedCount)
	}
	adev := report.PerEmployee["adev"]
	if adev.Landed != 1 || adev.Dropped != 1 {
		t.Errorf("adev = %+v, want 1 landed 1 dropped", adev)
	}
	bdev := report.PerEmployee["bdev"]
	if bdev.Merged != 1 || bdev.Dropped != 1 {
		t.Errorf("bdev = %+v, want 1 merged 1 dropped", bdev)
	}
	// 2 credited out of 5 records.
	if report.OrgTotal != 2 || report.OrgPct != 40.0 {
		t.Errorf("total/pct = %d/%v, want 2/40.0", report.OrgTotal, report.OrgPct)
	}
}

func TestRunOrdering(t *testing.T) {
	primary := []PullRequest{
		pr(1, "bdev", "2024-02-01T00:00:00Z", ""),
		pr(2, "adev", "2024-02-02T00:00:00Z", ""),
		pr(3, "adev", "2024-02-03T00:00:00Z", ""),
	}

	a := NewAttributor(&eventClient{}, zap.NewNop(), nil, nil, "[bot]", 1)
	result, err := a.Run(context.Background(), "acme", "widgets", primary, nil, testRoster(), "2024-01-01", workflow.Standard)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Employees) != 2 {
		t.Fatalf("got %d employees, want 2", len(result.Employees))
	}
	if result.Employees[0].Login != "adev" || result.Employees[1].Login != "bdev" {
		t.Errorf("order = [%s, %s], want [adev, bdev]",
			result.Employees[0].Login, result.Employees[1].Login)
	}
}

package attribution

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Author is the account that opened a pull request.
type Author struct {
	Login string `json:"login"`
}

// PullRequest is one raw activity record, matching the raw activity JSON
// produced by the retrieval step.
type PullRequest struct {
	Number   int    `json:"number"`
	Author   Author `json:"author"`
	MergedAt string `json:"mergedAt,omitempty"`
	ClosedAt string `json:"closedAt,omitempty"`
}

// resolvedAt is the timestamp used for cutoff filtering: merged time when
// present, otherwise closed time.
func (pr PullRequest) resolvedAt() string {
	if pr.MergedAt != "" {
		return pr.MergedAt
	}
	return pr.ClosedAt
}

// LoadRecords reads an array of raw activity records from a JSON file.
func LoadRecords(path string) ([]PullRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading activity records %s: %w", path, err)
	}
	var prs []PullRequest
	if err := json.Unmarshal(data, &prs); err != nil {
		return nil, fmt.Errorf("parsing activity records %s: %w", path, err)
	}
	return prs, nil
}

// MergeRecords unions the primary and supplementary record sets by PR
// number. The first occurrence of a number wins, so primary records take
// precedence on conflict.
func MergeRecords(primary, supplementary []PullRequest) []PullRequest {
	seen := make(map[int]bool, len(primary))
	merged := make([]PullRequest, 0, len(primary)+len(supplementary))
	for _, pr := range primary {
		if seen[pr.Number] {
			continue
		}
		seen[pr.Number] = true
		merged = append(merged, pr)
	}
	for _, pr := range supplementary {
		if seen[pr.Number] {
			continue
		}
		seen[pr.Number] = true
		merged = append(merged, pr)
	}
	return merged
}

// FilterCutoff retains records resolved on or after the cutoff date.
// ISO-8601 timestamps compare correctly as strings. Records with neither
// timestamp are dropped.
func FilterCutoff(prs []PullRequest, cutoff string) []PullRequest {
	var out []PullRequest
	for _, pr := range prs {
		if at := pr.resolvedAt(); at != "" && at >= cutoff {
			out = append(out, pr)
		}
	}
	return out
}

// FilterBots excludes records authored by bot accounts: any login ending in
// the bot suffix, or on the known bot list, case-insensitively.
func FilterBots(prs []PullRequest, suffix string, known []string) []PullRequest {
	knownSet := make(map[string]bool, len(known))
	for _, name := range known {
		knownSet[strings.ToLower(name)] = true
	}
	lowerSuffix := strings.ToLower(suffix)

	var out []PullRequest
	for _, pr := range prs {
		login := strings.ToLower(pr.Author.Login)
		if lowerSuffix != "" && strings.HasSuffix(login, lowerSuffix) {
			continue
		}
		if knownSet[login] {
			continue
		}
		out = append(out, pr)
	}
	return out
}

// Partition splits records into those the platform marked merged and the
// rest (closed without a merge flag).
func Partition(prs []PullRequest) (merged, closedOnly []PullRequest) {
	for _, pr := range prs {
		if pr.MergedAt != "" {
			merged = append(merged, pr)
		} else {
			closedOnly = append(closedOnly, pr)
		}
	}
	return merged, closedOnly
}

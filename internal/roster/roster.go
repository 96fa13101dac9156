package roster

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
)

// Resolution tiers, ordered by confidence. Lower is better; zero means
// no tier has been recorded.
const (
	TierAuthoritative   = 1 // explicitly supplied in the roster
	TierCommitConfirmed = 2 // confirmed via a commit-authorship search
	TierNameSearch      = 3 // heuristic name + affiliation match
)

// Employee is one organization member from the roster.
type Employee struct {
	UID              string `json:"uid"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	GithubUsername   string `json:"github_username,omitempty"`
	ResolutionTier   int    `json:"github_resolution_tier,omitempty"`
	ResolutionMethod string `json:"github_resolution_method,omitempty"`
}

// Resolution is a candidate platform identity for an employee.
type Resolution struct {
	Login  string
	Tier   int
	Method string
}

// Resolved reports whether the employee has a platform username.
func (e *Employee) Resolved() bool {
	return e.GithubUsername != ""
}

// Tier returns the employee's resolution tier, defaulting to authoritative
// for resolved employees whose roster entry predates tier tracking.
func (e *Employee) Tier() int {
	if e.ResolutionTier == 0 && e.Resolved() {
		return TierAuthoritative
	}
	return e.ResolutionTier
}

// Apply merges a candidate resolution into the employee. The merge is
// monotonic: a candidate is accepted only if the employee is unresolved, or
// the candidate's tier is numerically better than the current one. Returns
// true if the employee was updated.
func (e *Employee) Apply(r Resolution) bool {
	if r.Login == "" || r.Tier < TierAuthoritative {
		return false
	}
	if e.Resolved() && r.Tier >= e.Tier() {
		return false
	}
	e.GithubUsername = r.Login
	e.ResolutionTier = r.Tier
	e.ResolutionMethod = r.Method
	return true
}

// Roster is the organization's employee list plus derived resolution
// statistics, persisted as JSON across runs.
type Roster struct {
	TotalEmployees int        `json:"total_employees"`
	ResolvedCount  int        `json:"resolved_count"`
	CoveragePct    float64    `json:"resolution_coverage_pct"`
	Employees      []Employee `json:"employees"`
}

// Recompute restores the derived statistics after any mutation.
func (r *Roster) Recompute() {
	r.TotalEmployees = len(r.Employees)
	r.ResolvedCount = 0
	for i := range r.Employees {
		if r.Employees[i].Resolved() {
			r.ResolvedCount++
		}
	}
	if r.TotalEmployees == 0 {
		r.CoveragePct = 0
		return
	}
	r.CoveragePct = math.Round(float64(r.ResolvedCount)/float64(r.TotalEmployees)*1000) / 10
}

// Unresolved returns pointers to every employee without a platform username.
func (r *Roster) Unresolved() []*Employee {
	var out []*Employee
	for i := range r.Employees {
		if !r.Employees[i].Resolved() {
			out = append(out, &r.Employees[i])
		}
	}
	return out
}

// ByLogin indexes resolved employees by lowercased platform username.
func (r *Roster) ByLogin() map[string]*Employee {
	out := make(map[string]*Employee)
	for i := range r.Employees {
		if r.Employees[i].Resolved() {
			out[strings.ToLower(r.Employees[i].GithubUsername)] = &r.Employees[i]
		}
	}
	return out
}

// Load reads a roster JSON file.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster %s: %w", path, err)
	}
	var r Roster
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing roster %s: %w", path, err)
	}
	return &r, nil
}

// Save writes the roster back to disk with its statistics recomputed.
func (r *Roster) Save(path string) error {
	r.Recompute()
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling roster: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing roster to %s: %w", path, err)
	}
	return nil
}

// Package audit keeps a local log of orglens runs. Runs are rerunnable and
// fully recompute their outputs, so the log is the only record of what a
// past invocation found.
package audit

import "time"

// Action identifies which command produced a run entry.
type Action string

const (
	ActionResolve    Action = "resolve"
	ActionWorkflow   Action = "workflow"
	ActionAnalyze    Action = "analyze"
	ActionGovernance Action = "governance"
)

// Entry is a single run record. Detail holds the run's counts as an
// arbitrary JSON object.
type Entry struct {
	ID        string
	Timestamp time.Time
	Action    Action
	Scope     string
	Summary   string
	Detail    map[string]any
}

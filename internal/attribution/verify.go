package attribution

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/orglens/orglens/internal/github"
	"github.com/orglens/orglens/internal/progress"
)

// State is the terminal classification of a closed-without-merge record.
type State string

const (
	// StateLanded: the close event carries a linked commit, so the work
	// was integrated outside the platform's merge mechanism. Credited.
	StateLanded State = "landed"
	// StateDropped: closed with no linked commit. Not credited.
	StateDropped State = "dropped"
)

// classifyCloseEvents is the state transition for one verification query.
// A query failure is handled by the caller as "no evidence" (dropped).
func classifyCloseEvents(events []github.CloseEvent) State {
	for _, ev := range events {
		if ev.CommitID != "" {
			return StateLanded
		}
	}
	return StateDropped
}

// Verifier resolves the landed/dropped state of closed-only records by
// querying each record's issue events with bounded concurrency.
type Verifier struct {
	client      github.Client
	concurrency int
	logger      *zap.Logger
	reporter    progress.Reporter
}

// NewVerifier creates a Verifier. The reporter may be nil.
func NewVerifier(client github.Client, concurrency int, logger *zap.Logger, reporter progress.Reporter) *Verifier {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Verifier{
		client:      client,
		concurrency: concurrency,
		logger:      logger,
		reporter:    reporter,
	}
}

// VerifyClosed returns the state of each record by PR number. All queries
// are independent reads; a failed query classifies its record as dropped
// and never aborts the batch.
func (v *Verifier) VerifyClosed(ctx context.Context, owner, repo string, prs []PullRequest) map[int]State {
	states := make(map[int]State, len(prs))
	if len(prs) == 0 {
		return states
	}

	if v.reporter != nil {
		v.reporter.Start("Verifying closed PRs", len(prs))
		defer v.reporter.Finish()
	}

	sem := make(chan struct{}, v.concurrency)
	var mu sync.Mutex
	var wg sync.WaitGroup
	var done int

	for _, pr := range prs {
		sem <- struct{}{}
		wg.Add(1)
		go func(pr PullRequest) {
			defer wg.Done()
			defer func() { <-sem }()

			state := StateDropped
			events, err := v.client.IssueCloseEvents(ctx, owner, repo, pr.Number)
			if err != nil {
				v.logger.Warn("close-event lookup failed, counting as dropped",
					zap.Int("number", pr.Number), zap.Error(err))
			} else {
				state = classifyCloseEvents(events)
			}

			mu.Lock()
			states[pr.Number] = state
			done++
			if v.reporter != nil {
				v.reporter.Update(done, "")
			}
			mu.Unlock()
		}(pr)
	}

	wg.Wait()
	return states
}

// Package resolver maps roster employees to platform usernames using
// tiered evidence: commit-history email mining confirmed by a commit
// search (tier 2), then a capped heuristic user search (tier 3). A tier,
// once assigned, is never replaced by a worse one.
package resolver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/orglens/orglens/internal/config"
	"github.com/orglens/orglens/internal/github"
	"github.com/orglens/orglens/internal/progress"
	"github.com/orglens/orglens/internal/roster"
)

// Resolution methods recorded on the roster.
const (
	MethodGitEmail   = "git-email"
	MethodUserSearch = "gh-search-users"
)

// Project identifies one repository to mine for evidence.
type Project struct {
	Owner string
	Repo  string
}

func (p Project) String() string {
	return p.Owner + "/" + p.Repo
}

// ParseProjects parses a comma-separated owner/repo list.
func ParseProjects(s string) ([]Project, error) {
	var projects []Project
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		owner, repo, ok := strings.Cut(item, "/")
		if !ok || owner == "" || repo == "" {
			return nil, fmt.Errorf("invalid project %q: want owner/repo", item)
		}
		projects = append(projects, Project{Owner: owner, Repo: repo})
	}
	if len(projects) == 0 {
		return nil, fmt.Errorf("no projects given")
	}
	return projects, nil
}

// Outcome summarizes one resolver run.
type Outcome struct {
	Unresolved    int // unresolved before the run
	ByEmail       int // newly resolved via git-email confirmation
	ByUserSearch  int // newly resolved via heuristic user search
	StillOpen     int // unresolved after the run
	SearchSkipped bool
}

// Resolved is the total number of new resolutions from this run.
func (o Outcome) Resolved() int {
	return o.ByEmail + o.ByUserSearch
}

// Resolver performs tiered identity resolution against a set of mining
// repositories.
type Resolver struct {
	client   github.Client
	cfg      *config.Config
	logger   *zap.Logger
	reporter progress.Reporter
}

// New creates a Resolver. The reporter may be nil.
func New(client github.Client, cfg *config.Config, logger *zap.Logger, reporter progress.Reporter) *Resolver {
	return &Resolver{client: client, cfg: cfg, logger: logger, reporter: reporter}
}

// Run resolves as many unresolved employees as the evidence allows and
// merges the results into the roster. Per-repository failures are logged
// and skipped. The roster's statistics are recomputed before returning.
func (r *Resolver) Run(ctx context.Context, ros *roster.Roster, projects []Project, workdir string) (*Outcome, error) {
	unresolved := ros.Unresolved()
	outcome := &Outcome{Unresolved: len(unresolved)}
	if len(unresolved) == 0 {
		ros.Recompute()
		return outcome, nil
	}

	// Index unresolved employees by lowercased email.
	emailIndex := make(map[string]*roster.Employee)
	for _, emp := range unresolved {
		if emp.Email != "" {
			emailIndex[strings.ToLower(emp.Email)] = emp
		}
	}

	// resolved accumulates confirmed identities by employee UID. First
	// confirmed wins; the lock is the only shared state across workers.
	resolved := make(map[string]roster.Resolution)
	var mu sync.Mutex

	r.mineProjects(ctx, projects, emailIndex, resolved, &mu, workdir)
	outcome.ByEmail = len(resolved)

	// Tier 3: heuristic user search, only for a bounded remainder.
	var remaining []*roster.Employee
	for _, emp := range unresolved {
		if _, ok := resolved[emp.UID]; !ok {
			remaining = append(remaining, emp)
		}
	}
	switch {
	case len(remaining) == 0:
	case len(remaining) > r.cfg.UserSearchCap:
		outcome.SearchSkipped = true
		r.logger.Info("skipping user search, too many unresolved",
			zap.Int("remaining", len(remaining)), zap.Int("cap", r.cfg.UserSearchCap))
	default:
		for _, emp := range remaining {
			if res, ok := r.searchUser(ctx, emp); ok {
				resolved[emp.UID] = res
				outcome.ByUserSearch++
			}
		}
	}

	// Monotonic merge into the roster.
	for _, emp := range unresolved {
		if res, ok := resolved[emp.UID]; ok {
			emp.Apply(res)
		}
	}
	ros.Recompute()
	outcome.StillOpen = outcome.Unresolved - outcome.Resolved()
	return outcome, nil
}

// mineProjects walks each project's commit history for organization email
// addresses and confirms matches through a commit-authorship search, with
// bounded concurrency across projects.
func (r *Resolver) mineProjects(ctx context.Context, projects []Project, emailIndex map[string]*roster.Employee, resolved map[string]roster.Resolution, mu *sync.Mutex, workdir string) {
	concurrency := r.cfg.MaxConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	if r.reporter != nil {
		r.reporter.Start("Mining commit history", len(projects))
		defer r.reporter.Finish()
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	var done int

	for _, proj := range projects {
		sem <- struct{}{}
		wg.Add(1)
		go func(proj Project) {
			defer wg.Done()
			defer func() { <-sem }()
			r.mineProject(ctx, proj, emailIndex, resolved, mu, workdir)
			mu.Lock()
			done++
			if r.reporter != nil {
				r.reporter.Update(done, proj.String())
			}
			mu.Unlock()
		}(proj)
	}
	wg.Wait()
}

func (r *Resolver) mineProject(ctx context.Context, proj Project, emailIndex map[string]*roster.Employee, resolved map[string]roster.Resolution, mu *sync.Mutex, workdir string) {
	commits, err := r.client.ListCommits(ctx, proj.Owner, proj.Repo)
	if err != nil {
		r.logger.Warn("commit history fetch failed, skipping project",
			zap.String("project", proj.String()), zap.Error(err))
		return
	}

	marker := "@" + strings.ToLower(r.cfg.EmailDomain)
	lines := make(map[string]bool)
	for _, sig := range commits {
		if strings.Contains(strings.ToLower(sig.AuthorEmail), marker) {
			lines[sig.AuthorEmail+"|"+sig.AuthorName] = true
		}
	}

	// Archive the mined evidence verbatim before analysis.
	if err := archiveEmails(workdir, proj, lines); err != nil {
		r.logger.Warn("could not archive mined emails",
			zap.String("project", proj.String()), zap.Error(err))
	}
	r.logger.Debug("mined organization email entries",
		zap.String("project", proj.String()), zap.Int("count", len(lines)))

	for line := range lines {
		email, _, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}
		email = strings.ToLower(strings.TrimSpace(email))
		emp, ok := emailIndex[email]
		if !ok {
			continue
		}

		mu.Lock()
		_, already := resolved[emp.UID]
		mu.Unlock()
		if already {
			continue
		}

		logins, err := r.client.SearchCommitsByAuthorEmail(ctx, proj.Owner, proj.Repo, email)
		if err != nil {
			r.logger.Warn("commit-author confirmation failed",
				zap.String("email", email), zap.Error(err))
			continue
		}
		if len(logins) == 0 || logins[0] == "" {
			continue
		}

		mu.Lock()
		if _, already := resolved[emp.UID]; !already {
			resolved[emp.UID] = roster.Resolution{
				Login:  logins[0],
				Tier:   roster.TierCommitConfirmed,
				Method: MethodGitEmail,
			}
			r.logger.Info("confirmed identity via commit authorship",
				zap.String("name", emp.Name), zap.String("login", logins[0]),
				zap.String("project", proj.String()))
		}
		mu.Unlock()
	}
}

// searchUser attempts a tier-3 heuristic match: exact case-insensitive
// display-name equality plus an organizational affiliation signal in the
// candidate's company, bio, or email.
func (r *Resolver) searchUser(ctx context.Context, emp *roster.Employee) (roster.Resolution, bool) {
	users, err := r.client.SearchUsersByName(ctx, emp.Name, r.cfg.UserSearchLimit)
	if err != nil {
		r.logger.Warn("user search failed",
			zap.String("name", emp.Name), zap.Error(err))
		return roster.Resolution{}, false
	}

	orgName := strings.ToLower(r.cfg.OrgName)
	emailMarker := "@" + strings.ToLower(r.cfg.EmailDomain)
	for _, u := range users {
		if !strings.EqualFold(u.Name, emp.Name) {
			continue
		}
		affiliated := strings.Contains(strings.ToLower(u.Company), orgName) ||
			strings.Contains(strings.ToLower(u.Bio), orgName) ||
			strings.Contains(strings.ToLower(u.Email), emailMarker)
		if !affiliated {
			continue
		}
		r.logger.Info("matched identity via user search",
			zap.String("name", emp.Name), zap.String("login", u.Login))
		return roster.Resolution{
			Login:  u.Login,
			Tier:   roster.TierNameSearch,
			Method: MethodUserSearch,
		}, true
	}
	return roster.Resolution{}, false
}

// archiveEmails writes the mined email|name lines, sorted and deduplicated,
// to the workdir.
func archiveEmails(workdir string, proj Project, lines map[string]bool) error {
	sorted := make([]string, 0, len(lines))
	for line := range lines {
		sorted = append(sorted, line)
	}
	sort.Strings(sorted)
	name := fmt.Sprintf("raw-git-emails-%s-%s.txt", proj.Owner, proj.Repo)
	return os.WriteFile(filepath.Join(workdir, name), []byte(strings.Join(sorted, "\n")), 0644)
}

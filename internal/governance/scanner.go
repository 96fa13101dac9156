// Package governance scans a repository's governance files (OWNERS,
// CODEOWNERS, maintainer lists) and matches the usernames they mention
// against the resolved roster, inferring each mention's role.
package governance

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/orglens/orglens/internal/github"
	"github.com/orglens/orglens/internal/roster"
)

// DefaultPattern matches the common governance file names.
const DefaultPattern = "OWNERS|CODEOWNERS|MAINTAINERS|COMMITTER"

// Match records one roster username mentioned in one governance file. The
// same username in multiple files yields one match per file.
type Match struct {
	Name  string `json:"name"`
	Login string `json:"login"`
	Tier  int    `json:"tier"`
	File  string `json:"file"`
	Role  string `json:"role"`
}

// SaveMatches writes governance matches to a JSON file.
func SaveMatches(matches []Match, path string) error {
	if matches == nil {
		matches = []Match{}
	}
	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling matches: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing matches to %s: %w", path, err)
	}
	return nil
}

// Scanner fetches and classifies governance files for a repository.
type Scanner struct {
	client   github.Client
	logger   *zap.Logger
	lookback int
	include  []string
	exclude  []string
}

// NewScanner creates a Scanner. lookback bounds the approver section scan
// when classifying roles in generic OWNERS-style files.
func NewScanner(client github.Client, logger *zap.Logger, lookback int, include, exclude []string) *Scanner {
	if lookback < 1 {
		lookback = 5
	}
	return &Scanner{
		client:   client,
		logger:   logger,
		lookback: lookback,
		include:  include,
		exclude:  exclude,
	}
}

// Scan lists the repository tree, fetches every governance file matching
// the name pattern, archives raw contents under workdir, and returns the
// roster matches. A fetch failure skips that file and continues.
func (s *Scanner) Scan(ctx context.Context, owner, repo, workdir, pattern string, ros *roster.Roster) ([]Match, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	nameRe, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling file name pattern: %w", err)
	}

	paths, err := s.client.ListTree(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("listing repository tree: %w", err)
	}

	var selected []string
	for _, p := range paths {
		if nameRe.MatchString(p) && s.matchesGlobs(p) {
			selected = append(selected, p)
		}
	}
	s.logger.Info("governance files found",
		zap.String("repo", owner+"/"+repo), zap.Int("count", len(selected)))

	byLogin := ros.ByLogin()
	var matches []Match
	for _, path := range selected {
		content, err := s.client.GetFileContent(ctx, owner, repo, path)
		if err != nil {
			s.logger.Warn("skipping governance file, fetch failed",
				zap.String("path", path), zap.Error(err))
			continue
		}

		// Archive the raw file before analysis.
		if err := archiveRaw(workdir, path, content); err != nil {
			s.logger.Warn("could not archive governance file",
				zap.String("path", path), zap.Error(err))
		}

		text := string(content)
		for _, token := range ExtractTokens(text) {
			emp, ok := byLogin[strings.ToLower(token)]
			if !ok {
				continue
			}
			matches = append(matches, Match{
				Name:  emp.Name,
				Login: token,
				Tier:  emp.Tier(),
				File:  path,
				Role:  ClassifyRole(path, text, token, s.lookback),
			})
		}
	}
	return matches, nil
}

// matchesGlobs applies the include/exclude glob patterns to a tree path.
func (s *Scanner) matchesGlobs(path string) bool {
	if len(s.include) > 0 && !matchesAny(path, s.include) {
		return false
	}
	return !matchesAny(path, s.exclude)
}

func matchesAny(path string, patterns []string) bool {
	normalized := filepath.ToSlash(path)
	for _, pattern := range patterns {
		if matched, err := doublestar.PathMatch(filepath.ToSlash(pattern), normalized); err == nil && matched {
			return true
		}
	}
	return false
}

// archiveRaw writes verbatim file content to the workdir with the path
// flattened into the file name.
func archiveRaw(workdir, path string, content []byte) error {
	safe := strings.NewReplacer("/", "-", " ", "_").Replace(path)
	return os.WriteFile(filepath.Join(workdir, "raw-governance-"+safe+".txt"), content, 0644)
}

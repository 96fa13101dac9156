package governance

import (
	"regexp"
	"strings"
)

// Roles a username can hold in a governance file, from strongest file-type
// signal to weakest textual context.
const (
	RoleCodeowner  = "codeowner"
	RoleMaintainer = "maintainer"
	RoleCommitter  = "committer"
	RoleApprover   = "approver"
	RoleReviewer   = "reviewer"
	RoleListed     = "listed"
)

// tokenPattern extracts candidate usernames: an optional @ marker followed
// by a run of word or hyphen characters.
var tokenPattern = regexp.MustCompile(`@?([\w-]+)`)

// ExtractTokens returns the unique candidate username tokens in the
// content, in first-occurrence order.
func ExtractTokens(content string) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, m := range tokenPattern.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			tokens = append(tokens, m[1])
		}
	}
	return tokens
}

// ClassifyRole infers a username's role in a governance file. File-type
// keywords in the path win outright; for generic OWNERS-style files the
// role comes from the text preceding the username's first occurrence, with
// lookback bounding the approver section scan.
func ClassifyRole(path, content, login string, lookback int) string {
	lowerPath := strings.ToLower(path)
	switch {
	case strings.Contains(lowerPath, "codeowners"):
		return RoleCodeowner
	case strings.Contains(lowerPath, "maintainer"):
		return RoleMaintainer
	case strings.Contains(lowerPath, "committer"):
		return RoleCommitter
	}

	lowerContent := strings.ToLower(content)
	idx := strings.Index(lowerContent, strings.ToLower(login))
	if idx <= 0 {
		return RoleListed
	}
	before := lowerContent[:idx]

	lines := strings.Split(before, "\n")
	if len(lines) > lookback {
		lines = lines[len(lines)-lookback:]
	}
	for _, line := range lines {
		if strings.Contains(line, "approver") {
			return RoleApprover
		}
	}
	if strings.Contains(before, "approvers") {
		return RoleApprover
	}
	if strings.Contains(before, "reviewer") {
		return RoleReviewer
	}
	return RoleListed
}

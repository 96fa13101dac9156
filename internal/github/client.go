package github

import "context"

// User is a platform user as returned by user search, with the profile
// fields needed for affiliation checks.
type User struct {
	Login   string `json:"login"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Bio     string `json:"bio"`
	Company string `json:"company"`
}

// CommitSignature is the author identity recorded on a commit.
type CommitSignature struct {
	AuthorEmail string
	AuthorName  string
}

// CloseEvent is a "closed" event on an issue or pull request. CommitID is
// set when the close was linked to a commit.
type CloseEvent struct {
	CommitID string
}

// Client is the capability interface over the code-hosting platform. All
// operations are independent, side-effect-free reads bounded by the
// client's timeout; callers treat failures as "no evidence" and continue.
type Client interface {
	// ListTree returns every blob path in the repository's current tree.
	ListTree(ctx context.Context, owner, repo string) ([]string, error)

	// GetFileContent fetches and decodes one file from the repository.
	GetFileContent(ctx context.Context, owner, repo, path string) ([]byte, error)

	// ListCommits returns author signatures for the repository's commit
	// history, paginated internally.
	ListCommits(ctx context.Context, owner, repo string) ([]CommitSignature, error)

	// SearchCommitsByAuthorEmail returns the platform logins of commit
	// authors matching the given email within one repository.
	SearchCommitsByAuthorEmail(ctx context.Context, owner, repo, email string) ([]string, error)

	// SearchUsersByName searches platform users by display name.
	SearchUsersByName(ctx context.Context, name string, limit int) ([]User, error)

	// IssueCloseEvents returns the close events recorded on an issue or
	// pull request.
	IssueCloseEvents(ctx context.Context, owner, repo string, number int) ([]CloseEvent, error)

	// SearchIssueCount returns the total result count for an issue search
	// query without fetching the results.
	SearchIssueCount(ctx context.Context, query string) (int, error)
}

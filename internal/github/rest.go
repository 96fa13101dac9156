package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.github.com"

// commitPageSize is the per_page value used when walking commit history.
const commitPageSize = 100

// RESTClient implements Client against the GitHub REST API via direct HTTP.
type RESTClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewRESTClient creates a live adapter. The token may be empty for
// unauthenticated access (subject to much lower rate limits).
func NewRESTClient(token string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL: defaultBaseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewRESTClientWithBaseURL creates an adapter against a non-default API
// endpoint (GitHub Enterprise, or a test server).
func NewRESTClientWithBaseURL(baseURL, token string, timeout time.Duration) *RESTClient {
	c := NewRESTClient(token, timeout)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// get issues a GET request and decodes the JSON response into out.
func (c *RESTClient) get(ctx context.Context, path string, accept string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if accept == "" {
		accept = "application/vnd.github+json"
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func (c *RESTClient) ListTree(ctx context.Context, owner, repo string) ([]string, error) {
	var body struct {
		Tree []struct {
			Path string `json:"path"`
			Type string `json:"type"`
		} `json:"tree"`
	}
	path := fmt.Sprintf("/repos/%s/%s/git/trees/HEAD?recursive=1", owner, repo)
	if err := c.get(ctx, path, "", &body); err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range body.Tree {
		if entry.Type == "blob" {
			paths = append(paths, entry.Path)
		}
	}
	return paths, nil
}

func (c *RESTClient) GetFileContent(ctx context.Context, owner, repo, path string) ([]byte, error) {
	var body struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	reqPath := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, escapePath(path))
	if err := c.get(ctx, reqPath, "", &body); err != nil {
		return nil, err
	}
	if body.Encoding != "base64" {
		return []byte(body.Content), nil
	}
	// The contents API wraps base64 with newlines.
	raw := strings.ReplaceAll(body.Content, "\n", "")
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding content of %s: %w", path, err)
	}
	return decoded, nil
}

func (c *RESTClient) ListCommits(ctx context.Context, owner, repo string) ([]CommitSignature, error) {
	var sigs []CommitSignature
	for page := 1; ; page++ {
		var body []struct {
			Commit struct {
				Author struct {
					Name  string `json:"name"`
					Email string `json:"email"`
				} `json:"author"`
			} `json:"commit"`
		}
		path := fmt.Sprintf("/repos/%s/%s/commits?per_page=%d&page=%d", owner, repo, commitPageSize, page)
		if err := c.get(ctx, path, "", &body); err != nil {
			return nil, err
		}
		for _, item := range body {
			if item.Commit.Author.Email == "" {
				continue
			}
			sigs = append(sigs, CommitSignature{
				AuthorEmail: item.Commit.Author.Email,
				AuthorName:  item.Commit.Author.Name,
			})
		}
		if len(body) < commitPageSize {
			return sigs, nil
		}
	}
}

func (c *RESTClient) SearchCommitsByAuthorEmail(ctx context.Context, owner, repo, email string) ([]string, error) {
	var body struct {
		Items []struct {
			Author *struct {
				Login string `json:"login"`
			} `json:"author"`
		} `json:"items"`
	}
	q := fmt.Sprintf("repo:%s/%s author-email:%s", owner, repo, email)
	path := "/search/commits?per_page=1&q=" + url.QueryEscape(q)
	if err := c.get(ctx, path, "application/vnd.github.cloak-preview+json", &body); err != nil {
		return nil, err
	}
	var logins []string
	for _, item := range body.Items {
		if item.Author != nil && item.Author.Login != "" {
			logins = append(logins, item.Author.Login)
		}
	}
	return logins, nil
}

func (c *RESTClient) SearchUsersByName(ctx context.Context, name string, limit int) ([]User, error) {
	if limit < 1 {
		limit = 1
	}
	var body struct {
		Items []struct {
			Login string `json:"login"`
		} `json:"items"`
	}
	path := fmt.Sprintf("/search/users?per_page=%d&q=%s", limit, url.QueryEscape(name))
	if err := c.get(ctx, path, "", &body); err != nil {
		return nil, err
	}

	// Search results carry only the login; profile fields come from a
	// follow-up lookup per candidate.
	var users []User
	for _, item := range body.Items {
		var u User
		if err := c.get(ctx, "/users/"+url.PathEscape(item.Login), "", &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (c *RESTClient) IssueCloseEvents(ctx context.Context, owner, repo string, number int) ([]CloseEvent, error) {
	var body []struct {
		Event    string `json:"event"`
		CommitID string `json:"commit_id"`
	}
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/events?per_page=%d", owner, repo, number, commitPageSize)
	if err := c.get(ctx, path, "", &body); err != nil {
		return nil, err
	}
	var events []CloseEvent
	for _, item := range body {
		if item.Event == "closed" {
			events = append(events, CloseEvent{CommitID: item.CommitID})
		}
	}
	return events, nil
}

func (c *RESTClient) SearchIssueCount(ctx context.Context, query string) (int, error) {
	var body struct {
		TotalCount int `json:"total_count"`
	}
	path := "/search/issues?per_page=1&q=" + url.QueryEscape(query)
	if err := c.get(ctx, path, "", &body); err != nil {
		return 0, err
	}
	return body.TotalCount, nil
}

// escapePath escapes each segment of a repository file path while keeping
// the slashes separating them.
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// Package provider implements the hosted-provider client boundary: a
// paginated GitHub repository listing with retry-on-transient-error
// semantics, returning only the repository descriptor shape the
// orchestrator needs.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// RepoInfo is the repository descriptor returned by the hosted provider.
type RepoInfo struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	FullName       string `json:"full_name"`
	CloneURL       string `json:"clone_url"`
	SSHURL         string `json:"ssh_url"`
	HTMLURL        string `json:"html_url"`
	Private        bool   `json:"private"`
	Fork           bool   `json:"fork"`
	Archived       bool   `json:"archived"`
	Disabled       bool   `json:"disabled"`
	DefaultBranch  string `json:"default_branch"`
	Owner          struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// OwnerLogin returns the repository owner's login, for filtering.
func (r RepoInfo) OwnerLogin() string { return r.Owner.Login }

// APIError is a transport-level failure from the hosted provider: a
// forbidden response (possibly rate limiting) or any other 4xx/5xx that
// survived retries.
type APIError struct {
	Message string
	Status  int
	Detail  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status=%d): %s", e.Message, e.Status, e.Detail)
}

// Client lists repositories from the GitHub REST API.
type Client struct {
	Token     string
	APIBase   string
	UserAgent string
	Timeout   time.Duration
	http      *http.Client
}

// NewClient builds a Client; token falls back to GITHUB_TOKEN when empty.
func NewClient(token string) *Client {
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	return &Client{
		Token:     token,
		APIBase:   "https://api.github.com",
		UserAgent: "secret-scout",
		Timeout:   30 * time.Second,
		http:      &http.Client{},
	}
}

func (c *Client) headers(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.UserAgent)
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

// requestJSON issues one GET with up to 3 attempts: 429/500/502/503/504
// retry after 0.5*(attempt+1) seconds; 403 raises a forbidden APIError;
// other 4xx/5xx raise a request-failed APIError.
func (c *Client) requestJSON(ctx context.Context, rawURL string) (json.RawMessage, http.Header, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, nil, err
		}
		c.headers(req)

		client := c.http
		client.Timeout = c.Timeout
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(250*(attempt+1)) * time.Millisecond)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			time.Sleep(time.Duration(250*(attempt+1)) * time.Millisecond)
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return body, resp.Header, nil
		case isRetryable(resp.StatusCode):
			lastErr = &APIError{Message: "GitHub API request failed", Status: resp.StatusCode, Detail: string(body)}
			time.Sleep(time.Duration(500*(attempt+1)) * time.Millisecond)
			continue
		case resp.StatusCode == http.StatusForbidden:
			return nil, nil, &APIError{
				Message: "GitHub API forbidden (possible rate limit or insufficient scopes)",
				Status:  resp.StatusCode,
				Detail:  string(body),
			}
		default:
			return nil, nil, &APIError{Message: "GitHub API request failed", Status: resp.StatusCode, Detail: string(body)}
		}
	}
	return nil, nil, &APIError{Message: "GitHub API request failed after retries", Detail: errString(lastErr)}
}

func isRetryable(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// parseLinkHeader extracts rel->url pairs from an RFC-5988 Link header.
func parseLinkHeader(link string) map[string]string {
	out := make(map[string]string)
	if link == "" {
		return out
	}
	for _, part := range strings.Split(link, ",") {
		part = strings.TrimSpace(part)
		segs := strings.Split(part, ";")
		if len(segs) < 2 {
			continue
		}
		urlPart := strings.TrimSpace(segs[0])
		if !(strings.HasPrefix(urlPart, "<") && strings.HasSuffix(urlPart, ">")) {
			continue
		}
		u := urlPart[1 : len(urlPart)-1]
		var rel string
		for _, p := range segs[1:] {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "rel=") {
				rel = strings.Trim(strings.TrimPrefix(p, "rel="), `"`)
			}
		}
		if rel != "" {
			out[rel] = u
		}
	}
	return out
}

func (c *Client) paginate(ctx context.Context, firstURL string) ([]RepoInfo, error) {
	var out []RepoInfo
	next := firstURL
	for next != "" {
		body, headers, err := c.requestJSON(ctx, next)
		if err != nil {
			return nil, err
		}
		var page []RepoInfo
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, &APIError{Message: "unexpected GitHub response (expected list)", Detail: truncateForError(string(body))}
		}
		out = append(out, page...)

		links := parseLinkHeader(headers.Get("Link"))
		next = links["next"]
	}
	return out, nil
}

func truncateForError(s string) string {
	if len(s) > 500 {
		return s[:500]
	}
	return s
}

// ListOrgRepos lists every repository owned by org, optionally excluding
// private repositories.
func (c *Client) ListOrgRepos(ctx context.Context, org string, includePrivate bool) ([]RepoInfo, error) {
	q := url.Values{"per_page": {"100"}, "type": {"all"}}
	first := fmt.Sprintf("%s/orgs/%s/repos?%s", strings.TrimRight(c.APIBase, "/"), url.PathEscape(org), q.Encode())
	repos, err := c.paginate(ctx, first)
	if err != nil {
		return nil, err
	}
	if !includePrivate {
		repos = filterPrivate(repos)
	}
	return repos, nil
}

// ListUserRepos lists repositories for user: when includePrivate is true
// and a token is configured, uses the authenticated /user/repos endpoint
// filtered by owner; otherwise falls back to the public /users/{user}/repos
// endpoint.
func (c *Client) ListUserRepos(ctx context.Context, user string, includePrivate bool) ([]RepoInfo, error) {
	if includePrivate && c.Token != "" {
		q := url.Values{"per_page": {"100"}, "affiliation": {"owner,collaborator,organization"}, "visibility": {"all"}}
		first := fmt.Sprintf("%s/user/repos?%s", strings.TrimRight(c.APIBase, "/"), q.Encode())
		repos, err := c.paginate(ctx, first)
		if err != nil {
			return nil, err
		}
		var owned []RepoInfo
		for _, r := range repos {
			if strings.EqualFold(r.OwnerLogin(), user) {
				owned = append(owned, r)
			}
		}
		return owned, nil
	}

	q := url.Values{"per_page": {"100"}, "type": {"all"}}
	first := fmt.Sprintf("%s/users/%s/repos?%s", strings.TrimRight(c.APIBase, "/"), url.PathEscape(user), q.Encode())
	repos, err := c.paginate(ctx, first)
	if err != nil {
		return nil, err
	}
	if !includePrivate {
		repos = filterPrivate(repos)
	}
	return repos, nil
}

func filterPrivate(repos []RepoInfo) []RepoInfo {
	out := make([]RepoInfo, 0, len(repos))
	for _, r := range repos {
		if !r.Private {
			out = append(out, r)
		}
	}
	return out
}

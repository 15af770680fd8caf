package gather

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultAPIBase = "https://api.github.com"

// githubURLPatterns accept the usual repository URL shapes:
// owner/repo, owner/repo/tree/ref/..., owner/repo/blob/ref/file.
var githubURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^([^/]+)/([^/]+?)(?:\.git)?/?$`),
	regexp.MustCompile(`^([^/]+)/([^/]+)/tree/([^/]+)/?.*$`),
	regexp.MustCompile(`^([^/]+)/([^/]+)/blob/([^/]+)/.*$`),
	regexp.MustCompile(`^([^/]+)/([^/]+)/commits?/([^/]+)/?.*$`),
}

// ParseGitHubURL extracts (owner, repo, ref) from a GitHub URL or a bare
// owner/repo identifier. Ref is empty when the URL does not name one; the
// repository's default branch is resolved later.
func ParseGitHubURL(raw string) (owner, repo, ref string, ok bool) {
	s := strings.TrimSuffix(strings.TrimSpace(raw), "/")
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		u, err := url.Parse(s)
		if err != nil || !strings.EqualFold(u.Hostname(), "github.com") {
			return "", "", "", false
		}
		s = strings.TrimPrefix(u.Path, "/")
	} else if strings.HasPrefix(s, "github.com/") {
		s = strings.TrimPrefix(s, "github.com/")
	} else if strings.Contains(s, ":") || !strings.Contains(s, "/") {
		return "", "", "", false
	}

	for _, pat := range githubURLPatterns {
		m := pat.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		owner, repo = m[1], m[2]
		if len(m) > 3 {
			ref = m[3]
		}
		return owner, repo, ref, true
	}
	return "", "", "", false
}

// GitHubSource lists a repository tree with one recursive API call and
// fetches blob content lazily, one call per included file.
type GitHubSource struct {
	client  *http.Client
	apiBase string
	owner   string
	repo    string
	ref     string
	token   string
	logger  *zap.Logger
}

// NewGitHubSource builds a source for owner/repo at ref (empty = default
// branch). The token, if any, is read once by the caller and passed in; its
// absence only lowers the hourly rate limit.
func NewGitHubSource(owner, repo, ref, token string, logger *zap.Logger) *GitHubSource {
	return &GitHubSource{
		client:  &http.Client{Timeout: 30 * time.Second},
		apiBase: defaultAPIBase,
		owner:   owner,
		repo:    repo,
		ref:     ref,
		token:   token,
		logger:  logger,
	}
}

func (s *GitHubSource) Name() string {
	return fmt.Sprintf("github.com/%s/%s", s.owner, s.repo)
}

func (s *GitHubSource) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiBase+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "ctxllm")
	if s.token != "" {
		req.Header.Set("Authorization", "token "+s.token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if rateLimited(resp) {
		resp.Body.Close()
		return nil, ErrRateLimited
	}
	return resp, nil
}

// rateLimited distinguishes quota exhaustion from ordinary 403s.
func rateLimited(resp *http.Response) bool {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return false
	}
	return resp.Header.Get("X-RateLimit-Remaining") == "0" ||
		resp.StatusCode == http.StatusTooManyRequests
}

// resolveRef returns the ref to list. When none was requested, the
// repository's default branch is looked up.
func (s *GitHubSource) resolveRef(ctx context.Context) (string, error) {
	if s.ref != "" {
		return s.ref, nil
	}
	resp, err := s.get(ctx, fmt.Sprintf("/repos/%s/%s", s.owner, s.repo))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", &SourceError{Source: s.Name(), Err: fmt.Errorf("repository not found or private")}
	default:
		return "", &SourceError{Source: s.Name(), Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var repo struct {
		DefaultBranch string `json:"default_branch"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&repo); err != nil {
		return "", &SourceError{Source: s.Name(), Err: err}
	}
	if repo.DefaultBranch == "" {
		return "main", nil
	}
	return repo.DefaultBranch, nil
}

type treeResponse struct {
	Tree []struct {
		Path string `json:"path"`
		Type string `json:"type"`
		Size int64  `json:"size"`
		SHA  string `json:"sha"`
	} `json:"tree"`
	Truncated bool `json:"truncated"`
}

// ListEntries requests the recursive tree for the resolved ref in one call.
// A 404 on the ref falls back to "master" once, matching repositories that
// predate the default-branch rename.
func (s *GitHubSource) ListEntries(ctx context.Context) ([]Entry, error) {
	ref, err := s.resolveRef(ctx)
	if err != nil {
		return nil, err
	}

	tree, status, err := s.fetchTree(ctx, ref)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound && ref != "master" {
		s.logger.Debug("ref not found, retrying with master", zap.String("ref", ref))
		tree, status, err = s.fetchTree(ctx, "master")
		if err != nil {
			return nil, err
		}
	}
	if status == http.StatusNotFound {
		return nil, &SourceError{Source: s.Name(), Err: fmt.Errorf("ref %q not found", ref)}
	}
	if status != http.StatusOK {
		return nil, &SourceError{Source: s.Name(), Err: fmt.Errorf("tree listing failed with status %d", status)}
	}
	if tree.Truncated {
		s.logger.Warn("tree listing truncated by the API; some files will be missing",
			zap.String("repo", s.Name()), zap.String("ref", ref))
	}

	entries := make([]Entry, 0, len(tree.Tree))
	for _, item := range tree.Tree {
		if item.Type != "blob" {
			continue
		}
		entries = append(entries, Entry{Path: item.Path, Size: item.Size, SHA: item.SHA})
	}
	return entries, nil
}

func (s *GitHubSource) fetchTree(ctx context.Context, ref string) (*treeResponse, int, error) {
	resp, err := s.get(ctx, fmt.Sprintf("/repos/%s/%s/git/trees/%s?recursive=1",
		s.owner, s.repo, url.PathEscape(ref)))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}
	var tree treeResponse
	if err := json.NewDecoder(resp.Body).Decode(&tree); err != nil {
		return nil, 0, &SourceError{Source: s.Name(), Err: err}
	}
	return &tree, http.StatusOK, nil
}

// FetchText retrieves one blob and decodes its base64 payload. Rate-limit
// errors propagate so the run can abort; other failures are per-file.
func (s *GitHubSource) FetchText(ctx context.Context, e Entry) (string, error) {
	resp, err := s.get(ctx, fmt.Sprintf("/repos/%s/%s/git/blobs/%s", s.owner, s.repo, e.SHA))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("blob %s: status %d", e.SHA, resp.StatusCode)
	}

	var blob struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&blob); err != nil {
		return "", fmt.Errorf("blob %s: %w", e.SHA, err)
	}

	switch blob.Encoding {
	case "base64":
		raw, err := base64.StdEncoding.DecodeString(stripWhitespace(blob.Content))
		if err != nil {
			return "", fmt.Errorf("blob %s: %w", e.SHA, err)
		}
		return decodeText(raw), nil
	case "utf-8", "":
		return decodeText([]byte(blob.Content)), nil
	default:
		return "", fmt.Errorf("blob %s: unsupported encoding %q", e.SHA, blob.Encoding)
	}
}

// The API wraps base64 payloads at 60 columns.
func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)
}

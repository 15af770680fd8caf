package gather

import (
	"context"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"
)

// IsGitURL reports whether the input looks like a clonable git URL rather
// than a local path or GitHub web URL.
func IsGitURL(input string) bool {
	return strings.HasSuffix(input, ".git") || strings.HasPrefix(input, "git@")
}

// GitSource shallow-clones a repository into a temporary directory and then
// behaves exactly like a LocalSource over the checkout.
type GitSource struct {
	*LocalSource
	url     string
	tempDir string
}

// NewGitSource clones url (single branch, depth 1) and wraps the checkout.
// Call Cleanup when done to remove the temporary clone.
func NewGitSource(ctx context.Context, url, ref string, respectGitignore bool, logger *zap.Logger) (*GitSource, error) {
	tempDir, err := os.MkdirTemp("", "ctxllm-git-")
	if err != nil {
		return nil, err
	}

	opts := &git.CloneOptions{
		URL:           url,
		Depth:         1,
		SingleBranch:  true,
		ReferenceName: plumbing.HEAD,
	}
	if ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(ref)
	}

	logger.Info("cloning repository", zap.String("url", url), zap.String("dir", tempDir))
	if _, err := git.PlainCloneContext(ctx, tempDir, false, opts); err != nil {
		os.RemoveAll(tempDir)
		return nil, &SourceError{Source: url, Err: err}
	}

	local, err := NewLocalSource(tempDir, respectGitignore, logger)
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, err
	}
	return &GitSource{LocalSource: local, url: url, tempDir: tempDir}, nil
}

func (s *GitSource) Name() string { return s.url }

// Cleanup removes the temporary clone.
func (s *GitSource) Cleanup() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

package gather

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"
)

// vcsDirs are pruned from local walks no matter what the config says.
var vcsDirs = map[string]struct{}{
	".git": {}, ".hg": {}, ".svn": {}, ".bzr": {},
}

// LocalSource walks a directory tree on disk.
type LocalSource struct {
	root      string
	gitIgnore *ignore.GitIgnore
	logger    *zap.Logger
}

// NewLocalSource validates the root directory and, when requested, compiles
// its .gitignore.
func NewLocalSource(root string, respectGitignore bool, logger *zap.Logger) (*LocalSource, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &SourceError{Source: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &SourceError{Source: root, Err: fmt.Errorf("not a directory")}
	}

	s := &LocalSource{root: root, logger: logger}
	if respectGitignore {
		gitIgnorePath := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(gitIgnorePath); err == nil {
			gi, err := ignore.CompileIgnoreFile(gitIgnorePath)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", gitIgnorePath, err)
			}
			s.gitIgnore = gi
		}
	}
	return s, nil
}

func (s *LocalSource) Name() string { return s.root }

// ListEntries walks the tree depth-first. Symbolic links are not followed,
// VCS metadata directories are always pruned, and unreadable subpaths are
// logged and skipped rather than failing the walk.
func (s *LocalSource) ListEntries(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	walkErr := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			if p == s.root {
				return err
			}
			s.logger.Warn("skipping unreadable path", zap.String("path", p), zap.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if p == s.root {
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		name := d.Name()

		if d.IsDir() {
			if _, vcs := vcsDirs[name]; vcs {
				return fs.SkipDir
			}
			if s.gitIgnore != nil && s.gitIgnore.MatchesPath(rel) {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			// Never followed; avoids cycles and surprise escapes from root.
			return nil
		}
		if s.gitIgnore != nil && s.gitIgnore.MatchesPath(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			s.logger.Warn("skipping file without metadata", zap.String("path", p), zap.Error(err))
			return nil
		}
		entries = append(entries, Entry{Path: rel, Size: info.Size()})
		return nil
	})
	if walkErr != nil {
		if ctx.Err() != nil {
			return entries, ctx.Err()
		}
		return nil, &SourceError{Source: s.root, Err: walkErr}
	}
	return entries, nil
}

// FetchText reads one file and decodes it permissively: invalid byte
// sequences become the replacement character instead of failing the file.
func (s *LocalSource) FetchText(ctx context.Context, e Entry) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(e.Path)))
	if err != nil {
		return "", err
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return decodeText(raw), nil
}

// decodeText converts raw bytes to a UTF-8 string, substituting the
// replacement character for undecodable sequences.
func decodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}

package gather

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned when the GitHub API quota is exhausted. The run
// aborts fail-fast; anything aggregated before the limit hit stays usable.
var ErrRateLimited = errors.New("github api rate limit exhausted (set GITHUB_TOKEN to raise the limit)")

// ConfigError reports an invalid filter configuration. It is detected before
// any I/O happens.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// SourceError means the source root itself could not be reached: missing
// directory, unknown repository, unresolvable ref. It aborts the run.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s unreachable: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Skip records a single file left out of the document and why. Per-file
// failures are collected here instead of aborting the run.
type Skip struct {
	Path   string
	Reason string
}

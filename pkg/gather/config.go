package gather

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up in the working directory when no explicit
// config path is given.
const ConfigFileName = ".ctxllm.yaml"

// Config holds the inclusion rules for a run. It is read-only once the run
// starts.
type Config struct {
	// AllowedExtensions restricts output to these extensions (without the
	// leading dot). Empty means allow all.
	AllowedExtensions []string `yaml:"allowed_extensions"`

	// ExcludedPaths are doublestar glob patterns matched against the
	// slash-relative path. A bare name like "node_modules" also matches any
	// path segment with that name.
	ExcludedPaths []string `yaml:"excluded_paths"`

	// MaxFileSize rejects individual files larger than this many bytes.
	// Zero means no per-file limit.
	MaxFileSize int64 `yaml:"max_file_size_bytes"`

	// TotalSizeCap stops the aggregator once the next file would push the
	// cumulative content size past this many bytes. Files are skipped whole,
	// never cut mid-file. Zero means no cap.
	TotalSizeCap int64 `yaml:"total_size_cap_bytes"`

	// SkipBinary drops files whose content looks binary, and short-circuits
	// well-known binary extensions before fetching content at all.
	SkipBinary bool `yaml:"skip_binary"`

	// RespectGitignore makes the local source honor the root .gitignore.
	RespectGitignore bool `yaml:"respect_gitignore"`

	// StripComments removes comments from languages with known comment
	// syntax before aggregation.
	StripComments bool `yaml:"strip_comments"`

	// IncludeTree prepends a directory-tree block to the document.
	IncludeTree bool `yaml:"include_tree"`

	// Models selects which model families get a token estimate.
	Models []string `yaml:"models"`
}

// DefaultConfig returns the settings used when no config file or flags are
// present.
func DefaultConfig() Config {
	return Config{
		ExcludedPaths:    defaultExcludedPaths(),
		MaxFileSize:      1 << 20,  // 1 MiB
		TotalSizeCap:     10 << 20, // 10 MiB
		SkipBinary:       true,
		RespectGitignore: true,
		IncludeTree:      true,
		Models:           []string{"gpt-4o", "claude-4-sonnet"},
	}
}

// defaultExcludedPaths mirrors the usual noise directories of real projects.
func defaultExcludedPaths() []string {
	return []string{
		"node_modules", "__pycache__", ".vscode", ".idea",
		"dist", "build", "target", "vendor", ".next", ".nuxt",
		"coverage", ".pytest_cache", ".tox",
		".venv", "venv", ".DS_Store", "Thumbs.db",
	}
}

// Validate checks the configuration before any I/O. It returns a
// *ConfigError describing the first problem found.
func (c Config) Validate() error {
	if c.MaxFileSize < 0 {
		return &ConfigError{Field: "max_file_size_bytes", Reason: "must not be negative"}
	}
	if c.TotalSizeCap < 0 {
		return &ConfigError{Field: "total_size_cap_bytes", Reason: "must not be negative"}
	}
	for _, pat := range c.ExcludedPaths {
		if pat == "" {
			return &ConfigError{Field: "excluded_paths", Reason: "empty pattern"}
		}
		if !doublestar.ValidatePattern(pat) {
			return &ConfigError{Field: "excluded_paths", Reason: fmt.Sprintf("invalid glob pattern %q", pat)}
		}
	}
	for _, ext := range c.AllowedExtensions {
		if strings.ContainsAny(ext, "/\\") {
			return &ConfigError{Field: "allowed_extensions", Reason: fmt.Sprintf("%q is not an extension", ext)}
		}
	}
	return nil
}

// LoadConfigFile reads a YAML config over the defaults. A missing file is
// not an error; the defaults are returned as-is.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// normalizeExt lowercases an extension and strips the leading dot, so
// "TXT", ".txt" and "txt" all compare equal.
func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

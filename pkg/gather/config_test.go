package gather

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidateRejectsNegativeSizes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxFileSize = -1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for negative max_file_size_bytes")
	}

	cfg = DefaultConfig()
	cfg.TotalSizeCap = -1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for negative total_size_cap_bytes")
	}
}

func TestValidateRejectsBadPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExcludedPaths = append(cfg.ExcludedPaths, "[oops")
	err := cfg.Validate()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
	if cfgErr.Field != "excluded_paths" {
		t.Fatalf("wrong field in error: %q", cfgErr.Field)
	}
}

func TestValidateRejectsPathlikeExtension(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowedExtensions = []string{"src/go"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for path-like extension")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing config file must not error: %v", err)
	}
	if !cfg.SkipBinary {
		t.Fatalf("expected defaults for missing file")
	}
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := []byte("allowed_extensions: [go, md]\nmax_file_size_bytes: 2048\nskip_binary: false\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.AllowedExtensions) != 2 || cfg.AllowedExtensions[0] != "go" {
		t.Fatalf("allowed_extensions not loaded: %v", cfg.AllowedExtensions)
	}
	if cfg.MaxFileSize != 2048 {
		t.Fatalf("max_file_size_bytes = %d, want 2048", cfg.MaxFileSize)
	}
	if cfg.SkipBinary {
		t.Fatalf("skip_binary should be overridden to false")
	}
	if cfg.TotalSizeCap != DefaultConfig().TotalSizeCap {
		t.Fatalf("unset fields must keep defaults")
	}
}

func TestLoadConfigFileBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("allowed_extensions: ["), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadConfigFile(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestNormalizeExt(t *testing.T) {
	cases := map[string]string{
		".Go":  "go",
		"go":   "go",
		".TXT": "txt",
		"":     "",
	}
	for in, want := range cases {
		if got := normalizeExt(in); got != want {
			t.Fatalf("normalizeExt(%q) = %q, want %q", in, got, want)
		}
	}
}

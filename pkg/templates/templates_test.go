package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemplates(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "templates.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write templates: %v", err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing template file must not error: %v", err)
	}
	if len(m.Names()) != 0 {
		t.Fatalf("expected empty manager, got %v", m.Names())
	}
}

func TestLoadAndNames(t *testing.T) {
	path := writeTemplates(t, `templates:
  - name: review
    prefix: "Please review this codebase."
    suffix: "Focus on correctness."
  - name: audit
    prefix: "Security audit follows."
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	names := m.Names()
	if len(names) != 2 || names[0] != "audit" || names[1] != "review" {
		t.Fatalf("Names() = %v, want sorted [audit review]", names)
	}
	if _, ok := m.Get("review"); !ok {
		t.Fatalf("Get(review) not found")
	}
}

func TestLoadRejectsNamelessTemplate(t *testing.T) {
	path := writeTemplates(t, "templates:\n  - prefix: \"no name\"\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for a template without a name")
	}
}

func TestApply(t *testing.T) {
	path := writeTemplates(t, `templates:
  - name: review
    prefix: "PREFIX"
    suffix: "SUFFIX"
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	out, err := m.Apply("review", "=== FILE: a.txt ===\nhello\n")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !strings.HasPrefix(out, "PREFIX\n\n") {
		t.Fatalf("prefix missing:\n%s", out)
	}
	if !strings.HasSuffix(out, "\nSUFFIX\n") {
		t.Fatalf("suffix missing:\n%s", out)
	}
	if !strings.Contains(out, "=== FILE: a.txt ===\nhello\n") {
		t.Fatalf("document body altered:\n%s", out)
	}
}

func TestApplyUnknownTemplate(t *testing.T) {
	path := writeTemplates(t, "templates:\n  - name: review\n    prefix: p\n")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	_, err = m.Apply("nope", "doc")
	if err == nil {
		t.Fatalf("expected error for unknown template")
	}
	if !strings.Contains(err.Error(), "review") {
		t.Fatalf("error should list available templates: %v", err)
	}
}

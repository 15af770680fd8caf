// Package templates manages prompt templates that wrap a flattened document
// before it is handed to the clipboard or a file.
package templates

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template wraps a document with instruction text.
type Template struct {
	Name   string `yaml:"name"`
	Prefix string `yaml:"prefix"`
	Suffix string `yaml:"suffix"`
}

type templatesFile struct {
	Templates []Template `yaml:"templates"`
}

// Manager holds the loaded template set.
type Manager struct {
	byName map[string]Template
}

// Load reads a YAML template file. A missing file yields an empty manager,
// not an error.
func Load(path string) (*Manager, error) {
	m := &Manager{byName: map[string]Template{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, err
	}
	var f templatesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for _, t := range f.Templates {
		if t.Name == "" {
			return nil, fmt.Errorf("template without a name in %s", path)
		}
		m.byName[t.Name] = t
	}
	return m, nil
}

// Names lists the available template names, sorted.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.byName))
	for name := range m.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named template.
func (m *Manager) Get(name string) (Template, bool) {
	t, ok := m.byName[name]
	return t, ok
}

// Apply wraps a document with the named template's prefix and suffix.
func (m *Manager) Apply(name, document string) (string, error) {
	t, ok := m.byName[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q (available: %s)", name, strings.Join(m.Names(), ", "))
	}
	var b strings.Builder
	if t.Prefix != "" {
		b.WriteString(strings.TrimRight(t.Prefix, "\n"))
		b.WriteString("\n\n")
	}
	b.WriteString(document)
	if t.Suffix != "" {
		if !strings.HasSuffix(document, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(t.Suffix, "\n"))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Package templates loads the prompt template registry: built-in defaults,
// optionally overridden by an operator-authored YAML file.
package templates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mlombardi/issueflow/internal/domain"
)

type fileFormat struct {
	TechPriority  []string          `yaml:"tech_priority"`
	TechTemplates map[string]string `yaml:"tech_templates"`
	TypeTemplates map[string]string `yaml:"type_templates"`
	Default       string            `yaml:"default"`
	Texts         map[string]string `yaml:"texts"`
}

// Load returns the template set. When path is empty or the file does not
// exist, the built-in defaults are returned unchanged; an existing but
// malformed file is an error. Overrides merge over the defaults so a file
// can redefine a single template body without restating the rest.
func Load(path string) (*domain.TemplateSet, error) {
	ts := domain.DefaultTemplateSet()
	if path == "" {
		return ts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ts, nil
		}
		return nil, fmt.Errorf("failed to read templates file: %w", err)
	}

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse templates file %s: %w", path, err)
	}

	if len(f.TechPriority) > 0 {
		ts.TechPriority = f.TechPriority
	}
	for tag, name := range f.TechTemplates {
		ts.TechTemplates[tag] = name
	}
	for issueType, name := range f.TypeTemplates {
		ts.TypeTemplates[issueType] = name
	}
	if f.Default != "" {
		ts.Default = f.Default
	}
	for name, text := range f.Texts {
		ts.Texts[name] = text
	}

	return ts, nil
}

package workflow

import (
	"os"
	"path/filepath"
	"strings"
)

// DetectTechStack inspects a project directory for well-known marker files
// and returns the tech tags they imply. Detection is best-effort: unreadable
// files just contribute nothing.
func DetectTechStack(dir string) []string {
	var tags []string
	seen := make(map[string]bool)
	add := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	if data, err := os.ReadFile(filepath.Join(dir, "package.json")); err == nil {
		add("javascript")
		if strings.Contains(string(data), `"react"`) {
			add("react")
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "tsconfig.json")); err == nil {
		add("typescript")
	}
	if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
		add("go")
	}
	if _, err := os.Stat(filepath.Join(dir, "pyproject.toml")); err == nil {
		add("python")
	} else if _, err := os.Stat(filepath.Join(dir, "requirements.txt")); err == nil {
		add("python")
	}

	return tags
}

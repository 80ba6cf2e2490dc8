package domain

import (
	"regexp"
	"strings"
)

var (
	issueIDPattern  = regexp.MustCompile(`(?i)\b([a-z]+-\d+)\b`)
	slugStripChars  = regexp.MustCompile(`[^a-z0-9]+`)
	maxBranchLength = 60
)

// BranchName builds a git branch name from an issue identifier and title:
// lowercase identifier, hyphen, slugified title, truncated to a sane length.
// "ENG-123", "Fix login redirect" -> "eng-123-fix-login-redirect".
func BranchName(identifier, title string) string {
	slug := slugStripChars.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")

	name := strings.ToLower(identifier)
	if slug != "" {
		name += "-" + slug
	}
	if len(name) > maxBranchLength {
		name = name[:maxBranchLength]
		// Cut at a word boundary rather than mid-token.
		if i := strings.LastIndex(name, "-"); i > len(identifier) {
			name = name[:i]
		}
		name = strings.TrimRight(name, "-")
	}
	return name
}

// ExtractIssueID pulls an issue identifier like "ENG-123" out of a branch
// name. Returns "" when the branch carries no identifier.
func ExtractIssueID(branch string) string {
	m := issueIDPattern.FindString(branch)
	return strings.ToUpper(m)
}

package domain

import "strings"

// InferIssueType maps tracker labels to one of the well-known issue types.
// The first label that matches wins, checked in the order bug, feature,
// enhancement. Anything else is a plain task.
func InferIssueType(labels []string) string {
	for _, l := range labels {
		switch strings.ToLower(strings.TrimSpace(l)) {
		case IssueTypeBug, "defect", "bugfix":
			return IssueTypeBug
		case IssueTypeFeature:
			return IssueTypeFeature
		case IssueTypeEnhancement, "improvement":
			return IssueTypeEnhancement
		}
	}
	return IssueTypeTask
}

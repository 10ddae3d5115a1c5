package varinspect

import "fmt"

// Issue is one unbound property rendered as a lint finding
type Issue struct {
	LayerID     NodeID
	Layer       string
	Property    string
	Value       string
	Text        string   // "Fill uses literal rgb(255, 0, 0)"
	Suggestions []string // candidate variables or tokens
}

// IssueUnbound is the message template for unbound properties
const IssueUnbound = "%s uses literal %s"

// BuildIssues turns the unbound observations of a report into issues,
// attaching suggestions with a matching value
func BuildIssues(report *Report) []Issue {
	type key struct{ label, value string }
	candidates := make(map[key][]string)
	for _, s := range report.Suggestions {
		candidates[key{s.Label, s.Value}] = s.Candidates
	}

	issues := make([]Issue, 0, len(report.Unbound))
	for _, o := range report.Unbound {
		issues = append(issues, Issue{
			LayerID:     o.LayerID,
			Layer:       o.LayerName,
			Property:    o.Label,
			Value:       o.Value,
			Text:        fmt.Sprintf(IssueUnbound, o.Label, o.Value),
			Suggestions: candidates[key{o.Label, o.Value}],
		})
	}
	return issues
}

// LimitIssues applies max-issues and max-same-issues limits and returns
// the kept issues and the number removed
func LimitIssues(issues []Issue, maxIssues, maxSame int) ([]Issue, int) {
	original := len(issues)

	if maxSame > 0 {
		counts := make(map[string]int)
		var filtered []Issue
		for _, issue := range issues {
			if counts[issue.Text] < maxSame {
				filtered = append(filtered, issue)
				counts[issue.Text]++
			}
		}
		issues = filtered
	}

	if maxIssues > 0 && len(issues) > maxIssues {
		issues = issues[:maxIssues]
	}

	return issues, original - len(issues)
}

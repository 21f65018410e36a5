package domain

import (
	"fmt"
	"strings"
)

// Assignment pairs one member with the task the spin landed on.
type Assignment struct {
	Member string `json:"member"`
	Task   string `json:"task"`
}

// String renders the pairing the way the results list shows it.
func (a Assignment) String() string {
	return a.Member + " - " + a.Task
}

// FormatAssignments renders one pairing per line.
func FormatAssignments(assignments []Assignment) string {
	lines := make([]string, 0, len(assignments))
	for _, a := range assignments {
		lines = append(lines, a.String())
	}
	return strings.Join(lines, "\n")
}

// AssignmentsMarkdown renders assignments as a markdown table.
func AssignmentsMarkdown(assignments []Assignment) string {
	if len(assignments) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Assignments\n\n")
	b.WriteString("| Member | Task |\n|---|---|\n")
	for _, a := range assignments {
		fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(a.Member), escapeCell(a.Task))
	}
	return b.String()
}

// escapeCell keeps pipes in names from breaking the table layout.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

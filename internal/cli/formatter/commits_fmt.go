package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gtmdash/internal/domain"
)

const subjectWidth = 50

// FormatCommits renders commits in the order given. TimeSpent is expected to
// be filled in by the aggregator.
func FormatCommits(commits []domain.Commit) string {
	if len(commits) == 0 {
		return Dim("No commits in range.") + "\n"
	}

	cols := []Column{
		{Title: "DATE"},
		{Title: "PROJECT"},
		{Title: "HASH"},
		{Title: "TIME", Right: true},
		{Title: "SUBJECT"},
	}
	rows := make([][]string, 0, len(commits))
	var total domain.Seconds
	for _, c := range commits {
		total += c.TimeSpent
		rows = append(rows, []string{
			c.Date,
			StyleBlue.Render(c.Project),
			Dim(ShortHash(c.Hash)),
			Duration(c.TimeSpent),
			Truncate(c.Subject, subjectWidth),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(cols, rows))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s commits, %s tracked\n",
		Bold(fmt.Sprint(len(commits))), Bold(Duration(total))))
	return b.String()
}

// FormatProjects renders one project name per line.
func FormatProjects(names []string) string {
	if len(names) == 0 {
		return Dim("No tracked projects.") + "\n"
	}
	var b strings.Builder
	for _, n := range names {
		b.WriteString(n + "\n")
	}
	return b.String()
}

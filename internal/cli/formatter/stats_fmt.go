package formatter

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/gtmdash/internal/domain"
	"github.com/alexanderramin/gtmdash/internal/stats"
	"github.com/samber/lo"
)

const shareBarWidth = 10

// FormatStats renders project totals, the status breakdown and, when daily
// is non-empty, the per-day rollup.
func FormatStats(s domain.Stats, daily domain.DailyHours) string {
	if len(s.Projects) == 0 {
		return Dim("No time tracked in range.") + "\n"
	}

	var b strings.Builder
	b.WriteString(Header("Projects") + "\n")
	b.WriteString(formatProjectTotals(s))

	b.WriteString("\n" + Header("Status") + "\n")
	b.WriteString(formatStatusTotals(s.Status, s.TotalSecs))

	if len(daily) > 0 {
		b.WriteString("\n" + Header("Daily") + "\n")
		b.WriteString(formatDaily(daily))
	}

	b.WriteString(fmt.Sprintf("\n%s %s\n", Bold("Total:"), Duration(s.TotalSecs)))
	return b.String()
}

// FormatWorkdirStatus renders uncommitted time per project with its files.
func FormatWorkdirStatus(s domain.Stats) string {
	if len(s.Projects) == 0 {
		return Dim("No uncommitted time.") + "\n"
	}

	var b strings.Builder
	for i, p := range sortedProjects(s) {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s  %s\n", Bold(p.Name), Duration(p.Total)))

		files := lo.Values(p.Files)
		slices.SortFunc(files, func(a, b *domain.FileNote) int {
			return cmp.Or(cmp.Compare(b.TimeSpent, a.TimeSpent), cmp.Compare(a.SourceFile, b.SourceFile))
		})
		rows := make([][]string, 0, len(files))
		for _, f := range files {
			rows = append(rows, []string{
				f.SourceFile,
				StatusStyle(f.Status).Render(StatusLabel(f.Status)),
				Duration(f.TimeSpent),
			})
		}
		b.WriteString(RenderTable([]Column{{Title: "FILE"}, {Title: "STATUS"}, {Title: "TIME", Right: true}}, rows))
	}
	b.WriteString(fmt.Sprintf("\n%s %s\n", Bold("Total:"), Duration(s.TotalSecs)))
	return b.String()
}

// FormatWarnings lists aggregation warnings, one per line.
func FormatWarnings(warnings []stats.Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(Header("Warnings") + "\n")
	for _, w := range warnings {
		where := w.Project
		if w.Commit != "" {
			where += " " + ShortHash(w.Commit)
		}
		if w.File != "" {
			where += " " + w.File
		}
		b.WriteString(fmt.Sprintf("%s %s: %s\n", StyleYellow.Render(string(w.Code)), where, w.Message))
	}
	return b.String()
}

func formatProjectTotals(s domain.Stats) string {
	cols := []Column{
		{Title: "PROJECT"},
		{Title: "TIME", Right: true},
		{Title: "SHARE"},
		{Title: "COMMITS", Right: true},
	}
	projects := sortedProjects(s)
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			StyleBlue.Render(p.Name),
			Duration(p.Total),
			RenderShare(Share(p.Total, s.TotalSecs), shareBarWidth),
			fmt.Sprint(len(p.Commits)),
		})
	}
	return RenderTable(cols, rows)
}

func formatStatusTotals(status map[string]domain.Seconds, total domain.Seconds) string {
	codes := []string{domain.StatusModified, domain.StatusRead, domain.StatusDeleted}
	extra := lo.Filter(lo.Keys(status), func(code string, _ int) bool {
		return !domain.ValidFileStatuses[code]
	})
	slices.Sort(extra)
	codes = append(codes, extra...)

	rows := make([][]string, 0, len(codes))
	for _, code := range codes {
		rows = append(rows, []string{
			StatusStyle(code).Render(StatusLabel(code)),
			Duration(status[code]),
			RenderShare(Share(status[code], total), shareBarWidth),
		})
	}
	return RenderTable([]Column{{Title: "STATUS"}, {Title: "TIME", Right: true}, {Title: "SHARE"}}, rows)
}

func formatDaily(daily domain.DailyHours) string {
	dates := lo.Keys(daily)
	slices.Sort(dates)
	rows := make([][]string, 0, len(dates))
	for _, d := range dates {
		rows = append(rows, []string{d, Duration(daily[d].Total)})
	}
	return RenderTable([]Column{{Title: "DATE"}, {Title: "TIME", Right: true}}, rows)
}

// sortedProjects orders projects by total time, largest first, then name.
func sortedProjects(s domain.Stats) []*domain.Project {
	projects := lo.Values(s.Projects)
	slices.SortFunc(projects, func(a, b *domain.Project) int {
		return cmp.Or(cmp.Compare(b.Total, a.Total), cmp.Compare(a.Name, b.Name))
	})
	return projects
}

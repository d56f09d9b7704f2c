package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gtmdash/internal/domain"
)

// FormatSnapshots lists stored snapshots, newest first as given.
func FormatSnapshots(snapshots []*domain.Snapshot, now time.Time) string {
	if len(snapshots) == 0 {
		return Dim("No snapshots saved.") + "\n"
	}
	rows := make([][]string, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, []string{
			Dim(TruncID(s.ID)),
			s.Backend,
			s.FromDate + " .. " + s.ToDate,
			HumanTimestampFrom(s.CreatedAt, now),
		})
	}
	return RenderTable(Cols("ID", "BACKEND", "RANGE", "SAVED"), rows)
}

// FormatSnapshotSaved confirms a new snapshot.
func FormatSnapshotSaved(s *domain.Snapshot) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("id:"), s.ID))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("backend:"), s.Backend))
	b.WriteString(fmt.Sprintf("%s %s .. %s\n", Dim("range:"), s.FromDate, s.ToDate))
	sizes := make([]string, 0, len(domain.SnapshotSets))
	for _, name := range domain.SnapshotSets {
		sizes = append(sizes, fmt.Sprintf("%s %dB", name, len(s.Sets[name])))
	}
	b.WriteString(fmt.Sprintf("%s %s", Dim("sets:"), strings.Join(sizes, ", ")))
	return RenderBox("Snapshot saved", b.String()) + "\n"
}

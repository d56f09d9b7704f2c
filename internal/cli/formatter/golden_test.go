package formatter

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/alexanderramin/gtmdash/internal/domain"
	"github.com/alexanderramin/gtmdash/internal/stats"
	"github.com/alexanderramin/gtmdash/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ansiPattern matches ANSI escape sequences for stripping before golden comparison.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// goldenTest compares got against testdata/<name>.golden.
// Set GOLDEN_UPDATE=1 to regenerate golden files.
func goldenTest(t *testing.T, name, got string) {
	t.Helper()

	goldenDir := filepath.Join("testdata")
	goldenPath := filepath.Join(goldenDir, name+".golden")

	stripped := stripANSI(got)

	if os.Getenv("GOLDEN_UPDATE") == "1" {
		require.NoError(t, os.MkdirAll(goldenDir, 0755))
		require.NoError(t, os.WriteFile(goldenPath, []byte(stripped), 0644))
		t.Logf("updated golden file: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		t.Fatalf("golden file %s does not exist; run with GOLDEN_UPDATE=1 to create it", goldenPath)
	}
	require.NoError(t, err)

	assert.Equal(t, string(expected), stripped,
		"output does not match golden file %s; run with GOLDEN_UPDATE=1 to update", goldenPath)
}

const (
	apr02h21 int64 = 1585861200
	apr03h13 int64 = 1585918800
	apr03h01 int64 = 1585875600
)

func twoProjectCommits() []domain.Commit {
	return []domain.Commit{
		testutil.NewTestCommit("web",
			testutil.WithHash("aaaaaaaaaa1"),
			testutil.WithMessage("Add timeline chart"),
			func(c *domain.Commit) { c.Date = "2020-04-02 23:05:11 +02:00" },
			testutil.WithFiles(
				testutil.NewTestFileNote("src/app.ts", map[int64]domain.Seconds{apr02h21: 1800, apr03h13: 1200}),
				testutil.NewTestFileNote("README.md", map[int64]domain.Seconds{apr02h21: 600}, testutil.WithStatus(domain.StatusRead)),
			)),
		testutil.NewTestCommit("api",
			testutil.WithHash("bbbbbbbbbb2"),
			testutil.WithMessage("Rework the commit note parser so that malformed entries are reported"),
			func(c *domain.Commit) { c.Date = "2020-04-03 15:40:00 +02:00" },
			testutil.WithFiles(
				testutil.NewTestFileNote("main.go", map[int64]domain.Seconds{apr03h13: 2400}),
				testutil.NewTestFileNote("old.go", map[int64]domain.Seconds{apr03h13: 600}, testutil.WithStatus(domain.StatusDeleted)),
			)),
	}
}

func TestFormatStats_Golden_TwoProjects(t *testing.T) {
	s := stats.ComputeStats(twoProjectCommits(), nil)
	daily := stats.GetDaily(s.Projects)
	goldenTest(t, "stats_two_projects", FormatStats(s, daily))
}

func TestFormatCommits_Golden_Two(t *testing.T) {
	commits := twoProjectCommits()
	stats.ComputeStats(commits, nil)
	goldenTest(t, "commits_two", FormatCommits(commits))
}

func TestFormatWorkdirStatus_Golden_TwoProjects(t *testing.T) {
	list := domain.WorkdirStatusList{
		"web": testutil.NewTestWorkdirStatus(
			testutil.NewTestFileNote("src/app.ts", map[int64]domain.Seconds{apr02h21: 300}),
			testutil.NewTestFileNote("notes.md", map[int64]domain.Seconds{apr02h21: 120}, testutil.WithStatus(domain.StatusRead)),
		),
		"api": testutil.NewTestWorkdirStatus(
			testutil.NewTestFileNote("main.go", map[int64]domain.Seconds{apr03h01: 1500}),
		),
	}
	goldenTest(t, "workdir_two_projects", FormatWorkdirStatus(stats.ComputeWorkdirStatus(list, nil)))
}

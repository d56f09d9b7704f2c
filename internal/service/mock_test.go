package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/gtmdash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLoader(sets map[string]string) Loader {
	return func(_ context.Context, name string) ([]byte, error) {
		data, ok := sets[name]
		if !ok {
			return nil, errors.New("no such set")
		}
		return []byte(data), nil
	}
}

var mockSets = map[string]string{
	domain.SetCommits: `[
		{"Hash": "on-start", "When": "2020-04-01T00:00:00Z", "Project": "web", "Message": "init"},
		{"Hash": "inside", "When": "2020-04-02T10:00:00+02:00", "Project": "web", "Message": "fix bug"},
		{"Hash": "end-day", "When": "2020-04-03T23:59:00Z", "Project": "api", "Message": "add api"},
		{"Hash": "after", "When": "2020-04-04T00:00:00Z", "Project": "api", "Message": "fix later"},
		{"Hash": "garbage", "When": "sometime", "Project": "api", "Message": "broken"}
	]`,
	domain.SetProjects: `["org/team/web", "solo"]`,
	domain.SetWorkdir:  `{"web": {"Total": 60, "Label": "1m", "CommitNote": {"Files": []}}}`,
}

func TestMockService_FetchCommitsFiltersByWhen(t *testing.T) {
	svc, err := NewMockService(context.Background(), mapLoader(mockSets))
	require.NoError(t, err)

	commits, err := svc.FetchCommits(context.Background(), CommitsFilter{Start: "2020-04-01", End: "2020-04-03"})
	require.NoError(t, err)

	hashes := make([]string, 0, len(commits))
	for _, c := range commits {
		hashes = append(hashes, c.Hash)
	}
	assert.Equal(t, []string{"inside", "end-day"}, hashes)
}

func TestMockService_FetchCommitsMessage(t *testing.T) {
	svc, err := NewMockService(context.Background(), mapLoader(mockSets))
	require.NoError(t, err)

	commits, err := svc.FetchCommits(context.Background(), CommitsFilter{Start: "2020-03-01", End: "2020-05-01", Message: "fix"})
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "inside", commits[0].Hash)
	assert.Equal(t, "after", commits[1].Hash)

	commits, err = svc.FetchCommits(context.Background(), CommitsFilter{Start: "2020-03-01", End: "2020-05-01", Message: "Fix"})
	require.NoError(t, err)
	assert.Empty(t, commits, "message match is case-sensitive")
}

func TestMockService_ResultsAreCopies(t *testing.T) {
	svc, err := NewMockService(context.Background(), mapLoader(mockSets))
	require.NoError(t, err)
	filter := CommitsFilter{Start: "2020-04-01", End: "2020-04-03"}

	first, err := svc.FetchCommits(context.Background(), filter)
	require.NoError(t, err)
	first[0].TimeSpent = 999

	second, err := svc.FetchCommits(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, domain.Seconds(0), second[0].TimeSpent)
}

func TestMockService_InvalidFilter(t *testing.T) {
	svc, err := NewMockService(context.Background(), mapLoader(mockSets))
	require.NoError(t, err)

	_, err = svc.FetchCommits(context.Background(), CommitsFilter{Start: "2020-04-01", End: ""})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestMockService_ProjectsAndStatus(t *testing.T) {
	svc, err := NewMockService(context.Background(), mapLoader(mockSets))
	require.NoError(t, err)

	projects, err := svc.FetchProjectList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"web", "solo"}, projects)

	status, err := svc.FetchWorkdirStatus(context.Background())
	require.NoError(t, err)
	require.Contains(t, status, "web")
	assert.Equal(t, "1m", status["web"].Label)
}

func TestMockService_LoaderErrors(t *testing.T) {
	sets := map[string]string{domain.SetCommits: `[]`, domain.SetProjects: `not json`}
	_, err := NewMockService(context.Background(), mapLoader(sets))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding projects")

	_, err = NewMockService(context.Background(), mapLoader(map[string]string{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading commits")
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	for name, data := range mockSets {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), []byte(data), 0o644))
	}

	svc, err := NewMockService(context.Background(), FileLoader(dir))
	require.NoError(t, err)

	projects, err := svc.FetchProjectList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"web", "solo"}, projects)

	_, err = FileLoader(t.TempDir())(context.Background(), domain.SetCommits)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

package service

import (
	"context"

	"github.com/alexanderramin/gtmdash/internal/domain"
)

// CommitsFilter selects commits by calendar date range and message substring.
// Start and End are YYYY-MM-DD; End is inclusive.
type CommitsFilter struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Message string `json:"message,omitempty"`
}

// Service is the data-acquisition contract every backend implements.
type Service interface {
	GetVersion(ctx context.Context) (string, error)
	FetchCommits(ctx context.Context, filter CommitsFilter) ([]domain.Commit, error)
	FetchProjectList(ctx context.Context) ([]string, error)
	FetchWorkdirStatus(ctx context.Context) (domain.WorkdirStatusList, error)
}

// Method names used in logs, metrics and simulated failures.
const (
	MethodGetVersion         = "get_version"
	MethodFetchCommits       = "fetch_commits"
	MethodFetchProjectList   = "fetch_project_list"
	MethodFetchWorkdirStatus = "fetch_workdir_status"
)

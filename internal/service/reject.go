package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/alexanderramin/gtmdash/internal/domain"
)

// RejectService fails every data operation with a simulated GtmErr that
// names the call.
type RejectService struct{}

func (RejectService) GetVersion(context.Context) (string, error) {
	return "", fmt.Errorf("reject service: %w", ErrNoVersion)
}

func (RejectService) FetchCommits(_ context.Context, filter CommitsFilter) ([]domain.Commit, error) {
	return nil, reject(describeCommits(filter))
}

func (RejectService) FetchProjectList(context.Context) ([]string, error) {
	return nil, reject("project list")
}

func (RejectService) FetchWorkdirStatus(context.Context) (domain.WorkdirStatusList, error) {
	return nil, reject("workdir status")
}

func reject(call string) error {
	return simulatedErr("Testing with RejectService: " + call)
}

func describeCommits(filter CommitsFilter) string {
	b, _ := json.Marshal(filter)
	return "commits " + string(b)
}

// DefaultFailureTarget accepts no connections.
const DefaultFailureTarget = "http://127.0.0.1:0"

// FailureService fails every data operation by sending a real HTTP request
// to a target that cannot answer, surfacing the raw transport error.
type FailureService struct {
	target string
	client *http.Client
}

func NewFailureService(target string) *FailureService {
	if target == "" {
		target = DefaultFailureTarget
	}
	return &FailureService{target: target, client: &http.Client{}}
}

func (s *FailureService) GetVersion(context.Context) (string, error) {
	return "", fmt.Errorf("failure service: %w", ErrNoVersion)
}

func (s *FailureService) FetchCommits(ctx context.Context, filter CommitsFilter) ([]domain.Commit, error) {
	return nil, s.fail(ctx, describeCommits(filter))
}

func (s *FailureService) FetchProjectList(ctx context.Context) ([]string, error) {
	return nil, s.fail(ctx, "project list")
}

func (s *FailureService) FetchWorkdirStatus(ctx context.Context) (domain.WorkdirStatusList, error) {
	return nil, s.fail(ctx, "workdir status")
}

func (s *FailureService) fail(ctx context.Context, call string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.target+"/"+url.PathEscape(call), nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return simulatedErr(fmt.Sprintf("Testing with FailureService: %s answered %s", s.target, resp.Status))
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/gtmdash/internal/domain"
)

// WebService reads gtm data from an HTTP endpoint serving the /v1/data API.
type WebService struct {
	host   string
	client *http.Client
}

// WebOption configures a WebService.
type WebOption func(*WebService)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) WebOption {
	return func(s *WebService) {
		s.client = c
	}
}

func NewWebService(host string, opts ...WebOption) *WebService {
	s := &WebService{
		host: strings.TrimRight(host, "/"),
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *WebService) GetVersion(ctx context.Context) (string, error) {
	body, err := s.get(ctx, "/version", nil)
	if err != nil {
		return "", err
	}
	var version string
	if err := json.Unmarshal(body, &version); err != nil {
		// Older servers answer with plain text.
		return strings.TrimSpace(string(body)), nil
	}
	return version, nil
}

func (s *WebService) FetchCommits(ctx context.Context, filter CommitsFilter) ([]domain.Commit, error) {
	from, to, err := filter.dateRange()
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	if filter.Message != "" {
		q.Set("message", filter.Message)
	}
	return getJSON[[]domain.Commit](ctx, s, "/v1/data/commits", q)
}

func (s *WebService) FetchProjectList(ctx context.Context) ([]string, error) {
	ids, err := getJSON[[]string](ctx, s, "/v1/data/projects", nil)
	if err != nil {
		return nil, err
	}
	return TrailingSegments(ids), nil
}

func (s *WebService) FetchWorkdirStatus(ctx context.Context) (domain.WorkdirStatusList, error) {
	return getJSON[domain.WorkdirStatusList](ctx, s, "/v1/data/status", nil)
}

func getJSON[T any](ctx context.Context, s *WebService, path string, query url.Values) (T, error) {
	var v T
	body, err := s.get(ctx, path, query)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, parseErr(string(body), err)
	}
	return v, nil
}

func (s *WebService) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	target := s.host + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, transportErr(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportErr(fmt.Errorf("reading response body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httpStatusErr(resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// AuthWebService is a WebService that sends an access token with every
// request.
type AuthWebService struct {
	web *WebService
}

// NewAuthWebService wraps web so that access_token=token is added to the
// query string of every outbound request. web itself is left unchanged.
func NewAuthWebService(web *WebService, token string) *AuthWebService {
	client := *web.client
	client.Transport = &tokenTransport{base: client.Transport, token: token}
	return &AuthWebService{web: &WebService{host: web.host, client: &client}}
}

func (s *AuthWebService) GetVersion(ctx context.Context) (string, error) {
	return s.web.GetVersion(ctx)
}

func (s *AuthWebService) FetchCommits(ctx context.Context, filter CommitsFilter) ([]domain.Commit, error) {
	return s.web.FetchCommits(ctx, filter)
}

func (s *AuthWebService) FetchProjectList(ctx context.Context) ([]string, error) {
	return s.web.FetchProjectList(ctx)
}

func (s *AuthWebService) FetchWorkdirStatus(ctx context.Context) (domain.WorkdirStatusList, error) {
	return s.web.FetchWorkdirStatus(ctx)
}

type tokenTransport struct {
	base  http.RoundTripper
	token string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	q := out.URL.Query()
	q.Set("access_token", t.token)
	out.URL.RawQuery = q.Encode()

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(out)
}

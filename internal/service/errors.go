package service

import (
	"errors"
	"fmt"
)

// Kind classifies a GtmErr.
type Kind int

const (
	KindInvalidFilter Kind = iota + 1
	KindProcessExit
	KindParse
	KindSimulated
	KindHTTPStatus
	KindTransport
)

var (
	// ErrInvalidFilter indicates a malformed start or end date.
	ErrInvalidFilter = errors.New("invalid commits filter")

	// ErrProcessExit indicates the reporting tool exited unsuccessfully.
	ErrProcessExit = errors.New("gtm process failed")

	// ErrParse indicates the backend succeeded but its output was not valid JSON.
	ErrParse = errors.New("invalid gtm output")

	// ErrSimulatedFailure is returned by test-double services.
	ErrSimulatedFailure = errors.New("simulated failure")

	// ErrUnexpectedStatus indicates a non-200 HTTP response.
	ErrUnexpectedStatus = errors.New("unexpected http status")

	// ErrTransport indicates the HTTP request never produced a response.
	ErrTransport = errors.New("http transport failure")

	// ErrNoVersion is returned by services that cannot report a version.
	ErrNoVersion = errors.New("no version available")
)

var kindSentinels = map[Kind]error{
	KindInvalidFilter: ErrInvalidFilter,
	KindProcessExit:   ErrProcessExit,
	KindParse:         ErrParse,
	KindSimulated:     ErrSimulatedFailure,
	KindHTTPStatus:    ErrUnexpectedStatus,
	KindTransport:     ErrTransport,
}

// GtmErr is the uniform failure value of every service variant.
// ExitCode is nil when no process exit status applies.
type GtmErr struct {
	Kind     Kind
	Reason   string
	ExitCode *int
	Err      error
}

func (e *GtmErr) Error() string {
	sentinel := kindSentinels[e.Kind]
	prefix := "gtm error"
	if sentinel != nil {
		prefix = sentinel.Error()
	}
	if e.ExitCode != nil {
		prefix = fmt.Sprintf("%s (exit code %d)", prefix, *e.ExitCode)
	}
	if e.Reason == "" {
		return prefix
	}
	return prefix + ": " + e.Reason
}

// Is matches the sentinel for the error's kind.
func (e *GtmErr) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

func (e *GtmErr) Unwrap() error { return e.Err }

func intPtr(v int) *int { return &v }

func invalidFilterErr(format string, args ...any) *GtmErr {
	return &GtmErr{Kind: KindInvalidFilter, Reason: fmt.Sprintf(format, args...)}
}

func processExitErr(reason string, code *int, err error) *GtmErr {
	return &GtmErr{Kind: KindProcessExit, Reason: reason, ExitCode: code, Err: err}
}

func parseErr(raw string, err error) *GtmErr {
	return &GtmErr{Kind: KindParse, Reason: raw, ExitCode: intPtr(0), Err: err}
}

func simulatedErr(reason string) *GtmErr {
	return &GtmErr{Kind: KindSimulated, Reason: reason}
}

func httpStatusErr(status int, body string) *GtmErr {
	return &GtmErr{Kind: KindHTTPStatus, Reason: fmt.Sprintf("%d %s", status, body)}
}

func transportErr(err error) *GtmErr {
	return &GtmErr{Kind: KindTransport, Reason: err.Error(), Err: err}
}

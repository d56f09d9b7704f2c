package testutil

import (
	"io"
	"strings"
	"sync"
)

// FakeProcess is an in-memory reporting-tool invocation with canned output.
type FakeProcess struct {
	Out     string
	Err     string
	Code    *int
	WaitErr error
}

// NewFakeProcess returns a process that exits with code after writing out
// and errOut.
func NewFakeProcess(out, errOut string, code int) *FakeProcess {
	return &FakeProcess{Out: out, Err: errOut, Code: &code}
}

// KilledProcess returns a process that ends without an exit code.
func KilledProcess(out, errOut string) *FakeProcess {
	return &FakeProcess{Out: out, Err: errOut}
}

func (p *FakeProcess) Stdout() io.Reader { return strings.NewReader(p.Out) }
func (p *FakeProcess) Stderr() io.Reader { return strings.NewReader(p.Err) }

func (p *FakeProcess) Wait() (*int, error) { return p.Code, p.WaitErr }

// ArgsRecorder records the argument vectors a spawner is called with.
type ArgsRecorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *ArgsRecorder) Record(args []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, append([]string{}, args...))
}

func (r *ArgsRecorder) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string{}, r.calls...)
}

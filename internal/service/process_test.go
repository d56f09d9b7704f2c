package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"testing/iotest"
	"time"

	"github.com/alexanderramin/gtmdash/internal/domain"
	"github.com/alexanderramin/gtmdash/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const commitsJSON = `[{
	"Author": "Jane Doe",
	"Date": "Thu Apr 2 21:10:00 2020 +0000",
	"When": "2020-04-02T21:10:00Z",
	"Hash": "a1b2c3",
	"Subject": "Add file",
	"Message": "Add file\n",
	"Project": "web",
	"Note": {"Files": [{
		"SourceFile": "src/file.ts",
		"TimeSpent": 150,
		"Timeline": {"1585861200": 60, "1585875600": 90},
		"Status": "m"
	}]}
}]`

func fakeSpawner(rec *testutil.ArgsRecorder, proc Process) Spawner {
	return func(_ context.Context, args []string) (Process, error) {
		rec.Record(args)
		return proc, nil
	}
}

func TestProcessService_FetchCommits_Args(t *testing.T) {
	rec := &testutil.ArgsRecorder{}
	svc := NewProcessService(fakeSpawner(rec, testutil.NewFakeProcess(commitsJSON, "", 0)))

	commits, err := svc.FetchCommits(context.Background(), CommitsFilter{Start: "2020-04-01", End: "2020-04-03"})
	require.NoError(t, err)

	require.Len(t, rec.Calls(), 1)
	assert.Equal(t, []string{"commits", "--from-date=2020-04-01", "--to-date=2020-04-04"}, rec.Calls()[0])

	require.Len(t, commits, 1)
	assert.Equal(t, "web", commits[0].Project)
	require.Len(t, commits[0].Note.Files, 1)
	assert.Equal(t, map[int64]domain.Seconds{1585861200: 60, 1585875600: 90}, commits[0].Note.Files[0].Timeline)
}

func TestProcessService_FetchCommits_MessageArg(t *testing.T) {
	rec := &testutil.ArgsRecorder{}
	svc := NewProcessService(fakeSpawner(rec, testutil.NewFakeProcess("[]", "", 0)))

	_, err := svc.FetchCommits(context.Background(), CommitsFilter{Start: "2020-12-31", End: "2020-12-31", Message: "fix"})
	require.NoError(t, err)
	assert.Equal(t, []string{"commits", "--from-date=2020-12-31", "--to-date=2021-01-01", "--message=fix"}, rec.Calls()[0])
}

func TestProcessService_FetchCommits_InvalidDateNeverSpawns(t *testing.T) {
	tests := []struct {
		name   string
		filter CommitsFilter
	}{
		{"bad start", CommitsFilter{Start: "2020-13-01", End: "2020-04-03"}},
		{"bad end", CommitsFilter{Start: "2020-04-01", End: "yesterday"}},
		{"empty", CommitsFilter{}},
		{"reversed", CommitsFilter{Start: "2020-04-03", End: "2020-04-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spawned := false
			svc := NewProcessService(func(context.Context, []string) (Process, error) {
				spawned = true
				return testutil.NewFakeProcess("[]", "", 0), nil
			})

			_, err := svc.FetchCommits(context.Background(), tt.filter)

			assert.ErrorIs(t, err, ErrInvalidFilter)
			var gtmErr *GtmErr
			require.ErrorAs(t, err, &gtmErr)
			assert.Nil(t, gtmErr.ExitCode)
			assert.False(t, spawned)
		})
	}
}

func TestProcessService_NonZeroExit(t *testing.T) {
	svc := NewProcessService(fakeSpawner(&testutil.ArgsRecorder{}, testutil.NewFakeProcess("partial ", "not a git repository", 128)))

	_, err := svc.FetchProjectList(context.Background())

	assert.ErrorIs(t, err, ErrProcessExit)
	var gtmErr *GtmErr
	require.ErrorAs(t, err, &gtmErr)
	assert.Equal(t, "partial not a git repository", gtmErr.Reason)
	require.NotNil(t, gtmErr.ExitCode)
	assert.Equal(t, 128, *gtmErr.ExitCode)
}

func TestProcessService_InvalidJSON(t *testing.T) {
	svc := NewProcessService(fakeSpawner(&testutil.ArgsRecorder{}, testutil.NewFakeProcess("not json", "warning", 0)))

	_, err := svc.FetchWorkdirStatus(context.Background())

	assert.ErrorIs(t, err, ErrParse)
	var gtmErr *GtmErr
	require.ErrorAs(t, err, &gtmErr)
	assert.Equal(t, "not json", gtmErr.Reason)
	require.NotNil(t, gtmErr.ExitCode)
	assert.Equal(t, 0, *gtmErr.ExitCode)
}

func TestProcessService_Killed(t *testing.T) {
	svc := NewProcessService(fakeSpawner(&testutil.ArgsRecorder{}, testutil.KilledProcess("", "")))

	_, err := svc.FetchWorkdirStatus(context.Background())

	assert.ErrorIs(t, err, ErrProcessExit)
	var gtmErr *GtmErr
	require.ErrorAs(t, err, &gtmErr)
	assert.Nil(t, gtmErr.ExitCode)
}

func TestProcessService_SpawnFailure(t *testing.T) {
	svc := NewProcessService(func(context.Context, []string) (Process, error) {
		return nil, errors.New("executable file not found")
	})

	_, err := svc.FetchProjectList(context.Background())

	assert.ErrorIs(t, err, ErrProcessExit)
	assert.Contains(t, err.Error(), "executable file not found")
}

func TestProcessService_ProjectListTrailingSegments(t *testing.T) {
	rec := &testutil.ArgsRecorder{}
	svc := NewProcessService(fakeSpawner(rec, testutil.NewFakeProcess(`["org/team/web","solo"]`, "", 0)))

	projects, err := svc.FetchProjectList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"web", "solo"}, projects)
	assert.Equal(t, []string{"projects"}, rec.Calls()[0])
}

func TestProcessService_WorkdirStatus(t *testing.T) {
	rec := &testutil.ArgsRecorder{}
	out := `{"web":{"Total":120,"Label":"2m","CommitNote":{"Files":[{"SourceFile":"a.go","TimeSpent":120,"Timeline":{"1585861200":120},"Status":"m"}]}}}`
	svc := NewProcessService(fakeSpawner(rec, testutil.NewFakeProcess(out, "", 0)))

	status, err := svc.FetchWorkdirStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"status"}, rec.Calls()[0])
	require.Contains(t, status, "web")
	assert.Equal(t, domain.Seconds(120), status["web"].Total)
	assert.Len(t, status["web"].CommitNote.Files, 1)
}

func TestProcessService_VersionIsPlainText(t *testing.T) {
	rec := &testutil.ArgsRecorder{}
	svc := NewProcessService(fakeSpawner(rec, testutil.NewFakeProcess("v1.3.5\n", "", 0)))

	version, err := svc.GetVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1.3.5", version)
	assert.Equal(t, []string{"--version"}, rec.Calls()[0])
}

// pipeProcess writes all of stderr before any stdout through unbuffered
// pipes, so reading one stream to completion before the other would hang.
type pipeProcess struct {
	stdout, stderr *io.PipeReader
	done           chan struct{}
}

func newPipeProcess(out, errOut string) *pipeProcess {
	outR, outW := io.Pipe()
	errR, errW := io.Pipe()
	p := &pipeProcess{stdout: outR, stderr: errR, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		_, _ = io.WriteString(errW, errOut)
		errW.Close()
		_, _ = io.WriteString(outW, out)
		outW.Close()
	}()
	return p
}

func (p *pipeProcess) Stdout() io.Reader { return p.stdout }
func (p *pipeProcess) Stderr() io.Reader { return p.stderr }

func (p *pipeProcess) Wait() (*int, error) {
	<-p.done
	return intPtr(0), nil
}

func TestProcessService_DrainsStreamsConcurrently(t *testing.T) {
	svc := NewProcessService(func(context.Context, []string) (Process, error) {
		return newPipeProcess(`["a/b"]`, "progress output"), nil
	})

	done := make(chan struct{})
	var projects []string
	var err error
	go func() {
		defer close(done)
		projects, err = svc.FetchProjectList(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("FetchProjectList did not return; output streams were not drained concurrently")
	}
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, projects)
}

// brokenStderrProcess exits cleanly but its stderr fails mid-read.
type brokenStderrProcess struct {
	*testutil.FakeProcess
	err error
}

func (p *brokenStderrProcess) Stderr() io.Reader { return iotest.ErrReader(p.err) }

func TestProcessService_ReadErrorFailsCall(t *testing.T) {
	readErr := errors.New("pipe closed")
	proc := &brokenStderrProcess{FakeProcess: testutil.NewFakeProcess(`["a/b"]`, "", 0), err: readErr}
	svc := NewProcessService(fakeSpawner(&testutil.ArgsRecorder{}, proc))

	_, err := svc.FetchProjectList(context.Background())
	require.ErrorIs(t, err, ErrProcessExit)
	assert.ErrorIs(t, err, readErr)
}

// Package gitnotes reads gtm time data straight from the git notes stored
// under refs/notes/gtm-data, without the gtm binary.
package gitnotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/samber/lo"

	"github.com/alexanderramin/gtmdash/internal/domain"
	"github.com/alexanderramin/gtmdash/internal/format"
	"github.com/alexanderramin/gtmdash/internal/parse"
	"github.com/alexanderramin/gtmdash/internal/service"
)

// NotesRef is where gtm stores its commit notes.
const NotesRef plumbing.ReferenceName = "refs/notes/gtm-data"

// Version is reported by Service.GetVersion.
const Version = "gitnotes (go-git)"

// Opener opens the repository at a project path.
type Opener func(path string) (*git.Repository, error)

// Service implements service.Service over the repositories listed in gtm's
// project file.
type Service struct {
	projectsFile string
	open         Opener
	logger       *slog.Logger
}

type Option func(*Service)

// WithOpener replaces git.PlainOpen.
func WithOpener(open Opener) Option {
	return func(s *Service) {
		s.open = open
	}
}

// WithLogger reports skipped notes at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(projectsFile string, opts ...Option) *Service {
	s := &Service{
		projectsFile: projectsFile,
		open:         git.PlainOpen,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReadProjects returns the repository paths registered in a gtm project
// file, sorted. The file maps each path to its gtm init date.
func ReadProjects(file string) ([]string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	var projects map[string]string
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("decoding project file %s: %w", file, err)
	}
	paths := lo.Keys(projects)
	slices.Sort(paths)
	return paths, nil
}

func (s *Service) GetVersion(context.Context) (string, error) {
	return Version, nil
}

func (s *Service) FetchProjectList(context.Context) ([]string, error) {
	paths, err := ReadProjects(s.projectsFile)
	if err != nil {
		return nil, err
	}
	return service.TrailingSegments(paths), nil
}

// FetchWorkdirStatus returns an empty list: uncommitted time lives in gtm's
// working files, not in notes.
func (s *Service) FetchWorkdirStatus(context.Context) (domain.WorkdirStatusList, error) {
	return domain.WorkdirStatusList{}, nil
}

func (s *Service) FetchCommits(ctx context.Context, filter service.CommitsFilter) ([]domain.Commit, error) {
	start, end, err := filter.Bounds()
	if err != nil {
		return nil, err
	}
	paths, err := ReadProjects(s.projectsFile)
	if err != nil {
		return nil, err
	}

	m := matcher{start: start, end: end, filter: filter}
	commits := []domain.Commit{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		repo, err := s.open(path)
		if errors.Is(err, git.ErrRepositoryNotExists) {
			s.logger.DebugContext(ctx, "skipping missing repository", "path", path)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("opening repository %s: %w", path, err)
		}
		found, err := s.readNotes(ctx, repo, service.TrailingSegment(path), m)
		if err != nil {
			return nil, fmt.Errorf("reading notes of %s: %w", path, err)
		}
		commits = append(commits, found...)
	}

	slices.SortStableFunc(commits, func(a, b domain.Commit) int {
		ta, _ := format.ParseWhen(a.Date)
		tb, _ := format.ParseWhen(b.Date)
		return ta.Compare(tb)
	})
	return commits, nil
}

// matcher selects commits by the committer's local calendar date and by the
// filter's message substring.
type matcher struct {
	start, end time.Time
	filter     service.CommitsFilter
}

func (m matcher) match(c *object.Commit) bool {
	w := c.Committer.When
	wall := time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), 0, time.UTC)
	if wall.Before(m.start) || !wall.Before(m.end) {
		return false
	}
	return m.filter.MatchesMessage(c.Message)
}

func (s *Service) readNotes(ctx context.Context, repo *git.Repository, project string, m matcher) ([]domain.Commit, error) {
	ref, err := repo.Reference(NotesRef, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", NotesRef, err)
	}
	notes, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("loading notes commit: %w", err)
	}
	tree, err := notes.Tree()
	if err != nil {
		return nil, fmt.Errorf("loading notes tree: %w", err)
	}

	var out []domain.Commit
	err = tree.Files().ForEach(func(f *object.File) error {
		// Notes trees may fan out as ab/cdef...
		target := strings.ReplaceAll(f.Name, "/", "")
		if !plumbing.IsHash(target) {
			return nil
		}
		commit, err := repo.CommitObject(plumbing.NewHash(target))
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !m.match(commit) {
			return nil
		}
		text, err := f.Contents()
		if err != nil {
			return err
		}
		note, err := parse.ParseCommitNote(text)
		if err != nil {
			s.logger.DebugContext(ctx, "skipping unreadable note", "project", project, "commit", target, "error", err)
			return nil
		}
		out = append(out, toCommit(commit, project, note))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func toCommit(c *object.Commit, project string, note domain.CommitNote) domain.Commit {
	subject, body, _ := strings.Cut(c.Message, "\n\n")
	return domain.Commit{
		Author:  c.Author.Name,
		Date:    format.FormatGitTime(c.Committer.When),
		When:    format.FormatGitTime(c.Author.When),
		Hash:    c.Hash.String(),
		Subject: subject,
		Message: body,
		Project: project,
		Note:    note,
	}
}

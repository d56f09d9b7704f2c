package domain

// Seconds is a non-negative count of seconds.
type Seconds int64

// File status codes attached to every FileNote.
const (
	StatusModified = "m"
	StatusRead     = "r"
	StatusDeleted  = "d"
)

// ValidFileStatuses is the canonical set of accepted file status codes.
var ValidFileStatuses = map[string]bool{
	StatusModified: true,
	StatusRead:     true,
	StatusDeleted:  true,
}

// FileNote records the time spent on a single file within a commit or a
// working-directory status entry. Timeline maps an hour-aligned unix
// timestamp to the seconds spent in that hour.
type FileNote struct {
	SourceFile string
	TimeSpent  Seconds
	Timeline   map[int64]Seconds
	Status     string
}

// NewFileNote creates a FileNote with an empty timeline.
func NewFileNote(sourceFile string, timeSpent Seconds) *FileNote {
	return &FileNote{
		SourceFile: sourceFile,
		TimeSpent:  timeSpent,
		Timeline:   map[int64]Seconds{},
	}
}

// TimelineTotal sums the seconds of every timeline bucket.
func (f FileNote) TimelineTotal() Seconds {
	var total Seconds
	for _, secs := range f.Timeline {
		total += secs
	}
	return total
}

// CommitNote is the time-tracking annotation of a commit. A nil Files slice
// means the note could not be read; an empty one means nothing was tracked.
type CommitNote struct {
	Version int64   `json:",omitempty"`
	Total   Seconds `json:",omitempty"`
	Files   []FileNote
}

// Commit is a single commit as reported by the gtm tool. TimeSpent is
// derived during aggregation and is not part of the reported record.
type Commit struct {
	Author    string
	Date      string
	When      string
	Hash      string
	Subject   string
	Message   string
	Project   string
	Note      CommitNote
	TimeSpent Seconds `json:"timeSpent"`
}

// WorkdirStatus is the uncommitted, in-progress time of a working tree.
type WorkdirStatus struct {
	Total      Seconds
	Label      string
	CommitNote CommitNote
}

// WorkdirStatusList maps a project name to its working-tree status.
type WorkdirStatusList map[string]WorkdirStatus

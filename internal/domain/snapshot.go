package domain

import "time"

// Snapshot data set names. Each set holds the raw JSON a service returned.
const (
	SetCommits  = "commits"
	SetProjects = "projects"
	SetWorkdir  = "workdir"
)

// SnapshotSets lists every data set stored with a snapshot.
var SnapshotSets = []string{SetCommits, SetProjects, SetWorkdir}

// Snapshot describes a stored capture of raw service data.
type Snapshot struct {
	ID        string
	Backend   string
	FromDate  string
	ToDate    string
	CreatedAt time.Time
	Sets      map[string][]byte
}

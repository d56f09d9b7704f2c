package domain

// Bucket accumulates seconds for a single hour or day.
type Bucket struct {
	Total Seconds `json:"total"`
}

// MatrixPoint is one cell of a date-by-hour matrix chart.
type MatrixPoint struct {
	X string  `json:"x"`
	Y string  `json:"y"`
	V Seconds `json:"v"`
}

// Project aggregates every commit of a logical project.
//
// Timeline is keyed by date (YYYY-MM-DD) and then by hour of day (0-23).
// TimelineMatrix stays empty until the daily rollup fills it.
type Project struct {
	Name           string                    `json:"name"`
	Total          Seconds                   `json:"total"`
	Commits        []*Commit                 `json:"commits"`
	Files          map[string]*FileNote      `json:"files"`
	Status         map[string]Seconds        `json:"status"`
	Timeline       map[string]map[int]Bucket `json:"timeline"`
	TimelineMatrix []MatrixPoint             `json:"timelineMatrix"`
}

// NewProject creates an empty project with zeroed status totals.
func NewProject(name string) *Project {
	return &Project{
		Name:     name,
		Commits:  []*Commit{},
		Files:    map[string]*FileNote{},
		Status:   NewStatusTotals(),
		Timeline: map[string]map[int]Bucket{},
	}
}

// NewStatusTotals returns a status-total map seeded with zero for every
// known status code.
func NewStatusTotals() map[string]Seconds {
	return map[string]Seconds{
		StatusModified: 0,
		StatusRead:     0,
		StatusDeleted:  0,
	}
}

// Stats is the result of aggregating a list of commits.
type Stats struct {
	Projects  map[string]*Project `json:"projects"`
	TotalSecs Seconds             `json:"totalSecs"`
	Status    map[string]Seconds  `json:"status"`
}

// DailyHours maps a date (YYYY-MM-DD) to the seconds tracked that day.
type DailyHours map[string]Bucket

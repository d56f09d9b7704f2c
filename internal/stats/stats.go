// Package stats folds commit time-tracking records into per-project,
// per-day and per-hour totals.
package stats

import (
	"slices"

	"github.com/alexanderramin/gtmdash/internal/domain"
	"github.com/alexanderramin/gtmdash/internal/format"
	"github.com/samber/lo"
)

// maxBucketSecs is the longest plausible hour bucket.
const maxBucketSecs = 3600

// ComputeStats aggregates commits by project.
//
// Each commit's TimeSpent is overwritten with the sum of its files' time,
// and the returned projects reference the elements of commits directly, so
// callers observe the enriched values through both.
func ComputeStats(commits []domain.Commit, sink Sink) domain.Stats {
	sink = sinkOrDiscard(sink)

	projects := map[string]*domain.Project{}
	status := domain.NewStatusTotals()
	var totalSecs domain.Seconds

	for i := range commits {
		commit := &commits[i]

		project, ok := projects[commit.Project]
		if !ok {
			project = domain.NewProject(commit.Project)
			projects[commit.Project] = project
		}
		project.Commits = append(project.Commits, commit)

		if commit.Note.Files == nil {
			sink.Warn(Warning{
				Code:    CheckMissingFiles,
				Project: commit.Project,
				Commit:  commit.Hash,
				Message: "commit note files not available",
			})
			continue
		}

		var commitTimeSpent domain.Seconds
		for _, file := range commit.Note.Files {
			commitTimeSpent += file.TimeSpent

			if !domain.ValidFileStatuses[file.Status] {
				sink.Warn(Warning{
					Code:    CheckUnknownStatus,
					Project: commit.Project,
					Commit:  commit.Hash,
					File:    file.SourceFile,
					Status:  file.Status,
					Message: "unexpected file status",
				})
			}

			var fileSecs domain.Seconds
			timestamps := lo.Keys(file.Timeline)
			slices.Sort(timestamps)
			for _, timestamp := range timestamps {
				secs := file.Timeline[timestamp]
				if secs > maxBucketSecs {
					sink.Warn(Warning{
						Code:      CheckBucketTooLong,
						Project:   commit.Project,
						Commit:    commit.Hash,
						File:      file.SourceFile,
						Timestamp: timestamp,
						Seconds:   secs,
						Message:   "duration (in seconds) should be less than 3600",
					})
				}
				if timestamp%3600 != 0 {
					sink.Warn(Warning{
						Code:      CheckNotHourAligned,
						Project:   commit.Project,
						Commit:    commit.Hash,
						File:      file.SourceFile,
						Timestamp: timestamp,
						Message:   "timestamp (unix time) should be by the hour",
					})
				}

				project.Total += secs
				totalSecs += secs
				fileSecs += secs

				date, hour := format.UnixHour(timestamp)
				dateline, ok := project.Timeline[date]
				if !ok {
					dateline = map[int]domain.Bucket{}
					project.Timeline[date] = dateline
				}
				bucket := dateline[hour]
				bucket.Total += secs
				dateline[hour] = bucket

				status[file.Status] += secs
				project.Status[file.Status] += secs
			}
			if fileSecs != file.TimeSpent {
				sink.Warn(Warning{
					Code:     CheckTimelineMismatch,
					Project:  commit.Project,
					Commit:   commit.Hash,
					File:     file.SourceFile,
					Seconds:  fileSecs,
					Expected: file.TimeSpent,
					Message:  "timeline seconds does not add up to duration in file",
				})
			}

			if acc, ok := project.Files[file.SourceFile]; ok {
				acc.TimeSpent += file.TimeSpent
			} else {
				acc = domain.NewFileNote(file.SourceFile, file.TimeSpent)
				acc.Status = file.Status
				project.Files[file.SourceFile] = acc
			}
		}

		commit.TimeSpent = commitTimeSpent
	}

	return domain.Stats{Projects: projects, TotalSecs: totalSecs, Status: status}
}

// GetDaily fills every project's TimelineMatrix and returns the total time
// tracked per date across all projects. Matrix points are ordered by date,
// then by hour.
func GetDaily(projects map[string]*domain.Project) domain.DailyHours {
	daily := domain.DailyHours{}
	for _, p := range projects {
		data := []domain.MatrixPoint{}
		dates := lo.Keys(p.Timeline)
		slices.Sort(dates)
		for _, date := range dates {
			hours := lo.Keys(p.Timeline[date])
			slices.Sort(hours)
			for _, hour := range hours {
				secs := p.Timeline[date][hour]
				data = append(data, domain.MatrixPoint{
					X: format.Pad0(int64(hour)) + ":00",
					Y: date,
					V: secs.Total,
				})
				day := daily[date]
				day.Total += secs.Total
				daily[date] = day
			}
		}
		p.TimelineMatrix = data
	}
	return daily
}

// ComputeWorkdirStatus aggregates uncommitted working-tree time by turning
// each project's status into a synthetic commit.
func ComputeWorkdirStatus(list domain.WorkdirStatusList, sink Sink) domain.Stats {
	names := lo.Keys(list)
	slices.Sort(names)

	commits := make([]domain.Commit, 0, len(names))
	for _, name := range names {
		commits = append(commits, domain.Commit{
			Project:   name,
			Note:      list[name].CommitNote,
			TimeSpent: 0,
		})
	}
	return ComputeStats(commits, sink)
}

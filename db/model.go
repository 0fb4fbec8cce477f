package db

import "time"

type Model struct {
	ID        uint `gorm:"primary_key"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Platform string

const (
	GitHub Platform = "GITHUB"
	GitLab Platform = "GITLAB"
)

// JobStatus is shared by analysis jobs and the commits that request them.
type JobStatus string

const (
	StatusPending   JobStatus = "PENDING"
	StatusQueued    JobStatus = "QUEUED"
	StatusAnalyzing JobStatus = "ANALYZING"
	StatusCompleted JobStatus = "COMPLETED"
	StatusFailed    JobStatus = "FAILED"
)

var Statuses = []JobStatus{StatusPending, StatusQueued, StatusAnalyzing, StatusCompleted, StatusFailed}

var transitions = map[JobStatus][]JobStatus{
	StatusPending:   {StatusQueued, StatusAnalyzing, StatusFailed},
	StatusQueued:    {StatusAnalyzing, StatusCompleted, StatusFailed},
	StatusAnalyzing: {StatusCompleted, StatusFailed},
}

func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether moving from s to next keeps the status
// monotonic. Staying in the same state is always allowed.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	if s == next {
		return true
	}

	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

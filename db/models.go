package db

import (
	"strings"
	"time"
)

type RepositorySource struct {
	Model

	Platform      Platform `gorm:"unique_index:idx_repository_sources_platform_external_id"`
	ExternalID    string   `gorm:"unique_index:idx_repository_sources_platform_external_id"`
	Name          string
	FullName      string
	CloneURL      string `gorm:"column:clone_url"`
	WebURL        string `gorm:"column:web_url"`
	DefaultBranch string
}

type Commit struct {
	Model

	CommitID           string `gorm:"unique_index"`
	RepositorySource   RepositorySource
	RepositorySourceID uint

	AuthorName  string
	AuthorEmail string
	Message     string `gorm:"type:text"`
	Timestamp   time.Time

	FilesAdded    string `gorm:"type:text"`
	FilesModified string `gorm:"type:text"`
	FilesRemoved  string `gorm:"type:text"`

	Status JobStatus `gorm:"index"`

	// AnalysisID names the analysis whose result may close the commit.
	AnalysisID string
}

func JoinPaths(paths []string) string {
	return strings.Join(paths, ",")
}

func SplitPaths(joined string) []string {
	if joined == "" {
		return nil
	}

	return strings.Split(joined, ",")
}

// ChangedPaths lists added and modified paths, the ones worth scanning.
func (c Commit) ChangedPaths() []string {
	return append(SplitPaths(c.FilesAdded), SplitPaths(c.FilesModified)...)
}

type AnalysisJob struct {
	Model

	AnalysisID         string `gorm:"unique_index"`
	CommitID           string `gorm:"index"`
	RepositorySourceID uint
	RepositoryName     string

	Status    JobStatus `gorm:"index"`
	RiskScore int
	RiskLevel string
	Error     string `gorm:"type:text"`

	Findings []Finding
}

type Finding struct {
	Model

	AnalysisJobID uint `gorm:"index"`
	Position      int

	Category    string
	RuleID      string
	Title       string
	Severity    string
	Path        string `gorm:"type:text"`
	Line        int
	Description string `gorm:"type:text"`
	Remediation string `gorm:"type:text"`
	Reference   string
	Snippet     string `gorm:"type:text"`
}

// FailedMessage tracks a bus delivery that keeps failing. The row goes away
// once the message is handled; dead letters stay until an operator acts.
type FailedMessage struct {
	Model

	MessageID    string `gorm:"unique_index"`
	Topic        string `gorm:"index"`
	PartitionKey string
	Attempts     int
	LastError    string `gorm:"type:text"`
	DeadLettered bool
}

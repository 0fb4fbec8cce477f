package webhook

import (
	"time"

	"github.com/codeguardian/guardian/tracker"
)

type Kind string

const (
	KindPush         Kind = "push"
	KindPullRequest  Kind = "pull_request"
	KindMergeRequest Kind = "merge_request"
	KindIgnored      Kind = "ignored"
)

// Event is a delivery normalized across platforms.
type Event struct {
	Kind       Kind
	Repository tracker.Repository
	Commits    []tracker.Commit

	// PushedAt is zero when the platform does not report it.
	PushedAt time.Time

	ChangeRequest ChangeRequest
}

// ChangeRequest describes a GitHub pull request or a GitLab merge request.
type ChangeRequest struct {
	ID    int64
	Title string
	State string
	URL   string
}

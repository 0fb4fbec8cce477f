package webhook

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/codeguardian/guardian/db"
	"github.com/codeguardian/guardian/tracker"
)

type gitlabProject struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	PathWithNamespace string `json:"path_with_namespace"`
	WebURL            string `json:"web_url"`
	GitHTTPURL        string `json:"git_http_url"`
	DefaultBranch     string `json:"default_branch"`
}

type gitlabCommit struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Author    struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"author"`
	Added    []string `json:"added"`
	Modified []string `json:"modified"`
	Removed  []string `json:"removed"`
}

type gitlabMergeRequest struct {
	ID    int64  `json:"id"`
	IID   int64  `json:"iid"`
	Title string `json:"title"`
	State string `json:"state"`
	URL   string `json:"url"`
}

type gitlabPayload struct {
	ObjectKind       string             `json:"object_kind"`
	Project          *gitlabProject     `json:"project"`
	Commits          []gitlabCommit     `json:"commits"`
	ObjectAttributes gitlabMergeRequest `json:"object_attributes"`
}

var gitlabKinds = map[string]string{
	"Push Hook":          "push",
	"Merge Request Hook": "merge_request",
}

func parseGitLab(eventType string, payload []byte) (Event, error) {
	var hook gitlabPayload
	if err := json.Unmarshal(payload, &hook); err != nil {
		return Event{}, err
	}

	kind := hook.ObjectKind
	if kind == "" {
		kind = gitlabKinds[eventType]
	}

	if hook.Project == nil || (kind != "push" && kind != "merge_request") {
		return Event{Kind: KindIgnored}, nil
	}

	project := hook.Project
	fullName := project.PathWithNamespace
	if fullName == "" {
		fullName = project.Name
	}

	normalized := Event{
		Repository: tracker.Repository{
			Platform:      db.GitLab,
			ExternalID:    strconv.FormatInt(project.ID, 10),
			Name:          project.Name,
			FullName:      fullName,
			CloneURL:      project.GitHTTPURL,
			WebURL:        project.WebURL,
			DefaultBranch: project.DefaultBranch,
		},
	}

	if kind == "merge_request" {
		mr := hook.ObjectAttributes

		id := mr.IID
		if id == 0 {
			id = mr.ID
		}

		normalized.Kind = KindMergeRequest
		normalized.ChangeRequest = ChangeRequest{
			ID:    id,
			Title: mr.Title,
			State: mr.State,
			URL:   mr.URL,
		}

		return normalized, nil
	}

	normalized.Kind = KindPush
	for _, commit := range hook.Commits {
		normalized.Commits = append(normalized.Commits, tracker.Commit{
			ID:          commit.ID,
			Message:     commit.Message,
			AuthorName:  commit.Author.Name,
			AuthorEmail: commit.Author.Email,
			Timestamp:   commit.Timestamp,
			Added:       commit.Added,
			Modified:    commit.Modified,
			Removed:     commit.Removed,
		})
	}

	return normalized, nil
}

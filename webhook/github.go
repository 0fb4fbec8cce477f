package webhook

import (
	"strconv"

	"github.com/google/go-github/v56/github"

	"github.com/codeguardian/guardian/db"
	"github.com/codeguardian/guardian/tracker"
)

func parseGitHub(eventType string, payload []byte) (Event, error) {
	switch eventType {
	case "push", "pull_request":
	default:
		return Event{Kind: KindIgnored}, nil
	}

	parsed, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		return Event{}, err
	}

	switch event := parsed.(type) {
	case *github.PushEvent:
		return githubPush(event), nil
	case *github.PullRequestEvent:
		return githubPullRequest(event), nil
	}

	return Event{Kind: KindIgnored}, nil
}

func githubPush(event *github.PushEvent) Event {
	repo := event.GetRepo()

	normalized := Event{
		Kind: KindPush,
		Repository: tracker.Repository{
			Platform:      db.GitHub,
			ExternalID:    strconv.FormatInt(repo.GetID(), 10),
			Name:          repo.GetName(),
			FullName:      repo.GetFullName(),
			CloneURL:      repo.GetCloneURL(),
			WebURL:        repo.GetHTMLURL(),
			DefaultBranch: repo.GetDefaultBranch(),
		},
	}

	if repo.PushedAt != nil {
		normalized.PushedAt = repo.PushedAt.Time
	}

	for _, commit := range event.Commits {
		normalized.Commits = append(normalized.Commits, tracker.Commit{
			ID:          commit.GetID(),
			Message:     commit.GetMessage(),
			AuthorName:  commit.GetAuthor().GetName(),
			AuthorEmail: commit.GetAuthor().GetEmail(),
			Timestamp:   commit.GetTimestamp().Time,
			Added:       commit.Added,
			Modified:    commit.Modified,
			Removed:     commit.Removed,
		})
	}

	return normalized
}

func githubPullRequest(event *github.PullRequestEvent) Event {
	repo := event.GetRepo()
	pr := event.GetPullRequest()

	number := int64(pr.GetNumber())
	if number == 0 {
		number = int64(event.GetNumber())
	}

	return Event{
		Kind: KindPullRequest,
		Repository: tracker.Repository{
			Platform:      db.GitHub,
			ExternalID:    strconv.FormatInt(repo.GetID(), 10),
			Name:          repo.GetName(),
			FullName:      repo.GetFullName(),
			CloneURL:      repo.GetCloneURL(),
			WebURL:        repo.GetHTMLURL(),
			DefaultBranch: repo.GetDefaultBranch(),
		},
		ChangeRequest: ChangeRequest{
			ID:    number,
			Title: pr.GetTitle(),
			State: pr.GetState(),
			URL:   pr.GetHTMLURL(),
		},
	}
}

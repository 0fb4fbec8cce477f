package webhook

import "github.com/tedsuo/rata"

const (
	GitHubHook = "GitHubHook"
	GitLabHook = "GitLabHook"
	Health     = "Health"
	Config     = "Config"
	Test       = "Test"
)

var Routes = rata.Routes{
	{Path: "/webhooks/github", Method: "POST", Name: GitHubHook},
	{Path: "/webhooks/gitlab", Method: "POST", Name: GitLabHook},
	{Path: "/webhooks/health", Method: "GET", Name: Health},
	{Path: "/webhooks/config", Method: "GET", Name: Config},
	{Path: "/webhooks/test", Method: "POST", Name: Test},
}

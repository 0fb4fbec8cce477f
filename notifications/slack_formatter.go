package notifications

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nlopes/slack"

	"github.com/codeguardian/guardian/eventbus"
)

//go:generate counterfeiter . SlackFormatter

type SlackFormatter interface {
	Format(eventbus.Notification) slack.WebhookMessage
}

type slackFormatter struct{}

func NewSlackFormatter() SlackFormatter {
	return &slackFormatter{}
}

func (f *slackFormatter) Format(notification eventbus.Notification) slack.WebhookMessage {
	fields := []slack.AttachmentField{
		{Title: "Repository", Value: notification.Repository, Short: true},
		{Title: "Severity", Value: notification.Severity, Short: true},
	}

	if notification.AnalysisID != "" {
		fields = append(fields, slack.AttachmentField{Title: "Analysis", Value: notification.AnalysisID})
	}

	attachment := slack.Attachment{
		Color:    color(notification),
		Fallback: fmt.Sprintf("%s: %s", notification.Title, notification.Message),
		Title:    notification.Title,
		Text:     notification.Message,
		Fields:   fields,
	}

	if !notification.Timestamp.IsZero() {
		attachment.Ts = json.Number(strconv.FormatInt(notification.Timestamp.Unix(), 10))
	}

	return slack.WebhookMessage{
		Attachments: []slack.Attachment{attachment},
	}
}

func color(notification eventbus.Notification) string {
	if notification.Type == eventbus.NotificationAnalysisFailed {
		return "danger"
	}

	switch notification.Severity {
	case "CRITICAL", "HIGH":
		return "danger"
	case "MEDIUM":
		return "warning"
	}

	return "good"
}

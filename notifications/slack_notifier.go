package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager"
	"golang.org/x/time/rate"

	"github.com/codeguardian/guardian/eventbus"
)

type SlackConfig struct {
	WebhookURL    string
	Channel       string
	RatePerMinute int
}

type slackNotifier struct {
	webhookURL string
	channel    string
	client     *http.Client
	clock      clock.Clock
	formatter  SlackFormatter
	limiter    *rate.Limiter
}

// NewSlackNotifier posts to a Slack incoming webhook. Without a webhook URL
// it returns a notifier that drops everything.
func NewSlackNotifier(config SlackConfig, clock clock.Clock, formatter SlackFormatter) Notifier {
	if config.WebhookURL == "" {
		return NewNullNotifier()
	}

	perMinute := config.RatePerMinute
	if perMinute <= 0 {
		perMinute = 60
	}

	return &slackNotifier{
		webhookURL: config.WebhookURL,
		channel:    config.Channel,
		clock:      clock,
		formatter:  formatter,
		limiter:    rate.NewLimiter(rate.Limit(float64(perMinute)/60), perMinute),
		client: &http.Client{
			Timeout: 3 * time.Second,
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
		},
	}
}

const slackAttempts = 3

var ErrSlackThrottled = errors.New("retried too many times")

// SlackError is a non-200, non-429 answer from the webhook.
type SlackError struct {
	StatusCode int
	Body       string
}

func (e SlackError) Error() string {
	return fmt.Sprintf("slack webhook answered %d: %s", e.StatusCode, e.Body)
}

func (n *slackNotifier) Send(ctx context.Context, logger lager.Logger, notification eventbus.Notification) error {
	logger = logger.Session("send-notification", lager.Data{
		"channel": n.channel,
		"type":    notification.Type,
	})

	message := n.formatter.Format(notification)
	if n.channel != "" {
		message.Channel = "#" + n.channel
	}

	body, err := json.Marshal(message)
	if err != nil {
		logger.Error("failed-to-marshal", err)
		return err
	}

	if err := n.limiter.Wait(ctx); err != nil {
		logger.Error("failed-waiting-for-rate-limit", err)
		return err
	}

	for attempt := 1; attempt <= slackAttempts; attempt++ {
		wait, err := n.post(ctx, body)
		if err != nil {
			logger.Error("failed-to-post", err, lager.Data{"attempt": attempt})
			return err
		}

		if wait == 0 {
			logger.Debug("posted", lager.Data{"attempt": attempt})
			return nil
		}

		if attempt == slackAttempts {
			break
		}

		logger.Info("throttled", lager.Data{"attempt": attempt, "wait": wait.String()})
		n.clock.Sleep(wait)
	}

	logger.Error("giving-up", ErrSlackThrottled)

	return ErrSlackThrottled
}

// post sends body once. A non-zero wait means Slack throttled the request
// and asked to be retried after that long.
func (n *slackNotifier) post(ctx context.Context, body []byte) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return 0, nil
	case http.StatusTooManyRequests:
		return retryAfter(resp.Header.Get("Retry-After")), nil
	}

	text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	return 0, SlackError{StatusCode: resp.StatusCode, Body: string(text)}
}

// retryAfter pads the advertised delay by a second. An unreadable header
// waits one second.
func retryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		seconds = 0
	}

	return time.Duration(seconds+1) * time.Second
}
